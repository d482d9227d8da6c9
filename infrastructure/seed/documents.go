// Package seed provides the built-in sample catalog used by the seed tool
// and by development servers starting with an empty catalog.
package seed

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"paperdesk-backend/application/ports"
	"paperdesk-backend/domain/core/entities"
	"paperdesk-backend/domain/core/valueobjects"
)

type sampleDocument struct {
	title           string
	authors         string
	abstract        string
	summary         string
	category        string
	year            int
	keywords        []string
	vector          []float64
	relatedConcepts []entities.ConceptRef
}

var samples = []sampleDocument{
	{
		title:    "Machine Learning Algorithms",
		authors:  "John Doe",
		abstract: "This paper explores various machine learning algorithms and their applications in real-world scenarios.",
		summary:  "Surveys supervised and unsupervised learning methods with an emphasis on practical trade-offs.",
		category: "AI",
		year:     2021,
		keywords: []string{"machine learning", "algorithms", "AI applications"},
		vector:   []float64{0.1, 0.2, 0.3, 0.4, 0.5},
		relatedConcepts: []entities.ConceptRef{
			{Name: "Linear Algebra", IsPrerequisite: true},
			{Name: "Gradient Descent", IsPrerequisite: true},
			{Name: "Model Evaluation", IsPrerequisite: false},
		},
	},
	{
		title:    "Quantum Computing Basics",
		authors:  "Jane Smith",
		abstract: "An introduction to the fundamental concepts of quantum computing and its potential impact on computational power.",
		summary:  "Introduces qubits, superposition and entanglement, and sketches the main quantum algorithms.",
		category: "Quantum Physics",
		year:     2020,
		keywords: []string{"quantum computing", "quantum physics", "computational power"},
		vector:   []float64{0.2, 0.3, 0.4, 0.5, 0.6},
		relatedConcepts: []entities.ConceptRef{
			{Name: "Linear Algebra", IsPrerequisite: true},
			{Name: "Complex Numbers", IsPrerequisite: true},
			{Name: "Quantum Error Correction", IsPrerequisite: false},
		},
	},
	{
		title:    "Climate Change Effects",
		authors:  "Bob Johnson",
		abstract: "A comprehensive study on the current and projected effects of climate change on global ecosystems.",
		summary:  "Reviews observed ecosystem shifts and models projected impacts under several emission scenarios.",
		category: "Environmental Science",
		year:     2022,
		keywords: []string{"climate change", "global warming", "ecosystems"},
		vector:   []float64{0.3, 0.4, 0.5, 0.6, 0.7},
		relatedConcepts: []entities.ConceptRef{
			{Name: "Carbon Cycle", IsPrerequisite: true},
			{Name: "Climate Modeling", IsPrerequisite: false},
		},
	},
	{
		title:    "Neural Networks in Practice",
		authors:  "Alice Brown",
		abstract: "This paper discusses practical implementations of neural networks in various industries and their performance.",
		summary:  "Case studies of production neural network deployments and the engineering lessons learned.",
		category: "AI",
		year:     2021,
		keywords: []string{"neural networks", "deep learning", "AI applications"},
		vector:   []float64{0.15, 0.25, 0.35, 0.45, 0.55},
		relatedConcepts: []entities.ConceptRef{
			{Name: "Gradient Descent", IsPrerequisite: true},
			{Name: "Backpropagation", IsPrerequisite: true},
			{Name: "Regularization", IsPrerequisite: false},
		},
	},
	{
		title:    "Sustainable Energy Solutions",
		authors:  "Charlie Green",
		abstract: "An overview of emerging sustainable energy technologies and their potential to address global energy challenges.",
		summary:  "Compares solar, wind and storage technologies on cost curves and deployment constraints.",
		category: "Environmental Science",
		year:     2023,
		keywords: []string{"sustainable energy", "renewable energy", "green technology"},
		vector:   []float64{0.4, 0.5, 0.6, 0.7, 0.8},
		relatedConcepts: []entities.ConceptRef{
			{Name: "Energy Storage", IsPrerequisite: false},
			{Name: "Grid Integration", IsPrerequisite: false},
		},
	},
}

// Documents builds the sample catalog documents. Each call produces fresh
// entities with new ids.
func Documents() ([]*entities.Document, error) {
	docs := make([]*entities.Document, 0, len(samples))
	for _, s := range samples {
		doc, err := entities.NewDocument(s.title, s.authors, s.abstract, valueobjects.NewFeatureVector(s.vector))
		if err != nil {
			return nil, fmt.Errorf("invalid sample document %q: %w", s.title, err)
		}
		doc.SetSummaries(s.summary, "")
		doc.SetPublication(time.Date(s.year, time.June, 1, 0, 0, 0, 0, time.UTC), s.category, s.year)
		doc.SetKeywords(s.keywords)
		if err := doc.SetRelatedConcepts(s.relatedConcepts); err != nil {
			return nil, fmt.Errorf("invalid sample document %q: %w", s.title, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Load inserts the sample documents into the catalog and, when a snapshot
// store is configured, persists them for later restores.
func Load(ctx context.Context, catalogRepo ports.CatalogRepository, snapshots ports.SnapshotStore, logger *zap.Logger) error {
	docs, err := Documents()
	if err != nil {
		return err
	}

	for _, doc := range docs {
		if err := catalogRepo.Upsert(ctx, doc); err != nil {
			return fmt.Errorf("failed to seed document %q: %w", doc.Title(), err)
		}
		if snapshots != nil {
			if err := snapshots.SaveDocument(ctx, doc); err != nil {
				logger.Warn("Failed to snapshot seeded document",
					zap.String("title", doc.Title()),
					zap.Error(err),
				)
			}
		}
	}

	logger.Info("Catalog seeded", zap.Int("documents", len(docs)))
	return nil
}
