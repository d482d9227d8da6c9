// Package dynamodb implements the write-through snapshot store. Every
// mutation the engine applies in memory is mirrored here; at process start
// Load rebuilds the in-memory stores from the table.
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"paperdesk-backend/application/ports"
	"paperdesk-backend/domain/core/aggregates"
	"paperdesk-backend/domain/core/entities"
	"paperdesk-backend/domain/core/valueobjects"
)

// dynamoAPI is the slice of the DynamoDB client the store uses
type dynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// SnapshotStore implements ports.SnapshotStore on a single DynamoDB table.
// Writes pass through a circuit breaker so a struggling table degrades the
// backup, not the request path.
type SnapshotStore struct {
	client    dynamoAPI
	tableName string
	breaker   *gobreaker.CircuitBreaker
	logger    *zap.Logger
}

// NewSnapshotStore creates a new SnapshotStore
func NewSnapshotStore(client *dynamodb.Client, tableName string, logger *zap.Logger) *SnapshotStore {
	return newSnapshotStore(client, tableName, logger)
}

func newSnapshotStore(client dynamoAPI, tableName string, logger *zap.Logger) *SnapshotStore {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "dynamodb-snapshots",
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.8
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Snapshot circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &SnapshotStore{
		client:    client,
		tableName: tableName,
		breaker:   breaker,
		logger:    logger,
	}
}

// conceptItem mirrors entities.ConceptRef for marshalling
type conceptItem struct {
	Name           string `dynamodbav:"Name"`
	IsPrerequisite bool   `dynamodbav:"IsPrerequisite"`
}

// documentItem is the DynamoDB item structure for a catalog document
type documentItem struct {
	PK                string        `dynamodbav:"PK"`
	SK                string        `dynamodbav:"SK"`
	EntityType        string        `dynamodbav:"EntityType"`
	DocumentID        string        `dynamodbav:"DocumentID"`
	Title             string        `dynamodbav:"Title"`
	Authors           string        `dynamodbav:"Authors"`
	Abstract          string        `dynamodbav:"Abstract"`
	Summary           string        `dynamodbav:"Summary,omitempty"`
	TranslatedSummary string        `dynamodbav:"TranslatedSummary,omitempty"`
	PublishedDate     string        `dynamodbav:"PublishedDate,omitempty"`
	Category          string        `dynamodbav:"Category,omitempty"`
	Year              int           `dynamodbav:"Year,omitempty"`
	Keywords          []string      `dynamodbav:"Keywords,omitempty"`
	FeatureVector     []float64     `dynamodbav:"FeatureVector"`
	RelatedConcepts   []conceptItem `dynamodbav:"RelatedConcepts,omitempty"`
	RelatedDocIDs     []string      `dynamodbav:"RelatedDocIDs,omitempty"`
	NoteIDs           []string      `dynamodbav:"NoteIDs,omitempty"`
	CreatedAt         string        `dynamodbav:"CreatedAt"`
	Version           int           `dynamodbav:"Version"`
}

// entryItem is one overlay entry inside a library item
type entryItem struct {
	DocumentID   string   `dynamodbav:"DocumentID"`
	IsRead       bool     `dynamodbav:"IsRead"`
	IsBookmarked bool     `dynamodbav:"IsBookmarked"`
	NoteIDs      []string `dynamodbav:"NoteIDs,omitempty"`
}

// libraryItem is the DynamoDB item structure for a user's library
type libraryItem struct {
	PK         string            `dynamodbav:"PK"`
	SK         string            `dynamodbav:"SK"`
	EntityType string            `dynamodbav:"EntityType"`
	UserID     string            `dynamodbav:"UserID"`
	Entries    []entryItem       `dynamodbav:"Entries"`
	Drafts     map[string]string `dynamodbav:"Drafts,omitempty"`
	CreatedAt  string            `dynamodbav:"CreatedAt"`
	UpdatedAt  string            `dynamodbav:"UpdatedAt"`
	Version    int               `dynamodbav:"Version"`
}

// noteItem is the DynamoDB item structure for a note
type noteItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	NoteID     string `dynamodbav:"NoteID"`
	DocumentID string `dynamodbav:"DocumentID"`
	AuthorID   string `dynamodbav:"AuthorID"`
	Content    string `dynamodbav:"Content"`
	Upvotes    int    `dynamodbav:"Upvotes"`
	Downvotes  int    `dynamodbav:"Downvotes"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
	Version    int    `dynamodbav:"Version"`
}

// voteItem is the DynamoDB item structure for one ledger entry
type voteItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	UserID     string `dynamodbav:"UserID"`
	NoteID     string `dynamodbav:"NoteID"`
	Vote       string `dynamodbav:"Vote"`
}

// SaveDocument persists a catalog document
func (s *SnapshotStore) SaveDocument(ctx context.Context, doc *entities.Document) error {
	concepts := make([]conceptItem, 0, len(doc.RelatedConcepts()))
	for _, c := range doc.RelatedConcepts() {
		concepts = append(concepts, conceptItem{Name: c.Name, IsPrerequisite: c.IsPrerequisite})
	}

	item := documentItem{
		PK:                "CATALOG",
		SK:                fmt.Sprintf("DOC#%s", doc.ID().String()),
		EntityType:        "DOCUMENT",
		DocumentID:        doc.ID().String(),
		Title:             doc.Title(),
		Authors:           doc.Authors(),
		Abstract:          doc.Abstract(),
		Summary:           doc.Summary(),
		TranslatedSummary: doc.TranslatedSummary(),
		Category:          doc.Category(),
		Year:              doc.Year(),
		Keywords:          doc.Keywords(),
		FeatureVector:     doc.FeatureVector().Values(),
		RelatedConcepts:   concepts,
		RelatedDocIDs:     idsToStrings(doc.RelatedDocumentIDs()),
		NoteIDs:           noteIDsToStrings(doc.NoteIDs()),
		CreatedAt:         doc.CreatedAt().Format(time.RFC3339Nano),
		Version:           doc.Version(),
	}
	if !doc.PublishedDate().IsZero() {
		item.PublishedDate = doc.PublishedDate().Format(time.RFC3339)
	}

	return s.putItem(ctx, item, "document", doc.ID().String())
}

// SaveLibrary persists a user's full library state
func (s *SnapshotStore) SaveLibrary(ctx context.Context, library *aggregates.Library) error {
	entries := library.Entries()
	items := make([]entryItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, entryItem{
			DocumentID:   entry.DocumentID.String(),
			IsRead:       entry.IsRead,
			IsBookmarked: entry.IsBookmarked,
			NoteIDs:      noteIDsToStrings(entry.NoteIDs),
		})
	}

	item := libraryItem{
		PK:         fmt.Sprintf("USER#%s", library.UserID()),
		SK:         "LIBRARY",
		EntityType: "LIBRARY",
		UserID:     library.UserID(),
		Entries:    items,
		Drafts:     library.Drafts(),
		CreatedAt:  library.CreatedAt().Format(time.RFC3339Nano),
		UpdatedAt:  library.UpdatedAt().Format(time.RFC3339Nano),
		Version:    library.Version(),
	}

	return s.putItem(ctx, item, "library", library.UserID())
}

// SaveNote persists a note with its current counters
func (s *SnapshotStore) SaveNote(ctx context.Context, note *entities.Note) error {
	item := noteItem{
		PK:         fmt.Sprintf("DOC#%s", note.DocumentID().String()),
		SK:         fmt.Sprintf("NOTE#%s", note.ID().String()),
		EntityType: "NOTE",
		NoteID:     note.ID().String(),
		DocumentID: note.DocumentID().String(),
		AuthorID:   note.AuthorID(),
		Content:    note.Content().Text(),
		Upvotes:    note.Upvotes(),
		Downvotes:  note.Downvotes(),
		CreatedAt:  note.CreatedAt().Format(time.RFC3339Nano),
		Version:    note.Version(),
	}

	return s.putItem(ctx, item, "note", note.ID().String())
}

// SaveVote persists one ledger entry; VoteNone deletes it
func (s *SnapshotStore) SaveVote(ctx context.Context, userID string, noteID valueobjects.NoteID, vote valueobjects.Vote) error {
	pk := fmt.Sprintf("NOTE#%s", noteID.String())
	sk := fmt.Sprintf("VOTE#%s", userID)

	if vote == valueobjects.VoteNone {
		_, err := s.breaker.Execute(func() (interface{}, error) {
			return s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
				TableName: aws.String(s.tableName),
				Key: map[string]types.AttributeValue{
					"PK": &types.AttributeValueMemberS{Value: pk},
					"SK": &types.AttributeValueMemberS{Value: sk},
				},
			})
		})
		if err != nil {
			return fmt.Errorf("failed to delete vote: %w", err)
		}
		return nil
	}

	item := voteItem{
		PK:         pk,
		SK:         sk,
		EntityType: "VOTE",
		UserID:     userID,
		NoteID:     noteID.String(),
		Vote:       string(vote),
	}
	return s.putItem(ctx, item, "vote", userID+"#"+noteID.String())
}

// Load restores all previously persisted state by scanning the table
func (s *SnapshotStore) Load(ctx context.Context) (*ports.Snapshot, error) {
	snapshot := &ports.Snapshot{}

	var startKey map[string]types.AttributeValue
	for {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(s.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			var ae smithy.APIError
			if errors.As(err, &ae) && ae.ErrorCode() == "ResourceNotFoundException" {
				// First boot against a table that does not exist yet.
				s.logger.Warn("Snapshot table not found, starting from empty state",
					zap.String("table", s.tableName),
				)
				return &ports.Snapshot{}, nil
			}
			return nil, fmt.Errorf("failed to scan snapshot table: %w", err)
		}

		for _, raw := range out.Items {
			entityType := ""
			if av, ok := raw["EntityType"].(*types.AttributeValueMemberS); ok {
				entityType = av.Value
			}

			switch entityType {
			case "DOCUMENT":
				doc, err := s.unmarshalDocument(raw)
				if err != nil {
					s.logger.Warn("Skipping corrupt document item", zap.Error(err))
					continue
				}
				snapshot.Documents = append(snapshot.Documents, doc)
			case "LIBRARY":
				library, err := s.unmarshalLibrary(raw)
				if err != nil {
					s.logger.Warn("Skipping corrupt library item", zap.Error(err))
					continue
				}
				snapshot.Libraries = append(snapshot.Libraries, library)
			case "NOTE":
				note, err := s.unmarshalNote(raw)
				if err != nil {
					s.logger.Warn("Skipping corrupt note item", zap.Error(err))
					continue
				}
				snapshot.Notes = append(snapshot.Notes, note)
			case "VOTE":
				var item voteItem
				if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
					s.logger.Warn("Skipping corrupt vote item", zap.Error(err))
					continue
				}
				noteID, err := valueobjects.NewNoteIDFromString(item.NoteID)
				if err != nil {
					s.logger.Warn("Skipping vote with invalid note id", zap.Error(err))
					continue
				}
				snapshot.Votes = append(snapshot.Votes, ports.VoteRecord{
					UserID: item.UserID,
					NoteID: noteID,
					Vote:   valueobjects.Vote(item.Vote),
				})
			}
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	s.logger.Info("Snapshot loaded",
		zap.Int("documents", len(snapshot.Documents)),
		zap.Int("libraries", len(snapshot.Libraries)),
		zap.Int("notes", len(snapshot.Notes)),
		zap.Int("votes", len(snapshot.Votes)),
	)
	return snapshot, nil
}

func (s *SnapshotStore) putItem(ctx context.Context, item interface{}, kind, id string) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", kind, err)
	}

	if _, err := s.breaker.Execute(func() (interface{}, error) {
		return s.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(s.tableName),
			Item:      av,
		})
	}); err != nil {
		s.logger.Error("Failed to write snapshot item",
			zap.Error(err),
			zap.String("kind", kind),
			zap.String("id", id),
		)
		return fmt.Errorf("failed to save %s: %w", kind, err)
	}
	return nil
}

func (s *SnapshotStore) unmarshalDocument(raw map[string]types.AttributeValue) (*entities.Document, error) {
	var item documentItem
	if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
		return nil, err
	}

	id, err := valueobjects.NewDocumentIDFromString(item.DocumentID)
	if err != nil {
		return nil, err
	}

	concepts := make([]entities.ConceptRef, 0, len(item.RelatedConcepts))
	for _, c := range item.RelatedConcepts {
		concepts = append(concepts, entities.ConceptRef{Name: c.Name, IsPrerequisite: c.IsPrerequisite})
	}

	relatedIDs, err := stringsToDocIDs(item.RelatedDocIDs)
	if err != nil {
		return nil, err
	}
	noteIDs, err := stringsToNoteIDs(item.NoteIDs)
	if err != nil {
		return nil, err
	}

	createdAt, _ := time.Parse(time.RFC3339Nano, item.CreatedAt)
	var publishedDate time.Time
	if item.PublishedDate != "" {
		publishedDate, _ = time.Parse(time.RFC3339, item.PublishedDate)
	}

	return entities.ReconstructDocument(
		id,
		item.Title,
		item.Authors,
		item.Abstract,
		item.Summary,
		item.TranslatedSummary,
		publishedDate,
		item.Category,
		item.Year,
		item.Keywords,
		valueobjects.NewFeatureVector(item.FeatureVector),
		concepts,
		relatedIDs,
		noteIDs,
		createdAt,
		item.Version,
	), nil
}

func (s *SnapshotStore) unmarshalLibrary(raw map[string]types.AttributeValue) (*aggregates.Library, error) {
	var item libraryItem
	if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
		return nil, err
	}

	entries := make([]aggregates.Entry, 0, len(item.Entries))
	for _, e := range item.Entries {
		docID, err := valueobjects.NewDocumentIDFromString(e.DocumentID)
		if err != nil {
			return nil, err
		}
		noteIDs, err := stringsToNoteIDs(e.NoteIDs)
		if err != nil {
			return nil, err
		}
		entries = append(entries, aggregates.Entry{
			DocumentID:   docID,
			IsRead:       e.IsRead,
			IsBookmarked: e.IsBookmarked,
			NoteIDs:      noteIDs,
		})
	}

	createdAt, _ := time.Parse(time.RFC3339Nano, item.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339Nano, item.UpdatedAt)

	return aggregates.ReconstructLibrary(item.UserID, entries, item.Drafts, createdAt, updatedAt, item.Version), nil
}

func (s *SnapshotStore) unmarshalNote(raw map[string]types.AttributeValue) (*entities.Note, error) {
	var item noteItem
	if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
		return nil, err
	}

	noteID, err := valueobjects.NewNoteIDFromString(item.NoteID)
	if err != nil {
		return nil, err
	}
	docID, err := valueobjects.NewDocumentIDFromString(item.DocumentID)
	if err != nil {
		return nil, err
	}
	content, err := valueobjects.NewNoteContent(item.Content)
	if err != nil {
		return nil, err
	}

	createdAt, _ := time.Parse(time.RFC3339Nano, item.CreatedAt)

	return entities.ReconstructNote(noteID, docID, item.AuthorID, content, createdAt, item.Upvotes, item.Downvotes, item.Version), nil
}

func idsToStrings(ids []valueobjects.DocumentID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func noteIDsToStrings(ids []valueobjects.NoteID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func stringsToDocIDs(values []string) ([]valueobjects.DocumentID, error) {
	out := make([]valueobjects.DocumentID, 0, len(values))
	for _, v := range values {
		id, err := valueobjects.NewDocumentIDFromString(v)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func stringsToNoteIDs(values []string) ([]valueobjects.NoteID, error) {
	out := make([]valueobjects.NoteID, 0, len(values))
	for _, v := range values {
		id, err := valueobjects.NewNoteIDFromString(v)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
