package di

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"paperdesk-backend/application/commands/bus"
	"paperdesk-backend/application/ports"
	querybus "paperdesk-backend/application/queries/bus"
	"paperdesk-backend/application/services"
	"paperdesk-backend/infrastructure/config"
	"paperdesk-backend/pkg/auth"
	"paperdesk-backend/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	CatalogRepo ports.CatalogRepository
	LibraryRepo ports.LibraryRepository
	NoteRepo    ports.NoteRepository
	VoteLedger  ports.VoteLedgerRepository
	Snapshots   ports.SnapshotStore
	Publisher   ports.EventPublisher
	Cache       ports.Cache

	LibraryService        *services.LibraryService
	NoteService           *services.NoteService
	RecommendationService *services.RecommendationService

	CommandBus *bus.CommandBus
	QueryBus   *querybus.QueryBus

	Metrics      *observability.Metrics
	Tracer       *observability.Tracer
	JWTValidator *auth.JWTValidator
}

// Restore reloads all persisted state from the snapshot store into the
// in-memory repositories. Called once at process start, before the HTTP
// server accepts traffic.
func (c *Container) Restore(ctx context.Context) error {
	if c.Snapshots == nil {
		return nil
	}

	snapshot, err := c.Snapshots.Load(ctx)
	if err != nil {
		return err
	}

	// Scan order is arbitrary; re-upsert by creation time so the catalog
	// keeps its original insertion order across restarts.
	sort.SliceStable(snapshot.Documents, func(i, j int) bool {
		return snapshot.Documents[i].CreatedAt().Before(snapshot.Documents[j].CreatedAt())
	})
	for _, doc := range snapshot.Documents {
		if err := c.CatalogRepo.Upsert(ctx, doc); err != nil {
			return err
		}
	}
	for _, library := range snapshot.Libraries {
		if err := c.LibraryRepo.Save(ctx, library); err != nil {
			return err
		}
	}
	for _, note := range snapshot.Notes {
		if err := c.NoteRepo.Save(ctx, note); err != nil {
			return err
		}
	}
	for _, vote := range snapshot.Votes {
		if err := c.VoteLedger.Set(ctx, vote.UserID, vote.NoteID, vote.Vote); err != nil {
			return err
		}
	}

	c.Logger.Info("State restored from snapshots",
		zap.Int("documents", len(snapshot.Documents)),
		zap.Int("libraries", len(snapshot.Libraries)),
		zap.Int("notes", len(snapshot.Notes)),
		zap.Int("votes", len(snapshot.Votes)),
	)
	return nil
}

// Shutdown releases container resources
func (c *Container) Shutdown() {
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
}
