package di

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"paperdesk-backend/application/commands"
	"paperdesk-backend/application/commands/bus"
	commandhandlers "paperdesk-backend/application/commands/handlers"
	"paperdesk-backend/application/ports"
	"paperdesk-backend/application/queries"
	querybus "paperdesk-backend/application/queries/bus"
	queryhandlers "paperdesk-backend/application/queries/handlers"
	"paperdesk-backend/application/services"
	domainconfig "paperdesk-backend/domain/config"
	"paperdesk-backend/infrastructure/config"
	"paperdesk-backend/infrastructure/messaging/eventbridge"
	"paperdesk-backend/infrastructure/persistence/dynamodb"
	"paperdesk-backend/infrastructure/persistence/memory"
	"paperdesk-backend/pkg/auth"
	"paperdesk-backend/pkg/observability"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideDomainConfig provides the domain rule configuration
func ProvideDomainConfig() *domainconfig.DomainConfig {
	return domainconfig.DefaultDomainConfig()
}

// ProvideCatalogRepository creates the in-memory shared catalog
func ProvideCatalogRepository() ports.CatalogRepository {
	return memory.NewCatalogRepository()
}

// ProvideLibraryRepository creates the in-memory library store
func ProvideLibraryRepository() ports.LibraryRepository {
	return memory.NewLibraryRepository()
}

// ProvideNoteRepository creates the in-memory canonical note store
func ProvideNoteRepository() ports.NoteRepository {
	return memory.NewNoteRepository()
}

// ProvideVoteLedgerRepository creates the in-memory vote ledger
func ProvideVoteLedgerRepository() ports.VoteLedgerRepository {
	return memory.NewVoteLedgerRepository()
}

// ProvideSnapshotStore creates the write-through DynamoDB snapshot store.
// Returns nil when snapshots are disabled; the services treat a nil store
// as "memory only".
func ProvideSnapshotStore(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.SnapshotStore {
	if !cfg.EnableSnapshots {
		return nil
	}
	return dynamodb.NewSnapshotStore(client, cfg.DynamoDBTable, logger)
}

// ProvideEventPublisher creates the EventBridge publisher, nil when disabled
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	if !cfg.EnableEvents {
		return nil
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideMetrics creates the CloudWatch metrics recorder
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) *observability.Metrics {
	namespace := fmt.Sprintf("Paperdesk/%s", cfg.Environment)
	return observability.NewMetrics(client, namespace, cfg.EnableMetrics, logger)
}

// ProvideTracer creates the X-Ray tracer, nil when tracing is disabled
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	if !cfg.EnableTracing {
		return nil
	}
	return observability.NewTracer("paperdesk-backend")
}

// ProvideJWTValidator creates the token validator used by the HTTP layer
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	secret := cfg.JWTSecret
	if secret == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		secret = "development-secret-change-in-production"
	}

	return auth.NewJWTValidator(auth.JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     secret,
		Issuer:        cfg.JWTIssuer,
		Audience:      []string{"paperdesk-api"},
	})
}

// ProvideLibraryService creates the library service
func ProvideLibraryService(
	catalogRepo ports.CatalogRepository,
	libraryRepo ports.LibraryRepository,
	snapshots ports.SnapshotStore,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *services.LibraryService {
	return services.NewLibraryService(catalogRepo, libraryRepo, snapshots, publisher, logger)
}

// ProvideNoteService creates the note service
func ProvideNoteService(
	catalogRepo ports.CatalogRepository,
	noteRepo ports.NoteRepository,
	ledger ports.VoteLedgerRepository,
	libraryService *services.LibraryService,
	domainCfg *domainconfig.DomainConfig,
	snapshots ports.SnapshotStore,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *services.NoteService {
	return services.NewNoteService(catalogRepo, noteRepo, ledger, libraryService, domainCfg, snapshots, publisher, logger)
}

// ProvideRecommendationService creates the recommendation service
func ProvideRecommendationService(
	catalogRepo ports.CatalogRepository,
	libraryRepo ports.LibraryRepository,
	domainCfg *domainconfig.DomainConfig,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *services.RecommendationService {
	return services.NewRecommendationService(catalogRepo, libraryRepo, domainCfg, tracer, logger)
}

// busLoggerAdapter adapts zap.Logger to the bus.Logger interface
type busLoggerAdapter struct {
	logger *zap.Logger
}

func (a *busLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Sugar().Infow(msg, keysAndValues...)
}

func (a *busLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Sugar().Errorw(msg, keysAndValues...)
}

// ProvideCommandBus creates a command bus with all handlers registered
func ProvideCommandBus(
	libraryService *services.LibraryService,
	noteService *services.NoteService,
	metrics *observability.Metrics,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(
		bus.LoggingMiddleware(&busLoggerAdapter{logger}),
		bus.MetricsMiddleware(metrics),
	)

	registrations := []struct {
		cmd     bus.Command
		handler bus.CommandHandler
	}{
		{commands.InitializeLibraryCommand{}, commandhandlers.NewInitializeLibraryHandler(libraryService, logger)},
		{commands.ToggleReadCommand{}, commandhandlers.NewToggleReadHandler(libraryService, logger)},
		{commands.ToggleBookmarkCommand{}, commandhandlers.NewToggleBookmarkHandler(libraryService, logger)},
		{commands.SaveDraftCommand{}, commandhandlers.NewSaveDraftHandler(libraryService, logger)},
		{commands.AddNoteCommand{}, commandhandlers.NewAddNoteHandler(noteService, logger)},
		{commands.EditNoteCommand{}, commandhandlers.NewEditNoteHandler(noteService, logger)},
		{commands.CastVoteCommand{}, commandhandlers.NewCastVoteHandler(noteService, logger)},
	}

	for _, r := range registrations {
		if err := commandBus.Register(r.cmd, r.handler); err != nil {
			return nil, err
		}
	}

	return commandBus, nil
}

// ProvideQueryBus creates a query bus with all handlers registered
func ProvideQueryBus(
	catalogRepo ports.CatalogRepository,
	libraryService *services.LibraryService,
	noteService *services.NoteService,
	recommendationService *services.RecommendationService,
	cache ports.Cache,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()

	registrations := []struct {
		query   querybus.Query
		handler querybus.QueryHandler
	}{
		{queries.GetDocumentQuery{}, queryhandlers.NewGetDocumentHandler(libraryService, logger)},
		{queries.ListLibraryQuery{}, queryhandlers.NewListLibraryHandler(libraryService, logger)},
		{queries.SearchByConceptQuery{}, queryhandlers.NewSearchByConceptHandler(libraryService, logger)},
		{queries.SearchCatalogQuery{}, queryhandlers.NewSearchCatalogHandler(catalogRepo, libraryService, logger)},
		{queries.DocumentNotesQuery{}, queryhandlers.NewDocumentNotesHandler(noteService, logger)},
		{queries.GetVoteQuery{}, queryhandlers.NewGetVoteHandler(noteService, logger)},
		{queries.GetDraftQuery{}, queryhandlers.NewGetDraftHandler(libraryService, logger)},
		{queries.RecommendQuery{}, queryhandlers.NewRecommendHandler(recommendationService, libraryService, cache, logger)},
	}

	for _, r := range registrations {
		if err := queryBus.Register(r.query, r.handler); err != nil {
			return nil, err
		}
	}

	return queryBus, nil
}

// ProvideInMemoryCache creates a simple in-memory cache.
// In production this would be Redis or similar.
func ProvideInMemoryCache() ports.Cache {
	return NewInMemoryCache()
}
