package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"paperdesk-backend/application/commands/bus"
	querybus "paperdesk-backend/application/queries/bus"
	"paperdesk-backend/interfaces/http/rest/handlers"
	"paperdesk-backend/interfaces/http/rest/middleware"
	"paperdesk-backend/pkg/auth"
)

// Router creates and configures the HTTP router
type Router struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	validator  *auth.JWTValidator
	enableCORS bool
	logger     *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	validator *auth.JWTValidator,
	enableCORS bool,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus: commandBus,
		queryBus:   queryBus,
		validator:  validator,
		enableCORS: enableCORS,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.enableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.paperdesk.app"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health checks
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.validator, rt.logger))

		libraryHandler := handlers.NewLibraryHandler(rt.commandBus, rt.queryBus, rt.logger)
		documentHandler := handlers.NewDocumentHandler(rt.queryBus, rt.logger)
		noteHandler := handlers.NewNoteHandler(rt.commandBus, rt.queryBus, rt.logger)

		// Library overlay endpoints
		r.Route("/library", func(r chi.Router) {
			r.Post("/initialize", libraryHandler.Initialize)
			r.Get("/", libraryHandler.List)
			r.Get("/search", libraryHandler.SearchByConcept)

			r.Route("/documents/{documentID}", func(r chi.Router) {
				r.Get("/", libraryHandler.GetDocument)
				r.Post("/read", libraryHandler.ToggleRead)
				r.Post("/bookmark", libraryHandler.ToggleBookmark)
				r.Put("/draft", libraryHandler.SaveDraft)
				r.Get("/draft", libraryHandler.GetDraft)
			})
		})

		// Shared catalog endpoints
		r.Route("/documents", func(r chi.Router) {
			r.Get("/", documentHandler.Search)

			r.Route("/{documentID}", func(r chi.Router) {
				r.Get("/recommendations", documentHandler.Recommendations)
				r.Post("/notes", noteHandler.AddNote)
				r.Get("/notes", noteHandler.ListNotes)
				r.Put("/notes/{noteID}", noteHandler.EditNote)
			})
		})

		// Vote endpoints
		r.Route("/notes/{noteID}/vote", func(r chi.Router) {
			r.Post("/", noteHandler.CastVote)
			r.Get("/", noteHandler.GetVote)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
