package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"personachat-backend/internal/config"
	"personachat-backend/internal/handlers"
)

// RouterDependencies holds all the dependencies required by the router setup,
// primarily handlers and configuration.
type RouterDependencies struct {
	WorkspaceHandler *handlers.WorkspaceHandler
	PersonaHandler   *handlers.PersonaHandler
	MessageHandler   *handlers.MessageHandler
	ExchangeHandler  *handlers.ExchangeHandler
	Config           *config.Config
}

// NewRouter creates and configures the main Chi router for the application.
func NewRouter(deps RouterDependencies) *chi.Mux {
	r := chi.NewRouter()

	// --- Base Middleware Stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// Exchange requests proxy to the chat backend, so the request timeout
	// must exceed the backend timeout.
	r.Use(middleware.Timeout(deps.Config.RequestTimeout + 10*time.Second))

	// --- CORS Configuration ---
	// The browser UI is served from a dev server on a different origin.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/seed", deps.WorkspaceHandler.HandleGetSeed)

		r.Route("/workspaces", func(r chi.Router) {
			r.Post("/", deps.WorkspaceHandler.HandleCreateWorkspace)
			r.Get("/", deps.WorkspaceHandler.HandleListWorkspaces)

			r.Route("/{workspaceID}", func(r chi.Router) {
				r.Get("/", deps.WorkspaceHandler.HandleGetWorkspace)
				r.Delete("/", deps.WorkspaceHandler.HandleDeleteWorkspace)
				r.Post("/snapshot", deps.WorkspaceHandler.HandleSaveSnapshot)
				r.Post("/restore", deps.WorkspaceHandler.HandleRestoreSnapshot)

				r.Route("/personas", func(r chi.Router) {
					r.Post("/", deps.PersonaHandler.HandleCreatePersona)
					r.Get("/", deps.PersonaHandler.HandleListPersonas)
					r.Patch("/{name}/prompt", deps.PersonaHandler.HandleUpdatePrompt)
					r.Put("/{name}/avatar", deps.PersonaHandler.HandleUpdateAvatar)
					r.Delete("/{name}", deps.PersonaHandler.HandleDeletePersona)
				})

				r.Route("/messages", func(r chi.Router) {
					r.Post("/", deps.MessageHandler.HandleAppendMessage)
					r.Get("/", deps.MessageHandler.HandleListMessages)
					r.Delete("/", deps.MessageHandler.HandleClearMessages)
					r.Patch("/{position}", deps.MessageHandler.HandleEditMessage)
					r.Post("/{position}/delete", deps.MessageHandler.HandleMarkDelete)
					r.Post("/{position}/delete/confirm", deps.MessageHandler.HandleConfirmDelete)
					r.Post("/{position}/delete/cancel", deps.MessageHandler.HandleCancelDelete)
				})

				r.Route("/context", func(r chi.Router) {
					r.Get("/", deps.MessageHandler.HandleGetContext)
					r.Put("/", deps.MessageHandler.HandleSetContext)
					r.Post("/commit", deps.MessageHandler.HandleCommitContext)
				})

				r.Get("/projections", deps.MessageHandler.HandleGetProjections)
				r.Post("/transcript", deps.MessageHandler.HandleTranscript)

				r.Route("/exchange", func(r chi.Router) {
					r.Post("/direct", deps.ExchangeHandler.HandleDirectChat)
					r.Post("/auto", deps.ExchangeHandler.HandleAutoChat)
					r.Post("/analyze", deps.ExchangeHandler.HandleAnalyze)
					r.Get("/status", deps.ExchangeHandler.HandleExchangeStatus)
				})
			})
		})
	})

	return r
}
