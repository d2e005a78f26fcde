package routes

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Dosada05/tournament-engine/handlers"
	"github.com/Dosada05/tournament-engine/middleware"
	"github.com/Dosada05/tournament-engine/services"
)

type Dependencies struct {
	AuthService        services.AuthService
	AuthHandler        *handlers.AuthHandler
	TournamentHandler  *handlers.TournamentHandler
	WebSocketHandler   *handlers.WebSocketHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	Logger             *slog.Logger
}

func SetupRoutes(router chi.Router, deps Dependencies) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	if deps.MetricsHandler != nil {
		router.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	router.Post("/auth/token", deps.AuthHandler.Login)
	router.Get("/ws/tournaments/{tournamentID}", deps.WebSocketHandler.ServeWs)

	th := deps.TournamentHandler
	authenticate := middleware.Authenticate(deps.AuthService, deps.Logger)

	router.Get("/snapshot", th.GetSnapshot)
	router.Get("/commands", th.ListCommands)
	router.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Put("/snapshot", th.SyncSnapshot)
		r.Post("/commands", th.ApplyCommand)
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", th.ListHandler)
		r.Get("/{tournamentID}", th.GetByIDHandler)
		r.Get("/{tournamentID}/schedule", th.ScheduleHandler)
		r.Get("/{tournamentID}/standings", th.StandingsHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/", th.CreateHandler)
			r.Post("/{tournamentID}/start", th.StartHandler)
			r.Post("/{tournamentID}/reset", th.ResetHandler)
			r.Put("/{tournamentID}/groups", th.UpdateGroupsHandler)
			r.Put("/{tournamentID}/settings", th.UpdateSettingsHandler)

			r.Post("/{tournamentID}/teams", th.AddTeamHandler)
			r.Put("/{tournamentID}/teams/order", th.ReorderTeamsHandler)
			r.Delete("/{tournamentID}/teams/{teamID}", th.RemoveTeamHandler)
			r.Put("/{tournamentID}/teams/{teamID}/presence", th.SetPresenceHandler)

			r.Put("/{tournamentID}/matches/{matchID}/score", th.RecordScoreHandler)
			r.Post("/{tournamentID}/matches/{matchID}/complete", th.CompleteMatchHandler)

			r.Post("/{tournamentID}/swiss/next", th.NextSwissRoundHandler)
			r.Post("/{tournamentID}/playoff", th.CreatePlayoffHandler)
		})
	})
}
