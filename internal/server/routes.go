package server

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, store Store, db *sql.DB, spaDir string) {
	broker := NewBroker()

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Gexa War API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(db))
	r.Get("/ws/live", handleWSLive(broker, logger))

	// Public scoreboard routes.
	r.Get("/api/game", handleGame(store))
	r.Get("/api/snapshot", handleSnapshot(store))
	r.Get("/api/game/events", handleEvents(broker))

	// Station console — authenticated per request by the station code.
	r.Get("/api/stations", handleStationList(store))
	r.Post("/api/station/login", handleStationLogin(store))
	r.Post("/api/station/success", handleStationSuccess(store, broker, logger))
	r.Post("/api/station/undo", handleStationUndo(store, broker, logger))

	// Admin auth.
	r.Post("/api/admin/login", handleAdminLogin(store))
	r.Post("/api/admin/logout", handleAdminLogout(store))

	// Admin routes — cookie session.
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(adminAuthMiddleware(store))
		r.Get("/me", handleAdminMe())

		r.Get("/config", handleAdminConfigGet(store))
		r.Put("/config", handleAdminConfigPut(store))
		r.Get("/inspect", handleAdminInspect(store))

		r.Get("/stations", handleAdminStationList(store))
		r.Post("/stations", handleAdminStationCreate(store))
		r.Put("/stations/{id}", handleAdminStationUpdate(store))
		r.Delete("/stations/{id}", handleAdminStationDelete(store))

		r.Get("/teams", handleAdminTeamList(store))
		r.Post("/teams", handleAdminTeamCreate(store))
		r.Put("/teams/{id}", handleAdminTeamUpdate(store))
		r.Delete("/teams/{id}", handleAdminTeamDelete(store))

		r.Get("/players", handleAdminPlayerList(store))
		r.Post("/players", handleAdminPlayerCreate(store))
		r.Post("/players/import", handleAdminPlayerImport(store))
		r.Put("/players/{id}", handleAdminPlayerUpdate(store))
		r.Delete("/players/{id}", handleAdminPlayerDelete(store))
	})

	if spaDir != "" {
		if info, err := os.Stat(spaDir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", spaDir)
			r.NotFound(handleSPA(spaDir))
		}
	}
}
