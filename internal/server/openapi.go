package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/constracti/the-gexa-war/internal/game"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Phase string `json:"phase,omitempty"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Gexa War API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the Gexa War capture-the-station game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(map[string]string{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(map[string]string{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/game
	getGame, _ := r.NewOperationContext(http.MethodGet, "/api/game")
	getGame.SetSummary("Raw game data")
	getGame.SetDescription("Returns reward parameters and the full success log for client-side replay.")
	getGame.AddRespStructure(GameResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getGame)

	// GET /api/snapshot
	getSnapshot, _ := r.NewOperationContext(http.MethodGet, "/api/snapshot")
	getSnapshot.SetSummary("Derived state snapshot")
	getSnapshot.SetDescription("Returns ownership and scores at time (query parameter, default now), clamped to the game window.")
	getSnapshot.AddRespStructure(SnapshotResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getSnapshot.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(getSnapshot)

	// GET /api/game/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/game/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of success declarations and undos.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /ws/live
	getWSLive, _ := r.NewOperationContext(http.MethodGet, "/ws/live")
	getWSLive.SetSummary("WebSocket event stream")
	getWSLive.SetDescription("Upgrades to a write-only WebSocket carrying the same events as the SSE stream.")
	getWSLive.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWSLive)

	// GET /api/stations
	listStations, _ := r.NewOperationContext(http.MethodGet, "/api/stations")
	listStations.SetSummary("List stations")
	listStations.SetDescription("Returns station ids and names for the console picker.")
	listStations.AddRespStructure([]StationListEntry{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listStations)

	// POST /api/station/login
	stationLogin, _ := r.NewOperationContext(http.MethodPost, "/api/station/login")
	stationLogin.SetSummary("Station console login")
	stationLogin.SetDescription("Verifies the station code and returns the station's current state.")
	stationLogin.AddReqStructure(StationCredentials{})
	stationLogin.AddRespStructure(StationView{}, openapi.WithHTTPStatus(http.StatusOK))
	stationLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(stationLogin)

	// POST /api/station/success
	stationSuccess, _ := r.NewOperationContext(http.MethodPost, "/api/station/success")
	stationSuccess.SetSummary("Declare a success")
	stationSuccess.SetDescription("Appends a simple, neutralization, or conquest success. Rejected outside the game window or when the transition is illegal.")
	stationSuccess.AddReqStructure(StationSuccessRequest{})
	stationSuccess.AddRespStructure(StationView{}, openapi.WithHTTPStatus(http.StatusCreated))
	stationSuccess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	stationSuccess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	stationSuccess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(stationSuccess)

	// POST /api/station/undo
	stationUndo, _ := r.NewOperationContext(http.MethodPost, "/api/station/undo")
	stationUndo.SetSummary("Undo a success")
	stationUndo.SetDescription("Deletes a success while it is still the latest one of its station.")
	stationUndo.AddReqStructure(StationUndoRequest{})
	stationUndo.AddRespStructure(StationView{}, openapi.WithHTTPStatus(http.StatusOK))
	stationUndo.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	stationUndo.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(stationUndo)

	// POST /api/admin/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/admin/login")
	postLogin.SetSummary("Admin login")
	postLogin.SetDescription("Authenticate with email and password. Sets admin_session cookie.")
	postLogin.AddReqStructure(AdminLoginRequest{})
	postLogin.AddRespStructure(AdminInfo{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// POST /api/admin/logout
	postLogout, _ := r.NewOperationContext(http.MethodPost, "/api/admin/logout")
	postLogout.SetSummary("Admin logout")
	postLogout.SetDescription("Clears admin session and cookie.")
	postLogout.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	_ = r.AddOperation(postLogout)

	// GET /api/admin/me
	getMe, _ := r.NewOperationContext(http.MethodGet, "/api/admin/me")
	getMe.SetSummary("Current admin")
	getMe.SetDescription("Returns the currently authenticated admin. Requires admin_session cookie.")
	getMe.AddRespStructure(AdminInfo{}, openapi.WithHTTPStatus(http.StatusOK))
	getMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getMe)

	// GET /api/admin/config
	getConfig, _ := r.NewOperationContext(http.MethodGet, "/api/admin/config")
	getConfig.SetSummary("Get game configuration")
	getConfig.AddRespStructure(game.Config{}, openapi.WithHTTPStatus(http.StatusOK))
	getConfig.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getConfig)

	// PUT /api/admin/config
	putConfig, _ := r.NewOperationContext(http.MethodPut, "/api/admin/config")
	putConfig.SetSummary("Update game configuration")
	putConfig.SetDescription("Replaces the game window and reward policy.")
	putConfig.AddReqStructure(ConfigRequest{})
	putConfig.AddRespStructure(game.Config{}, openapi.WithHTTPStatus(http.StatusOK))
	putConfig.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	putConfig.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(putConfig)

	// GET /api/admin/inspect
	getInspect, _ := r.NewOperationContext(http.MethodGet, "/api/admin/inspect")
	getInspect.SetSummary("Inspect player movement")
	getInspect.SetDescription("Lists consecutive-success intervals per player, shortest first, to surface implausible travel times.")
	getInspect.AddRespStructure([]InspectInterval{}, openapi.WithHTTPStatus(http.StatusOK))
	getInspect.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getInspect)

	// GET /api/admin/stations
	adminStations, _ := r.NewOperationContext(http.MethodGet, "/api/admin/stations")
	adminStations.SetSummary("List stations with codes")
	adminStations.AddRespStructure([]game.Station{}, openapi.WithHTTPStatus(http.StatusOK))
	adminStations.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(adminStations)

	// POST /api/admin/stations
	createStation, _ := r.NewOperationContext(http.MethodPost, "/api/admin/stations")
	createStation.SetSummary("Create station")
	createStation.AddReqStructure(StationRequest{})
	createStation.AddRespStructure(game.Station{}, openapi.WithHTTPStatus(http.StatusCreated))
	createStation.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(createStation)

	// PUT /api/admin/stations/{id}
	updateStation, _ := r.NewOperationContext(http.MethodPut, "/api/admin/stations/{id}")
	updateStation.SetSummary("Update station")
	updateStation.AddReqStructure(StationRequest{})
	updateStation.AddRespStructure(game.Station{}, openapi.WithHTTPStatus(http.StatusOK))
	updateStation.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(updateStation)

	// DELETE /api/admin/stations/{id}
	deleteStation, _ := r.NewOperationContext(http.MethodDelete, "/api/admin/stations/{id}")
	deleteStation.SetSummary("Delete station")
	deleteStation.SetDescription("Blocked while successes reference the station.")
	deleteStation.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteStation.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	deleteStation.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteStation)

	// GET /api/admin/teams
	adminTeams, _ := r.NewOperationContext(http.MethodGet, "/api/admin/teams")
	adminTeams.SetSummary("List teams")
	adminTeams.AddRespStructure([]game.Team{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(adminTeams)

	// POST /api/admin/teams
	createTeam, _ := r.NewOperationContext(http.MethodPost, "/api/admin/teams")
	createTeam.SetSummary("Create team")
	createTeam.AddReqStructure(TeamRequest{})
	createTeam.AddRespStructure(game.Team{}, openapi.WithHTTPStatus(http.StatusCreated))
	createTeam.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(createTeam)

	// PUT /api/admin/teams/{id}
	updateTeam, _ := r.NewOperationContext(http.MethodPut, "/api/admin/teams/{id}")
	updateTeam.SetSummary("Update team")
	updateTeam.AddReqStructure(TeamRequest{})
	updateTeam.AddRespStructure(game.Team{}, openapi.WithHTTPStatus(http.StatusOK))
	updateTeam.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(updateTeam)

	// DELETE /api/admin/teams/{id}
	deleteTeam, _ := r.NewOperationContext(http.MethodDelete, "/api/admin/teams/{id}")
	deleteTeam.SetSummary("Delete team")
	deleteTeam.SetDescription("Blocked while players or stations reference the team.")
	deleteTeam.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteTeam.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(deleteTeam)

	// GET /api/admin/players
	adminPlayers, _ := r.NewOperationContext(http.MethodGet, "/api/admin/players")
	adminPlayers.SetSummary("List players")
	adminPlayers.AddRespStructure([]game.Player{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(adminPlayers)

	// POST /api/admin/players
	createPlayer, _ := r.NewOperationContext(http.MethodPost, "/api/admin/players")
	createPlayer.SetSummary("Create player")
	createPlayer.AddReqStructure(PlayerRequest{})
	createPlayer.AddRespStructure(game.Player{}, openapi.WithHTTPStatus(http.StatusCreated))
	createPlayer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(createPlayer)

	// POST /api/admin/players/import
	importPlayers, _ := r.NewOperationContext(http.MethodPost, "/api/admin/players/import")
	importPlayers.SetSummary("Import player roster")
	importPlayers.SetDescription("Plain text body, one id,name,team line per player. Existing players keep their blocked flag.")
	importPlayers.AddRespStructure(PlayerImportResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	importPlayers.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(importPlayers)

	// PUT /api/admin/players/{id}
	updatePlayer, _ := r.NewOperationContext(http.MethodPut, "/api/admin/players/{id}")
	updatePlayer.SetSummary("Update player")
	updatePlayer.AddReqStructure(PlayerRequest{})
	updatePlayer.AddRespStructure(game.Player{}, openapi.WithHTTPStatus(http.StatusOK))
	updatePlayer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(updatePlayer)

	// DELETE /api/admin/players/{id}
	deletePlayer, _ := r.NewOperationContext(http.MethodDelete, "/api/admin/players/{id}")
	deletePlayer.SetSummary("Delete player")
	deletePlayer.SetDescription("Blocked while successes reference the player.")
	deletePlayer.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deletePlayer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(deletePlayer)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
