package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/constracti/the-gexa-war/internal/game"
)

func adminLogin(t *testing.T, r *chi.Mux) []*http.Cookie {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/admin/login",
		AdminLoginRequest{Email: "admin@example.com", Password: "changeme"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	return w.Result().Cookies()
}

func TestAdminLoginGoodCredentials(t *testing.T) {
	r, _ := setupServer(t)

	cookies := adminLogin(t, r)
	found := false
	for _, c := range cookies {
		if c.Name == adminCookieName && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %s cookie to be set", adminCookieName)
	}
}

func TestAdminLoginBadPassword(t *testing.T) {
	r, _ := setupServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/admin/login",
		AdminLoginRequest{Email: "admin@example.com", Password: "wrong"}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAdminLoginUnknownEmail(t *testing.T) {
	r, _ := setupServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/admin/login",
		AdminLoginRequest{Email: "nobody@example.com", Password: "changeme"}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAdminMeRequiresSession(t *testing.T) {
	r, _ := setupServer(t)

	w := doJSON(t, r, http.MethodGet, "/api/admin/me", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without cookie, got %d", w.Code)
	}

	cookies := adminLogin(t, r)
	w = doJSON(t, r, http.MethodGet, "/api/admin/me", nil, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with cookie, got %d", w.Code)
	}
	var info AdminInfo
	json.NewDecoder(w.Body).Decode(&info)
	if info.Email != "admin@example.com" {
		t.Errorf("expected admin email, got %q", info.Email)
	}
}

func TestAdminLogoutInvalidatesSession(t *testing.T) {
	r, _ := setupServer(t)
	cookies := adminLogin(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/admin/logout", nil, cookies)
	if w.Code != http.StatusNoContent {
		t.Fatalf("logout: expected 204, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/admin/me", nil, cookies)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", w.Code)
	}
}

func TestAdminStationCRUD(t *testing.T) {
	r, _ := setupServer(t)
	cookies := adminLogin(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/admin/stations",
		StationRequest{Name: "Tower", Code: "5555", Capacity: 2}, cookies)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created game.Station
	json.NewDecoder(w.Body).Decode(&created)
	if created.ID == 0 {
		t.Fatal("expected assigned station id")
	}

	w = doJSON(t, r, http.MethodPut, "/api/admin/stations/"+itoa(created.ID),
		StationRequest{Name: "Clock Tower", Code: "5555", Capacity: 3}, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/admin/stations", nil, cookies)
	var stations []game.Station
	json.NewDecoder(w.Body).Decode(&stations)
	found := false
	for _, st := range stations {
		if st.ID == created.ID && st.Name == "Clock Tower" && st.Capacity == 3 {
			found = true
		}
	}
	if !found {
		t.Errorf("updated station missing from list: %+v", stations)
	}

	w = doJSON(t, r, http.MethodDelete, "/api/admin/stations/"+itoa(created.ID), nil, cookies)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", w.Code)
	}
}

func TestAdminStationCreateInvalid(t *testing.T) {
	r, _ := setupServer(t)
	cookies := adminLogin(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/admin/stations",
		StationRequest{Name: "Tower", Code: "5555", Capacity: 0}, cookies)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero capacity, got %d", w.Code)
	}
}

func TestAdminStationDeleteInUse(t *testing.T) {
	r, db := setupServer(t)
	cookies := adminLogin(t, r)
	insertSuccess(t, db, 1, "101", "simple", time.Now().Unix()-100)

	w := doJSON(t, r, http.MethodDelete, "/api/admin/stations/1", nil, cookies)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 deleting station with history, got %d", w.Code)
	}
}

func TestAdminTeamDeleteWithPlayers(t *testing.T) {
	r, _ := setupServer(t)
	cookies := adminLogin(t, r)

	// Team 1 has Alice.
	w := doJSON(t, r, http.MethodDelete, "/api/admin/teams/1", nil, cookies)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 deleting team with players, got %d", w.Code)
	}
}

func TestAdminPlayerImport(t *testing.T) {
	r, _ := setupServer(t)
	cookies := adminLogin(t, r)

	body := strings.Join([]string{
		"301,Grace,1",
		"",
		"# guests",
		"302,Heidi,2",
		"999,Mallory Jr,2",
	}, "\n")
	req := httptest.NewRequest(http.MethodPost, "/api/admin/players/import", strings.NewReader(body))
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("import: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp PlayerImportResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Imported != 3 {
		t.Errorf("expected 3 imported, got %d", resp.Imported)
	}

	lw := doJSON(t, r, http.MethodGet, "/api/admin/players", nil, cookies)
	var players []game.Player
	json.NewDecoder(lw.Body).Decode(&players)
	byID := map[string]game.Player{}
	for _, p := range players {
		byID[p.ID] = p
	}
	if byID["301"].Name != "Grace" || byID["302"].Team != 2 {
		t.Errorf("imported players missing: %+v", players)
	}
	// Re-importing an existing player updates name and team but keeps
	// the blocked flag.
	if got := byID["999"]; got.Name != "Mallory Jr" || !got.Blocked {
		t.Errorf("expected re-import to keep blocked flag, got %+v", got)
	}
}

func TestAdminPlayerImportBadLine(t *testing.T) {
	r, _ := setupServer(t)
	cookies := adminLogin(t, r)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/players/import",
		strings.NewReader("301,Grace"))
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed line, got %d", w.Code)
	}
}

func TestAdminConfigRoundTrip(t *testing.T) {
	r, _ := setupServer(t)
	cookies := adminLogin(t, r)

	w := doJSON(t, r, http.MethodPut, "/api/admin/config", ConfigRequest{
		TimeStart: 1000, TimeStop: 500, RewardSuccess: 1,
	}, cookies)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for inverted window, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPut, "/api/admin/config", ConfigRequest{
		TimeStart:      1000,
		TimeStop:       5000,
		RewardSuccess:  10,
		RewardConquest: 2,
		RewardRate:     0.5,
	}, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("put: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/admin/config", nil, cookies)
	var cfg game.Config
	json.NewDecoder(w.Body).Decode(&cfg)
	if cfg.TimeStart != 1000 || cfg.TimeStop != 5000 || cfg.RewardSuccess != 10 {
		t.Errorf("config did not round trip: %+v", cfg)
	}
}

func TestAdminInspectOrdering(t *testing.T) {
	r, db := setupServer(t)
	cookies := adminLogin(t, r)
	now := time.Now().Unix()

	// Alice: two successes 100 seconds apart. Bob: two 50 seconds apart.
	insertSuccess(t, db, 1, "101", "simple", now-3000)
	insertSuccess(t, db, 2, "101", "simple", now-2900)
	insertSuccess(t, db, 1, "201", "simple", now-2000)
	insertSuccess(t, db, 2, "201", "simple", now-1950)

	w := doJSON(t, r, http.MethodGet, "/api/admin/inspect", nil, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var intervals []InspectInterval
	json.NewDecoder(w.Body).Decode(&intervals)
	if len(intervals) != 2 {
		t.Fatalf("expected 2 intervals, got %d", len(intervals))
	}
	if intervals[0].Player != "201" || intervals[0].Seconds != 50 {
		t.Errorf("expected Bob's 50s interval first, got %+v", intervals[0])
	}
	if intervals[1].Player != "101" || intervals[1].Seconds != 100 {
		t.Errorf("expected Alice's 100s interval second, got %+v", intervals[1])
	}
	if intervals[0].FromStation != 1 || intervals[0].ToStation != 2 {
		t.Errorf("expected station 1 to 2 movement, got %+v", intervals[0])
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
