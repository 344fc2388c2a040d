package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/constracti/the-gexa-war/internal/game"
)

func TestStationList(t *testing.T) {
	r, _ := setupServer(t)

	w := doJSON(t, r, http.MethodGet, "/api/stations", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	body := w.Body.Bytes()
	var resp []StationListEntry
	json.Unmarshal(body, &resp)
	if len(resp) != 2 {
		t.Fatalf("expected 2 stations, got %d", len(resp))
	}
	// Codes must not leak through the public list.
	if bytes.Contains(body, []byte(`"code"`)) {
		t.Errorf("station codes exposed in public list: %s", body)
	}
}

func TestStationLogin(t *testing.T) {
	r, _ := setupServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/station/login",
		StationCredentials{Station: 1, Code: "1111"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var view StationView
	json.NewDecoder(w.Body).Decode(&view)
	if view.ID != 1 || view.Name != "Fountain" {
		t.Errorf("unexpected station view: %+v", view)
	}
	if view.Controller != nil {
		t.Errorf("expected contested station, got controller %d", *view.Controller)
	}
}

func TestStationLoginWrongCode(t *testing.T) {
	r, _ := setupServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/station/login",
		StationCredentials{Station: 1, Code: "9999"}, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func declare(t *testing.T, r http.Handler, station int64, player string, typ game.SuccessType) (*StationView, int) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/station/success", StationSuccessRequest{
		StationCredentials: StationCredentials{Station: station, Code: "1111"},
		Player:             player,
		Type:               typ,
	}, nil)
	if w.Code != http.StatusCreated {
		return nil, w.Code
	}
	var view StationView
	json.NewDecoder(w.Body).Decode(&view)
	return &view, w.Code
}

func TestStationSuccessFlow(t *testing.T) {
	r, _ := setupServer(t)

	// Conquest of a contested station is legal.
	view, code := declare(t, r, 1, "101", game.SuccessConquest)
	if code != http.StatusCreated {
		t.Fatalf("conquest: expected 201, got %d", code)
	}
	if view.Controller == nil || *view.Controller != 1 {
		t.Fatalf("expected team 1 controlling after conquest, got %+v", view.Controller)
	}

	// Conquering your own station is not.
	if _, code := declare(t, r, 1, "101", game.SuccessConquest); code != http.StatusConflict {
		t.Errorf("re-conquest by controller: expected 409, got %d", code)
	}

	// Neither is neutralizing it yourself.
	if _, code := declare(t, r, 1, "101", game.SuccessNeutralization); code != http.StatusConflict {
		t.Errorf("self-neutralization: expected 409, got %d", code)
	}

	// The rival team neutralizes; the station goes contested again.
	view, code = declare(t, r, 1, "201", game.SuccessNeutralization)
	if code != http.StatusCreated {
		t.Fatalf("neutralization: expected 201, got %d", code)
	}
	if view.Controller != nil {
		t.Errorf("expected contested station after neutralization, got %d", *view.Controller)
	}

	// Neutralizing a contested station is illegal.
	if _, code := declare(t, r, 1, "201", game.SuccessNeutralization); code != http.StatusConflict {
		t.Errorf("neutralizing contested: expected 409, got %d", code)
	}

	// Simple successes are always legal.
	if _, code := declare(t, r, 1, "201", game.SuccessSimple); code != http.StatusCreated {
		t.Errorf("simple: expected 201, got %d", code)
	}
}

func TestStationSuccessBlockedPlayer(t *testing.T) {
	r, _ := setupServer(t)

	if _, code := declare(t, r, 1, "999", game.SuccessSimple); code != http.StatusForbidden {
		t.Errorf("blocked player: expected 403, got %d", code)
	}
}

func TestStationSuccessUnknownPlayer(t *testing.T) {
	r, _ := setupServer(t)

	if _, code := declare(t, r, 1, "555", game.SuccessSimple); code != http.StatusNotFound {
		t.Errorf("unknown player: expected 404, got %d", code)
	}
}

func TestStationSuccessUnknownType(t *testing.T) {
	r, _ := setupServer(t)

	if _, code := declare(t, r, 1, "101", "sabotage"); code != http.StatusBadRequest {
		t.Errorf("unknown type: expected 400, got %d", code)
	}
}

func TestStationSuccessOutsideWindow(t *testing.T) {
	r, db := setupServer(t)
	now := time.Now().Unix()

	// Push the window into the future: the game is pending.
	if _, err := db.Exec(`UPDATE config SET time_start = ?, time_stop = ?`, now+1000, now+2000); err != nil {
		t.Fatalf("updating config: %v", err)
	}

	w := doJSON(t, r, http.MethodPost, "/api/station/success", StationSuccessRequest{
		StationCredentials: StationCredentials{Station: 1, Code: "1111"},
		Player:             "101",
		Type:               game.SuccessSimple,
	}, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Phase string `json:"phase"`
	}
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Phase != "pending" {
		t.Errorf("expected phase pending, got %q", resp.Phase)
	}
}

func TestStationUndo(t *testing.T) {
	r, _ := setupServer(t)

	first, code := declare(t, r, 1, "101", game.SuccessSimple)
	if code != http.StatusCreated {
		t.Fatalf("first success: got %d", code)
	}
	second, code := declare(t, r, 1, "201", game.SuccessSimple)
	if code != http.StatusCreated {
		t.Fatalf("second success: got %d", code)
	}
	if len(second.Successes) != 2 {
		t.Fatalf("expected 2 successes in view, got %d", len(second.Successes))
	}

	oldest := first.Successes[0].ID
	latest := second.Successes[0].ID

	// Only the latest success of a station can be undone.
	w := doJSON(t, r, http.MethodPost, "/api/station/undo", StationUndoRequest{
		StationCredentials: StationCredentials{Station: 1, Code: "1111"},
		ID:                 oldest,
	}, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("undo of older success: expected 409, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/station/undo", StationUndoRequest{
		StationCredentials: StationCredentials{Station: 1, Code: "1111"},
		ID:                 latest,
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("undo of latest: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var view StationView
	json.NewDecoder(w.Body).Decode(&view)
	if len(view.Successes) != 1 || view.Successes[0].ID != oldest {
		t.Errorf("expected only the oldest success to remain, got %+v", view.Successes)
	}

	// The undone success is gone; undoing it again is a 404.
	w = doJSON(t, r, http.MethodPost, "/api/station/undo", StationUndoRequest{
		StationCredentials: StationCredentials{Station: 1, Code: "1111"},
		ID:                 latest,
	}, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("undo of missing success: expected 404, got %d", w.Code)
	}
}
