package server

import (
	"net/http"
	"testing"

	"crossletters/internal/config"
	"crossletters/internal/game"
	"crossletters/internal/store"
)

func TestCreateJoinAndRejoin(t *testing.T) {
	srv := New(store.NewMemoryStore(), nil, PermissiveDictionary{}, config.Default())
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	gameID := createGame(t, ts)
	adaID, adaCode := joinPlayer(t, ts, gameID, "Ada")

	resp := doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/join", map[string]string{
		"name": "Ada",
		"code": adaCode,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d on rejoin, got %d", http.StatusOK, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["player_id"].(string) != adaID {
		t.Fatalf("rejoin returned a different player id")
	}
	snapshot := body["game"].(map[string]any)
	players := snapshot["players"].([]any)
	if len(players) != 1 {
		t.Fatalf("expected 1 player, got %d", len(players))
	}
	rack := players[0].(map[string]any)["rack"].([]any)
	if len(rack) != game.RackSize {
		t.Fatalf("expected a rack of %d tiles, got %d", game.RackSize, len(rack))
	}

	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/join", map[string]string{
		"name": "Ada",
		"code": "WRONG1",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected status %d for a wrong code, got %d", http.StatusForbidden, resp.StatusCode)
	}

	joinPlayer(t, ts, gameID, "Ben")
}

func TestMoveScoringAndTurnOrder(t *testing.T) {
	srv := New(store.NewMemoryStore(), nil, testDictionary{"cat": true, "at": true}, config.Default())

	state := game.NewState("game-1")
	state.Bag = riggedBag(t, "C", "A", "T", "D", "D", "D", "D", "Z", "O", "A", "T", "E", "E", "E")
	if _, err := state.AddPlayer("Ada", "CODEA1", "ada"); err != nil {
		t.Fatalf("add player: %v", err)
	}
	if _, err := state.AddPlayer("Ben", "CODEB1", "ben"); err != nil {
		t.Fatalf("add player: %v", err)
	}
	seedGame(t, srv, state)

	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	// CAT through the centre square doubles the word.
	resp := doRequest(t, ts, http.MethodPost, "/api/games/game-1/move", map[string]any{
		"player_id": "ada",
		"code":      "CODEA1",
		"tiles": []map[string]any{
			{"letter": "C", "x": 6, "y": 7},
			{"letter": "A", "x": 7, "y": 7},
			{"letter": "T", "x": 8, "y": 7},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if score := int(body["score"].(float64)); score != 10 {
		t.Fatalf("expected score 10, got %d", score)
	}
	words := body["words"].([]any)
	if len(words) != 1 || words[0].(string) != "CAT" {
		t.Fatalf("expected words [CAT], got %v", words)
	}
	snapshot := body["game"].(map[string]any)
	if turn := int(snapshot["turn_index"].(float64)); turn != 1 {
		t.Fatalf("expected turn to pass to player 1, got %d", turn)
	}

	// Ada again, out of turn.
	resp = doRequest(t, ts, http.MethodPost, "/api/games/game-1/move", map[string]any{
		"player_id": "ada",
		"code":      "CODEA1",
		"tiles":     []map[string]any{{"letter": "D", "x": 0, "y": 0}},
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d out of turn, got %d", http.StatusConflict, resp.StatusCode)
	}

	// Ben with the wrong code.
	resp = doRequest(t, ts, http.MethodPost, "/api/games/game-1/move", map[string]any{
		"player_id": "ben",
		"code":      "WRONG1",
		"tiles":     []map[string]any{{"letter": "Z", "x": 0, "y": 0}},
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected status %d for a wrong code, got %d", http.StatusForbidden, resp.StatusCode)
	}

	// ZO is not in the dictionary; nothing may be written.
	resp = doRequest(t, ts, http.MethodPost, "/api/games/game-1/move", map[string]any{
		"player_id": "ben",
		"code":      "CODEB1",
		"tiles": []map[string]any{
			{"letter": "Z", "x": 0, "y": 0},
			{"letter": "O", "x": 1, "y": 0},
		},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d for an invalid word, got %d", http.StatusBadRequest, resp.StatusCode)
	}
	body = decodeBody(t, resp)
	if body["word"].(string) != "ZO" {
		t.Fatalf("expected the rejected word ZO, got %v", body["word"])
	}
	snapshot = fetchSnapshot(t, ts, "game-1")
	if history := snapshot["history"].([]any); len(history) != 1 {
		t.Fatalf("expected history untouched after rejection, got %d entries", len(history))
	}

	// AT lands on a triple-word square.
	resp = doRequest(t, ts, http.MethodPost, "/api/games/game-1/move", map[string]any{
		"player_id": "ben",
		"code":      "CODEB1",
		"tiles": []map[string]any{
			{"letter": "A", "x": 0, "y": 0},
			{"letter": "T", "x": 1, "y": 0},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	body = decodeBody(t, resp)
	if score := int(body["score"].(float64)); score != 6 {
		t.Fatalf("expected score 6, got %d", score)
	}
	snapshot = body["game"].(map[string]any)
	if turn := int(snapshot["turn_index"].(float64)); turn != 0 {
		t.Fatalf("expected turn back to player 0, got %d", turn)
	}
}

func TestJoinAdmission(t *testing.T) {
	srv := New(store.NewMemoryStore(), nil, PermissiveDictionary{}, config.Default())
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	gameID := createGame(t, ts)
	adaID, adaCode := joinPlayer(t, ts, gameID, "Ada")
	joinPlayer(t, ts, gameID, "Ben")

	resp := doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/pass", map[string]string{
		"player_id": adaID,
		"code":      adaCode,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d for pass, got %d", http.StatusOK, resp.StatusCode)
	}

	// One turn taken, two seats filled: late joiners still fit.
	joinPlayer(t, ts, gameID, "Cara")
	joinPlayer(t, ts, gameID, "Dave")

	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/join", map[string]string{
		"name": "Eve",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected status %d at the seat cap, got %d", http.StatusForbidden, resp.StatusCode)
	}
}

func TestJoinBarredAfterFullRound(t *testing.T) {
	srv := New(store.NewMemoryStore(), nil, PermissiveDictionary{}, config.Default())
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	gameID := createGame(t, ts)
	adaID, adaCode := joinPlayer(t, ts, gameID, "Ada")
	benID, benCode := joinPlayer(t, ts, gameID, "Ben")

	for _, turn := range []struct{ id, code string }{{adaID, adaCode}, {benID, benCode}} {
		resp := doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/pass", map[string]string{
			"player_id": turn.id,
			"code":      turn.code,
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected status %d for pass, got %d", http.StatusOK, resp.StatusCode)
		}
	}

	resp := doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/join", map[string]string{
		"name": "Cara",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected status %d once every player has moved, got %d", http.StatusForbidden, resp.StatusCode)
	}
}

func TestResignEndsGame(t *testing.T) {
	srv := New(store.NewMemoryStore(), nil, PermissiveDictionary{}, config.Default())
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	gameID := createGame(t, ts)
	joinPlayer(t, ts, gameID, "Ada")
	benID, benCode := joinPlayer(t, ts, gameID, "Ben")

	// Ben resigns although it is Ada's turn.
	resp := doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/resign", map[string]string{
		"player_id": benID,
		"code":      benCode,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d for resign, got %d", http.StatusOK, resp.StatusCode)
	}

	snapshot := fetchSnapshot(t, ts, gameID)
	if snapshot["phase"].(string) != game.PhaseEnded {
		t.Fatalf("expected phase %s, got %v", game.PhaseEnded, snapshot["phase"])
	}
	if snapshot["end_status"].(string) != "Ben resigned" {
		t.Fatalf("unexpected end status %v", snapshot["end_status"])
	}
}

func TestCreateGameRateLimited(t *testing.T) {
	cfg := config.Default()
	cfg.CreateGamesPerMinute = 2
	srv := New(store.NewMemoryStore(), nil, PermissiveDictionary{}, cfg)
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	createGame(t, ts)
	createGame(t, ts)
	resp := doRequest(t, ts, http.MethodPost, "/api/games", nil)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected status %d, got %d", http.StatusTooManyRequests, resp.StatusCode)
	}
}

func TestGameNotFound(t *testing.T) {
	srv := New(store.NewMemoryStore(), nil, PermissiveDictionary{}, config.Default())
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	resp := doRequest(t, ts, http.MethodGet, "/api/games/no-such-game", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}
