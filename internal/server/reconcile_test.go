package server

import (
	"context"
	"encoding/json"
	"testing"

	"crossletters/internal/config"
	"crossletters/internal/game"
	"crossletters/internal/store"
)

func newRepairServer() *Server {
	return New(store.NewMemoryStore(), nil, PermissiveDictionary{}, config.Default())
}

func seededTwoPlayerState(t *testing.T, srv *Server, id string) (*game.State, string) {
	t.Helper()
	state := game.NewState(id)
	if _, err := state.AddPlayer("Ada", "CODEA1", "ada"); err != nil {
		t.Fatalf("add player: %v", err)
	}
	if _, err := state.AddPlayer("Ben", "CODEB1", "ben"); err != nil {
		t.Fatalf("add player: %v", err)
	}
	token := seedGame(t, srv, state)
	return state, token
}

func TestLoadRepairsBagDrift(t *testing.T) {
	srv := newRepairServer()
	state, token := seededTwoPlayerState(t, srv, "game-1")

	// Drop ten tiles so the stored bag no longer accounts for the economy.
	state.Bag = state.Bag[10:]
	payload, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("marshal state: %v", err)
	}
	token, err = srv.docs.Write(context.Background(), "game-1", payload, token, "inject drift")
	if err != nil {
		t.Fatalf("write drifted state: %v", err)
	}

	repaired, newToken, err := srv.loadAndRepair(context.Background(), "game-1")
	if err != nil {
		t.Fatalf("load and repair: %v", err)
	}
	expected := game.ExpectedBag(repaired.Players, repaired.History)
	if !game.BagMatches(repaired.Bag, expected) {
		t.Fatalf("bag still drifted after repair")
	}
	if len(repaired.Bag) != 86 {
		t.Fatalf("expected 86 bagged tiles, got %d", len(repaired.Bag))
	}
	if newToken == token {
		t.Fatalf("expected the repair to be written back under a new token")
	}

	// The store holds the repaired document now.
	stored, storedToken, err := srv.docs.Read(context.Background(), "game-1")
	if err != nil {
		t.Fatalf("read store: %v", err)
	}
	if storedToken != newToken {
		t.Fatalf("expected store token %s, got %s", newToken, storedToken)
	}
	reread := &game.State{}
	if err := json.Unmarshal(stored, reread); err != nil {
		t.Fatalf("unmarshal stored state: %v", err)
	}
	if !game.BagMatches(reread.Bag, expected) {
		t.Fatalf("stored bag still drifted")
	}
}

func TestLoadTopsUpShortRacks(t *testing.T) {
	srv := newRepairServer()
	state, token := seededTwoPlayerState(t, srv, "game-1")

	state.Players[0].Rack = state.Players[0].Rack[:3]
	payload, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("marshal state: %v", err)
	}
	if _, err := srv.docs.Write(context.Background(), "game-1", payload, token, "truncate rack"); err != nil {
		t.Fatalf("write state: %v", err)
	}

	repaired, _, err := srv.loadAndRepair(context.Background(), "game-1")
	if err != nil {
		t.Fatalf("load and repair: %v", err)
	}
	if got := len(repaired.Players[0].Rack); got != game.RackSize {
		t.Fatalf("expected rack topped up to %d, got %d", game.RackSize, got)
	}
	expected := game.ExpectedBag(repaired.Players, repaired.History)
	if !game.BagMatches(repaired.Bag, expected) {
		t.Fatalf("bag drifted after top-up")
	}
}

func TestCleanLoadKeepsToken(t *testing.T) {
	srv := newRepairServer()
	_, token := seededTwoPlayerState(t, srv, "game-1")

	_, loadedToken, err := srv.loadAndRepair(context.Background(), "game-1")
	if err != nil {
		t.Fatalf("load and repair: %v", err)
	}
	if loadedToken != token {
		t.Fatalf("expected a clean load to keep token %s, got %s", token, loadedToken)
	}
}

func TestStoredBoardFieldIgnored(t *testing.T) {
	srv := newRepairServer()
	state, token := seededTwoPlayerState(t, srv, "game-1")

	// Older documents carried a persisted board; it must not survive decoding.
	raw := map[string]any{}
	payload, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("marshal state: %v", err)
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		t.Fatalf("unmarshal state: %v", err)
	}
	raw["board"] = []map[string]any{{"letter": "Q", "x": 3, "y": 3}}
	payload, err = json.Marshal(raw)
	if err != nil {
		t.Fatalf("marshal raw state: %v", err)
	}
	token, err = srv.docs.Write(context.Background(), "game-1", payload, token, "legacy board field")
	if err != nil {
		t.Fatalf("write state: %v", err)
	}

	loaded, loadedToken, err := srv.loadAndRepair(context.Background(), "game-1")
	if err != nil {
		t.Fatalf("load and repair: %v", err)
	}
	if tiles := loaded.Replay().CommittedTiles(); len(tiles) != 0 {
		t.Fatalf("expected an empty replayed board, got %d tiles", len(tiles))
	}
	if loadedToken != token {
		t.Fatalf("expected no repair write, token moved from %s to %s", token, loadedToken)
	}
}

func TestEndedGameNotRepaired(t *testing.T) {
	srv := newRepairServer()
	state, token := seededTwoPlayerState(t, srv, "game-1")

	state.Phase = game.PhaseEnded
	state.EndStatus = "Ada resigned"
	state.Bag = state.Bag[10:]
	payload, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("marshal state: %v", err)
	}
	token, err = srv.docs.Write(context.Background(), "game-1", payload, token, "ended with drift")
	if err != nil {
		t.Fatalf("write state: %v", err)
	}

	loaded, loadedToken, err := srv.loadAndRepair(context.Background(), "game-1")
	if err != nil {
		t.Fatalf("load and repair: %v", err)
	}
	if loadedToken != token {
		t.Fatalf("expected an ended game to load untouched")
	}
	if len(loaded.Bag) != 76 {
		t.Fatalf("expected the drifted bag left alone, got %d tiles", len(loaded.Bag))
	}
}
