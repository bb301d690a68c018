package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"crossletters/internal/game"
	"crossletters/internal/store"
)

// repairAttempts bounds the retry loop when a repair write races another
// writer; each retry starts over from a fresh read.
const repairAttempts = 3

// loadAndRepair reads a game and self-heals it before anyone acts on it: the
// board is replayed from history (any persisted board field is ignored on
// decode), bag drift against the tile economy is corrected, and short racks
// are topped up. If anything changed the repaired state is written back and
// the caller gets the post-write token, never the stale one.
func (s *Server) loadAndRepair(ctx context.Context, id string) (*game.State, string, error) {
	for attempt := 0; attempt < repairAttempts; attempt++ {
		payload, token, err := s.docs.Read(ctx, id)
		if err != nil {
			return nil, "", err
		}
		state := &game.State{}
		if err := json.Unmarshal(payload, state); err != nil {
			return nil, "", fmt.Errorf("game %s is corrupt: %w", id, err)
		}

		repairs := repairState(state)
		if len(repairs) == 0 {
			return state, token, nil
		}

		description := "system repair: " + strings.Join(repairs, ", ")
		log.Printf("state repaired game_id=%s repairs=%q", id, repairs)
		newToken, err := s.writeState(ctx, id, state, token, description)
		if errors.Is(err, store.ErrConflict) {
			// Someone else wrote first; their state supersedes this repair.
			continue
		}
		if err != nil {
			return nil, "", err
		}
		return state, newToken, nil
	}
	return nil, "", store.ErrConflict
}

// repairState applies the in-memory corrections and reports what changed.
func repairState(state *game.State) []string {
	var repairs []string
	if state.Phase != game.PhasePlaying {
		return nil
	}
	expected := game.ExpectedBag(state.Players, state.History)
	if !game.BagMatches(state.Bag, expected) {
		game.ShuffleTiles(expected)
		state.Bag = expected
		repairs = append(repairs, "bag drift corrected")
	}
	if state.FillRacks() {
		repairs = append(repairs, "racks replenished")
	}
	return repairs
}

func (s *Server) writeState(ctx context.Context, id string, state *game.State, expectedToken, description string) (string, error) {
	payload, err := json.Marshal(state)
	if err != nil {
		return "", err
	}
	return s.docs.Write(ctx, id, payload, expectedToken, description)
}
