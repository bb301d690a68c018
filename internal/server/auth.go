package server

import (
	"crypto/subtle"
	"errors"
	"strings"

	"crossletters/internal/game"
)

// authenticatePlayer resolves a player by id and verifies their secret join
// code with a constant-time comparison.
func authenticatePlayer(state *game.State, playerID, code string) (*game.Player, error) {
	if strings.TrimSpace(playerID) == "" {
		return nil, errors.New("player_id is required")
	}
	player := state.PlayerByID(playerID)
	if player == nil {
		return nil, errors.New("player not found")
	}
	if !codeMatches(player.JoinCode, code) {
		return nil, errors.New("invalid join code")
	}
	return player, nil
}

func codeMatches(expected, provided string) bool {
	provided = strings.TrimSpace(provided)
	if expected == "" || provided == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) == 1
}
