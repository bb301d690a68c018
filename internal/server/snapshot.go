package server

import (
	"crossletters/internal/game"
)

// snapshotState renders a state for one viewer. Only the viewer's own rack is
// exposed; everyone else's is a count, and join codes never leave the server.
func snapshotState(state *game.State, viewerID string) map[string]any {
	players := make([]map[string]any, 0, len(state.Players))
	for _, player := range state.Players {
		entry := map[string]any{
			"id":         player.ID,
			"name":       player.Name,
			"score":      player.Score,
			"rack_count": len(player.Rack),
		}
		if player.Computer {
			entry["computer"] = true
		}
		if player.ID == viewerID {
			entry["rack"] = rackLetters(player.Rack)
		}
		players = append(players, entry)
	}

	snapshot := map[string]any{
		"id":             state.ID,
		"phase":          state.Phase,
		"players":        players,
		"bag_count":      len(state.Bag),
		"board":          boardTiles(state),
		"history":        historyEntries(state.History),
		"turn_index":     state.TurnIndex(),
		"created_at":     state.CreatedAt,
	}
	if current := state.CurrentPlayer(); current != nil && state.Phase == game.PhasePlaying {
		snapshot["current_player_id"] = current.ID
	}
	if state.EndStatus != "" {
		snapshot["end_status"] = state.EndStatus
	}
	return snapshot
}

func rackLetters(rack []game.Tile) []map[string]any {
	letters := make([]map[string]any, 0, len(rack))
	for _, tile := range rack {
		letters = append(letters, map[string]any{
			"letter": tile.Letter,
			"points": tile.Points,
		})
	}
	return letters
}

func boardTiles(state *game.State) []map[string]any {
	committed := state.Replay().CommittedTiles()
	tiles := make([]map[string]any, 0, len(committed))
	for _, placed := range committed {
		entry := map[string]any{
			"letter": placed.Letter,
			"points": placed.Points,
			"x":      placed.X,
			"y":      placed.Y,
		}
		if placed.IsBlank() {
			entry["blank"] = true
		}
		tiles = append(tiles, entry)
	}
	return tiles
}

func historyEntries(history []game.PlayedWord) []map[string]any {
	entries := make([]map[string]any, 0, len(history))
	for _, played := range history {
		entry := map[string]any{
			"player_id":   played.PlayerID,
			"player_name": played.PlayerName,
			"score":       played.Score,
			"played_at":   played.PlayedAt,
		}
		switch {
		case played.Pass:
			entry["pass"] = true
		case played.Swap:
			entry["swap"] = true
		case played.Resign:
			entry["resign"] = true
		default:
			entry["word"] = played.Word
			entry["tiles"] = len(played.Tiles)
		}
		entries = append(entries, entry)
	}
	return entries
}
