package server

import (
	"errors"
	"fmt"
	"strings"

	"crossletters/internal/game"
)

const (
	maxNameLength = 20
	maxSwapTiles  = game.RackSize
)

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("name is required")
	}
	if len(name) > maxNameLength {
		return "", fmt.Errorf("name must be at most %d characters", maxNameLength)
	}
	for _, r := range name {
		if r < ' ' || r == 0x7f {
			return "", errors.New("name contains invalid characters")
		}
	}
	return name, nil
}

// validateStagedTiles turns the wire form into engine placements: bounds
// checked, positions distinct, letters playable, blanks carrying an assigned
// letter.
func validateStagedTiles(inputs []tileInput) ([]game.PlacedTile, error) {
	if len(inputs) == 0 {
		return nil, errors.New("a move requires at least one tile")
	}
	if len(inputs) > game.RackSize {
		return nil, fmt.Errorf("a move may place at most %d tiles", game.RackSize)
	}
	staged := make([]game.PlacedTile, 0, len(inputs))
	used := make(map[[2]int]struct{}, len(inputs))
	for _, input := range inputs {
		if !game.InBounds(input.X, input.Y) {
			return nil, fmt.Errorf("tile position %d,%d is off the board", input.X, input.Y)
		}
		pos := [2]int{input.X, input.Y}
		if _, dup := used[pos]; dup {
			return nil, fmt.Errorf("two tiles share position %d,%d", input.X, input.Y)
		}
		used[pos] = struct{}{}

		letter := strings.ToUpper(strings.TrimSpace(input.Letter))
		if letter == game.BlankLetter || !game.IsPlayableLetter(letter) {
			return nil, fmt.Errorf("letter %q is not playable", input.Letter)
		}
		tile := game.NewTile(letter)
		if input.Blank {
			tile = game.NewTile(game.BlankLetter).AssignBlank(letter)
		}
		staged = append(staged, game.PlacedTile{Tile: tile, X: input.X, Y: input.Y})
	}
	return staged, nil
}

func validateSwapLetters(letters []string) ([]string, error) {
	if len(letters) == 0 {
		return nil, errors.New("swap requires at least one tile")
	}
	if len(letters) > maxSwapTiles {
		return nil, fmt.Errorf("swap may exchange at most %d tiles", maxSwapTiles)
	}
	cleaned := make([]string, 0, len(letters))
	for _, letter := range letters {
		letter = strings.ToUpper(strings.TrimSpace(letter))
		if !game.IsPlayableLetter(letter) {
			return nil, fmt.Errorf("letter %q is not swappable", letter)
		}
		cleaned = append(cleaned, letter)
	}
	return cleaned, nil
}
