package game

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	PhasePlaying = "playing"
	PhaseEnded   = "ended"

	MaxPlayers = 4
)

var (
	ErrGameEnded     = errors.New("game has ended")
	ErrNotYourTurn   = errors.New("not this player's turn")
	ErrPlayerUnknown = errors.New("player not in game")
	ErrTileNotInRack = errors.New("tile not in rack")
	ErrBagTooSmall   = errors.New("bag has too few tiles to swap")
)

type Player struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	Rack     []Tile `json:"rack"`
	JoinCode string `json:"join_code"`
	Computer bool   `json:"computer,omitempty"`
}

// PlayedWord is one append-only history entry. History is the single source of
// truth for board occupancy and turn order; entries are never edited.
type PlayedWord struct {
	PlayerID   string       `json:"player_id"`
	PlayerName string       `json:"player_name"`
	Word       string       `json:"word"`
	Tiles      []PlacedTile `json:"tiles,omitempty"`
	Score      int          `json:"score"`
	Pass       bool         `json:"pass,omitempty"`
	Swap       bool         `json:"swap,omitempty"`
	Resign     bool         `json:"resign,omitempty"`
	PlayedAt   time.Time    `json:"played_at"`
}

// State is the whole persisted game document. The board is deliberately
// absent: occupancy is replayed from History on every load, so a board field
// in a stored document is ignored on decode and never written back.
type State struct {
	ID        string       `json:"id"`
	Players   []Player     `json:"players"`
	Bag       []Tile       `json:"bag"`
	History   []PlayedWord `json:"history"`
	Phase     string       `json:"phase"`
	EndStatus string       `json:"end_status,omitempty"`
	CreatedAt time.Time    `json:"created_at,omitempty"`
}

func NewState(id string) *State {
	return &State{
		ID:        id,
		Players:   []Player{},
		Bag:       ShuffledBag(),
		History:   []PlayedWord{},
		Phase:     PhasePlaying,
		CreatedAt: time.Now().UTC(),
	}
}

// TurnIndex derives the active player from history length alone; there is no
// stored current-player field to fall out of sync.
func (s *State) TurnIndex() int {
	if len(s.Players) == 0 {
		return 0
	}
	return len(s.History) % len(s.Players)
}

func (s *State) CurrentPlayer() *Player {
	if len(s.Players) == 0 {
		return nil
	}
	return &s.Players[s.TurnIndex()]
}

func (s *State) PlayerByID(id string) *Player {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i]
		}
	}
	return nil
}

func (s *State) PlayerByName(name string) *Player {
	for i := range s.Players {
		if strings.EqualFold(s.Players[i].Name, name) {
			return &s.Players[i]
		}
	}
	return nil
}

// CanJoin reports whether a new player of this name may enter: an existing
// name may always rejoin, otherwise there must be a free seat and joining is
// barred once every current player has taken a turn.
func (s *State) CanJoin(name string) bool {
	if s.PlayerByName(name) != nil {
		return true
	}
	if s.Phase != PhasePlaying {
		return false
	}
	if len(s.Players) == 0 {
		return true
	}
	return len(s.Players) < MaxPlayers && len(s.History) < len(s.Players)
}

// AddPlayer seats a new player with a full rack drawn from the bag.
func (s *State) AddPlayer(name, joinCode string, playerID string) (*Player, error) {
	if !s.CanJoin(name) {
		return nil, errors.New("game is closed to new players")
	}
	if existing := s.PlayerByName(name); existing != nil {
		return existing, nil
	}
	player := Player{
		ID:       playerID,
		Name:     name,
		JoinCode: joinCode,
		Rack:     []Tile{},
	}
	s.Players = append(s.Players, player)
	seated := &s.Players[len(s.Players)-1]
	s.fillRack(seated)
	return seated, nil
}

// Replay projects the append-only history onto a fresh board. Two states with
// identical history always produce identical boards.
func (s *State) Replay() *Board {
	return ReplayBoard(s.History)
}

func ReplayBoard(history []PlayedWord) *Board {
	b := NewBoard()
	for _, entry := range history {
		for _, placed := range entry.Tiles {
			b.PlaceCommitted(placed)
		}
	}
	return b
}

// PlayMove removes the staged tiles from the player's rack, scores them
// against the replayed board, appends the history entry and refills the rack.
func (s *State) PlayMove(playerID string, staged []PlacedTile) (MoveScore, error) {
	player, err := s.turnPlayer(playerID)
	if err != nil {
		return MoveScore{}, err
	}
	rack, err := removeFromRack(player.Rack, staged)
	if err != nil {
		return MoveScore{}, err
	}
	player.Rack = rack

	result := ScoreMove(s.Replay(), staged)
	player.Score += result.Score

	s.History = append(s.History, PlayedWord{
		PlayerID:   player.ID,
		PlayerName: player.Name,
		Word:       primaryWord(result.Words),
		Tiles:      staged,
		Score:      result.Score,
		PlayedAt:   time.Now().UTC(),
	})
	s.fillRack(player)

	if len(player.Rack) == 0 && len(s.Bag) == 0 {
		s.Phase = PhaseEnded
		s.EndStatus = fmt.Sprintf("%s played out", player.Name)
	}
	return result, nil
}

// PassTurn appends a pass entry, advancing the derived turn index.
func (s *State) PassTurn(playerID string) error {
	player, err := s.turnPlayer(playerID)
	if err != nil {
		return err
	}
	s.History = append(s.History, PlayedWord{
		PlayerID:   player.ID,
		PlayerName: player.Name,
		Pass:       true,
		PlayedAt:   time.Now().UTC(),
	})
	return nil
}

// SwapTiles exchanges rack tiles for fresh draws. Replacements are drawn
// before the swapped tiles return to the bag, then the bag is reshuffled.
func (s *State) SwapTiles(playerID string, letters []string) error {
	player, err := s.turnPlayer(playerID)
	if err != nil {
		return err
	}
	if len(letters) == 0 || len(letters) > RackSize {
		return errors.New("swap requires between 1 and 7 tiles")
	}
	if len(s.Bag) < len(letters) {
		return ErrBagTooSmall
	}

	removed := make([]Tile, 0, len(letters))
	rack := append([]Tile(nil), player.Rack...)
	for _, letter := range letters {
		index := -1
		for i, tile := range rack {
			if tile.ClassLetter() == letter {
				index = i
				break
			}
		}
		if index < 0 {
			return ErrTileNotInRack
		}
		removed = append(removed, rack[index])
		rack = append(rack[:index], rack[index+1:]...)
	}

	drawn := s.Bag[:len(letters)]
	s.Bag = append(append([]Tile(nil), s.Bag[len(letters):]...), removed...)
	ShuffleTiles(s.Bag)
	player.Rack = append(rack, drawn...)

	s.History = append(s.History, PlayedWord{
		PlayerID:   player.ID,
		PlayerName: player.Name,
		Swap:       true,
		PlayedAt:   time.Now().UTC(),
	})
	return nil
}

// Resign ends the game. Unlike the other moves a player may resign out of
// turn; the game stops, so turn determinism is unaffected.
func (s *State) Resign(playerID string) error {
	if s.Phase != PhasePlaying {
		return ErrGameEnded
	}
	player := s.PlayerByID(playerID)
	if player == nil {
		return ErrPlayerUnknown
	}
	s.History = append(s.History, PlayedWord{
		PlayerID:   player.ID,
		PlayerName: player.Name,
		Resign:     true,
		PlayedAt:   time.Now().UTC(),
	})
	s.Phase = PhaseEnded
	s.EndStatus = fmt.Sprintf("%s resigned", player.Name)
	return nil
}

// FillRacks tops every short rack up to seven, bag permitting. Reports whether
// anything was drawn.
func (s *State) FillRacks() bool {
	changed := false
	for i := range s.Players {
		before := len(s.Players[i].Rack)
		s.fillRack(&s.Players[i])
		if len(s.Players[i].Rack) != before {
			changed = true
		}
	}
	return changed
}

func (s *State) fillRack(player *Player) {
	for len(player.Rack) < RackSize && len(s.Bag) > 0 {
		player.Rack = append(player.Rack, s.Bag[0])
		s.Bag = s.Bag[1:]
	}
}

func (s *State) turnPlayer(playerID string) (*Player, error) {
	if s.Phase != PhasePlaying {
		return nil, ErrGameEnded
	}
	player := s.PlayerByID(playerID)
	if player == nil {
		return nil, ErrPlayerUnknown
	}
	if current := s.CurrentPlayer(); current == nil || current.ID != playerID {
		return nil, ErrNotYourTurn
	}
	return player, nil
}

// removeFromRack takes one rack tile per staged tile, matching assigned blanks
// to blanks and everything else by letter.
func removeFromRack(rack []Tile, staged []PlacedTile) ([]Tile, error) {
	remaining := append([]Tile(nil), rack...)
	for _, placed := range staged {
		wanted := placed.ClassLetter()
		index := -1
		for i, tile := range remaining {
			if tile.ClassLetter() == wanted {
				index = i
				break
			}
		}
		if index < 0 {
			return nil, ErrTileNotInRack
		}
		remaining = append(remaining[:index], remaining[index+1:]...)
	}
	return remaining, nil
}

func primaryWord(words []Word) string {
	if len(words) == 0 {
		return ""
	}
	return words[0].Text
}
