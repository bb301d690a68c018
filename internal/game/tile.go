package game

import (
	"crypto/rand"
	"math/big"
	"sort"
)

const (
	// BlankLetter marks a blank tile that has not been assigned a letter.
	BlankLetter = "_"
	RackSize    = 7
	BingoBonus  = 50
)

// letterValues follows the standard English distribution. Blanks score zero
// even after they are assigned a letter.
var letterValues = map[string]int{
	"A": 1, "B": 3, "C": 3, "D": 2, "E": 1, "F": 4, "G": 2, "H": 4,
	"I": 1, "J": 8, "K": 5, "L": 1, "M": 3, "N": 1, "O": 1, "P": 3,
	"Q": 10, "R": 1, "S": 1, "T": 1, "U": 1, "V": 4, "W": 4, "X": 8,
	"Y": 4, "Z": 10, BlankLetter: 0,
}

// letterCounts is the canonical starting multiset: 100 tiles including two
// blanks. The tile-economy validator measures every game against it.
var letterCounts = map[string]int{
	"A": 9, "B": 2, "C": 2, "D": 4, "E": 12, "F": 2, "G": 3, "H": 2,
	"I": 9, "J": 1, "K": 1, "L": 4, "M": 2, "N": 6, "O": 8, "P": 2,
	"Q": 1, "R": 6, "S": 4, "T": 6, "U": 4, "V": 2, "W": 2, "X": 1,
	"Y": 2, "Z": 1, BlankLetter: 2,
}

type Tile struct {
	Letter string `json:"letter"`
	Points int    `json:"points"`
	// OriginalLetter is set when a blank is assigned a letter: the tile plays
	// and displays as Letter but keeps its blank identity for accounting.
	OriginalLetter string `json:"original_letter,omitempty"`
}

func NewTile(letter string) Tile {
	return Tile{Letter: letter, Points: letterValues[letter]}
}

// AssignBlank returns the blank playing as the given letter. The result still
// scores zero.
func (t Tile) AssignBlank(letter string) Tile {
	if t.Letter != BlankLetter {
		return t
	}
	return Tile{Letter: letter, Points: 0, OriginalLetter: BlankLetter}
}

// ClassLetter is the letter class used for tile accounting: an assigned blank
// counts as a blank, never as the letter it plays.
func (t Tile) ClassLetter() string {
	if t.OriginalLetter != "" {
		return t.OriginalLetter
	}
	return t.Letter
}

// IsBlank reports whether the tile is a blank, assigned or not.
func (t Tile) IsBlank() bool {
	return t.Letter == BlankLetter || t.OriginalLetter == BlankLetter
}

// IsPlayableLetter reports whether letter is a single A-Z character or the
// blank marker.
func IsPlayableLetter(letter string) bool {
	if letter == BlankLetter {
		return true
	}
	if len(letter) != 1 {
		return false
	}
	return letter[0] >= 'A' && letter[0] <= 'Z'
}

// FullDistribution returns the canonical 100-tile multiset in stable letter
// order.
func FullDistribution() []Tile {
	tiles := make([]Tile, 0, distributionSize())
	for _, letter := range letterOrder() {
		for i := 0; i < letterCounts[letter]; i++ {
			tiles = append(tiles, NewTile(letter))
		}
	}
	return tiles
}

// ShuffledBag returns a freshly shuffled full distribution.
func ShuffledBag() []Tile {
	bag := FullDistribution()
	ShuffleTiles(bag)
	return bag
}

// ShuffleTiles shuffles in place using crypto/rand so bag order is never
// reproducible across games.
func ShuffleTiles(tiles []Tile) {
	for i := len(tiles) - 1; i > 0; i-- {
		j := randomIntN(i + 1)
		tiles[i], tiles[j] = tiles[j], tiles[i]
	}
}

func randomIntN(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

func distributionSize() int {
	total := 0
	for _, count := range letterCounts {
		total += count
	}
	return total
}

func letterOrder() []string {
	letters := make([]string, 0, len(letterCounts))
	for letter := range letterCounts {
		letters = append(letters, letter)
	}
	sort.Strings(letters)
	return letters
}
