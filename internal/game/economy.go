package game

// ExpectedBag derives the bag that must exist for tile conservation to hold:
// the canonical distribution minus every tile held on a rack or played in
// history, counted by letter class. Assigned blanks count as blanks.
func ExpectedBag(players []Player, history []PlayedWord) []Tile {
	remaining := make(map[string]int, len(letterCounts))
	for letter, count := range letterCounts {
		remaining[letter] = count
	}
	for _, player := range players {
		for _, tile := range player.Rack {
			remaining[tile.ClassLetter()]--
		}
	}
	for _, entry := range history {
		for _, placed := range entry.Tiles {
			remaining[placed.ClassLetter()]--
		}
	}

	var bag []Tile
	for _, letter := range letterOrder() {
		// Negative remainders mean more tiles in play than the distribution
		// allows; the class is simply exhausted in the corrected bag.
		for i := 0; i < remaining[letter]; i++ {
			bag = append(bag, NewTile(letter))
		}
	}
	return bag
}

// BagMatches compares two bags by per-letter-class count; order never matters.
func BagMatches(bag, expected []Tile) bool {
	return classCountsEqual(countByClass(bag), countByClass(expected))
}

// CorrectedBag returns a freshly shuffled instance of the expected multiset.
func CorrectedBag(players []Player, history []PlayedWord) []Tile {
	bag := ExpectedBag(players, history)
	ShuffleTiles(bag)
	return bag
}

func countByClass(tiles []Tile) map[string]int {
	counts := make(map[string]int)
	for _, tile := range tiles {
		counts[tile.ClassLetter()]++
	}
	return counts
}

func classCountsEqual(a, b map[string]int) bool {
	if len(a) != len(b) {
		return false
	}
	for letter, count := range a {
		if b[letter] != count {
			return false
		}
	}
	return true
}
