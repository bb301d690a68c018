package game

// MoveScore is the outcome of scoring one staged placement.
type MoveScore struct {
	Score int    `json:"score"`
	Words []Word `json:"words"`
	Bingo bool   `json:"bingo"`
}

// ScoreMove scores the staged tiles against the board. Letter and word
// multipliers apply only on squares receiving a tile this move; committed
// tiles contribute their face value. Playing a full rack of seven adds the
// bingo bonus on top of the word total.
func ScoreMove(b *Board, staged []PlacedTile) MoveScore {
	words := LocateWords(b, staged)
	overlay := stagedIndex(staged)

	total := 0
	for _, w := range words {
		points, hasStaged := scoreWord(b, overlay, w)
		if !hasStaged {
			// A line made entirely of committed tiles earned its points in a
			// past move.
			continue
		}
		total += points
	}

	bingo := len(staged) == RackSize
	if bingo {
		total += BingoBonus
	}
	return MoveScore{Score: total, Words: words, Bingo: bingo}
}

func scoreWord(b *Board, overlay map[coord]Tile, w Word) (int, bool) {
	sum := 0
	multiplier := 1
	hasStaged := false
	for _, cell := range w.Cells {
		points := cell.Tile.Points
		if _, isStaged := overlay[coord{cell.X, cell.Y}]; isStaged {
			hasStaged = true
			sq := b.Square(cell.X, cell.Y)
			switch sq.Kind {
			case MultiplierLetter:
				points *= sq.Factor
			case MultiplierWord:
				multiplier *= sq.Factor
			}
		}
		sum += points
	}
	return sum * multiplier, hasStaged
}
