package game

import (
	"fmt"
	"strings"
)

// Word is one line formed by a move: the assembled text and the ordered cells
// that spell it.
type Word struct {
	Text  string       `json:"text"`
	Axis  Axis         `json:"axis"`
	Cells []PlacedTile `json:"cells"`
}

type coord struct {
	x, y int
}

// LocateWords derives every word a set of staged tiles forms against the
// board: the main line through the staged tiles plus one perpendicular word
// per staged tile. With a single staged tile the main axis is ambiguous, so
// both axes are probed. Lines of length one are not words.
func LocateWords(b *Board, staged []PlacedTile) []Word {
	if len(staged) == 0 {
		return nil
	}
	overlay := stagedIndex(staged)

	var words []Word
	seen := make(map[string]struct{})
	add := func(w Word, ok bool) {
		if !ok {
			return
		}
		// Keyed on the walk result, not the text alone, so the same word at
		// two positions is kept while re-walking one line is suppressed.
		start := w.Cells[0]
		key := fmt.Sprintf("%s:%d:%d:%s", w.Axis, start.X, start.Y, w.Text)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		words = append(words, w)
	}

	if len(staged) == 1 {
		seed := staged[0]
		add(walkLine(b, overlay, seed.X, seed.Y, Horizontal))
		add(walkLine(b, overlay, seed.X, seed.Y, Vertical))
		return words
	}

	axis := Horizontal
	if sameColumn(staged) {
		axis = Vertical
	}
	first := staged[0]
	add(walkLine(b, overlay, first.X, first.Y, axis))

	cross := perpendicular(axis)
	for _, p := range staged {
		add(walkLine(b, overlay, p.X, p.Y, cross))
	}
	return words
}

// walkLine walks backward from the seed while the preceding cell is occupied,
// then forward collecting cells until an empty cell or the grid edge. Staged
// tiles take precedence over committed ones at the same position.
func walkLine(b *Board, overlay map[coord]Tile, x, y int, axis Axis) (Word, bool) {
	dx, dy := axisDeltas(axis)

	sx, sy := x, y
	for InBounds(sx-dx, sy-dy) {
		if _, ok := tileAt(b, overlay, sx-dx, sy-dy); !ok {
			break
		}
		sx, sy = sx-dx, sy-dy
	}

	var cells []PlacedTile
	var text strings.Builder
	cx, cy := sx, sy
	for InBounds(cx, cy) {
		tile, ok := tileAt(b, overlay, cx, cy)
		if !ok {
			break
		}
		cells = append(cells, PlacedTile{Tile: tile, X: cx, Y: cy})
		text.WriteString(tile.Letter)
		cx, cy = cx+dx, cy+dy
	}

	if len(cells) < 2 {
		return Word{}, false
	}
	return Word{Text: text.String(), Axis: axis, Cells: cells}, true
}

func tileAt(b *Board, overlay map[coord]Tile, x, y int) (Tile, bool) {
	if tile, ok := overlay[coord{x, y}]; ok {
		return tile, true
	}
	cell := b.Cell(x, y)
	if cell.State == CellCommitted {
		return cell.Tile, true
	}
	return Tile{}, false
}

func stagedIndex(staged []PlacedTile) map[coord]Tile {
	overlay := make(map[coord]Tile, len(staged))
	for _, p := range staged {
		overlay[coord{p.X, p.Y}] = p.Tile
	}
	return overlay
}

func sameColumn(staged []PlacedTile) bool {
	for _, p := range staged[1:] {
		if p.X != staged[0].X {
			return false
		}
	}
	return true
}

func perpendicular(axis Axis) Axis {
	if axis == Horizontal {
		return Vertical
	}
	return Horizontal
}

func axisDeltas(axis Axis) (int, int) {
	if axis == Horizontal {
		return 1, 0
	}
	return 0, 1
}
