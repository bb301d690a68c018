package game

const BoardSize = 15

type MultiplierKind string

const (
	MultiplierNone   MultiplierKind = "none"
	MultiplierLetter MultiplierKind = "letter"
	MultiplierWord   MultiplierKind = "word"
)

type Axis string

const (
	Horizontal Axis = "horizontal"
	Vertical   Axis = "vertical"
)

// premiumLayout encodes the classic premium-square pattern. T and D are
// triple/double word squares, t and d triple/double letter squares, * the
// center star (a double-word square).
var premiumLayout = [BoardSize]string{
	"T..d...T...d..T",
	".D...t...t...D.",
	"..D...d.d...D..",
	"d..D...d...D..d",
	"....D.....D....",
	".t...t...t...t.",
	"..d...d.d...d..",
	"T..d...*...d..T",
	"..d...d.d...d..",
	".t...t...t...t.",
	"....D.....D....",
	"d..D...d...D..d",
	"..D...d.d...D..",
	".D...t...t...D.",
	"T..d...T...d..T",
}

// Square identity is fixed at board construction; only cell occupancy changes,
// and occupancy is always derived from history.
type Square struct {
	X      int            `json:"x"`
	Y      int            `json:"y"`
	Kind   MultiplierKind `json:"kind"`
	Factor int            `json:"factor"`
	Center bool           `json:"center,omitempty"`
}

type CellState int

const (
	CellEmpty CellState = iota
	CellCommitted
)

// Cell is the occupancy of one position. Staged tiles never land in cells;
// they ride alongside as an overlay until the move commits to history.
type Cell struct {
	State CellState
	Tile  Tile
}

type PlacedTile struct {
	Tile
	X int `json:"x"`
	Y int `json:"y"`
}

type Board struct {
	squares [BoardSize][BoardSize]Square
	cells   [BoardSize][BoardSize]Cell
}

func NewBoard() *Board {
	b := &Board{}
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			b.squares[y][x] = squareFromLayout(x, y)
		}
	}
	return b
}

func squareFromLayout(x, y int) Square {
	sq := Square{X: x, Y: y, Kind: MultiplierNone, Factor: 1}
	switch premiumLayout[y][x] {
	case 'T':
		sq.Kind, sq.Factor = MultiplierWord, 3
	case 'D':
		sq.Kind, sq.Factor = MultiplierWord, 2
	case 't':
		sq.Kind, sq.Factor = MultiplierLetter, 3
	case 'd':
		sq.Kind, sq.Factor = MultiplierLetter, 2
	case '*':
		sq.Kind, sq.Factor, sq.Center = MultiplierWord, 2, true
	}
	return sq
}

func InBounds(x, y int) bool {
	return x >= 0 && x < BoardSize && y >= 0 && y < BoardSize
}

func (b *Board) Square(x, y int) Square {
	return b.squares[y][x]
}

func (b *Board) Cell(x, y int) Cell {
	return b.cells[y][x]
}

// PlaceCommitted records a history tile on the board. Later placements win,
// matching replay order.
func (b *Board) PlaceCommitted(p PlacedTile) {
	if !InBounds(p.X, p.Y) {
		return
	}
	b.cells[p.Y][p.X] = Cell{State: CellCommitted, Tile: p.Tile}
}

// CommittedTiles lists the occupied cells in row-major order.
func (b *Board) CommittedTiles() []PlacedTile {
	var tiles []PlacedTile
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			cell := b.cells[y][x]
			if cell.State == CellCommitted {
				tiles = append(tiles, PlacedTile{Tile: cell.Tile, X: x, Y: y})
			}
		}
	}
	return tiles
}
