package material

import (
	"fmt"
	"strings"
)

// Placement pins a piece to a fixed square: used for frozen pieces in a
// Configuration. Mobile pieces do not use Placement because their square
// varies across the positions of a configuration; see PieceSpec.
type Placement struct {
	Square Square
	Color  Color
	Piece  Piece
}

func (p Placement) String() string {
	return fmt.Sprintf("%v@%v", printPiece(p.Color, p.Piece), p.Square)
}

// PieceSpec names a mobile piece's color and kind; its square varies across
// the positions of a Configuration.
type PieceSpec struct {
	Color Color
	Piece Piece
}

func (p PieceSpec) String() string {
	return printPiece(p.Color, p.Piece)
}

func printPiece(c Color, p Piece) string {
	s := string(p.Letter())
	if c == White {
		return strings.ToUpper(s)
	}
	return s
}
