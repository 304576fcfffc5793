package material

// Piece represents a chess piece kind, colorless. 3 bits.
//
// PawnEP is a pawn that just advanced two squares and is therefore
// capturable en passant. It is a distinct kind from Pawn so that pkg/tbbuild's
// move generation can recognize an en passant capture: only a piece declared
// PawnEP is ever captured that way. Predecessor generation (pkg/tbbuild's
// predecessorSquares) treats Pawn and PawnEP alike; it does not restrict a
// PawnEP to having arrived by a two-square jump.
type Piece uint8

const (
	NoPiece Piece = iota
	King
	Queen
	Rook
	Bishop
	Knight
	Pawn
	PawnEP
)

const (
	ZeroPiece Piece = King
	NumPieces Piece = PawnEP + 1
)

func (p Piece) IsValid() bool {
	return King <= p && p <= PawnEP
}

// IsPawn returns true for both Pawn and PawnEP: most material accounting
// (canonical names, point values, promotion eligibility) treats them alike.
func (p Piece) IsPawn() bool {
	return p == Pawn || p == PawnEP
}

func ParsePiece(r rune) (Piece, bool) {
	switch r {
	case 'k', 'K':
		return King, true
	case 'q', 'Q':
		return Queen, true
	case 'r', 'R':
		return Rook, true
	case 'b', 'B':
		return Bishop, true
	case 'n', 'N':
		return Knight, true
	case 'p', 'P':
		return Pawn, true
	default:
		return NoPiece, false
	}
}

func (p Piece) String() string {
	switch p {
	case King:
		return "k"
	case Queen:
		return "q"
	case Rook:
		return "r"
	case Bishop:
		return "b"
	case Knight:
		return "n"
	case Pawn:
		return "p"
	case PawnEP:
		return "p*"
	default:
		return "?"
	}
}

// Value is the point value used for canonical color normalization (spec §6).
// The 0.1 boost of Bishop over Knight exists solely so that a KBK-vs-KN
// material imbalance is consistently filed as KBKN rather than KNKB.
func (p Piece) Value() float64 {
	switch p {
	case Queen:
		return 9
	case Rook:
		return 5
	case Bishop:
		return 3.1
	case Knight:
		return 3
	case Pawn, PawnEP:
		return 1
	default:
		return 0
	}
}

// Letter is the canonical single-letter used in tablebase filenames. Ordered
// list: q r b n p. King never appears in a filename (every configuration has
// exactly one of each).
func (p Piece) Letter() byte {
	switch p {
	case Queen:
		return 'q'
	case Rook:
		return 'r'
	case Bishop:
		return 'b'
	case Knight:
		return 'n'
	case Pawn, PawnEP:
		return 'p'
	default:
		return '?'
	}
}
