// Package tbbuild implements the driver components of spec.md §4.4-4.7: the
// initializer, futurebase back-propagator, intra-table propagator and the
// driver that sequences them.
//
// Grounded on pkg/search/searchctl/iterative.go for the iterative-deepening
// loop shape of the intra-table propagator, and on pkg/board/bitboard.go's
// ray-scanning idiom (generalized to pkg/rays's explicit ray lists) for move
// generation.
package tbbuild

import (
	"github.com/chesstb/tablebase/pkg/material"
	"github.com/chesstb/tablebase/pkg/rays"
	"github.com/chesstb/tablebase/pkg/tbindex"
)

// Move is a single pseudo-legal forward move generated from a Board.
type Move struct {
	PieceIndex int // index into Board.Config.Mobile / Board.Pos.Squares
	From, To   material.Square
	Capture    bool
	EnPassant  bool          // the captured pawn sits elsewhere (rays.EnPassantCapturedSquare)
	Promotion  material.Piece // NoPiece unless this move crosses the promotion rank
	CreatesEP  bool          // a two-square pawn jump: the landing square becomes en-passant-capturable
}

// Leaves reports whether mv takes the configuration outside the current
// table's material (spec.md §4.5: captures and promotions), vs. a move that
// stays within it (intra-table propagation, spec.md §4.6).
func (m Move) Leaves() bool {
	return m.Capture || m.Promotion != material.NoPiece
}

// ForwardMoves enumerates every pseudo-legal move of side's mobile pieces on
// board. illegal is true iff a ray reached the opposing king, in which case
// moves is meaningless and the caller must mark the index Illegal (spec.md
// §4.4 step 2, §9 decision 1).
func ForwardMoves(board tbindex.Board, side material.Color) (moves []Move, illegal bool) {
	occ := board.Occupancy()
	enemy := side.Opponent()

	for i, spec := range board.Config.Mobile {
		if spec.Color != side {
			continue
		}
		from := board.Pos.Squares[i]

		switch {
		case spec.Piece.IsPawn():
			ms, ill := pawnMoves(board, i, from, side, enemy, occ)
			if ill {
				return nil, true
			}
			moves = append(moves, ms...)
		default:
			ms, ill := sliderMoves(board, i, from, spec.Piece, enemy, occ)
			if ill {
				return nil, true
			}
			moves = append(moves, ms...)
		}
	}

	// Frozen pieces never move in this design: a configuration's frozen
	// pieces exist only as blockers/capture targets (spec.md §3's "excluded
	// from state enumeration"). See DESIGN.md's Open Question log for why
	// spec.md §4.4 step 3's "if any are defined as mobile-eligible" is
	// vacuously false here: Configuration has no such flag.

	return moves, false
}

func sliderMoves(board tbindex.Board, idx int, from material.Square, piece material.Piece, enemy material.Color, occ material.Bitboard) ([]Move, bool) {
	var moves []Move
	illegal := false

	rays.For(piece, from, func(r rays.Ray) {
		if illegal {
			return
		}
		empties, blocked := r.Empties(occ)
		for _, step := range empties {
			moves = append(moves, Move{PieceIndex: idx, From: from, To: step.To})
		}
		if blocked == nil {
			return
		}
		color, bpiece, _ := board.At(blocked.To)
		if color != enemy {
			return // own piece: blocked, no move there
		}
		if bpiece == material.King {
			illegal = true
			return
		}
		moves = append(moves, Move{PieceIndex: idx, From: from, To: blocked.To, Capture: true})
	})

	return moves, illegal
}

func pawnMoves(board tbindex.Board, idx int, from material.Square, side, enemy material.Color, occ material.Bitboard) ([]Move, bool) {
	var moves []Move

	push := rays.PawnPush(side, from)
	if len(push) > 0 && !push[0].IsSentinel() && !occ.IsSet(push[0].To) {
		moves = append(moves, promotions(Move{PieceIndex: idx, From: from, To: push[0].To}, side)...)
	}

	jump := rays.PawnJump(side, from)
	if len(jump) > 0 && !jump[0].IsSentinel() {
		skipped := rays.EnPassantSkipped(side, from)
		if !occ.IsSet(skipped) && !occ.IsSet(jump[0].To) {
			moves = append(moves, Move{PieceIndex: idx, From: from, To: jump[0].To, CreatesEP: true})
		}
	}

	towardA, towardH := rays.PawnCaptures(side, from)
	for _, cap := range []rays.Ray{towardA, towardH} {
		if len(cap) == 0 || cap[0].IsSentinel() {
			continue
		}
		to := cap[0].To
		color, piece, ok := board.At(to)
		switch {
		case ok && color == enemy && piece == material.King:
			return nil, true
		case ok && color == enemy:
			moves = append(moves, promotions(Move{PieceIndex: idx, From: from, To: to, Capture: true}, side)...)
		case !ok:
			if epTo, isEP := enPassantTarget(board, side, from, to); isEP && epTo == to {
				moves = append(moves, Move{PieceIndex: idx, From: from, To: to, Capture: true, EnPassant: true})
			}
		}
	}

	return moves, false
}

// enPassantTarget reports whether `to` is a legal en passant destination for
// a pawn of `side` standing on `from`: the captured piece must be declared as
// material.PawnEP, not a plain material.Pawn. Position carries no move
// history, so an ordinary Pawn sitting on the jump-landing rank cannot be
// distinguished from one that double-jumped there many moves ago; only a
// configuration that deliberately declares that mobile piece as PawnEP (spec.md
// §3 — a control file's "pawnep" piece, control.go's Decode) models "this
// specific pawn just double-jumped" for the table's whole scope, which is
// exactly the distinction PawnEP exists to make. A plain Pawn can never be
// captured en passant here.
func enPassantTarget(board tbindex.Board, side material.Color, from, to material.Square) (material.Square, bool) {
	captured := rays.EnPassantCapturedSquare(side, to)
	color, piece, ok := board.At(captured)
	if !ok || color == side || piece != material.PawnEP {
		return 0, false
	}
	if captured.Rank() != jumpLandingRank(side.Opponent()) {
		return 0, false
	}
	return to, true
}

func jumpLandingRank(c material.Color) material.Rank {
	if c == material.White {
		return material.Rank4
	}
	return material.Rank5
}

// promotions expands m into one move per promotion choice if its destination
// is on the promotion rank (each choice is a distinct legal move and, per
// spec.md §6, a distinct futurebase dependency), or returns m unchanged otherwise.
func promotions(m Move, side material.Color) []Move {
	if m.To.Rank() != rays.PromotionRank(side) {
		return []Move{m}
	}
	out := make([]Move, 0, 4)
	for _, p := range []material.Piece{material.Queen, material.Rook, material.Bishop, material.Knight} {
		mv := m
		mv.Promotion = p
		out = append(out, mv)
	}
	return out
}

// LegalMoves filters ForwardMoves's pseudo-legal candidates down to moves
// that do not leave side's own king in check. ForwardMoves's illegal flag
// only catches the symmetric case one ply later (the position a move leads
// to has the *mover's* king attacked, which the driver is meant to discover
// when it decodes and initializes that child index directly); without this
// filter here, a move into self-check would still be counted toward the
// current index's forward-move total, and a movecount built that way could
// never reach zero by retrograde refutation alone.
func LegalMoves(board tbindex.Board, side material.Color) (moves []Move, illegal bool) {
	pseudo, ill := ForwardMoves(board, side)
	if ill {
		return nil, true
	}
	for _, mv := range pseudo {
		if wouldExposeOwnKing(board, side, mv) {
			continue
		}
		moves = append(moves, mv)
	}
	return moves, false
}

// wouldExposeOwnKing reports whether playing mv for side on board leaves
// side's own king attacked. The captured piece (if any) is excluded from the
// resulting occupancy and attacker scan; every other piece keeps its current
// square except the mover, which moves to mv.To.
func wouldExposeOwnKing(board tbindex.Board, side material.Color, mv Move) bool {
	capturedIdx := -1
	if mv.Capture {
		capSq := mv.To
		if mv.EnPassant {
			capSq = rays.EnPassantCapturedSquare(side, mv.To)
		}
		for i, sq := range board.Pos.Squares {
			if i != mv.PieceIndex && sq == capSq {
				capturedIdx = i
				break
			}
		}
	}

	squares := append([]material.Square(nil), board.Pos.Squares...)
	squares[mv.PieceIndex] = mv.To

	occ := board.Config.FrozenMask()
	for i, sq := range squares {
		if i == capturedIdx {
			continue
		}
		occ |= material.BitMask(sq)
	}

	kingSq := squares[board.Config.KingIndex(side)]
	enemy := side.Opponent()

	for i, spec := range board.Config.Mobile {
		if i == capturedIdx || spec.Color != enemy {
			continue
		}
		if attacksFrom(board, squares[i], spec.Piece, enemy, kingSq, occ) {
			return true
		}
	}
	for _, f := range board.Config.Frozen {
		if f.Color != enemy {
			continue
		}
		if attacksFrom(board, f.Square, f.Piece, enemy, kingSq, occ) {
			return true
		}
	}
	return false
}

// IsChecked reports whether color's king is attacked by any enemy piece on board.
func IsChecked(board tbindex.Board, color material.Color) bool {
	king := board.KingSquare(color)
	occ := board.Occupancy()
	enemy := color.Opponent()

	for i, spec := range board.Config.Mobile {
		if spec.Color != enemy {
			continue
		}
		if attacksFrom(board, board.Pos.Squares[i], spec.Piece, enemy, king, occ) {
			return true
		}
	}
	for _, f := range board.Config.Frozen {
		if f.Color != enemy {
			continue
		}
		if attacksFrom(board, f.Square, f.Piece, enemy, king, occ) {
			return true
		}
	}
	return false
}

func attacksFrom(board tbindex.Board, from material.Square, piece material.Piece, color material.Color, target material.Square, occ material.Bitboard) bool {
	if piece.IsPawn() {
		towardA, towardH := rays.PawnCaptures(color, from)
		for _, cap := range []rays.Ray{towardA, towardH} {
			if len(cap) > 0 && !cap[0].IsSentinel() && cap[0].To == target {
				return true
			}
		}
		return false
	}

	found := false
	rays.For(piece, from, func(r rays.Ray) {
		if found {
			return
		}
		_, blocked := r.Empties(occ)
		if blocked != nil && blocked.To == target {
			found = true
		}
	})
	return found
}
