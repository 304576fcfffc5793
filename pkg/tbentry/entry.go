// Package tbentry implements the entry store of spec.md §3/§4.3: a
// contiguous array of 4-byte tagged entries, one per index, mutated in place
// by lock-free point mutations.
//
// Grounded on pkg/search/transposition.go of the teacher: that table uses an
// atomic pointer per slot because a node is too large to CAS directly; an
// Entry is exactly 4 bytes, so the same lock-free point-mutation idea is
// realized here as a single atomic.Uint32 per slot instead of a pointer
// indirection.
package tbentry

import "fmt"

// movecount tag values, spec.md §3.
const (
	Illegal         byte = 255
	PTMWinsDone     byte = 254
	PNTMWinsDone    byte = 253
	PTMWinsPending  byte = 252
	PNTMWinsPending byte = 0

	// StalemateDraw is the sentinel written by the initializer when the side
	// to move has no legal forward move and is not in check (spec.md §4.4
	// step 4). It shares its numeric value with the top of the plain
	// movecount range: the design deliberately overloads this byte (see
	// spec.md §9's "replacing bitfield tagging" remark) and a reimplementation
	// that wants to disambiguate would need a 5th state rather than changing
	// this value.
	StalemateDraw byte = 251

	// MaxMovecount is the largest plain forward-move count representable.
	MaxMovecount byte = 251

	// Unknown marks mate_ply/conv_ply as not-yet-determined.
	Unknown byte = 255
)

// Entry is the decoded view of one 4-byte record: movecount tag, half-moves
// to mate, half-moves since last capture/pawn-move, and one reserved byte
// (carried through unused, for on-disk layout parity with a possible future
// use described in spec.md §4.7's Open Questions).
type Entry struct {
	Movecount byte
	MatePly   byte
	ConvPly   byte
	Reserved  byte
}

func pack(e Entry) uint32 {
	return uint32(e.Movecount) | uint32(e.MatePly)<<8 | uint32(e.ConvPly)<<16 | uint32(e.Reserved)<<24
}

func unpack(v uint32) Entry {
	return Entry{
		Movecount: byte(v),
		MatePly:   byte(v >> 8),
		ConvPly:   byte(v >> 16),
		Reserved:  byte(v >> 24),
	}
}

// IsPending reports whether the entry is a wins-pending state awaiting mark_propagated.
func (e Entry) IsPending() bool {
	return e.Movecount == PTMWinsPending || e.Movecount == PNTMWinsPending
}

// IsTerminal reports whether the entry is a settled label that mutators must
// never move off of: Illegal, PTM-wins-done, or PNTM-wins-done. A plain
// movecount (including the StalemateDraw sentinel) is not terminal in this
// sense even though it reads as Draw once the build completes, because
// nothing distinguishes "still 1..251 mid-build" from "Draw, build is done"
// in the entry itself (spec.md §3's Lifecycle draws that line at the driver
// level, not the entry level).
func (e Entry) IsTerminal() bool {
	switch e.Movecount {
	case Illegal, PTMWinsDone, PNTMWinsDone:
		return true
	default:
		return false
	}
}

// IsMovecount reports whether the entry still carries a plain forward-move
// count (1..251), i.e. has not yet been touched by the win/loss state machine.
func (e Entry) IsMovecount() bool {
	return e.Movecount >= 1 && e.Movecount <= MaxMovecount
}

func (e Entry) String() string {
	switch e.Movecount {
	case Illegal:
		return "Illegal"
	case PTMWinsDone:
		return fmt.Sprintf("PTM-wins-done(mate=%v,conv=%v)", e.MatePly, e.ConvPly)
	case PNTMWinsDone:
		return fmt.Sprintf("PNTM-wins-done(mate=%v,conv=%v)", e.MatePly, e.ConvPly)
	case PTMWinsPending:
		return fmt.Sprintf("PTM-wins-pending(mate=%v,conv=%v)", e.MatePly, e.ConvPly)
	case PNTMWinsPending:
		return fmt.Sprintf("PNTM-wins-pending(mate=%v,conv=%v)", e.MatePly, e.ConvPly)
	case StalemateDraw:
		return "Draw(stalemate)"
	default:
		return fmt.Sprintf("movecount=%v", e.Movecount)
	}
}
