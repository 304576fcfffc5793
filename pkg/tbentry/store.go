package tbentry

import (
	"context"
	"sync/atomic"

	"github.com/chesstb/tablebase/pkg/material"
	"github.com/seekerror/logw"
)

// Store is a contiguous, concurrency-safe array of entries, one per index.
// Every slot is an atomic.Uint32 so mutators are lock-free point operations,
// the shape the driver needs even though spec.md §4.6 runs it single-threaded
// today (the design note "could be parallelized... by sharding indices" is
// why the store itself does not assume single-threaded access).
type Store struct {
	cells   []atomic.Uint32
	suspect atomic.Bool // set (and logged once) on the first invariant violation
}

// NewStore allocates a store of n entries, all zero-valued. Zero happens to
// equal PNTMWinsPending, which is harmless: spec.md §3's Lifecycle requires
// the initializer to write every index before the entry is read for any
// other purpose.
func NewStore(n uint64) *Store {
	return &Store{cells: make([]atomic.Uint32, n)}
}

// Len returns the number of entries (the configuration's index range).
func (s *Store) Len() uint64 {
	return uint64(len(s.cells))
}

// Suspect reports whether any mutator has observed an invariant violation
// since the store was created.
func (s *Store) Suspect() bool {
	return s.suspect.Load()
}

func (s *Store) Read(idx uint64) Entry {
	return unpack(s.cells[idx].Load())
}

func (s *Store) flag(ctx context.Context, format string, args ...any) {
	s.suspect.Store(true)
	logw.Errorf(ctx, format, args...)
}

// SetIllegal marks idx permanently Illegal (initializer step 1/2, spec.md §4.4).
func (s *Store) SetIllegal(idx uint64) {
	s.cells[idx].Store(pack(Entry{Movecount: Illegal, MatePly: Unknown, ConvPly: Unknown}))
}

// SetMovecount records the initializer's forward-move count (spec.md §4.4
// step 5): n must be in [1,251].
func (s *Store) SetMovecount(idx uint64, n byte) {
	s.cells[idx].Store(pack(Entry{Movecount: n, MatePly: Unknown, ConvPly: Unknown}))
}

// SetStalemateDraw records the initializer's stalemate finding (spec.md §4.4 step 4).
func (s *Store) SetStalemateDraw(idx uint64) {
	s.cells[idx].Store(pack(Entry{Movecount: StalemateDraw, MatePly: Unknown, ConvPly: Unknown}))
}

// sideToMove recovers the side to move from idx's low bit, per the codec's
// bit layout (spec.md §3: "side_to_move | (sq0<<1) | ..."). tbentry depends
// only on this bit, not on pkg/tbindex, to keep the entry store decoupled
// from the position codec.
func sideToMove(idx uint64) material.Color {
	return material.Color(idx & 1)
}

// WhiteWins records that White wins outright from idx (e.g. White delivers
// checkmate): spec.md §4.3's white_wins/black_wins mutator, specialized to White.
func (s *Store) WhiteWins(ctx context.Context, idx uint64, mate, conv byte) {
	s.sideWins(ctx, idx, material.White, mate, conv)
}

// BlackWins is WhiteWins for Black.
func (s *Store) BlackWins(ctx context.Context, idx uint64, mate, conv byte) {
	s.sideWins(ctx, idx, material.Black, mate, conv)
}

func (s *Store) sideWins(ctx context.Context, idx uint64, winner material.Color, mate, conv byte) {
	ptm := sideToMove(idx)
	pending, done := PNTMWinsPending, PNTMWinsDone
	if winner == ptm {
		pending, done = PTMWinsPending, PTMWinsDone
	}

	for {
		old := s.cells[idx].Load()
		cur := unpack(old)

		var next Entry
		switch {
		case cur.IsMovecount() || cur.Movecount == StalemateDraw:
			next = Entry{Movecount: pending, MatePly: mate, ConvPly: conv}
		case cur.Movecount == pending || cur.Movecount == done:
			next = cur
			if mate < cur.MatePly {
				next.MatePly = mate
			}
			if conv < cur.ConvPly {
				next.ConvPly = conv
			}
			if next == cur {
				return // no change, avoid a pointless CAS
			}
		default:
			s.flag(ctx, "tbentry: idx=%v: %v_wins contradicts existing %v", idx, winner, cur)
			return
		}

		if s.cells[idx].CompareAndSwap(old, pack(next)) {
			return
		}
	}
}

// AddOneToWhiteWins decrements the forward-move count at idx because one
// White reply has been shown to lead to a White-wins position; only legal
// when White is PNTM (not to move) at idx (spec.md §4.3).
func (s *Store) AddOneToWhiteWins(ctx context.Context, idx uint64, mate, conv byte) {
	s.addOneToSideWins(ctx, idx, material.White, mate, conv)
}

// AddOneToBlackWins is AddOneToWhiteWins for Black.
func (s *Store) AddOneToBlackWins(ctx context.Context, idx uint64, mate, conv byte) {
	s.addOneToSideWins(ctx, idx, material.Black, mate, conv)
}

func (s *Store) addOneToSideWins(ctx context.Context, idx uint64, winner material.Color, mate, conv byte) {
	ptm := sideToMove(idx)
	if winner == ptm {
		s.flag(ctx, "tbentry: idx=%v: add_one_to_%v_wins called but %v is PTM, not PNTM", idx, winner, winner)
		return
	}

	for {
		old := s.cells[idx].Load()
		cur := unpack(old)
		if !cur.IsMovecount() {
			s.flag(ctx, "tbentry: idx=%v: add_one_to_%v_wins on non-movecount entry %v", idx, winner, cur)
			return
		}

		next := cur
		next.Movecount--
		if mate < next.MatePly || next.MatePly == Unknown {
			next.MatePly = mate
		}
		if conv < next.ConvPly || next.ConvPly == Unknown {
			next.ConvPly = conv
		}
		// next.Movecount == 0 now reads as PNTMWinsPending: intentional per
		// spec.md §4.3 ("0 ≡ wins-pending naturally").

		if s.cells[idx].CompareAndSwap(old, pack(next)) {
			return
		}
	}
}

// MarkPropagated transitions a pending entry to its done counterpart
// (spec.md §4.3: PTMWinsPending -> PTMWinsDone, PNTMWinsPending -> PNTMWinsDone).
func (s *Store) MarkPropagated(ctx context.Context, idx uint64) {
	for {
		old := s.cells[idx].Load()
		cur := unpack(old)

		var done byte
		switch cur.Movecount {
		case PTMWinsPending:
			done = PTMWinsDone
		case PNTMWinsPending:
			done = PNTMWinsDone
		default:
			s.flag(ctx, "tbentry: idx=%v: mark_propagated on non-pending entry %v", idx, cur)
			return
		}

		next := Entry{Movecount: done, MatePly: cur.MatePly, ConvPly: cur.ConvPly}
		if s.cells[idx].CompareAndSwap(old, pack(next)) {
			return
		}
	}
}

// Decrement unconditionally subtracts one from idx's plain movecount without
// attaching any mate/conv information and without attributing the move to
// either side's win: spec.md §4.5's "our move, ignored" pruning case, where a
// declared move is known to never be played and should simply not count
// toward the total any longer.
func (s *Store) Decrement(ctx context.Context, idx uint64) {
	for {
		old := s.cells[idx].Load()
		cur := unpack(old)
		if !cur.IsMovecount() {
			s.flag(ctx, "tbentry: idx=%v: decrement on non-movecount entry %v", idx, cur)
			return
		}

		next := cur
		next.Movecount--
		if s.cells[idx].CompareAndSwap(old, pack(next)) {
			return
		}
	}
}

// Finalize reinterprets every remaining plain-movecount or stalemate entry as
// Draw, per spec.md §3's Lifecycle ("After the driver completes, all
// remaining non-terminal entries are reinterpreted as Draw"). Draw has no
// distinct movecount tag of its own: any value in [1,251] already reads as
// Draw once the build is finished, so Finalize is a documentation-only pass
// in this representation and performs no writes. It exists so callers have an
// explicit step to call, matching the driver's phase sequencing (spec.md §4.7).
func (s *Store) Finalize(context.Context) {}
