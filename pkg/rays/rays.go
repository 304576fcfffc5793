// Package rays holds precomputed per-(piece,square,direction) move rays: the
// sole mechanism for legal and pseudo-legal move generation, used both
// forwards (initializer) and backwards (intra-table propagator) by
// pkg/tbbuild. The one exception is pawn predecessor generation
// (pkg/tbbuild's pawnPredecessorSquares), which derives origin squares by
// rank arithmetic instead of scanning a ray; see spec.md §4.1.
//
// Grounded on pkg/board/bitboard.go's king/knight attack-table init()
// pattern, generalized from "reachability bitmask" to "ordered destination
// list with sentinel" because retrograde scanning needs to walk a ray one
// square at a time, not just test membership.
package rays

import "github.com/chesstb/tablebase/pkg/material"

// Step is one square of a ray: its destination and the destination's bitmask.
type Step struct {
	To   material.Square
	Mask material.Bitboard
}

// sentinelMask is an all-ones bitmask. It terminates every ray. A legal
// chess position always has at least two kings on the board, so occupancy is
// never the empty bitboard; ANDing the sentinel's all-ones mask against any
// real occupancy is therefore always nonzero, which is what lets a scan loop
// use "destination occupied" as its single stopping condition even when it
// runs past the last real square of a direction.
const sentinelMask material.Bitboard = ^material.Bitboard(0)

var Sentinel = Step{Mask: sentinelMask}

func (s Step) IsSentinel() bool {
	return s.Mask == sentinelMask
}

// Ray is an ordered sequence of Steps away from some origin, terminated by Sentinel.
type Ray []Step

// Empties returns the leading run of unoccupied destinations, plus the first
// occupied destination encountered (if any, before the sentinel). The caller
// resolves whether that occupant is a friend, a foe, or (for the king) a
// check-revealing foe.
func (r Ray) Empties(occ material.Bitboard) (empties []Step, blocked *Step) {
	for i := range r {
		step := r[i]
		if step.IsSentinel() {
			return empties, nil
		}
		if occ&step.Mask != 0 {
			blocked := step
			return empties, &blocked
		}
		empties = append(empties, step)
	}
	return empties, nil
}

// Reaches reports whether to is a non-sentinel destination of the ray,
// ignoring occupancy entirely. Used by the verification pass and by
// predecessor generation, which both care about geometric reachability
// rather than blocking.
func (r Ray) Reaches(to material.Square) bool {
	for _, step := range r {
		if step.IsSentinel() {
			return false
		}
		if step.To == to {
			return true
		}
	}
	return false
}

func buildRay(origin material.Square, df, dr int, slide bool) Ray {
	var ray Ray

	f, rk := int(origin.File()), int(origin.Rank())
	for {
		f += df
		rk += dr
		if f < 0 || f > 7 || rk < 0 || rk > 7 {
			break
		}
		to := material.NewSquare(material.File(f), material.Rank(rk))
		ray = append(ray, Step{To: to, Mask: material.BitMask(to)})
		if !slide {
			break
		}
	}
	ray = append(ray, Sentinel)
	return ray
}
