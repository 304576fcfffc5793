// Package depgen reproduces the companion dependency-enumerator script of
// spec.md §6: canonical tablebase filenames, color normalization, and the
// transitive closure of futurebases a configuration depends on.
//
// No teacher file does anything like this (morlock has no tablebase
// dependency concept); this package is built fresh in the teacher's
// naming/error-handling idiom, grounded directly on spec.md §6's rules.
package depgen

import (
	"fmt"

	"github.com/chesstb/tablebase/pkg/material"
)

// Side is one color's non-king pieces, in canonical filename order (q r b n p).
type Side struct {
	Letters string // e.g. "qrrp"
}

// Name is a color-normalized configuration identity: `k<White><Black>`.
type Name struct {
	White Side
	Black Side
}

func (n Name) String() string {
	return fmt.Sprintf("k%vk%v", n.White.Letters, n.Black.Letters)
}

// Normalize reorders cfg's two sides so that the side with more pieces (tie
// broken by greater point-value sum, Q=9 R=5 B=3.1 N=3 P=1) is written first
// as "white", matching spec.md §6's canonical-name rule verbatim. It returns
// the Name plus whether the sides were swapped relative to cfg's own White/Black.
func Normalize(cfg *material.Configuration) (Name, bool) {
	wLetters := cfg.PieceLetters(material.White)
	bLetters := cfg.PieceLetters(material.Black)
	wValue := cfg.PointValue(material.White)
	bValue := cfg.PointValue(material.Black)

	if len(wLetters) > len(bLetters) || (len(wLetters) == len(bLetters) && wValue >= bValue) {
		return Name{White: Side{Letters: wLetters}, Black: Side{Letters: bLetters}}, false
	}
	return Name{White: Side{Letters: bLetters}, Black: Side{Letters: wLetters}}, true
}

// promotions is the set of pieces a pawn may promote to, per spec.md §6.
var promotions = []material.Piece{material.Queen, material.Rook, material.Bishop, material.Knight}

// Dependencies computes the transitive closure of futurebases cfg requires,
// each already color-normalized, per spec.md §6:
//
//   - for each single-piece removal from White or Black: the reduced
//     configuration.
//   - for each pawn of either color: for each promotion kind, the
//     configuration with that pawn replaced by the promoted piece, and
//     additionally (for every non-pawn enemy piece) the same promotion with
//     that enemy piece also removed (a promotion-with-capture).
//
// Results may repeat (e.g. two different single-piece removals producing the
// same normalized name); callers that want a set should dedupe on Name.String().
func Dependencies(cfg *material.Configuration) ([]Name, error) {
	var deps []Name
	var reached []*material.Configuration

	for i := range cfg.Mobile {
		if cfg.Mobile[i].Piece == material.King {
			continue // removing a king is not a legal reduction
		}
		reduced, err := withoutMobile(cfg, i)
		if err != nil {
			return nil, err
		}
		name, _ := Normalize(reduced)
		deps = append(deps, name)
		reached = append(reached, reduced)
	}

	for i, spec := range cfg.Mobile {
		if !spec.Piece.IsPawn() {
			continue
		}
		for _, promo := range promotions {
			promoted, err := withPromotion(cfg, i, promo)
			if err != nil {
				return nil, err
			}
			name, _ := Normalize(promoted)
			deps = append(deps, name)
			reached = append(reached, promoted)

			enemy := spec.Color.Opponent()
			for j, other := range promoted.Mobile {
				if other.Color != enemy || other.Piece == material.King || other.Piece.IsPawn() {
					continue
				}
				captured, err := withoutMobile(promoted, j)
				if err != nil {
					continue // removing this particular piece left an invalid configuration (e.g. last non-king piece edge cases); skip
				}
				name, _ := Normalize(captured)
				deps = append(deps, name)
				reached = append(reached, captured)
			}
		}
	}

	// Every reached configuration has fewer pieces or fewer pawns than cfg,
	// so this recursion terminates.
	for _, next := range reached {
		sub, err := Dependencies(next)
		if err != nil {
			return nil, err
		}
		deps = append(deps, sub...)
	}

	return deps, nil
}

func withoutMobile(cfg *material.Configuration, i int) (*material.Configuration, error) {
	mobile := make([]material.PieceSpec, 0, len(cfg.Mobile)-1)
	for j, m := range cfg.Mobile {
		if j != i {
			mobile = append(mobile, m)
		}
	}
	return material.NewConfiguration(mobile, cfg.Frozen)
}

func withPromotion(cfg *material.Configuration, i int, promo material.Piece) (*material.Configuration, error) {
	mobile := append([]material.PieceSpec(nil), cfg.Mobile...)
	mobile[i] = material.PieceSpec{Color: mobile[i].Color, Piece: promo}
	return material.NewConfiguration(mobile, cfg.Frozen)
}
