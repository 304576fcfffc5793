package tbbuild

import (
	"context"
	"fmt"

	"github.com/chesstb/tablebase/pkg/control"
	"github.com/chesstb/tablebase/pkg/futurebase"
	"github.com/chesstb/tablebase/pkg/rays"
	"github.com/chesstb/tablebase/pkg/tbentry"
	"github.com/seekerror/logw"
)

// Driver sequences the full build of one tablebase (spec.md §4.7): verify
// the move-ray tables, initialize, resolve futuremoves, propagate
// intra-table to a fixpoint, and finalize remaining entries as Draw.
type Driver struct {
	Control     *control.Document
	Futurebases map[string]*futurebase.Reader // one entry per control.Document.Futurebases[i].File

	// SkipRayVerification skips the one-time move-ray self-check (spec.md
	// §4.7 calls it optional); it costs nothing to run once per process and
	// defaults on, but a batch driver building many tables in one process
	// only needs it the first time.
	SkipRayVerification bool
}

// Result is everything the caller (cmd/tbgen, or a batch run over pkg/depgen's
// dependency closure) needs to report or persist.
type Result struct {
	Store   *tbentry.Store
	Suspect bool
}

// Run executes the full sequence and returns the completed store. It does
// not write output; callers pass the result to pkg/futurebase.Writer
// themselves (the driver's job is the in-memory build, not I/O).
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	cfg := d.Control.Config

	if !d.SkipRayVerification {
		logw.Infof(ctx, "tbbuild: verifying move rays")
		if err := rays.Verify(); err != nil {
			return nil, fmt.Errorf("tbbuild: move ray verification failed: %w", err)
		}
	}

	store := tbentry.NewStore(cfg.IndexRange())

	init := &Initializer{Config: cfg, Store: store}
	logw.Infof(ctx, "tbbuild: %v: initializing", d.Control.Name)
	if err := init.Run(ctx); err != nil {
		return nil, fmt.Errorf("tbbuild: %v: initialize: %w", d.Control.Name, err)
	}

	fp := &FuturebasePropagator{Config: cfg, Store: store, Control: d.Control, Futurebases: d.Futurebases}
	logw.Infof(ctx, "tbbuild: %v: resolving futuremoves", d.Control.Name)
	maxPly, err := fp.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("tbbuild: %v: resolve futuremoves: %w", d.Control.Name, err)
	}
	logw.Infof(ctx, "tbbuild: %v: futuremoves introduced max mate_ply=%v", d.Control.Name, maxPly)

	prop := &IntraTablePropagator{Config: cfg, Store: store, MaxPly: maxPly}
	logw.Infof(ctx, "tbbuild: %v: propagating intra-table", d.Control.Name)
	if err := prop.Run(ctx); err != nil {
		return nil, fmt.Errorf("tbbuild: %v: propagate intra-table: %w", d.Control.Name, err)
	}

	store.Finalize(ctx)

	if store.Suspect() {
		logw.Warningf(ctx, "tbbuild: %v: build completed with at least one invariant violation logged above", d.Control.Name)
	} else {
		logw.Infof(ctx, "tbbuild: %v: build complete, %v indices", d.Control.Name, store.Len())
	}

	return &Result{Store: store, Suspect: store.Suspect()}, nil
}
