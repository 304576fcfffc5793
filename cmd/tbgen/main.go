// tbgen builds a single tablebase from a control file and its already-built
// futurebase dependencies.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chesstb/tablebase/pkg/catalog"
	"github.com/chesstb/tablebase/pkg/control"
	"github.com/chesstb/tablebase/pkg/futurebase"
	"github.com/chesstb/tablebase/pkg/tbbuild"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
)

var version = build.NewVersion(0, 1, 0)

type stringList []string

func (s *stringList) String() string     { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error { *s = append(*s, v); return nil }

var (
	controlPath = flag.String("control", "", "Control file (spec.md §6) describing the tablebase to build")
	futurebases stringList
	verifyRays  = flag.Bool("verify-rays", true, "Verify move ray tables for internal consistency before building")
	out         = flag.String("out", "", "Output futurebase file path (default: <name>.tb next to -control)")
	catalogDir  = flag.String("catalog", "", "Optional badger catalog directory to record build status in")
)

func init() {
	flag.Var(&futurebases, "futurebase", "Path to a dependency futurebase file (repeatable)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "tbgen %v builds one tablebase from a control file.\n\nOptions:\n", version)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	if *controlPath == "" {
		flag.Usage()
		logw.Exitf(ctx, "missing -control")
	}

	f, err := os.Open(*controlPath)
	if err != nil {
		logw.Exitf(ctx, "open control file: %v", err)
	}
	doc, err := control.Decode(f)
	f.Close()
	if err != nil {
		logw.Exitf(ctx, "decode control file: %v", err)
	}

	readers := map[string]*futurebase.Reader{}
	for _, path := range futurebases {
		r, err := futurebase.Open(path)
		if err != nil {
			logw.Exitf(ctx, "open futurebase %v: %v", path, err)
		}
		readers[filepath.Base(path)] = r
	}
	for _, ref := range doc.Futurebases {
		if _, ok := readers[ref.File]; !ok {
			logw.Exitf(ctx, "control file declares futurebase %v but no matching -futurebase was given", ref.File)
		}
	}

	var cat *catalog.Catalog
	if *catalogDir != "" {
		cat, err = catalog.Open(*catalogDir)
		if err != nil {
			logw.Exitf(ctx, "open catalog: %v", err)
		}
		defer cat.Close()

		if err := cat.MarkBuilding(doc.Name, time.Now()); err != nil {
			logw.Exitf(ctx, "catalog: mark building: %v", err)
		}
	}

	if !*verifyRays {
		logw.Warningf(ctx, "tbgen: -verify-rays=false: skipping move ray verification")
	}

	driver := &tbbuild.Driver{Control: doc, Futurebases: readers, SkipRayVerification: !*verifyRays}
	result, err := driver.Run(ctx)
	if err != nil {
		if cat != nil {
			if merr := cat.MarkFailed(doc.Name, err, time.Now()); merr != nil {
				logw.Warningf(ctx, "catalog: mark failed: %v", merr)
			}
		}
		logw.Exitf(ctx, "build %v: %v", doc.Name, err)
	}

	outPath := *out
	if outPath == "" {
		outPath = filepath.Join(filepath.Dir(*controlPath), doc.Name+".tb")
	}

	w := futurebase.NewWriter(futurebase.Header{
		Name:     doc.Name,
		Mobile:   doc.Config.Mobile,
		Frozen:   doc.Config.Frozen,
		IndexMax: doc.Config.IndexRange(),
		DTM:      doc.DTM,
	})
	if err := w.WriteFile(outPath, result.Store); err != nil {
		logw.Exitf(ctx, "write %v: %v", outPath, err)
	}

	if cat != nil {
		if err := cat.MarkDone(doc.Name, outPath, doc.Config.IndexRange(), result.Suspect, time.Now()); err != nil {
			logw.Warningf(ctx, "catalog: mark done: %v", err)
		}
	}

	logw.Infof(ctx, "tbgen: wrote %v (%v indices, suspect=%v)", outPath, doc.Config.IndexRange(), result.Suspect)
}
