// tbdeps computes the transitive dependency closure of a control file's
// configuration and emits one stub control file per dependency, so a batch
// build can discover and queue everything a tablebase needs before it.
package main

import (
	"context"
	"encoding/xml"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chesstb/tablebase/pkg/control"
	"github.com/chesstb/tablebase/pkg/depgen"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
)

var version = build.NewVersion(0, 1, 0)

var (
	controlPath = flag.String("control", "", "Control file whose dependency closure to compute")
	outDir      = flag.String("out", "", "Directory to write one <name>.xml stub per dependency into")
)

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "tbdeps %v emits a control-file stub per tablebase dependency.\n\nOptions:\n", version)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	if *controlPath == "" || *outDir == "" {
		flag.Usage()
		logw.Exitf(ctx, "missing -control or -out")
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

	deps, err := depgen.Dependencies(doc.Config)
	if err != nil {
		logw.Exitf(ctx, "compute dependency closure of %v: %v", doc.Name, err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		logw.Exitf(ctx, "create %v: %v", *outDir, err)
	}

	seen := map[string]bool{}
	for _, dep := range deps {
		name := dep.String()
		if seen[name] {
			continue
		}
		seen[name] = true

		stub := stubXML(name, dep)
		path := filepath.Join(*outDir, name+".xml")
		if err := os.WriteFile(path, []byte(stub), 0o644); err != nil {
			logw.Exitf(ctx, "write %v: %v", path, err)
		}
	}

	logw.Infof(ctx, "tbdeps: wrote %v dependency stub(s) for %v to %v", len(seen), doc.Name, *outDir)
}

type stubPiece struct {
	Color string `xml:"color,attr"`
	Piece string `xml:"piece,attr"`
}

type stubDoc struct {
	XMLName xml.Name    `xml:"tablebase"`
	Name    string      `xml:"name,attr"`
	Mobile  []stubPiece `xml:"mobile"`
}

// stubXML renders a minimal control file for one dependency name: a king of
// each color plus one mobile piece per letter of dep's side strings. It has
// no futurebase/prune declarations — those are a human decision left for
// whoever fills the stub in, matching spec.md §6's freeform control format.
func stubXML(name string, dep depgen.Name) string {
	doc := stubDoc{Name: name}
	doc.Mobile = append(doc.Mobile, stubPiece{Color: "white", Piece: "king"})
	for _, l := range dep.White.Letters {
		doc.Mobile = append(doc.Mobile, stubPiece{Color: "white", Piece: letterToPieceName(byte(l))})
	}
	doc.Mobile = append(doc.Mobile, stubPiece{Color: "black", Piece: "king"})
	for _, l := range dep.Black.Letters {
		doc.Mobile = append(doc.Mobile, stubPiece{Color: "black", Piece: letterToPieceName(byte(l))})
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Sprintf("<!-- tbdeps: failed to render stub for %v: %v -->\n", name, err)
	}
	return xml.Header + string(out) + "\n"
}

func letterToPieceName(l byte) string {
	switch l {
	case 'q':
		return "queen"
	case 'r':
		return "rook"
	case 'b':
		return "bishop"
	case 'n':
		return "knight"
	case 'p':
		return "pawn"
	default:
		return "queen"
	}
}
