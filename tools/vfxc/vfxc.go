// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command vfxc compiles an expression graph declared in a TOML document.
//
// Usage:
//
//	vfxc -graph update.toml [-roots velocity,color] [-emit reduced,sheet,code,attributes] [-v]
//
// The roots default to the roots declared in the document.
// Compilation decisions are traced on the standard error when -v is set.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gx-org/vfxgraph/api/trace"
	"github.com/gx-org/vfxgraph/build/codegen"
	"github.com/gx-org/vfxgraph/build/compile"
	"github.com/gx-org/vfxgraph/build/expr"
	"github.com/gx-org/vfxgraph/build/flatten"
	"github.com/gx-org/vfxgraph/build/requirements"
	"github.com/gx-org/vfxgraph/tools/graphdoc"
	"github.com/gx-org/vfxgraph/tools/vfxflag"
	"github.com/pkg/errors"
)

const (
	emitReduced    = "reduced"
	emitSheet      = "sheet"
	emitCode       = "code"
	emitAttributes = "attributes"
)

type config struct {
	graph   string
	roots   []string
	emit    []string
	verbose bool
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	fs := flag.NewFlagSet("vfxc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	graph := fs.String("graph", "", "TOML document declaring the graph")
	roots := vfxflag.StringList(fs, "roots", "names of the roots to compile (default: roots of the document)")
	emit := vfxflag.StringList(fs, "emit", "outputs to print (default: reduced)", emitReduced, emitSheet, emitCode, emitAttributes)
	verbose := fs.Bool("v", false, "trace compilation decisions on the standard error")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *graph == "" {
		return nil, errors.Errorf("no graph specified: please use -graph to specify a document")
	}
	cfg := &config{graph: *graph, roots: *roots, emit: *emit, verbose: *verbose}
	if len(cfg.emit) == 0 {
		cfg.emit = []string{emitReduced}
	}
	return cfg, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	doc, err := graphdoc.Load(cfg.graph)
	if err != nil {
		return err
	}
	if len(cfg.roots) > 0 {
		doc.Roots = cfg.roots
	}
	b := expr.NewBuilder()
	g, err := doc.Build(b)
	if err != nil {
		return err
	}
	var settings []compile.Setting
	if cfg.verbose {
		settings = append(settings, compile.WithTracer(trace.Writer(stderr)))
	}
	ctx, err := doc.Context(b, settings...)
	if err != nil {
		return err
	}
	for _, root := range g.Roots {
		ctx.Register(root)
	}
	if err := ctx.Compile(); err != nil {
		return err
	}
	reduced := make([]*expr.Node, len(g.Roots))
	for i, root := range g.Roots {
		if reduced[i], err = ctx.GetReduced(root); err != nil {
			return err
		}
	}
	if cfg.verbose {
		fmt.Fprintf(stderr, "%d roots compiled with %s, %d nodes interned\n", len(reduced), ctx.Options(), b.Len())
	}
	for _, emit := range cfg.emit {
		if err := emitOutput(stdout, emit, doc, reduced); err != nil {
			return err
		}
	}
	return nil
}

func emitOutput(w io.Writer, emit string, doc *graphdoc.Document, reduced []*expr.Node) error {
	switch emit {
	case emitReduced:
		for i, n := range reduced {
			fmt.Fprintf(w, "%s = %s\n", doc.Roots[i], n)
		}
	case emitSheet:
		sheet, err := flatten.Flatten(reduced...)
		if err != nil {
			return err
		}
		fmt.Fprint(w, sheet)
	case emitCode:
		name := doc.Name
		if name == "" {
			name = "main"
		}
		fn, err := codegen.Generate(name, reduced...)
		if err != nil {
			return err
		}
		src, err := fn.Source()
		if err != nil {
			return err
		}
		fmt.Fprint(w, src)
	case emitAttributes:
		for _, info := range requirements.Attributes(reduced...) {
			fmt.Fprintln(w, info)
		}
	default:
		return errors.Errorf("unknown output %q", emit)
	}
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}
