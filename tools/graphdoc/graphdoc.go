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

// Package graphdoc reads expression graphs from TOML documents.
//
// A document declares custom attributes, a list of nodes, the roots to compile
// and the compilation options:
//
//	name = "update"
//	roots = ["velocity"]
//
//	[options]
//	enable = ["reduction", "constantFolding"]
//	seed = 7
//
//	[[node]]
//	name = "gravity"
//	op = "value"
//	kind = "float3"
//	value = [0.0, -9.81, 0.0]
//
//	[[node]]
//	name = "velocity"
//	op = "add"
//	args = ["oldVelocity", "gravity"]
//
// Nodes can only reference nodes declared before them.
package graphdoc

import (
	"bytes"
	"io"
	"os"

	"github.com/gx-org/vfxgraph/build/compile"
	"github.com/gx-org/vfxgraph/build/expr"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

type (
	// Document is a graph declared in a TOML file.
	Document struct {
		Name       string      `toml:"name"`
		Roots      []string    `toml:"roots"`
		Options    Options     `toml:"options"`
		Camera     *Camera     `toml:"camera"`
		Attributes []Attribute `toml:"attribute"`
		Nodes      []Node      `toml:"node"`
	}

	// Options of the compilation context.
	Options struct {
		// Enable lists the names of the compilation options to enable.
		Enable []string `toml:"enable"`
		// Seed of the random number generator used for CPU evaluation.
		Seed uint64 `toml:"seed"`
	}

	// Camera is the main camera of the scene, in degrees and pixels.
	Camera struct {
		FOV    float32 `toml:"fov"`
		Near   float32 `toml:"near"`
		Far    float32 `toml:"far"`
		Width  float32 `toml:"width"`
		Height float32 `toml:"height"`
	}

	// Attribute declares a custom per-element attribute.
	Attribute struct {
		Name string `toml:"name"`
		Kind string `toml:"kind"`
	}

	// Node declares an expression.
	Node struct {
		Name string `toml:"name"`
		Op   string `toml:"op"`
		// Args are the names of the parents.
		Args []string `toml:"args"`
		// Operands are the additional operands, for example the channel
		// of extractComponent or the condition of a comparison.
		Operands []int32 `toml:"operands"`

		// Kind, value and mode of value nodes.
		// Mode is constant, foldable or variable. Constant by default.
		Kind  string `toml:"kind"`
		Value []any  `toml:"value"`
		Mode  string `toml:"mode"`
		// Keys of a curve: time, value, in tangent, out tangent.
		Keys [][]float32 `toml:"keys"`
		// Colors of a gradient: time, red, green, blue.
		Colors [][]float32 `toml:"colors"`
		// Alphas of a gradient: time, alpha.
		Alphas [][]float32 `toml:"alphas"`
		// Texture asset.
		Texture *Texture `toml:"texture"`

		// Attribute read by attributeRead nodes.
		Attribute string `toml:"attribute"`
		// Source reads the attribute of the source element.
		Source bool `toml:"source"`
	}

	// Texture references a texture asset.
	Texture struct {
		Name   string `toml:"name"`
		Width  uint32 `toml:"width"`
		Height uint32 `toml:"height"`
		Depth  uint32 `toml:"depth"`
	}
)

// Read a document. Unknown keys are rejected.
func Read(r io.Reader) (*Document, error) {
	doc := &Document{}
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(doc); err != nil {
		return nil, errors.Wrap(err, "cannot decode graph document")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Parse a document from its source.
func Parse(src []byte) (*Document, error) {
	return Read(bytes.NewReader(src))
}

// Load a document from a file.
func Load(path string) (*Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	doc, err := Parse(src)
	if err != nil {
		return nil, errors.WithMessagef(err, "%s", path)
	}
	return doc, nil
}

// Context returns a new compilation context configured by the document.
func (d *Document) Context(b *expr.Builder, settings ...compile.Setting) (*compile.Context, error) {
	opts, ok := compile.OptionsFromNames(d.Options.Enable...)
	if !ok {
		return nil, errors.Errorf("invalid compilation options %v", d.Options.Enable)
	}
	all := []compile.Setting{compile.WithSeed(d.Options.Seed)}
	if d.Camera != nil {
		all = append(all, compile.WithScene(scene{camera: expr.Camera{
			FOV:         d.Camera.FOV,
			NearPlane:   d.Camera.Near,
			FarPlane:    d.Camera.Far,
			PixelWidth:  d.Camera.Width,
			PixelHeight: d.Camera.Height,
		}}))
	}
	return compile.New(b, opts, append(all, settings...)...), nil
}
