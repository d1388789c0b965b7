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

package graphdoc

import (
	"github.com/gx-org/vfxgraph/api/valuekind"
	"github.com/gx-org/vfxgraph/build/attrib"
	"github.com/gx-org/vfxgraph/build/compile"
	"github.com/gx-org/vfxgraph/build/expr"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

var valueModes = map[string]expr.ValueMode{
	"":         expr.Constant,
	"constant": expr.Constant,
	"foldable": expr.FoldableVariable,
	"variable": expr.Variable,
}

// Validate checks the references and names of a document.
// All the problems found are returned together.
func (d *Document) Validate() error {
	var err error
	if _, ok := compile.OptionsFromNames(d.Options.Enable...); !ok {
		err = multierr.Append(err, errors.Errorf("invalid compilation options %v", d.Options.Enable))
	}
	attrs := make(map[string]bool)
	for _, a := range d.Attributes {
		if attrs[a.Name] {
			err = multierr.Append(err, errors.Errorf("attribute %s declared twice", a.Name))
		}
		attrs[a.Name] = true
		if _, aErr := a.attribute(); aErr != nil {
			err = multierr.Append(err, aErr)
		}
	}
	declared := make(map[string]bool)
	for i, n := range d.Nodes {
		if n.Name == "" {
			err = multierr.Append(err, errors.Errorf("node %d has no name", i))
		} else if declared[n.Name] {
			err = multierr.Append(err, errors.Errorf("node %s declared twice", n.Name))
		}
		for _, arg := range n.Args {
			if !declared[arg] {
				err = multierr.Append(err, errors.Errorf("node %s: undefined argument %s", n.Name, arg))
			}
		}
		err = multierr.Append(err, n.validate(attrs))
		declared[n.Name] = true
	}
	if len(d.Roots) == 0 {
		err = multierr.Append(err, errors.Errorf("no root to compile"))
	}
	for _, root := range d.Roots {
		if !declared[root] {
			err = multierr.Append(err, errors.Errorf("undefined root %s", root))
		}
	}
	return err
}

func (a Attribute) attribute() (attrib.Attribute, error) {
	kind := valuekind.KindFromString(a.Kind)
	attr, err := attrib.New(a.Name, kind)
	if err != nil {
		return attrib.Attribute{}, errors.WithMessagef(err, "attribute %s", a.Name)
	}
	return attr, nil
}

func (n *Node) validate(custom map[string]bool) error {
	op, ok := expr.OperationFromString(n.Op)
	if !ok {
		return errors.Errorf("node %s: unknown operation %q", n.Name, n.Op)
	}
	switch op {
	case expr.OpValue:
		if valuekind.KindFromString(n.Kind) == valuekind.None {
			return errors.Errorf("node %s: unknown value kind %q", n.Name, n.Kind)
		}
		if _, ok := valueModes[n.Mode]; !ok {
			return errors.Errorf("node %s: unknown value mode %q", n.Name, n.Mode)
		}
	case expr.OpAttributeRead:
		if _, ok := attrib.Find(n.Attribute); !ok && !custom[n.Attribute] {
			return errors.Errorf("node %s: unknown attribute %q", n.Name, n.Attribute)
		}
	}
	return nil
}
