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

// Package attrib defines the per-element attributes read and written by expressions.
//
// The set of built-in attributes is closed. Variadic attributes (angle, scale,
// pivot and angular velocity) expand into one attribute per axis.
package attrib

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gx-org/vfxgraph/api/valuekind"
	"github.com/gx-org/vfxgraph/api/values"
	"github.com/pkg/errors"
)

// Mode is the way an expression accesses an attribute.
type Mode uint8

const (
	// None means that the attribute is not accessed.
	None Mode = 0
	// Read the attribute of the current element.
	Read Mode = 1 << 0
	// Write the attribute of the current element.
	Write Mode = 1 << 1
	// ReadWrite the attribute of the current element.
	ReadWrite Mode = Read | Write
	// ReadSource reads the attribute from the source element (for example
	// the parent particle when spawning).
	ReadSource Mode = 1 << 2
)

func (m Mode) String() string {
	if m == None {
		return "none"
	}
	var parts []string
	if m&Read != 0 {
		parts = append(parts, "read")
	}
	if m&Write != 0 {
		parts = append(parts, "write")
	}
	if m&ReadSource != 0 {
		parts = append(parts, "source")
	}
	return strings.Join(parts, "|")
}

// Access restricts how an attribute can be accessed.
type Access uint8

const (
	// Standard attributes can be read and written, and are stored per element.
	Standard Access = iota
	// ReadOnly attributes are set by the runtime.
	ReadOnly
	// LocalOnly attributes exist only while a stage executes and are never stored.
	LocalOnly
)

var accessNames = [...]string{
	Standard:  "standard",
	ReadOnly:  "read-only",
	LocalOnly: "local-only",
}

func (a Access) String() string {
	if int(a) < len(accessNames) {
		return accessNames[a]
	}
	return fmt.Sprintf("Access(%d)", int(a))
}

// Attribute is a named per-element datum.
type Attribute struct {
	Name    string
	Kind    valuekind.Kind
	Access  Access
	Default values.Value
}

// New returns a custom attribute. Custom attributes are standard attributes
// with a zero default value.
func New(name string, kind valuekind.Kind) (Attribute, error) {
	if !kind.IsNumeric() {
		return Attribute{}, errors.Errorf("attribute %q: kind %s cannot be stored per element", name, kind)
	}
	if _, ok := Find(name); ok {
		return Attribute{}, errors.Errorf("attribute %q is a built-in attribute", name)
	}
	return Attribute{Name: name, Kind: kind, Default: values.Zero(kind)}, nil
}

// Equal returns true if two attributes are the same.
func (a Attribute) Equal(o Attribute) bool {
	return a.Name == o.Name && a.Kind == o.Kind && a.Access == o.Access && a.Default.Equal(o.Default)
}

func (a Attribute) String() string {
	return a.Name
}

func attr(name string, def values.Value) Attribute {
	return Attribute{Name: name, Kind: def.Kind(), Default: def}
}

func readOnly(name string, def values.Value) Attribute {
	a := attr(name, def)
	a.Access = ReadOnly
	return a
}

func localOnly(name string, def values.Value) Attribute {
	a := attr(name, def)
	a.Access = LocalOnly
	return a
}

// Built-in attributes.
var (
	Seed                 = attr("seed", values.Uint(0))
	OldPosition          = attr("oldPosition", values.Float3(0, 0, 0))
	Position             = attr("position", values.Float3(0, 0, 0))
	Velocity             = attr("velocity", values.Float3(0, 0, 0))
	Direction            = attr("direction", values.Float3(0, 0, 1))
	Color                = attr("color", values.Float3(1, 1, 1))
	Alpha                = attr("alpha", values.Float(1))
	Size                 = attr("size", values.Float(0.1))
	ScaleX               = attr("scaleX", values.Float(1))
	ScaleY               = attr("scaleY", values.Float(1))
	ScaleZ               = attr("scaleZ", values.Float(1))
	Lifetime             = attr("lifetime", values.Float(1))
	Age                  = attr("age", values.Float(0))
	AngleX               = attr("angleX", values.Float(0))
	AngleY               = attr("angleY", values.Float(0))
	AngleZ               = attr("angleZ", values.Float(0))
	AngularVelocityX     = attr("angularVelocityX", values.Float(0))
	AngularVelocityY     = attr("angularVelocityY", values.Float(0))
	AngularVelocityZ     = attr("angularVelocityZ", values.Float(0))
	TexIndex             = attr("texIndex", values.Float(0))
	PivotX               = attr("pivotX", values.Float(0))
	PivotY               = attr("pivotY", values.Float(0))
	PivotZ               = attr("pivotZ", values.Float(0))
	ParticleID           = readOnly("particleId", values.Uint(0))
	AxisX                = attr("axisX", values.Float3(1, 0, 0))
	AxisY                = attr("axisY", values.Float3(0, 1, 0))
	AxisZ                = attr("axisZ", values.Float3(0, 0, 1))
	Alive                = attr("alive", values.Bool(true))
	Mass                 = attr("mass", values.Float(1))
	TargetPosition       = attr("targetPosition", values.Float3(0, 0, 0))
	EventCount           = localOnly("eventCount", values.Uint(0))
	SpawnTime            = attr("spawnTime", values.Float(0))
	SpawnIndex           = readOnly("spawnIndex", values.Uint(0))
	StripAlive           = localOnly("stripAlive", values.Bool(true))
	ParticleIndexInStrip = readOnly("particleIndexInStrip", values.Uint(0))
	ParticleCountInStrip = readOnly("particleCountInStrip", values.Uint(0))
	StripIndex           = readOnly("stripIndex", values.Uint(0))
	MeshIndex            = attr("meshIndex", values.Uint(0))
)

var builtins = []Attribute{
	Seed,
	OldPosition,
	Position,
	Velocity,
	Direction,
	Color,
	Alpha,
	Size,
	ScaleX,
	ScaleY,
	ScaleZ,
	Lifetime,
	Age,
	AngleX,
	AngleY,
	AngleZ,
	AngularVelocityX,
	AngularVelocityY,
	AngularVelocityZ,
	TexIndex,
	PivotX,
	PivotY,
	PivotZ,
	ParticleID,
	AxisX,
	AxisY,
	AxisZ,
	Alive,
	Mass,
	TargetPosition,
	EventCount,
	SpawnTime,
	SpawnIndex,
	StripAlive,
	ParticleIndexInStrip,
	ParticleCountInStrip,
	StripIndex,
	MeshIndex,
}

var byName = func() map[string]int {
	m := make(map[string]int, len(builtins))
	for i, a := range builtins {
		m[a.Name] = i
	}
	return m
}()

// All returns all the built-in attributes in registry order.
func All() []Attribute {
	return slices.Clone(builtins)
}

// Find returns a built-in attribute given its name.
func Find(name string) (Attribute, bool) {
	i, ok := byName[name]
	if !ok {
		return Attribute{}, false
	}
	return builtins[i], true
}

// index returns the position of an attribute in the registry.
// Custom attributes are ordered after all built-in attributes.
func index(a Attribute) int {
	if i, ok := byName[a.Name]; ok {
		return i
	}
	return len(builtins)
}

// Variadic is an attribute stored as one scalar attribute per axis.
type Variadic struct {
	Name string
	Axes [3]Attribute
}

// Variadic attributes.
var (
	Angle           = Variadic{Name: "angle", Axes: [3]Attribute{AngleX, AngleY, AngleZ}}
	AngularVelocity = Variadic{Name: "angularVelocity", Axes: [3]Attribute{AngularVelocityX, AngularVelocityY, AngularVelocityZ}}
	Pivot           = Variadic{Name: "pivot", Axes: [3]Attribute{PivotX, PivotY, PivotZ}}
	Scale           = Variadic{Name: "scale", Axes: [3]Attribute{ScaleX, ScaleY, ScaleZ}}
)

var variadics = []Variadic{Angle, AngularVelocity, Pivot, Scale}

// FindVariadic returns a variadic attribute given its name.
func FindVariadic(name string) (Variadic, bool) {
	for _, v := range variadics {
		if v.Name == name {
			return v, true
		}
	}
	return Variadic{}, false
}

// Expand returns the attributes of the given channels.
// Channels is a non-empty combination of X, Y and Z, for example "XZ".
func (v Variadic) Expand(channels string) ([]Attribute, error) {
	if len(channels) == 0 || len(channels) > 3 {
		return nil, errors.Errorf("invalid channels %q for variadic attribute %s", channels, v.Name)
	}
	var seen [3]bool
	attrs := make([]Attribute, 0, len(channels))
	for _, c := range channels {
		i := strings.IndexRune("XYZ", c)
		if i < 0 {
			return nil, errors.Errorf("invalid channel %q for variadic attribute %s", c, v.Name)
		}
		if seen[i] {
			return nil, errors.Errorf("channel %q repeated for variadic attribute %s", c, v.Name)
		}
		seen[i] = true
		attrs = append(attrs, v.Axes[i])
	}
	return attrs, nil
}

// Kind returns the value kind of the variadic attribute given the channels being accessed.
func (v Variadic) Kind(channels string) valuekind.Kind {
	return valuekind.FloatVector(len(channels))
}

// Info is an attribute with the mode used to access it.
type Info struct {
	Attribute Attribute
	Mode      Mode
}

func (i Info) String() string {
	return fmt.Sprintf("%s(%s)", i.Attribute.Name, i.Mode)
}
