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

package expr

import (
	"sync"

	"cogentcore.org/core/math32"
	"github.com/gx-org/vfxgraph/api/values"
)

// AtlasWidth is the number of samples of a baked curve or gradient.
const AtlasWidth = 128

// MemoryAtlas bakes curves and gradients into rows of samples kept in memory.
// Identical curves or gradients share the same row.
type MemoryAtlas struct {
	mu        sync.Mutex
	curves        []values.Curve
	rowOfCurve    []int
	gradients     []values.Gradient
	rowOfGradient []int
	rows          [][]float32
}

var _ Atlas = (*MemoryAtlas)(nil)

// NewMemoryAtlas returns an empty atlas.
func NewMemoryAtlas() *MemoryAtlas {
	return &MemoryAtlas{}
}

func (a *MemoryAtlas) addRow(row []float32) int {
	a.rows = append(a.rows, row)
	return len(a.rows) - 1
}

func sampleTime(i int) float32 {
	return float32(i) / float32(AtlasWidth-1)
}

func curveRange(c values.Curve) (start, end float32) {
	if len(c.Keys) == 0 {
		return 0, 0
	}
	return c.Keys[0].Time, c.Keys[len(c.Keys)-1].Time
}

// AddCurve bakes a curve over the time range of its keys.
// The encoding is (scale, offset, row, wrap modes) where the normalized
// sampling coordinate is time*scale+offset.
func (a *MemoryAtlas) AddCurve(c values.Curve) (math32.Vector4, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	start, end := curveRange(c)
	var scale float32
	if end > start {
		scale = 1 / (end - start)
	}
	wrap := float32(c.PreWrap) + 4*float32(c.PostWrap)
	encode := func(row int) math32.Vector4 {
		return math32.Vec4(scale, -start*scale, float32(row), wrap)
	}
	for i, other := range a.curves {
		if other.Equal(c) {
			return encode(a.rowOfCurve[i]), nil
		}
	}
	row := make([]float32, AtlasWidth)
	for i := range row {
		row[i] = c.Evaluate(start + sampleTime(i)*(end-start))
	}
	a.curves = append(a.curves, c)
	a.rowOfCurve = append(a.rowOfCurve, a.addRow(row))
	return encode(a.rowOfCurve[len(a.curves)-1]), nil
}

// AddGradient bakes a gradient over [0, 1].
// The encoding is the row of the gradient in the atlas.
func (a *MemoryAtlas) AddGradient(g values.Gradient) (float32, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, other := range a.gradients {
		if other.Equal(g) {
			return float32(a.rowOfGradient[i]), nil
		}
	}
	row := make([]float32, 0, 4*AtlasWidth)
	for i := range AtlasWidth {
		c := g.Evaluate(sampleTime(i))
		row = append(row, c.X, c.Y, c.Z, c.W)
	}
	a.gradients = append(a.gradients, g)
	a.rowOfGradient = append(a.rowOfGradient, a.addRow(row))
	return float32(a.rowOfGradient[len(a.gradients)-1]), nil
}

// Rows returns the number of rows in the atlas.
func (a *MemoryAtlas) Rows() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.rows)
}

// Row returns the samples of a row: one float per sample for curves,
// four floats (RGBA) per sample for gradients.
func (a *MemoryAtlas) Row(i int) []float32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if i < 0 || i >= len(a.rows) {
		return nil
	}
	return append([]float32(nil), a.rows[i]...)
}
