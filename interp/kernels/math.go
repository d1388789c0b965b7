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

package kernels

import (
	"math"

	m32 "github.com/chewxy/math32"
	"github.com/gx-org/vfxgraph/api/values"
)

func frac(x float32) float32 {
	return x - m32.Floor(x)
}

func saturate(x float32) float32 {
	return m32.Max(0, m32.Min(1, x))
}

func exp2(x float32) float32 {
	return m32.Pow(2, x)
}

// Float functions available on scalars and float vectors.
var (
	Floor    = floatFunc(m32.Floor)
	Frac     = floatFunc(frac)
	Sqrt     = floatFunc(m32.Sqrt)
	Sin      = floatFunc(m32.Sin)
	Cos      = floatFunc(m32.Cos)
	Tan      = floatFunc(m32.Tan)
	ASin     = floatFunc(m32.Asin)
	ACos     = floatFunc(m32.Acos)
	ATan     = floatFunc(m32.Atan)
	Log2     = floatFunc(m32.Log2)
	Exp2     = floatFunc(exp2)
	Saturate = floatFunc(saturate)
)

func floatFunc(f func(float32) float32) func(values.Value) (values.Value, error) {
	return func(x values.Value) (values.Value, error) {
		return FloatUnary(x, f)
	}
}

// Pow returns x to the power of y, elementwise.
func Pow(x, y values.Value) (values.Value, error) {
	return FloatBinary(x, y, m32.Pow)
}

// ATan2 returns the arc tangent of y/x, elementwise.
func ATan2(y, x values.Value) (values.Value, error) {
	return FloatBinary(y, x, m32.Atan2)
}

// WangHash scrambles the bits of a seed.
func WangHash(seed uint32) uint32 {
	seed = (seed ^ 61) ^ (seed >> 16)
	seed *= 9
	seed ^= seed >> 4
	seed *= 0x27d4eb2d
	seed ^= seed >> 15
	return seed
}

// FixedRandom returns a reproducible float in [0, 1) from a hash input.
// The mantissa of the hashed seed is used as the mantissa of a float in [1, 2).
func FixedRandom(hash uint32) float32 {
	return math.Float32frombits((WangHash(hash)>>9)|0x3f800000) - 1
}
