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

func (b *Builder) op(op Operation, parents ...*Node) (*Node, error) {
	return b.New(op, parents, nil, FlagNone)
}

// Binary builds a binary numeric, bitwise or logical operation.
func (b *Builder) Binary(op Operation, x, y *Node) (*Node, error) {
	return b.op(op, x, y)
}

// Unary builds a unary numeric, bitwise, logical or cast operation.
func (b *Builder) Unary(op Operation, x *Node) (*Node, error) {
	return b.op(op, x)
}

// Add returns x + y.
func (b *Builder) Add(x, y *Node) (*Node, error) {
	return b.op(OpAdd, x, y)
}

// Subtract returns x - y.
func (b *Builder) Subtract(x, y *Node) (*Node, error) {
	return b.op(OpSubtract, x, y)
}

// Multiply returns x * y.
func (b *Builder) Multiply(x, y *Node) (*Node, error) {
	return b.op(OpMultiply, x, y)
}

// Divide returns x / y.
func (b *Builder) Divide(x, y *Node) (*Node, error) {
	return b.op(OpDivide, x, y)
}

// Min returns the minimum of x and y.
func (b *Builder) Min(x, y *Node) (*Node, error) {
	return b.op(OpMin, x, y)
}

// Max returns the maximum of x and y.
func (b *Builder) Max(x, y *Node) (*Node, error) {
	return b.op(OpMax, x, y)
}

// Combine builds a float vector from 2 to 4 floats.
func (b *Builder) Combine(parts ...*Node) (*Node, error) {
	return b.op(OpCombine, parts...)
}

// ExtractComponent extracts a channel of a float vector.
func (b *Builder) ExtractComponent(x *Node, channel int) (*Node, error) {
	return b.New(OpExtractComponent, []*Node{x}, []int32{int32(channel)}, FlagNone)
}

// Condition compares two floats.
func (b *Builder) Condition(c Condition, x, y *Node) (*Node, error) {
	return b.New(OpCondition, []*Node{x, y}, []int32{int32(c)}, FlagNone)
}

// Branch returns yes if the predicate is true, no otherwise.
func (b *Builder) Branch(pred, yes, no *Node) (*Node, error) {
	return b.op(OpBranch, pred, yes, no)
}

// TRS builds a matrix from a position, Euler angles in degrees and a scale.
func (b *Builder) TRS(position, angles, scale *Node) (*Node, error) {
	return b.op(OpTRSToMatrix, position, angles, scale)
}

// Transform builds a transform operation with a matrix and another parent
// (a matrix, a position, a vector or a direction).
func (b *Builder) Transform(op Operation, m, x *Node) (*Node, error) {
	return b.op(op, m, x)
}

// Noise builds a noise operation.
// Params are the frequency, roughness and lacunarity of the noise.
func (b *Builder) Noise(op Operation, coord, params, octaves *Node) (*Node, error) {
	return b.op(op, coord, params, octaves)
}

func boolOperand(v bool) []int32 {
	if v {
		return []int32{1}
	}
	return []int32{0}
}

// Random returns a random float in [0, 1).
// A per-element random node is never shared with another random node.
func (b *Builder) Random(perElement bool) (*Node, error) {
	return b.New(OpRandom, nil, boolOperand(perElement), FlagNone)
}

// FixedRandom returns a reproducible random float in [0, 1) from a hash.
// A per-element fixed random combines the hash with the ID of the element.
func (b *Builder) FixedRandom(hash *Node, perElement bool) (*Node, error) {
	return b.New(OpFixedRandom, []*Node{hash}, boolOperand(perElement), FlagNone)
}

// SampleCurve samples a curve at a given time.
func (b *Builder) SampleCurve(curve, t *Node) (*Node, error) {
	return b.op(OpSampleCurve, curve, t)
}

// SampleGradient samples a gradient at a given time.
func (b *Builder) SampleGradient(gradient, t *Node) (*Node, error) {
	return b.op(OpSampleGradient, gradient, t)
}

// SampleTexture2D samples a 2D texture at some UV coordinates.
func (b *Builder) SampleTexture2D(tex, uv *Node) (*Node, error) {
	return b.op(OpSampleTexture2D, tex, uv)
}

// Builtin builds a built-in value: time, system seed, camera or system transforms.
func (b *Builder) Builtin(op Operation) (*Node, error) {
	if op < OpDeltaTime || op > OpWorldToLocal {
		return nil, invalidf(op, nil, "not a built-in value")
	}
	return b.op(op)
}
