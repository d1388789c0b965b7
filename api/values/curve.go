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

package values

import (
	"cogentcore.org/core/math32"
	m32 "github.com/chewxy/math32"
)

type (
	// WrapMode specifies how a curve is evaluated outside of its keys.
	WrapMode uint8

	// Keyframe is a key of an animation curve.
	Keyframe struct {
		Time, Value           float32
		InTangent, OutTangent float32
	}

	// Curve is a piecewise cubic Hermite curve.
	Curve struct {
		Keys              []Keyframe
		PreWrap, PostWrap WrapMode
	}

	// GradientMode specifies how colors are interpolated between keys.
	GradientMode uint8

	// ColorKey is a color at a given time of a gradient.
	ColorKey struct {
		Color math32.Vector3
		Time  float32
	}

	// AlphaKey is an alpha value at a given time of a gradient.
	AlphaKey struct {
		Alpha, Time float32
	}

	// Gradient is a color gradient with separate color and alpha keys.
	Gradient struct {
		ColorKeys []ColorKey
		AlphaKeys []AlphaKey
		Mode      GradientMode
	}
)

// Wrap modes.
const (
	WrapClamp WrapMode = iota
	WrapLoop
	WrapPingPong
)

// Gradient modes.
const (
	GradientBlend GradientMode = iota
	GradientFixed
)

// Equal returns true if both curves have the same keys and wrap modes.
func (c Curve) Equal(o Curve) bool {
	if c.PreWrap != o.PreWrap || c.PostWrap != o.PostWrap || len(c.Keys) != len(o.Keys) {
		return false
	}
	for i, k := range c.Keys {
		if k != o.Keys[i] {
			return false
		}
	}
	return true
}

func wrap(mode WrapMode, t, start, end float32) float32 {
	length := end - start
	if length <= 0 {
		return start
	}
	switch mode {
	case WrapLoop:
		r := m32.Mod(t-start, length)
		if r < 0 {
			r += length
		}
		return start + r
	case WrapPingPong:
		r := m32.Mod(t-start, 2*length)
		if r < 0 {
			r += 2 * length
		}
		if r > length {
			r = 2*length - r
		}
		return start + r
	}
	return m32.Max(start, m32.Min(end, t))
}

// Evaluate the curve at time t.
// An empty curve evaluates to 0.
func (c Curve) Evaluate(t float32) float32 {
	switch len(c.Keys) {
	case 0:
		return 0
	case 1:
		return c.Keys[0].Value
	}
	first, last := c.Keys[0], c.Keys[len(c.Keys)-1]
	if t < first.Time {
		t = wrap(c.PreWrap, t, first.Time, last.Time)
	} else if t > last.Time {
		t = wrap(c.PostWrap, t, first.Time, last.Time)
	}
	i := 1
	for i < len(c.Keys)-1 && c.Keys[i].Time < t {
		i++
	}
	k0, k1 := c.Keys[i-1], c.Keys[i]
	return hermite(k0, k1, t)
}

func hermite(k0, k1 Keyframe, t float32) float32 {
	dt := k1.Time - k0.Time
	if dt <= 0 {
		return k1.Value
	}
	if m32.IsInf(k0.OutTangent, 0) || m32.IsInf(k1.InTangent, 0) {
		return k0.Value
	}
	s := (t - k0.Time) / dt
	s2 := s * s
	s3 := s2 * s
	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2
	return h00*k0.Value + h10*dt*k0.OutTangent + h01*k1.Value + h11*dt*k1.InTangent
}

// Equal returns true if both gradients have the same keys and mode.
func (g Gradient) Equal(o Gradient) bool {
	if g.Mode != o.Mode || len(g.ColorKeys) != len(o.ColorKeys) || len(g.AlphaKeys) != len(o.AlphaKeys) {
		return false
	}
	for i, k := range g.ColorKeys {
		if k != o.ColorKeys[i] {
			return false
		}
	}
	for i, k := range g.AlphaKeys {
		if k != o.AlphaKeys[i] {
			return false
		}
	}
	return true
}

// keyIndex returns the index of the first key whose time is greater or equal to t
// and the interpolation factor from the previous key.
func keyIndex(n int, time func(int) float32, t float32, mode GradientMode) (prev, next int, s float32) {
	next = 0
	for next < n && time(next) < t {
		next++
	}
	switch {
	case next == 0:
		return 0, 0, 0
	case next == n:
		return n - 1, n - 1, 0
	case mode == GradientFixed:
		return next, next, 0
	}
	prev = next - 1
	dt := time(next) - time(prev)
	if dt <= 0 {
		return next, next, 0
	}
	return prev, next, (t - time(prev)) / dt
}

// Evaluate the gradient at time t.
// A gradient without color keys is white, without alpha keys opaque.
func (g Gradient) Evaluate(t float32) math32.Vector4 {
	color := math32.Vec3(1, 1, 1)
	if n := len(g.ColorKeys); n > 0 {
		prev, next, s := keyIndex(n, func(i int) float32 { return g.ColorKeys[i].Time }, t, g.Mode)
		c0, c1 := g.ColorKeys[prev].Color, g.ColorKeys[next].Color
		color = math32.Vec3(
			c0.X+(c1.X-c0.X)*s,
			c0.Y+(c1.Y-c0.Y)*s,
			c0.Z+(c1.Z-c0.Z)*s,
		)
	}
	alpha := float32(1)
	if n := len(g.AlphaKeys); n > 0 {
		prev, next, s := keyIndex(n, func(i int) float32 { return g.AlphaKeys[i].Time }, t, g.Mode)
		a0, a1 := g.AlphaKeys[prev].Alpha, g.AlphaKeys[next].Alpha
		alpha = a0 + (a1-a0)*s
	}
	return math32.Vec4(color.X, color.Y, color.Z, alpha)
}
