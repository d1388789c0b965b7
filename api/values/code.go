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
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gx-org/vfxgraph/api/valuekind"
	"github.com/pkg/errors"
)

func floatLiteral(f float32) string {
	if math.IsInf(float64(f), 0) || f != f {
		return fmt.Sprintf("asfloat(0x%08xu)", math.Float32bits(f))
	}
	s := strconv.FormatFloat(float64(f), 'g', -1, 32)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s + "f"
}

func joinFloats(fs []float32) string {
	ss := make([]string, len(fs))
	for i, f := range fs {
		ss[i] = floatLiteral(f)
	}
	return strings.Join(ss, ", ")
}

// CodeString returns the shader literal of a numeric value.
func (v Value) CodeString() (string, error) {
	switch v.kind {
	case valuekind.Boolean:
		return strconv.FormatBool(v.b), nil
	case valuekind.Int32:
		return strconv.FormatInt(int64(v.i[0]), 10), nil
	case valuekind.Uint32:
		return strconv.FormatUint(uint64(v.u[0]), 10) + "u", nil
	case valuekind.Float:
		return floatLiteral(v.f[0]), nil
	case valuekind.Float2, valuekind.Float3, valuekind.Float4:
		return fmt.Sprintf("%s(%s)", v.kind.CodeToken(), joinFloats(v.f)), nil
	case valuekind.Matrix4x4:
		// Shader matrix constructors take their components row by row.
		rows := make([]float32, 16)
		for r := range 4 {
			for c := range 4 {
				rows[r*4+c] = v.f[c*4+r]
			}
		}
		return fmt.Sprintf("float4x4(%s)", joinFloats(rows)), nil
	}
	return "", errors.Errorf("a %s value cannot be written as a shader literal", v.kind)
}

// String representation of the value.
func (v Value) String() string {
	switch v.kind {
	case valuekind.None:
		return "<invalid>"
	case valuekind.Boolean:
		return strconv.FormatBool(v.b)
	case valuekind.Int32:
		return strconv.FormatInt(int64(v.i[0]), 10)
	case valuekind.Uint32:
		return strconv.FormatUint(uint64(v.u[0]), 10) + "u"
	case valuekind.Float:
		return strconv.FormatFloat(float64(v.f[0]), 'g', -1, 32)
	case valuekind.Float2, valuekind.Float3, valuekind.Float4, valuekind.Matrix4x4:
		ss := make([]string, len(v.f))
		for i, f := range v.f {
			ss[i] = strconv.FormatFloat(float64(f), 'g', -1, 32)
		}
		return fmt.Sprintf("%s(%s)", v.kind, strings.Join(ss, ", "))
	case valuekind.Curve:
		return fmt.Sprintf("curve(%d keys)", len(v.obj.(Curve).Keys))
	case valuekind.ColorGradient:
		g := v.obj.(Gradient)
		return fmt.Sprintf("gradient(%d colors, %d alphas)", len(g.ColorKeys), len(g.AlphaKeys))
	case valuekind.Mesh:
		return fmt.Sprintf("mesh(%s)", v.obj.(Mesh).Name)
	case valuekind.Spline:
		return fmt.Sprintf("spline(%d knots)", len(v.obj.(Spline).Knots))
	}
	if ref, ok := v.TextureRef(); ok {
		return fmt.Sprintf("%s(%s)", v.kind, ref.Name)
	}
	return v.kind.String()
}
