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

	"github.com/gx-org/vfxgraph/api/valuekind"
	"github.com/gx-org/vfxgraph/api/values"
	"github.com/pkg/errors"
)

// truncate a float toward zero. NaN and values outside of the int64 range
// map to the minimum int64, like a hardware truncating conversion.
func truncate(f float32) int64 {
	if f != f || f >= math.MaxInt64 || f < math.MinInt64 {
		return math.MinInt64
	}
	return int64(f)
}

func floatToInt(f float32) int32 {
	if f != f || f >= math.MaxInt32 || f < math.MinInt32 {
		return math.MinInt32
	}
	return int32(f)
}

// Cast converts a scalar value into another scalar kind.
//
// Float to integer conversions truncate toward zero. Conversions between
// signed and unsigned integers reinterpret the bits.
func Cast(x values.Value, target valuekind.Kind) (values.Value, error) {
	switch from := x.Kind(); {
	case from == valuekind.Uint32 && target == valuekind.Float:
		return values.Float(float32(x.Uints()[0])), nil
	case from == valuekind.Int32 && target == valuekind.Float:
		return values.Float(float32(x.Ints()[0])), nil
	case from == valuekind.Float && target == valuekind.Uint32:
		return values.Uint(uint32(truncate(x.Floats()[0]))), nil
	case from == valuekind.Float && target == valuekind.Int32:
		return values.Int(floatToInt(x.Floats()[0])), nil
	case from == valuekind.Int32 && target == valuekind.Uint32:
		return values.Uint(uint32(x.Ints()[0])), nil
	case from == valuekind.Uint32 && target == valuekind.Int32:
		return values.Int(int32(x.Uints()[0])), nil
	case from == target:
		return x, nil
	}
	return values.Value{}, errors.Errorf("cannot cast %s to %s", x.Kind(), target)
}
