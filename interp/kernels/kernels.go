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

// Package kernels implements the CPU evaluation of expression operators.
//
// Kernels apply elementwise on scalar and vector values. Integer and
// unsigned divisions by zero return zero.
package kernels

import (
	"go/token"

	m32 "github.com/chewxy/math32"
	"github.com/gx-org/vfxgraph/api/valuekind"
	"github.com/gx-org/vfxgraph/api/values"
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

type number interface {
	constraints.Integer | constraints.Float
}

func apply1[T any](x []T, f func(T) T) []T {
	z := make([]T, len(x))
	for i, xi := range x {
		z[i] = f(xi)
	}
	return z
}

func apply2[T any](x, y []T, f func(T, T) T) []T {
	z := make([]T, len(x))
	for i, xi := range x {
		z[i] = f(xi, y[i])
	}
	return z
}

func algebraic[T number](op token.Token) func(T, T) T {
	switch op {
	case token.ADD:
		return func(x, y T) T { return x + y }
	case token.SUB:
		return func(x, y T) T { return x - y }
	case token.MUL:
		return func(x, y T) T { return x * y }
	case token.QUO:
		return func(x, y T) T { return x / y }
	}
	return nil
}

func integer[T constraints.Integer](op token.Token) func(T, T) T {
	switch op {
	case token.QUO:
		return func(x, y T) T {
			if y == 0 {
				return 0
			}
			return x / y
		}
	case token.REM:
		return func(x, y T) T {
			if y == 0 {
				return 0
			}
			return x % y
		}
	}
	return algebraic[T](op)
}

func unsigned(op token.Token) func(uint32, uint32) uint32 {
	switch op {
	case token.AND:
		return func(x, y uint32) uint32 { return x & y }
	case token.OR:
		return func(x, y uint32) uint32 { return x | y }
	case token.XOR:
		return func(x, y uint32) uint32 { return x ^ y }
	case token.SHL:
		return func(x, y uint32) uint32 { return x << y }
	case token.SHR:
		return func(x, y uint32) uint32 { return x >> y }
	}
	return integer[uint32](op)
}

func checkSameKind(x, y values.Value) error {
	if x.Kind() != y.Kind() {
		return errors.Errorf("operands kind mismatch: %s and %s", x.Kind(), y.Kind())
	}
	return nil
}

func unsupported(op any, kind valuekind.Kind) error {
	return errors.Errorf("operator %v not supported for %s", op, kind)
}

// Binary applies a binary operator elementwise.
// Supported operators are + - * / % for numbers, & | ^ << >> for unsigned
// integers, and && || for booleans.
func Binary(op token.Token, x, y values.Value) (values.Value, error) {
	if err := checkSameKind(x, y); err != nil {
		return values.Value{}, err
	}
	kind := x.Kind()
	switch {
	case kind.IsFloatFamily():
		if op == token.REM {
			return FloatBinary(x, y, m32.Mod)
		}
		if f := algebraic[float32](op); f != nil {
			return values.FromFloats(kind, apply2(x.Floats(), y.Floats(), f))
		}
	case kind == valuekind.Int32:
		if f := integer[int32](op); f != nil {
			return values.FromInts(apply2(x.Ints(), y.Ints(), f))
		}
	case kind == valuekind.Uint32:
		if f := unsigned(op); f != nil {
			return values.FromUints(apply2(x.Uints(), y.Uints(), f))
		}
	case kind == valuekind.Boolean:
		switch op {
		case token.LAND:
			return values.Bool(x.BoolValue() && y.BoolValue()), nil
		case token.LOR:
			return values.Bool(x.BoolValue() || y.BoolValue()), nil
		case token.XOR, token.NEQ:
			return values.Bool(x.BoolValue() != y.BoolValue()), nil
		}
	}
	return values.Value{}, unsupported(op, kind)
}

// Unary applies a unary operator: - for signed numbers, ^ (complement) for
// unsigned integers, and ! for booleans.
func Unary(op token.Token, x values.Value) (values.Value, error) {
	kind := x.Kind()
	switch {
	case op == token.SUB && kind.IsFloatFamily():
		return values.FromFloats(kind, apply1(x.Floats(), func(a float32) float32 { return -a }))
	case op == token.SUB && kind == valuekind.Int32:
		return values.FromInts(apply1(x.Ints(), func(a int32) int32 { return -a }))
	case op == token.XOR && kind == valuekind.Uint32:
		return values.FromUints(apply1(x.Uints(), func(a uint32) uint32 { return ^a }))
	case op == token.NOT && kind == valuekind.Boolean:
		return values.Bool(!x.BoolValue()), nil
	}
	return values.Value{}, unsupported(op, kind)
}

func minOf[T number](x, y T) T {
	if x < y {
		return x
	}
	return y
}

func maxOf[T number](x, y T) T {
	if x > y {
		return x
	}
	return y
}

// Min returns the elementwise minimum.
// For booleans, Min is left ? right : left.
func Min(x, y values.Value) (values.Value, error) {
	return minMax(x, y, minOf[float32], minOf[int32], minOf[uint32], func(l, r bool) bool {
		if l {
			return r
		}
		return l
	})
}

// Max returns the elementwise maximum.
// For booleans, Max is left ? left : right.
func Max(x, y values.Value) (values.Value, error) {
	return minMax(x, y, maxOf[float32], maxOf[int32], maxOf[uint32], func(l, r bool) bool {
		if l {
			return l
		}
		return r
	})
}

func minMax(x, y values.Value,
	ff func(float32, float32) float32,
	fi func(int32, int32) int32,
	fu func(uint32, uint32) uint32,
	fb func(bool, bool) bool,
) (values.Value, error) {
	if err := checkSameKind(x, y); err != nil {
		return values.Value{}, err
	}
	kind := x.Kind()
	switch {
	case kind.IsFloatFamily():
		return values.FromFloats(kind, apply2(x.Floats(), y.Floats(), ff))
	case kind == valuekind.Int32:
		return values.FromInts(apply2(x.Ints(), y.Ints(), fi))
	case kind == valuekind.Uint32:
		return values.FromUints(apply2(x.Uints(), y.Uints(), fu))
	case kind == valuekind.Boolean:
		return values.Bool(fb(x.BoolValue(), y.BoolValue())), nil
	}
	return values.Value{}, unsupported("min/max", kind)
}

// FloatBinary applies f elementwise on two values of the float family.
func FloatBinary(x, y values.Value, f func(float32, float32) float32) (values.Value, error) {
	if err := checkSameKind(x, y); err != nil {
		return values.Value{}, err
	}
	if !x.Kind().IsFloatFamily() {
		return values.Value{}, unsupported("float function", x.Kind())
	}
	return values.FromFloats(x.Kind(), apply2(x.Floats(), y.Floats(), f))
}

// FloatUnary applies f elementwise on a value of the float family.
func FloatUnary(x values.Value, f func(float32) float32) (values.Value, error) {
	if !x.Kind().IsFloatFamily() {
		return values.Value{}, unsupported("float function", x.Kind())
	}
	return values.FromFloats(x.Kind(), apply1(x.Floats(), f))
}

// Abs returns the elementwise absolute value of a float or int value.
func Abs(x values.Value) (values.Value, error) {
	switch kind := x.Kind(); {
	case kind.IsFloatFamily():
		return values.FromFloats(kind, apply1(x.Floats(), func(a float32) float32 {
			if a < 0 {
				return -a
			}
			return a
		}))
	case kind == valuekind.Int32:
		return values.FromInts(apply1(x.Ints(), func(a int32) int32 {
			if a < 0 {
				return -a
			}
			return a
		}))
	case kind == valuekind.Uint32:
		return x, nil
	}
	return values.Value{}, unsupported("abs", x.Kind())
}

type signed interface {
	constraints.Signed | constraints.Float
}

func sign[T signed](a T) T {
	switch {
	case a > 0:
		return 1
	case a < 0:
		return -1
	}
	return 0
}

// Sign returns -1, 0, or 1 elementwise.
func Sign(x values.Value) (values.Value, error) {
	switch kind := x.Kind(); {
	case kind.IsFloatFamily():
		return values.FromFloats(kind, apply1(x.Floats(), sign[float32]))
	case kind == valuekind.Int32:
		return values.FromInts(apply1(x.Ints(), sign[int32]))
	}
	return values.Value{}, unsupported("sign", x.Kind())
}

// Compare compares two float scalars.
// Supported operators are == != < <= > >=.
func Compare(op token.Token, x, y values.Value) (values.Value, error) {
	if x.Kind() != valuekind.Float || y.Kind() != valuekind.Float {
		return values.Value{}, errors.Errorf("comparison requires float operands, got %s and %s", x.Kind(), y.Kind())
	}
	a, b := x.Floats()[0], y.Floats()[0]
	var r bool
	switch op {
	case token.EQL:
		r = a == b
	case token.NEQ:
		r = a != b
	case token.LSS:
		r = a < b
	case token.LEQ:
		r = a <= b
	case token.GTR:
		r = a > b
	case token.GEQ:
		r = a >= b
	default:
		return values.Value{}, unsupported(op, valuekind.Float)
	}
	return values.Bool(r), nil
}
