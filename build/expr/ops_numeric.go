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
	"fmt"
	"go/token"

	"github.com/gx-org/vfxgraph/api/valuekind"
	"github.com/gx-org/vfxgraph/api/values"
	"github.com/gx-org/vfxgraph/interp/kernels"
)

func binaryOp(tok token.Token) evalFunc {
	return func(_ *EvalContext, _ *Node, args []values.Value) (values.Value, error) {
		return kernels.Binary(tok, args[0], args[1])
	}
}

func unary(tok token.Token) evalFunc {
	return func(_ *EvalContext, _ *Node, args []values.Value) (values.Value, error) {
		return kernels.Unary(tok, args[0])
	}
}

func apply1(f func(values.Value) (values.Value, error)) evalFunc {
	return func(_ *EvalContext, _ *Node, args []values.Value) (values.Value, error) {
		return f(args[0])
	}
}

func apply2(f func(values.Value, values.Value) (values.Value, error)) evalFunc {
	return func(_ *EvalContext, _ *Node, args []values.Value) (values.Value, error) {
		return f(args[0], args[1])
	}
}

func (b *Builder) isZero(n *Node) bool {
	return n.kind.IsNumeric() && n.Equal(b.Zero(n.kind))
}

func (b *Builder) isOne(n *Node) bool {
	return n.kind.IsNumeric() && n.Equal(b.One(n.kind))
}

func reduceAdd(b *Builder, n *Node) (*Node, error) {
	x, y := n.parents[0], n.parents[1]
	switch {
	case b.isZero(y):
		return x, nil
	case b.isZero(x):
		return y, nil
	}
	return n, nil
}

func reduceSubtract(b *Builder, n *Node) (*Node, error) {
	if b.isZero(n.parents[1]) {
		return n.parents[0], nil
	}
	return n, nil
}

func reduceMultiply(b *Builder, n *Node) (*Node, error) {
	x, y := n.parents[0], n.parents[1]
	switch {
	case b.isZero(x):
		return x, nil
	case b.isZero(y):
		return y, nil
	case b.isOne(x):
		return y, nil
	case b.isOne(y):
		return x, nil
	}
	return n, nil
}

func reduceDivide(b *Builder, n *Node) (*Node, error) {
	x, y := n.parents[0], n.parents[1]
	switch {
	case b.isZero(x):
		return x, nil
	case b.isOne(y):
		return x, nil
	}
	return n, nil
}

func divideCode(n *Node, p []string) string {
	if n.kind.IsFloatFamily() {
		return fmt.Sprintf("(%s / %s)", p[0], p[1])
	}
	return fmt.Sprintf("(%[2]s != 0 ? %[1]s / %[2]s : 0)", p[0], p[1])
}

func init() {
	register(OpAdd, &definition{
		name:     "add",
		check:    numeric(2, isArithmetic),
		evaluate: binaryOp(token.ADD),
		reduce:   reduceAdd,
		code:     infix("+"),
	})
	register(OpSubtract, &definition{
		name:     "subtract",
		check:    numeric(2, isArithmetic),
		evaluate: binaryOp(token.SUB),
		reduce:   reduceSubtract,
		code:     infix("-"),
	})
	register(OpMultiply, &definition{
		name:     "multiply",
		check:    numeric(2, isArithmetic),
		evaluate: binaryOp(token.MUL),
		reduce:   reduceMultiply,
		code:     infix("*"),
	})
	register(OpDivide, &definition{
		name:     "divide",
		check:    numeric(2, isArithmetic),
		evaluate: binaryOp(token.QUO),
		reduce:   reduceDivide,
		code:     divideCode,
	})
	register(OpMin, &definition{
		name:     "min",
		check:    numeric(2, isComparable),
		evaluate: apply2(kernels.Min),
		code:     call("min"),
	})
	register(OpMax, &definition{
		name:     "max",
		check:    numeric(2, isComparable),
		evaluate: apply2(kernels.Max),
		code:     call("max"),
	})
	register(OpPow, &definition{
		name:     "pow",
		check:    numeric(2, valuekind.Kind.IsFloatFamily),
		evaluate: apply2(kernels.Pow),
		code:     call("pow"),
	})
	register(OpATan2, &definition{
		name:     "atan2",
		check:    numeric(2, valuekind.Kind.IsFloatFamily),
		evaluate: apply2(kernels.ATan2),
		code:     call("atan2"),
	})

	register(OpAbs, &definition{
		name:     "abs",
		check:    numeric(1, isSigned),
		evaluate: apply1(kernels.Abs),
		code:     call("abs"),
	})
	register(OpSign, &definition{
		name:     "sign",
		check:    numeric(1, isSigned),
		evaluate: apply1(kernels.Sign),
		code:     call("sign"),
	})
	register(OpNegate, &definition{
		name:     "negate",
		check:    numeric(1, isSigned),
		evaluate: unary(token.SUB),
		code:     prefix("-"),
	})
	for _, fn := range []struct {
		op   Operation
		name string
		f    func(values.Value) (values.Value, error)
	}{
		{OpFloor, "floor", kernels.Floor},
		{OpFrac, "frac", kernels.Frac},
		{OpSqrt, "sqrt", kernels.Sqrt},
		{OpSin, "sin", kernels.Sin},
		{OpCos, "cos", kernels.Cos},
		{OpTan, "tan", kernels.Tan},
		{OpASin, "asin", kernels.ASin},
		{OpACos, "acos", kernels.ACos},
		{OpATan, "atan", kernels.ATan},
		{OpLog2, "log2", kernels.Log2},
		{OpExp2, "exp2", kernels.Exp2},
		{OpSaturate, "saturate", kernels.Saturate},
	} {
		register(fn.op, &definition{
			name:     fn.name,
			check:    numeric(1, valuekind.Kind.IsFloatFamily),
			evaluate: apply1(fn.f),
			code:     call(fn.name),
		})
	}

	isUint := isKind(valuekind.Uint32)
	for _, bw := range []struct {
		op     Operation
		name   string
		tok    token.Token
		symbol string
	}{
		{OpBitwiseAnd, "bitwiseAnd", token.AND, "&"},
		{OpBitwiseOr, "bitwiseOr", token.OR, "|"},
		{OpBitwiseXor, "bitwiseXor", token.XOR, "^"},
		{OpBitwiseLeftShift, "bitwiseLeftShift", token.SHL, "<<"},
		{OpBitwiseRightShift, "bitwiseRightShift", token.SHR, ">>"},
	} {
		register(bw.op, &definition{
			name:     bw.name,
			check:    numeric(2, isUint),
			evaluate: binaryOp(bw.tok),
			code:     infix(bw.symbol),
		})
	}
	register(OpBitwiseComplement, &definition{
		name:     "bitwiseComplement",
		check:    numeric(1, isUint),
		evaluate: unary(token.XOR),
		code:     prefix("~"),
	})

	isBool := isKind(valuekind.Boolean)
	register(OpLogicalAnd, &definition{
		name:     "logicalAnd",
		check:    numeric(2, isBool),
		evaluate: binaryOp(token.LAND),
		code:     infix("&&"),
	})
	register(OpLogicalOr, &definition{
		name:     "logicalOr",
		check:    numeric(2, isBool),
		evaluate: binaryOp(token.LOR),
		code:     infix("||"),
	})
	register(OpLogicalNot, &definition{
		name:     "logicalNot",
		check:    numeric(1, isBool),
		evaluate: unary(token.NOT),
		code:     prefix("!"),
	})

	for _, c := range []struct {
		op       Operation
		name     string
		from, to valuekind.Kind
	}{
		{OpUintToFloat, "uintToFloat", valuekind.Uint32, valuekind.Float},
		{OpIntToFloat, "intToFloat", valuekind.Int32, valuekind.Float},
		{OpFloatToUint, "floatToUint", valuekind.Float, valuekind.Uint32},
		{OpFloatToInt, "floatToInt", valuekind.Float, valuekind.Int32},
		{OpIntToUint, "intToUint", valuekind.Int32, valuekind.Uint32},
		{OpUintToInt, "uintToInt", valuekind.Uint32, valuekind.Int32},
	} {
		to := c.to
		register(c.op, &definition{
			name:  c.name,
			check: signature(to, c.from),
			evaluate: func(_ *EvalContext, _ *Node, args []values.Value) (values.Value, error) {
				return kernels.Cast(args[0], to)
			},
			code: prefix("(" + to.CodeToken() + ")"),
		})
	}
}
