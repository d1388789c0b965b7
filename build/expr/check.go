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
	"strings"

	"github.com/gx-org/vfxgraph/api/valuekind"
)

func checkArity(op Operation, parents []*Node, want int) error {
	if len(parents) != want {
		return invalidf(op, parents, "got %d parents but want %d", len(parents), want)
	}
	return nil
}

func checkNoOperand(op Operation, parents []*Node, operands []int32) error {
	if len(operands) > 0 {
		return invalidf(op, parents, "unexpected operands %v", operands)
	}
	return nil
}

func checkSameKind(op Operation, parents []*Node) error {
	for _, p := range parents[1:] {
		if p.kind != parents[0].kind {
			return invalidf(op, parents, "parents must have the same kind")
		}
	}
	return nil
}

// numeric returns a check for operations taking parents of the same kind
// accepted by the predicate. The kind is added as an implicit operand.
func numeric(arity int, accept func(valuekind.Kind) bool) checkFunc {
	return func(op Operation, parents []*Node, operands []int32) (valuekind.Kind, []int32, error) {
		if err := checkArity(op, parents, arity); err != nil {
			return valuekind.None, nil, err
		}
		if err := checkNoOperand(op, parents, operands); err != nil {
			return valuekind.None, nil, err
		}
		if err := checkSameKind(op, parents); err != nil {
			return valuekind.None, nil, err
		}
		kind := parents[0].kind
		if !accept(kind) {
			return valuekind.None, nil, invalidf(op, parents, "kind %s not supported", kind)
		}
		return kind, []int32{int32(kind)}, nil
	}
}

// signature returns a check for operations with parents of fixed kinds.
func signature(result valuekind.Kind, params ...valuekind.Kind) checkFunc {
	return func(op Operation, parents []*Node, operands []int32) (valuekind.Kind, []int32, error) {
		if err := checkArity(op, parents, len(params)); err != nil {
			return valuekind.None, nil, err
		}
		if err := checkNoOperand(op, parents, operands); err != nil {
			return valuekind.None, nil, err
		}
		for i, want := range params {
			if parents[i].kind != want {
				return valuekind.None, nil, invalidf(op, parents, "parent %d is a %s but want a %s", i, parents[i].kind, want)
			}
		}
		return result, nil, nil
	}
}

func isArithmetic(k valuekind.Kind) bool {
	return k.IsFloatFamily() || k == valuekind.Int32 || k == valuekind.Uint32
}

func isComparable(k valuekind.Kind) bool {
	return isArithmetic(k) || k == valuekind.Boolean
}

func isSigned(k valuekind.Kind) bool {
	return k.IsFloatFamily() || k == valuekind.Int32
}

func isKind(want valuekind.Kind) func(valuekind.Kind) bool {
	return func(k valuekind.Kind) bool { return k == want }
}

func infix(symbol string) codeFunc {
	return func(_ *Node, p []string) string {
		return fmt.Sprintf("(%s %s %s)", p[0], symbol, p[1])
	}
}

func prefix(symbol string) codeFunc {
	return func(_ *Node, p []string) string {
		return symbol + p[0]
	}
}

func call(name string) codeFunc {
	return func(_ *Node, p []string) string {
		return name + "(" + strings.Join(p, ", ") + ")"
	}
}
