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
	"strings"

	"github.com/gx-org/vfxgraph/api/valuekind"
	"github.com/gx-org/vfxgraph/api/values"
	"github.com/gx-org/vfxgraph/interp/kernels"
)

// Condition compares two floats.
type Condition int32

// Conditions supported by OpCondition.
const (
	CondEqual Condition = iota
	CondNotEqual
	CondLess
	CondLessOrEqual
	CondGreater
	CondGreaterOrEqual
	numConditions
)

var conditions = [...]struct {
	tok    token.Token
	symbol string
}{
	CondEqual:          {token.EQL, "=="},
	CondNotEqual:       {token.NEQ, "!="},
	CondLess:           {token.LSS, "<"},
	CondLessOrEqual:    {token.LEQ, "<="},
	CondGreater:        {token.GTR, ">"},
	CondGreaterOrEqual: {token.GEQ, ">="},
}

func (c Condition) String() string {
	if c < 0 || c >= numConditions {
		return fmt.Sprintf("Condition(%d)", int32(c))
	}
	return conditions[c].symbol
}

const swizzle = "xyzw"

func checkCombine(op Operation, parents []*Node, operands []int32) (valuekind.Kind, []int32, error) {
	if len(parents) < 2 || len(parents) > 4 {
		return valuekind.None, nil, invalidf(op, parents, "got %d parents but want 2 to 4", len(parents))
	}
	if err := checkNoOperand(op, parents, operands); err != nil {
		return valuekind.None, nil, err
	}
	for i, p := range parents {
		if p.kind != valuekind.Float {
			return valuekind.None, nil, invalidf(op, parents, "parent %d is a %s but want a float", i, p.kind)
		}
	}
	return valuekind.FloatVector(len(parents)), nil, nil
}

func evalCombine(_ *EvalContext, n *Node, args []values.Value) (values.Value, error) {
	fs := make([]float32, len(args))
	for i, arg := range args {
		fs[i] = arg.Floats()[0]
	}
	return values.FromFloats(n.kind, fs)
}

func checkExtract(op Operation, parents []*Node, operands []int32) (valuekind.Kind, []int32, error) {
	if err := checkArity(op, parents, 1); err != nil {
		return valuekind.None, nil, err
	}
	if len(operands) != 1 {
		return valuekind.None, nil, invalidf(op, parents, "got %d operands but want a channel", len(operands))
	}
	kind := parents[0].kind
	if !kind.IsFloatFamily() {
		return valuekind.None, nil, invalidf(op, parents, "cannot extract a component from a %s", kind)
	}
	if ch := operands[0]; ch < 0 || int(ch) >= kind.ComponentCount() {
		return valuekind.None, nil, invalidf(op, parents, "channel %d out of range for %s", ch, kind)
	}
	return valuekind.Float, operands, nil
}

func reduceExtract(_ *Builder, n *Node) (*Node, error) {
	parent, ch := n.parents[0], n.operands[0]
	switch {
	case parent.op == OpCombine:
		return parent.parents[ch], nil
	case parent.kind == valuekind.Float && ch == 0:
		return parent, nil
	}
	return n, nil
}

func extractCode(n *Node, p []string) string {
	if n.parents[0].kind == valuekind.Float {
		return p[0]
	}
	return p[0] + "." + string(swizzle[n.operands[0]])
}

func checkCondition(op Operation, parents []*Node, operands []int32) (valuekind.Kind, []int32, error) {
	if len(operands) != 1 {
		return valuekind.None, nil, invalidf(op, parents, "got %d operands but want a condition", len(operands))
	}
	if c := Condition(operands[0]); c < 0 || c >= numConditions {
		return valuekind.None, nil, invalidf(op, parents, "invalid condition %d", operands[0])
	}
	if _, _, err := signature(valuekind.Boolean, valuekind.Float, valuekind.Float)(op, parents, nil); err != nil {
		return valuekind.None, nil, err
	}
	return valuekind.Boolean, operands, nil
}

func checkBranch(op Operation, parents []*Node, operands []int32) (valuekind.Kind, []int32, error) {
	if err := checkArity(op, parents, 3); err != nil {
		return valuekind.None, nil, err
	}
	if err := checkNoOperand(op, parents, operands); err != nil {
		return valuekind.None, nil, err
	}
	if parents[0].kind != valuekind.Boolean {
		return valuekind.None, nil, invalidf(op, parents, "predicate is a %s but want a bool", parents[0].kind)
	}
	if parents[1].kind != parents[2].kind {
		return valuekind.None, nil, invalidf(op, parents, "branches have different kinds")
	}
	return parents[1].kind, nil, nil
}

func reduceBranch(_ *Builder, n *Node) (*Node, error) {
	pred, yes, no := n.parents[0], n.parents[1], n.parents[2]
	if !pred.Is(FlagValue | FlagConstant) {
		return n, nil
	}
	if pred.value.BoolValue() {
		return yes, nil
	}
	return no, nil
}

func init() {
	register(OpCombine, &definition{
		name:     "combine",
		check:    checkCombine,
		evaluate: evalCombine,
		code: func(n *Node, p []string) string {
			return n.kind.CodeToken() + "(" + strings.Join(p, ", ") + ")"
		},
	})
	register(OpExtractComponent, &definition{
		name:  "extractComponent",
		check: checkExtract,
		evaluate: func(_ *EvalContext, n *Node, args []values.Value) (values.Value, error) {
			return args[0].Component(int(n.operands[0]))
		},
		reduce: reduceExtract,
		code:   extractCode,
	})
	register(OpCondition, &definition{
		name:  "condition",
		check: checkCondition,
		evaluate: func(_ *EvalContext, n *Node, args []values.Value) (values.Value, error) {
			return kernels.Compare(conditions[n.operands[0]].tok, args[0], args[1])
		},
		code: func(n *Node, p []string) string {
			return fmt.Sprintf("(%s %s %s)", p[0], Condition(n.operands[0]), p[1])
		},
	})
	register(OpBranch, &definition{
		name:  "branch",
		check: checkBranch,
		evaluate: func(_ *EvalContext, _ *Node, args []values.Value) (values.Value, error) {
			if args[0].BoolValue() {
				return args[1], nil
			}
			return args[2], nil
		},
		reduce: reduceBranch,
		code: func(_ *Node, p []string) string {
			return fmt.Sprintf("(%s ? %s : %s)", p[0], p[1], p[2])
		},
	})
}
