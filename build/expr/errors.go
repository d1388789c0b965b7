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
	"github.com/pkg/errors"
)

// InvalidExpressionError is returned when an operation is constructed
// with parents or operands it does not accept.
type InvalidExpressionError struct {
	Op    Operation
	Kinds []valuekind.Kind
	Msg   string
}

func (err *InvalidExpressionError) Error() string {
	kinds := make([]string, len(err.Kinds))
	for i, k := range err.Kinds {
		kinds[i] = k.String()
	}
	return fmt.Sprintf("invalid expression %s(%s): %s", err.Op, strings.Join(kinds, ", "), err.Msg)
}

func invalidf(op Operation, parents []*Node, format string, a ...any) error {
	return errors.WithStack(&InvalidExpressionError{
		Op:    op,
		Kinds: kindsOf(parents),
		Msg:   fmt.Sprintf(format, a...),
	})
}

// Capability of a node.
type Capability int

const (
	// CPUEvaluation is the capability of a node to be evaluated when compiling.
	CPUEvaluation Capability = iota
	// GPUCodeGeneration is the capability of a node to generate GPU code.
	GPUCodeGeneration
	// ContentAccess is the capability of a node to hold data.
	ContentAccess
)

var capabilityNames = [...]string{
	CPUEvaluation:     "CPU evaluation",
	GPUCodeGeneration: "GPU code generation",
	ContentAccess:     "content access",
}

func (c Capability) String() string {
	return capabilityNames[c]
}

// CapabilityError is returned when a node is used for something it cannot do.
type CapabilityError struct {
	Op         Operation
	Capability Capability
	Flags      Flags
}

func (err *CapabilityError) Error() string {
	return fmt.Sprintf("%s (flags: %s) does not support %s", err.Op, err.Flags, err.Capability)
}

func capabilityError(n *Node, c Capability) error {
	return errors.WithStack(&CapabilityError{Op: n.op, Capability: c, Flags: n.flags})
}
