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

package compile

import (
	"fmt"
	"slices"

	"github.com/gx-org/vfxgraph/api/trace"
	"github.com/gx-org/vfxgraph/api/valuekind"
	"github.com/gx-org/vfxgraph/api/values"
	"github.com/gx-org/vfxgraph/base/iter"
	"github.com/gx-org/vfxgraph/base/ordered"
	"github.com/gx-org/vfxgraph/build/expr"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// State of a root expression in a context.
type State int

const (
	// Unregistered expressions are not roots of the context.
	Unregistered State = iota
	// Registered roots have not been compiled yet.
	Registered
	// Compiled roots have a reduced form in the cache.
	Compiled
	// Invalidated roots need to be compiled again.
	Invalidated
)

var stateNames = [...]string{
	Unregistered: "unregistered",
	Registered:   "registered",
	Compiled:     "compiled",
	Invalidated:  "invalidated",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Context compiles a set of root expressions.
//
// A context is not safe for concurrent use. Different contexts can share
// the same builder.
type Context struct {
	builder *expr.Builder
	options Options
	eval    expr.EvalContext
	tracer  trace.Callback

	roots   *ordered.Map[*expr.Node, State]
	reduced map[*expr.Node]*expr.Node
}

// New returns a new compilation context.
// New nodes created when compiling are built by b.
func New(b *expr.Builder, options Options, settings ...Setting) *Context {
	c := &Context{
		builder: b,
		options: options,
		roots:   ordered.NewMap[*expr.Node, State](),
		reduced: make(map[*expr.Node]*expr.Node),
	}
	for _, set := range settings {
		set(c)
	}
	if c.eval.Atlas == nil {
		c.eval.Atlas = expr.NewMemoryAtlas()
	}
	return c
}

// Options returns the options of the context.
func (c *Context) Options() Options {
	return c.options
}

// Builder returns the builder used to build new nodes.
func (c *Context) Builder() *expr.Builder {
	return c.builder
}

// Atlas returns the atlas in which curves and gradients are baked.
func (c *Context) Atlas() expr.Atlas {
	return c.eval.Atlas
}

// Register adds a root expression.
// It returns false if the expression was already registered.
func (c *Context) Register(e *expr.Node) bool {
	if e == nil || c.roots.Has(e) {
		return false
	}
	c.roots.Store(e, Registered)
	return true
}

// Unregister removes a root expression and evicts its reduced form from the cache.
// It returns false if the expression was not registered.
func (c *Context) Unregister(e *expr.Node) bool {
	if !c.roots.Delete(e) {
		return false
	}
	delete(c.reduced, e)
	return true
}

// Registered returns the root expressions in registration order.
func (c *Context) Registered() []*expr.Node {
	return slices.Collect(c.roots.Keys())
}

// State returns the state of an expression.
func (c *Context) State(e *expr.Node) State {
	s, ok := c.roots.Load(e)
	if !ok {
		return Unregistered
	}
	return s
}

// Compile all the root expressions.
//
// The errors of all the roots are returned together. If any root fails,
// the whole cache is cleared.
func (c *Context) Compile() error {
	var errs error
	for root := range c.roots.Keys() {
		if _, err := c.compile(root); err != nil {
			errs = multierr.Append(errs, errors.WithMessagef(err, "cannot compile %s", root))
		}
	}
	if errs != nil {
		c.Invalidate()
		return errs
	}
	c.roots.Update(func(*expr.Node, State) State { return Compiled })
	return nil
}

// GetReduced returns the reduced form of a compiled expression.
func (c *Context) GetReduced(e *expr.Node) (*expr.Node, error) {
	r, ok := c.reduced[e]
	if !ok {
		return nil, errors.Errorf("expression %s has not been compiled", e)
	}
	return r, nil
}

// BuildAllReduced returns the reduced roots and all their ancestors.
// Parents are always listed before their children.
func (c *Context) BuildAllReduced() ([]*expr.Node, error) {
	var roots []*expr.Node
	for root := range c.roots.Keys() {
		r, err := c.GetReduced(root)
		if err != nil {
			return nil, err
		}
		roots = append(roots, r)
	}
	return slices.Collect(iter.PostOrder(slices.Values(roots), (*expr.Node).Parents)), nil
}

// Invalidate clears the cache.
func (c *Context) Invalidate() {
	clear(c.reduced)
	c.roots.Update(func(_ *expr.Node, s State) State {
		if s == Compiled {
			return Invalidated
		}
		return s
	})
}

// InvalidateExpression evicts an expression from the cache.
func (c *Context) InvalidateExpression(e *expr.Node) {
	delete(c.reduced, e)
	if c.State(e) == Compiled {
		c.roots.Store(e, Invalidated)
	}
}

func (c *Context) trace(action trace.Action, n, result *expr.Node) {
	if c.tracer == nil {
		return
	}
	c.tracer.Trace(trace.Event{Action: action, Node: n, Result: result})
}

func (c *Context) compile(e *expr.Node) (*expr.Node, error) {
	if r, ok := c.reduced[e]; ok {
		return r, nil
	}
	parents := e.Parents()
	for i, p := range parents {
		r, err := c.compile(p)
		if err != nil {
			return nil, err
		}
		parents[i] = r
	}
	if c.options.Has(GPUDataTransformation) && e.IsAny(expr.FlagNotCompilableOnCPU) {
		for i, p := range parents {
			if p.IsAny(expr.FlagNotCompilableOnCPU) {
				continue
			}
			adapted, err := c.adapt(p)
			if err != nil {
				return nil, err
			}
			parents[i] = adapted
		}
	}
	r, err := c.process(e, parents)
	if err != nil {
		return nil, err
	}
	c.reduced[e] = r
	return r, nil
}

// adapt wraps data which cannot be read on the GPU into an adapter
// baking the data into a GPU representation.
func (c *Context) adapt(n *expr.Node) (*expr.Node, error) {
	var op expr.Operation
	switch n.Kind() {
	case valuekind.Curve:
		op = expr.OpBakeCurve
	case valuekind.ColorGradient:
		op = expr.OpBakeGradient
	default:
		return n, nil
	}
	adapter, err := c.builder.New(op, []*expr.Node{n}, nil, expr.FlagNone)
	if err != nil {
		return nil, err
	}
	c.trace(trace.Adapted, n, adapter)
	return c.process(adapter, []*expr.Node{n})
}

// process a node given its compiled parents.
func (c *Context) process(e *expr.Node, parents []*expr.Node) (*expr.Node, error) {
	if c.shouldEvaluate(e, parents) {
		r, err := c.evaluate(e, parents)
		if err != nil {
			return nil, err
		}
		c.trace(trace.Evaluated, e, r)
		return r, nil
	}
	r, err := c.builder.Rebuild(e, parents)
	if err != nil {
		return nil, err
	}
	if !c.options.HasAny(Reduction | CPUEvaluation | ConstantFolding) {
		if r == e {
			c.trace(trace.Kept, e, r)
		} else {
			c.trace(trace.Rebuilt, e, r)
		}
		return r, nil
	}
	reduced, err := c.builder.Reduce(r)
	if err != nil {
		return nil, err
	}
	switch {
	case reduced != r:
		c.trace(trace.Reduced, e, reduced)
	case r != e:
		c.trace(trace.Rebuilt, e, r)
	default:
		c.trace(trace.Kept, e, r)
	}
	return reduced, nil
}

func (c *Context) shouldEvaluate(e *expr.Node, parents []*expr.Node) bool {
	if !c.options.HasAny(Reduction | CPUEvaluation | ConstantFolding) {
		return false
	}
	if !e.CanEvaluate() {
		return false
	}
	if len(parents) == 0 {
		return c.options.Has(CPUEvaluation)
	}
	want := expr.FlagValue
	if !c.options.Has(CPUEvaluation) {
		if c.options.Has(ConstantFolding) {
			want |= expr.FlagFoldable
		} else {
			want |= expr.FlagConstant
		}
	}
	for _, p := range parents {
		if !p.Is(want) {
			return false
		}
	}
	return true
}

// evaluate a node into a value node. The value is constant (or foldable)
// only if all the parents are constant (or foldable).
func (c *Context) evaluate(e *expr.Node, parents []*expr.Node) (*expr.Node, error) {
	args := make([]values.Value, len(parents))
	constant, foldable := len(parents) > 0, len(parents) > 0
	for i, p := range parents {
		v, err := p.Value()
		if err != nil {
			return nil, err
		}
		args[i] = v
		constant = constant && p.Is(expr.FlagConstant)
		foldable = foldable && p.Is(expr.FlagFoldable)
	}
	v, err := e.Evaluate(&c.eval, args)
	if err != nil {
		return nil, err
	}
	mode := expr.Variable
	switch {
	case constant:
		mode = expr.Constant
	case foldable:
		mode = expr.FoldableVariable
	}
	return c.builder.Value(v, mode)
}
