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

// Package codegen generates shader code from reduced expression graphs.
package codegen

import (
	"slices"
	"strings"
	"text/template"

	"github.com/gx-org/vfxgraph/api/values"
	vfxfmt "github.com/gx-org/vfxgraph/base/fmt"
	"github.com/gx-org/vfxgraph/base/iter"
	"github.com/gx-org/vfxgraph/base/stringseq"
	"github.com/gx-org/vfxgraph/base/tmpl"
	"github.com/gx-org/vfxgraph/base/uname"
	"github.com/gx-org/vfxgraph/build/attrib"
	"github.com/gx-org/vfxgraph/build/expr"
	"github.com/gx-org/vfxgraph/build/requirements"
	"github.com/pkg/errors"
)

type (
	// Uniform is a value provided by the runtime when the function is executed.
	Uniform struct {
		Type, Name string
		Value      values.Value
	}

	// Statement assigns the result of an expression to a temporary.
	Statement struct {
		Type, Name, Code string
	}

	// Output is an output parameter of the generated function.
	Output struct {
		Type, Name, Code string
	}

	// Function generated from a set of expressions.
	Function struct {
		Name       string
		Uniforms   []Uniform
		Statements []Statement
		Outputs    []Output
		// Attributes are the per-element attributes accessed by the function.
		Attributes []attrib.Info
	}
)

var (
	uniformTmpl   = template.Must(template.New("uniform").Parse("uniform {{.Type}} {{.Name}};\n"))
	statementTmpl = template.Must(template.New("statement").Parse("{{.Type}} {{.Name}} = {{.Code}};\n"))
	outputTmpl    = template.Must(template.New("output").Parse("{{.Name}} = {{.Code}};\n"))
	functionTmpl  = template.Must(template.New("function").Parse(`{{.Uniforms}}void {{.Name}}({{.Params}})
{
{{.Body}}}
`))
)

// builtinNames are identifiers provided by the runtime to generated code.
var builtinNames = []string{"RAND", "FixedRand", "GetTRSMatrix", "SampleTexture", "VFX_SAMPLER"}

func reservedNames(name string) []string {
	names := []string{name}
	names = append(names, builtinNames...)
	for _, op := range []expr.Operation{expr.OpDeltaTime, expr.OpTotalTime, expr.OpSystemSeed} {
		names = append(names, op.String())
	}
	for _, a := range attrib.All() {
		names = append(names, a.Name, "source_"+a.Name)
	}
	return names
}

type generator struct {
	fn    *Function
	names *uname.Unique
	code  map[*expr.Node]string
}

// Generate a function computing a set of outputs.
// Constant values are inlined as literals, other values are declared as uniforms.
// Generation fails with an expr.CapabilityError if a node cannot be executed on the GPU.
func Generate(name string, outputs ...*expr.Node) (*Function, error) {
	g := &generator{
		fn:    &Function{Name: name},
		names: uname.New(reservedNames(name)...),
		code:  make(map[*expr.Node]string),
	}
	for n := range iter.PostOrder(slices.Values(outputs), (*expr.Node).Parents) {
		if err := g.node(n); err != nil {
			return nil, errors.WithMessagef(err, "cannot generate %s", name)
		}
	}
	for _, out := range outputs {
		g.fn.Outputs = append(g.fn.Outputs, Output{
			Type: out.Kind().CodeToken(),
			Name: g.names.Name("result"),
			Code: g.code[out],
		})
	}
	g.fn.Attributes = requirements.Attributes(outputs...)
	return g.fn, nil
}

func (g *generator) node(n *expr.Node) error {
	if n.Is(expr.FlagInvalidOnGPU) {
		_, err := n.CodeString(nil)
		return err
	}
	if n.Op() == expr.OpValue {
		return g.value(n)
	}
	parents := make([]string, len(n.Parents()))
	for i, p := range n.Parents() {
		parents[i] = g.code[p]
	}
	code, err := n.CodeString(parents)
	if err != nil {
		return err
	}
	if g.inline(n) {
		g.code[n] = code
		return nil
	}
	stmt := Statement{
		Type: n.Kind().CodeToken(),
		Name: g.names.Name("t"),
		Code: code,
	}
	g.fn.Statements = append(g.fn.Statements, stmt)
	g.code[n] = stmt.Name
	return nil
}

// inline returns true if the code of a node is read directly by its children.
// Random numbers are generated once per node.
func (g *generator) inline(n *expr.Node) bool {
	return len(n.Parents()) == 0 && n.Op() != expr.OpRandom
}

func (g *generator) value(n *expr.Node) error {
	if n.Is(expr.FlagConstant) && !n.Kind().IsTexture() {
		code, err := n.CodeString(nil)
		if err != nil {
			return err
		}
		g.code[n] = code
		return nil
	}
	v, err := n.Value()
	if err != nil {
		return err
	}
	u := Uniform{
		Type:  n.Kind().CodeToken(),
		Name:  g.names.Name("u"),
		Value: v,
	}
	g.fn.Uniforms = append(g.fn.Uniforms, u)
	g.code[n] = u.Name
	return nil
}

// Source returns the shader source of the function.
func (f *Function) Source() (string, error) {
	uniforms, err := tmpl.IterateTmpl(f.Uniforms, uniformTmpl)
	if err != nil {
		return "", err
	}
	if uniforms != "" {
		uniforms += "\n"
	}
	stmts, err := tmpl.IterateTmpl(f.Statements, statementTmpl)
	if err != nil {
		return "", err
	}
	outs, err := tmpl.IterateTmpl(f.Outputs, outputTmpl)
	if err != nil {
		return "", err
	}
	return tmpl.Execute(functionTmpl, struct {
		Uniforms, Name, Params, Body string
	}{
		Uniforms: uniforms,
		Name:     f.Name,
		Params: stringseq.JoinFunc(slices.Values(f.Outputs), ", ", func(o Output) string {
			return "out " + o.Type + " " + o.Name
		}),
		Body: vfxfmt.Indent(stmts + outs),
	})
}

// Listing returns the source of the function with line numbers.
func (f *Function) Listing() (string, error) {
	src, err := f.Source()
	if err != nil {
		return "", err
	}
	return vfxfmt.Number(strings.TrimSuffix(src, "\n")), nil
}
