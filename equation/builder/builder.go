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

// Package builder turns equation strings such as
// "A * exp(-0.5*(x-x0)**2/sigma**2)" into equation trees.
package builder

import (
	"go/token"
	"sort"
	"strconv"

	"github.com/pkg/errors"
	"github.com/rjkoch/diffpy.srfit/array"
	"github.com/rjkoch/diffpy.srfit/equation"
	"github.com/rjkoch/diffpy.srfit/equation/literals"
	"github.com/rjkoch/diffpy.srfit/ufunc"
	"golang.org/x/exp/maps"
)

// Factory builds equations from expression strings. Arguments registered
// on the factory, or created by it, are shared by every equation it
// builds so that assigning a value in one equation is seen by all.
type Factory struct {
	args      map[string]*literals.Argument
	funcs     map[string]*ufunc.UFunc
	constants map[string]*literals.Argument
}

// NewFactory returns an empty factory.
func NewFactory() *Factory {
	return &Factory{
		args:      make(map[string]*literals.Argument),
		funcs:     make(map[string]*ufunc.UFunc),
		constants: make(map[string]*literals.Argument),
	}
}

// RegisterArgument makes an argument available to built equations under
// its own name.
func (fc *Factory) RegisterArgument(a *literals.Argument) error {
	if a == nil {
		return errors.Errorf("cannot register a nil argument")
	}
	if _, ok := fc.args[a.Name()]; ok {
		return errors.Errorf("argument %s is already registered", a.Name())
	}
	fc.args[a.Name()] = a
	return nil
}

// Argument returns the registered argument with the given name.
func (fc *Factory) Argument(name string) (*literals.Argument, error) {
	a, ok := fc.args[name]
	if !ok {
		return nil, errors.Errorf("no argument registered under the name %s", name)
	}
	return a, nil
}

// ArgNames returns the names of all registered arguments, sorted.
func (fc *Factory) ArgNames() []string {
	names := maps.Keys(fc.args)
	sort.Strings(names)
	return names
}

// RegisterFunction makes a function available to built equations under
// its own name, shadowing any registry function with that name.
func (fc *Factory) RegisterFunction(f *ufunc.UFunc) error {
	if f == nil {
		return errors.Errorf("cannot register a nil function")
	}
	if _, ok := fc.funcs[f.Name()]; ok {
		return errors.Errorf("function %s is already registered", f.Name())
	}
	fc.funcs[f.Name()] = f
	return nil
}

func (fc *Factory) lookup(name string) (*ufunc.UFunc, error) {
	if f, ok := fc.funcs[name]; ok {
		return f, nil
	}
	return ufunc.Lookup(name)
}

func (fc *Factory) operator(name, symbol string, children ...literals.Literal) (literals.Literal, error) {
	f, err := fc.lookup(name)
	if err != nil {
		return nil, err
	}
	if len(children) != f.Nin() {
		return nil, errors.Errorf("function %s takes %d arguments, got %d", name, f.Nin(), len(children))
	}
	op, err := literals.NewUFuncOperator(f, symbol)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		if err := op.AddLiteral(child); err != nil {
			return nil, err
		}
	}
	return op, nil
}

// Identical numeric literals map to the same leaf so that an equation
// using a constant twice keeps a single node for it.
func (fc *Factory) constant(lit string) (*literals.Argument, error) {
	if c, ok := fc.constants[lit]; ok {
		return c, nil
	}
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse the number %q", lit)
	}
	c := literals.NewArgument(lit, array.Float(v))
	fc.constants[lit] = c
	return c, nil
}

// Make parses an expression string into an equation. Identifiers resolve
// to registered arguments; when makepars is true, unknown identifiers
// become new valueless arguments registered on the factory, otherwise
// they are an error.
func (fc *Factory) Make(eqstr string, makepars bool) (*equation.Equation, error) {
	toks, err := lex(eqstr)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse %q", eqstr)
	}
	p := &parser{factory: fc, toks: toks, makepars: makepars}
	root, err := p.parse(0)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse %q", eqstr)
	}
	if t := p.peek(); t.kind != token.EOF {
		return nil, errors.Errorf("cannot parse %q: unexpected %s", eqstr, t)
	}
	return equation.New(eqstr, root)
}
