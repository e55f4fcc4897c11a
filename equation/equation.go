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

// Package equation assembles literal trees into named, callable equations.
package equation

import (
	"github.com/pkg/errors"
	"github.com/rjkoch/diffpy.srfit/array"
	"github.com/rjkoch/diffpy.srfit/equation/literals"
	"github.com/rjkoch/diffpy.srfit/equation/visitors"
	"go.uber.org/multierr"
)

// Equation is a named expression tree with direct access to its argument
// leaves.
type Equation struct {
	name   string
	root   literals.Literal
	args   []*literals.Argument
	byName map[string]*literals.Argument
}

// New builds an equation over the given tree. The argument leaves are
// discovered at construction and must have distinct names.
func New(name string, root literals.Literal) (*Equation, error) {
	if root == nil {
		return nil, errors.Errorf("equation %s has no expression tree", name)
	}
	args, err := visitors.FindArgs(root)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot build equation %s", name)
	}
	byName := make(map[string]*literals.Argument, len(args))
	for _, arg := range args {
		if _, ok := byName[arg.Name()]; ok {
			return nil, errors.Errorf("equation %s has two arguments named %s", name, arg.Name())
		}
		byName[arg.Name()] = arg
	}
	return &Equation{name: name, root: root, args: args, byName: byName}, nil
}

// Name of the equation.
func (eq *Equation) Name() string {
	return eq.name
}

// Root of the expression tree.
func (eq *Equation) Root() literals.Literal {
	return eq.root
}

// Args returns the argument leaves in first-visit order.
func (eq *Equation) Args() []*literals.Argument {
	return eq.args
}

// ArgNames returns the argument names in first-visit order.
func (eq *Equation) ArgNames() []string {
	names := make([]string, len(eq.args))
	for i, arg := range eq.args {
		names[i] = arg.Name()
	}
	return names
}

// Arg returns the argument with the given name.
func (eq *Equation) Arg(name string) (*literals.Argument, error) {
	arg, ok := eq.byName[name]
	if !ok {
		return nil, errors.Errorf("equation %s has no argument named %s", eq.name, name)
	}
	return arg, nil
}

// SetArg assigns a value to the named argument.
func (eq *Equation) SetArg(name string, value array.Value) error {
	arg, err := eq.Arg(name)
	if err != nil {
		return err
	}
	arg.SetValue(value)
	return nil
}

// Evaluate validates the tree and computes its value.
func (eq *Equation) Evaluate() (array.Value, error) {
	if err := visitors.Validate(eq.root); err != nil {
		return nil, errors.Wrapf(err, "cannot evaluate equation %s", eq.name)
	}
	out, err := visitors.Evaluate(eq.root)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot evaluate equation %s", eq.name)
	}
	return out, nil
}

// String renders the expression tree.
func (eq *Equation) String() string {
	s, err := visitors.Print(eq.root)
	if err != nil {
		return eq.name
	}
	return s
}

// closer releases every operator of a tree.
type closer struct {
	err error
}

var _ literals.Visitor = (*closer)(nil)

func (c *closer) OnArgument(a *literals.Argument) error {
	return nil
}

func (c *closer) OnOperator(o literals.Operator) error {
	for _, child := range o.Args() {
		if child == nil {
			continue
		}
		if err := child.Identify(c); err != nil {
			return err
		}
	}
	if cl, ok := o.(interface{ Close() error }); ok {
		c.err = multierr.Append(c.err, cl.Close())
	}
	return nil
}

// Close releases the function references held by the operators of the
// tree. The equation cannot be evaluated afterwards.
func (eq *Equation) Close() error {
	c := &closer{}
	if err := eq.root.Identify(c); err != nil {
		return errors.Wrapf(err, "cannot close equation %s", eq.name)
	}
	return c.err
}
