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

// Package visitors implements the tree walkers processing equation trees:
// evaluation, printing, argument discovery, and validation.
package visitors

import (
	"github.com/pkg/errors"
	"github.com/rjkoch/diffpy.srfit/array"
	"github.com/rjkoch/diffpy.srfit/equation/literals"
)

// Evaluator computes the value of an equation tree by post-order
// traversal: arguments yield their held values and operators apply their
// function to the values computed for their children.
type Evaluator struct {
	stack []array.Value
}

var _ literals.Visitor = (*Evaluator)(nil)

// NewEvaluator returns an evaluator ready to visit a tree.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// OnArgument pushes the argument's value.
func (e *Evaluator) OnArgument(a *literals.Argument) error {
	v := a.Value()
	if v == nil {
		return errors.Errorf("argument %s has no value", a.Name())
	}
	e.stack = append(e.stack, v)
	return nil
}

// OnOperator evaluates the operator's children and applies its function.
func (e *Evaluator) OnOperator(o literals.Operator) error {
	children := o.Args()
	if len(children) != o.Nin() {
		return errors.Errorf("operator %s has %d children but takes %d inputs", o.Name(), len(children), o.Nin())
	}
	base := len(e.stack)
	for _, child := range children {
		if err := child.Identify(e); err != nil {
			return err
		}
	}
	args := append([]array.Value{}, e.stack[base:]...)
	for i, v := range args {
		if _, ok := v.(array.Values); ok {
			return errors.Errorf("input %d of operator %s is a multi-output tuple", i, o.Name())
		}
	}
	out, err := o.CallFunction(args)
	if err != nil {
		return err
	}
	e.stack = append(e.stack[:base], out)
	return nil
}

// Result returns the value computed for the visited tree.
func (e *Evaluator) Result() (array.Value, error) {
	if len(e.stack) != 1 {
		return nil, errors.Errorf("evaluation produced %d values instead of one", len(e.stack))
	}
	return e.stack[0], nil
}

// Evaluate computes the value of an equation tree.
func Evaluate(root literals.Literal) (array.Value, error) {
	if root == nil {
		return nil, errors.Errorf("cannot evaluate a nil equation tree")
	}
	e := NewEvaluator()
	if err := root.Identify(e); err != nil {
		return nil, err
	}
	return e.Result()
}
