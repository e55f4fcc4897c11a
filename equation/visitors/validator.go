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

package visitors

import (
	"github.com/pkg/errors"
	"github.com/rjkoch/diffpy.srfit/equation/literals"
	"github.com/rjkoch/diffpy.srfit/ufunc"
	"go.uber.org/multierr"
)

// Validator checks an equation tree for structural defects before
// evaluation: unconfigured operators, arity mismatches, and arguments
// with no value. All defects found across the tree are reported together.
type Validator struct {
	err error
}

var _ literals.Visitor = (*Validator)(nil)

// NewValidator returns a validator ready to visit a tree.
func NewValidator() *Validator {
	return &Validator{}
}

// OnArgument records arguments with no value. The visit itself never
// fails so that the traversal reaches the whole tree.
func (v *Validator) OnArgument(a *literals.Argument) error {
	if a.Value() == nil {
		v.err = multierr.Append(v.err, errors.Errorf("argument %s has no value", a.Name()))
	}
	return nil
}

// OnOperator records configuration and arity defects, then recurses into
// the children.
func (v *Validator) OnOperator(o literals.Operator) error {
	configured := true
	if cf, ok := o.(interface{ UFunc() *ufunc.UFunc }); ok && cf.UFunc() == nil {
		configured = false
		v.err = multierr.Append(v.err, errors.Errorf("operator %s is not configured", o.Name()))
	}
	if configured && len(o.Args()) != o.Nin() {
		v.err = multierr.Append(v.err, errors.Errorf("operator %s has %d children but takes %d inputs", o.Name(), len(o.Args()), o.Nin()))
	}
	for _, child := range o.Args() {
		if child == nil {
			v.err = multierr.Append(v.err, errors.Errorf("operator %s has a nil child", o.Name()))
			continue
		}
		if err := child.Identify(v); err != nil {
			return err
		}
	}
	return nil
}

// Err returns every defect found, combined, or nil for a valid tree.
func (v *Validator) Err() error {
	return v.err
}

// Validate checks an equation tree for structural defects.
func Validate(root literals.Literal) error {
	if root == nil {
		return errors.Errorf("cannot validate a nil equation tree")
	}
	v := NewValidator()
	if err := root.Identify(v); err != nil {
		return err
	}
	return v.Err()
}
