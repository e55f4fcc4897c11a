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
)

// ArgFinder collects the argument leaves of an equation tree in
// first-visit order, each argument once.
type ArgFinder struct {
	args []*literals.Argument
	seen map[*literals.Argument]bool
}

var _ literals.Visitor = (*ArgFinder)(nil)

// NewArgFinder returns a finder ready to visit a tree.
func NewArgFinder() *ArgFinder {
	return &ArgFinder{seen: make(map[*literals.Argument]bool)}
}

// OnArgument records the argument on first sight.
func (f *ArgFinder) OnArgument(a *literals.Argument) error {
	if f.seen[a] {
		return nil
	}
	f.seen[a] = true
	f.args = append(f.args, a)
	return nil
}

// OnOperator recurses into the operator's children.
func (f *ArgFinder) OnOperator(o literals.Operator) error {
	for _, child := range o.Args() {
		if err := child.Identify(f); err != nil {
			return err
		}
	}
	return nil
}

// Result returns the collected arguments.
func (f *ArgFinder) Result() []*literals.Argument {
	return f.args
}

// FindArgs collects the argument leaves of an equation tree.
func FindArgs(root literals.Literal) ([]*literals.Argument, error) {
	if root == nil {
		return nil, errors.Errorf("cannot search a nil equation tree")
	}
	f := NewArgFinder()
	if err := root.Identify(f); err != nil {
		return nil, err
	}
	return f.Result(), nil
}
