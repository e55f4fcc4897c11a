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
	"fmt"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"github.com/rjkoch/diffpy.srfit/equation/literals"
)

// Printer renders an equation tree as an infix expression string using
// operator symbols.
type Printer struct {
	stack []string
}

var _ literals.Visitor = (*Printer)(nil)

// NewPrinter returns a printer ready to visit a tree.
func NewPrinter() *Printer {
	return &Printer{}
}

func isInfix(symbol string) bool {
	for _, r := range symbol {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return false
		}
	}
	return symbol != ""
}

// OnArgument pushes the argument's name.
func (p *Printer) OnArgument(a *literals.Argument) error {
	p.stack = append(p.stack, a.Name())
	return nil
}

// OnOperator renders the operator over its children: symbolic binary
// operators print infix, everything else as a function call.
func (p *Printer) OnOperator(o literals.Operator) error {
	base := len(p.stack)
	for _, child := range o.Args() {
		if err := child.Identify(p); err != nil {
			return err
		}
	}
	args := append([]string{}, p.stack[base:]...)
	var rendered string
	if len(args) == 2 && isInfix(o.Symbol()) {
		rendered = fmt.Sprintf("(%s %s %s)", args[0], o.Symbol(), args[1])
	} else {
		rendered = fmt.Sprintf("%s(%s)", o.Symbol(), strings.Join(args, ", "))
	}
	p.stack = append(p.stack[:base], rendered)
	return nil
}

// Result returns the rendering of the visited tree.
func (p *Printer) Result() (string, error) {
	if len(p.stack) != 1 {
		return "", errors.Errorf("printing produced %d fragments instead of one", len(p.stack))
	}
	return p.stack[0], nil
}

// Print renders an equation tree as a string.
func Print(root literals.Literal) (string, error) {
	if root == nil {
		return "", errors.Errorf("cannot print a nil equation tree")
	}
	p := NewPrinter()
	if err := root.Identify(p); err != nil {
		return "", err
	}
	return p.Result()
}
