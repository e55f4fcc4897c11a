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

// Package literals implements the nodes of symbolic equation trees:
// named arguments holding values and operators applying vectorized
// functions to the values computed by their children.
package literals

import (
	"github.com/rjkoch/diffpy.srfit/array"
)

type (
	// Literal is a node of an equation tree.
	Literal interface {
		// Name of the node.
		Name() string

		// Identify dispatches the visitor on the node's concrete type.
		Identify(v Visitor) error
	}

	// Visitor processes the nodes of an equation tree. Concrete visitors
	// (evaluation, printing, argument discovery) live in their own package;
	// the interface is declared here so that nodes can dispatch on it.
	Visitor interface {
		// OnArgument processes a leaf node.
		OnArgument(a *Argument) error

		// OnOperator processes an operator node.
		OnOperator(o Operator) error
	}

	// Operator is a node computing its value by applying a function to the
	// already-computed values of its children.
	Operator interface {
		Literal

		// Symbol used when rendering the node in an expression.
		Symbol() string

		// Nin is the number of input values the operator consumes.
		Nin() int

		// Nout is the number of output values the operator produces.
		Nout() int

		// Args are the child nodes, in input order.
		Args() []Literal

		// AddLiteral appends a child node.
		AddLiteral(l Literal) error

		// CallFunction applies the operator's function to already-evaluated
		// argument values. It returns a single value when the operator
		// produces one output and an ordered array.Values tuple otherwise.
		CallFunction(args []array.Value) (array.Value, error)
	}
)
