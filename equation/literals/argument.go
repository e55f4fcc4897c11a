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

package literals

import (
	"fmt"

	"github.com/rjkoch/diffpy.srfit/array"
)

// Argument is a named leaf node holding a value.
type Argument struct {
	name  string
	value array.Value
}

var _ Literal = (*Argument)(nil)

// NewArgument returns a leaf node with the given name and value.
func NewArgument(name string, value array.Value) *Argument {
	return &Argument{name: name, value: value}
}

// Name of the argument.
func (a *Argument) Name() string {
	return a.name
}

// Value currently held by the argument.
func (a *Argument) Value() array.Value {
	return a.value
}

// SetValue replaces the value held by the argument.
func (a *Argument) SetValue(v array.Value) {
	a.value = v
}

// Identify dispatches the visitor on the argument.
func (a *Argument) Identify(v Visitor) error {
	return v.OnArgument(a)
}

// String representation of the argument.
func (a *Argument) String() string {
	return fmt.Sprintf("Argument(%s)", a.name)
}
