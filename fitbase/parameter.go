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

// Package fitbase provides the building blocks of a fit: parameters,
// measured profiles, calculators, and the contribution tying an equation
// to a profile.
package fitbase

import (
	"github.com/pkg/errors"
	"github.com/rjkoch/diffpy.srfit/array"
	"github.com/rjkoch/diffpy.srfit/equation/literals"
)

// Parameter is a named scalar variable of a fit. It is an argument leaf,
// so equations referencing it see value updates immediately.
type Parameter struct {
	*literals.Argument
}

// NewParameter returns a parameter holding the given value.
func NewParameter(name string, value float64) *Parameter {
	return &Parameter{Argument: literals.NewArgument(name, array.Float(value))}
}

// Float returns the current scalar value.
func (p *Parameter) Float() (float64, error) {
	v := p.Value()
	if v == nil {
		return 0, errors.Errorf("parameter %s has no value", p.Name())
	}
	arr, ok := v.(array.Arrayed)
	if !ok {
		return 0, errors.Errorf("parameter %s does not hold an array", p.Name())
	}
	return arr.Underlying().ToAtom()
}

// SetFloat assigns a scalar value.
func (p *Parameter) SetFloat(value float64) {
	p.SetValue(array.Float(value))
}
