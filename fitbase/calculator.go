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

package fitbase

import (
	"github.com/pkg/errors"
	"github.com/rjkoch/diffpy.srfit/ufunc"
)

// Calculator is a named profile function with its own parameters. It is
// exposed as a vectorized function of the independent variable so that
// equation strings can call it by name; the parameter values are read at
// every invocation.
type Calculator struct {
	name   string
	params []*Parameter
	byName map[string]*Parameter
	f      *ufunc.UFunc
}

// NewCalculator builds a calculator over the given kernel. The kernel
// receives the current parameter values, in registration order, and one
// point of the independent variable.
func NewCalculator(name string, kernel func(pars []float64, x float64) float64, params ...*Parameter) (*Calculator, error) {
	if kernel == nil {
		return nil, errors.Errorf("calculator %s has no kernel", name)
	}
	c := &Calculator{
		name:   name,
		byName: make(map[string]*Parameter, len(params)),
	}
	for _, p := range params {
		if p == nil {
			return nil, errors.Errorf("calculator %s given a nil parameter", name)
		}
		if _, ok := c.byName[p.Name()]; ok {
			return nil, errors.Errorf("calculator %s has two parameters named %s", name, p.Name())
		}
		c.byName[p.Name()] = p
		c.params = append(c.params, p)
	}
	f, err := ufunc.New(name, 1, 1, func(in, out []float64) {
		vals := make([]float64, len(c.params))
		for i, p := range c.params {
			// A parameter without a scalar value reads as zero; the
			// contribution validates parameters before evaluation.
			v, _ := p.Float()
			vals[i] = v
		}
		out[0] = kernel(vals, in[0])
	})
	if err != nil {
		return nil, err
	}
	c.f = f
	return c, nil
}

// Name of the calculator.
func (c *Calculator) Name() string {
	return c.name
}

// Parameters in registration order.
func (c *Calculator) Parameters() []*Parameter {
	return c.params
}

// Parameter returns the parameter with the given name.
func (c *Calculator) Parameter(name string) (*Parameter, error) {
	p, ok := c.byName[name]
	if !ok {
		return nil, errors.Errorf("calculator %s has no parameter named %s", c.name, name)
	}
	return p, nil
}

// UFunc returns the vectorized function backing the calculator.
func (c *Calculator) UFunc() *ufunc.UFunc {
	return c.f
}
