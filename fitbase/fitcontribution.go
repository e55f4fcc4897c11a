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
	"fmt"
	"math"

	"github.com/pkg/errors"
	"github.com/rjkoch/diffpy.srfit/array"
	"github.com/rjkoch/diffpy.srfit/equation"
	"github.com/rjkoch/diffpy.srfit/equation/builder"
	"github.com/rjkoch/diffpy.srfit/equation/literals"
	"go.uber.org/multierr"
)

// Names reserved by the contribution in its equation factory: the last
// calculated profile values and the norm of the observed values.
const (
	eqArgName = "eq"
	normName  = "ynorm"
)

// FitContribution associates a profile equation with observed data and
// derives the residual to be minimized. Equations are built from strings
// over a factory shared by the profile variables, the registered
// parameters, and the registered calculators.
type FitContribution struct {
	name    string
	factory *builder.Factory
	profile *Profile

	xname, yname, dyname string

	eq    *equation.Equation
	eqArg *literals.Argument
	resEq *equation.Equation
}

// NewFitContribution returns an empty contribution.
func NewFitContribution(name string) *FitContribution {
	fc := &FitContribution{
		name:    name,
		factory: builder.NewFactory(),
		eqArg:   literals.NewArgument(eqArgName, nil),
	}
	// Residual equations reference the calculated profile as "eq".
	if err := fc.factory.RegisterArgument(fc.eqArg); err != nil {
		panic(err)
	}
	return fc
}

// Name of the contribution.
func (fc *FitContribution) Name() string {
	return fc.name
}

// NewParameter creates a parameter and registers it for use in the
// contribution's equations.
func (fc *FitContribution) NewParameter(name string, value float64) (*Parameter, error) {
	p := NewParameter(name, value)
	if err := fc.factory.RegisterArgument(p.Argument); err != nil {
		return nil, err
	}
	return p, nil
}

// AddParameter registers an existing parameter for use in the
// contribution's equations.
func (fc *FitContribution) AddParameter(p *Parameter) error {
	if p == nil {
		return errors.Errorf("cannot add a nil parameter")
	}
	return fc.factory.RegisterArgument(p.Argument)
}

// RegisterCalculator makes a calculator callable by name in the
// contribution's equations.
func (fc *FitContribution) RegisterCalculator(c *Calculator) error {
	if c == nil {
		return errors.Errorf("cannot register a nil calculator")
	}
	return fc.factory.RegisterFunction(c.UFunc())
}

// SetProfile assigns the observed data and the names under which the
// equations see the independent variable, the observed values, and their
// uncertainties.
func (fc *FitContribution) SetProfile(p *Profile, xname, yname, dyname string) error {
	if p == nil {
		return errors.Errorf("cannot set a nil profile")
	}
	if p.Len() == 0 {
		return errors.Errorf("profile of contribution %s has no observations", fc.name)
	}
	if xname == "" || yname == "" || dyname == "" {
		return errors.Errorf("profile variables need names")
	}
	if xname == yname || xname == dyname || yname == dyname {
		return errors.Errorf("profile variable names must be distinct")
	}
	var norm float64
	for _, v := range p.Y().Flat() {
		norm += v * v
	}
	values := map[string]array.Value{
		xname:    p.X(),
		yname:    p.Y(),
		dyname:   p.DY(),
		normName: array.Float(math.Sqrt(norm)),
	}
	for name, value := range values {
		arg, err := fc.factory.Argument(name)
		if err != nil {
			arg = literals.NewArgument(name, nil)
			if err := fc.factory.RegisterArgument(arg); err != nil {
				return err
			}
		}
		arg.SetValue(value)
	}
	fc.profile = p
	fc.xname, fc.yname, fc.dyname = xname, yname, dyname
	return nil
}

// Profile returns the observed data, or nil.
func (fc *FitContribution) Profile() *Profile {
	return fc.profile
}

// SetEquation parses the profile equation. Unknown identifiers become new
// valueless parameters on the contribution. When a profile is already
// set, the residual equation defaults to chiv.
func (fc *FitContribution) SetEquation(eqstr string) error {
	eq, err := fc.factory.Make(eqstr, true)
	if err != nil {
		return errors.Wrapf(err, "cannot set the equation of contribution %s", fc.name)
	}
	var closeErr error
	if fc.eq != nil {
		closeErr = fc.eq.Close()
	}
	fc.eq = eq
	if fc.profile != nil {
		return multierr.Append(closeErr, fc.SetResidualEquation("chiv"))
	}
	return closeErr
}

// Equation returns the profile equation, or nil.
func (fc *FitContribution) Equation() *equation.Equation {
	return fc.eq
}

// SetResidualEquation parses the residual equation. The string "chiv"
// selects the uncertainty-scaled residual (eq - y)/dy and "resv" the
// norm-scaled residual (eq - y)/ynorm; any other string is parsed as an
// expression, which may reference the calculated profile as "eq".
func (fc *FitContribution) SetResidualEquation(eqstr string) error {
	if fc.eq == nil {
		return errors.Errorf("contribution %s has no equation yet", fc.name)
	}
	if fc.profile == nil {
		return errors.Errorf("contribution %s has no profile yet", fc.name)
	}
	switch eqstr {
	case "chiv":
		eqstr = fmt.Sprintf("(%s - %s)/%s", eqArgName, fc.yname, fc.dyname)
	case "resv":
		eqstr = fmt.Sprintf("(%s - %s)/%s", eqArgName, fc.yname, normName)
	}
	resEq, err := fc.factory.Make(eqstr, false)
	if err != nil {
		return errors.Wrapf(err, "cannot set the residual equation of contribution %s", fc.name)
	}
	var closeErr error
	if fc.resEq != nil {
		closeErr = fc.resEq.Close()
	}
	fc.resEq = resEq
	return closeErr
}

// densify materializes an evaluated value as a plain array of the profile
// length, broadcasting a scalar result over every point.
func (fc *FitContribution) densify(v array.Value) (*array.Dense, error) {
	arr, ok := v.(array.Arrayed)
	if !ok {
		return nil, errors.Errorf("contribution %s evaluated to %T, not an array", fc.name, v)
	}
	d := arr.Underlying()
	n := fc.profile.Len()
	if d.Shape().Size() == n {
		return d, nil
	}
	if !d.Shape().IsAtomic() {
		return nil, errors.Errorf("contribution %s evaluated to %d values for %d points", fc.name, d.Shape().Size(), n)
	}
	atom, err := d.ToAtom()
	if err != nil {
		return nil, err
	}
	flat := make([]float64, n)
	for i := range flat {
		flat[i] = atom
	}
	return array.NewDense(flat, []int{n})
}

// Evaluate computes the profile equation and stores the result on the
// profile as the calculated values.
func (fc *FitContribution) Evaluate() (array.Value, error) {
	if fc.eq == nil {
		return nil, errors.Errorf("contribution %s has no equation yet", fc.name)
	}
	out, err := fc.eq.Evaluate()
	if err != nil {
		return nil, err
	}
	if fc.profile != nil {
		ycalc, err := fc.densify(out)
		if err != nil {
			return nil, err
		}
		if err := fc.profile.SetCalculated(ycalc); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Residual computes the residual vector of the contribution: the profile
// equation is evaluated over the profile and fed to the residual
// equation.
func (fc *FitContribution) Residual() (*array.Dense, error) {
	if fc.resEq == nil {
		return nil, errors.Errorf("contribution %s has no residual equation yet", fc.name)
	}
	out, err := fc.Evaluate()
	if err != nil {
		return nil, err
	}
	fc.eqArg.SetValue(out)
	res, err := fc.resEq.Evaluate()
	if err != nil {
		return nil, err
	}
	return fc.densify(res)
}

// Close releases the equations of the contribution.
func (fc *FitContribution) Close() error {
	var err error
	if fc.eq != nil {
		err = multierr.Append(err, fc.eq.Close())
		fc.eq = nil
	}
	if fc.resEq != nil {
		err = multierr.Append(err, fc.resEq.Close())
		fc.resEq = nil
	}
	return err
}
