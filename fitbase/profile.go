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
	"github.com/rjkoch/diffpy.srfit/array"
)

// Profile holds the observed data of a fit: the independent variable, the
// observed values, their uncertainties, and the last calculated values.
type Profile struct {
	x, y, dy *array.Dense
	ycalc    *array.Dense
}

// NewProfile returns an empty profile.
func NewProfile() *Profile {
	return &Profile{}
}

// SetObserved assigns the observed data. x and y must have the same
// length; dy may be nil, in which case unit uncertainties are assumed.
func (p *Profile) SetObserved(x, y, dy []float64) error {
	if len(x) == 0 {
		return errors.Errorf("a profile needs at least one observation")
	}
	if len(y) != len(x) {
		return errors.Errorf("profile has %d observations for %d points", len(y), len(x))
	}
	if dy == nil {
		dy = make([]float64, len(x))
		for i := range dy {
			dy[i] = 1
		}
	}
	if len(dy) != len(x) {
		return errors.Errorf("profile has %d uncertainties for %d points", len(dy), len(x))
	}
	var err error
	if p.x, err = array.NewDense(x, []int{len(x)}); err != nil {
		return err
	}
	if p.y, err = array.NewDense(y, []int{len(y)}); err != nil {
		return err
	}
	if p.dy, err = array.NewDense(dy, []int{len(dy)}); err != nil {
		return err
	}
	p.ycalc = nil
	return nil
}

// Len is the number of observed points.
func (p *Profile) Len() int {
	if p.x == nil {
		return 0
	}
	return p.x.Shape().Size()
}

// X is the independent variable.
func (p *Profile) X() *array.Dense {
	return p.x
}

// Y are the observed values.
func (p *Profile) Y() *array.Dense {
	return p.y
}

// DY are the uncertainties on the observed values.
func (p *Profile) DY() *array.Dense {
	return p.dy
}

// SetCalculated stores the values calculated over the profile points.
func (p *Profile) SetCalculated(ycalc *array.Dense) error {
	if ycalc == nil {
		return errors.Errorf("cannot store a nil calculation")
	}
	if got, want := ycalc.Shape().Size(), p.Len(); got != want {
		return errors.Errorf("calculated %d values for %d points", got, want)
	}
	p.ycalc = ycalc
	return nil
}

// Calculated returns the last stored calculation, or nil.
func (p *Profile) Calculated() *array.Dense {
	return p.ycalc
}
