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

	"github.com/pkg/errors"
	"github.com/rjkoch/diffpy.srfit/array"
	"github.com/rjkoch/diffpy.srfit/ufunc"
)

// UFuncOperator is an operator node whose value is a vectorized function
// applied to the values of its children. It owns a reference on the
// function from configuration until Close.
type UFuncOperator struct {
	f      *ufunc.UFunc
	name   string
	symbol string
	nin    int
	nout   int
	args   []Literal
}

var _ Operator = (*UFuncOperator)(nil)

// NewUFuncOperator returns an operator configured with the given function.
// An empty symbol defaults to the function name.
func NewUFuncOperator(f *ufunc.UFunc, symbol string) (*UFuncOperator, error) {
	op := &UFuncOperator{}
	if err := op.SetUFunc(f, symbol); err != nil {
		return nil, err
	}
	return op, nil
}

// SetUFunc configures the operator: it retains its own reference on f and
// copies the function's name and arities. The operator is configured
// exactly once; an empty symbol defaults to the function name.
func (op *UFuncOperator) SetUFunc(f *ufunc.UFunc, symbol string) error {
	if op.f != nil {
		return errors.Errorf("operator %s is already configured", op.name)
	}
	if f == nil {
		return errors.Errorf("cannot configure an operator with a nil ufunc")
	}
	op.f = f.Retain()
	op.name = f.Name()
	op.nin = f.Nin()
	op.nout = f.Nout()
	op.symbol = symbol
	if symbol == "" {
		op.symbol = op.name
	}
	return nil
}

// Name of the operator, derived from the function it was configured with.
func (op *UFuncOperator) Name() string {
	return op.name
}

// Symbol used when rendering the operator in an expression.
func (op *UFuncOperator) Symbol() string {
	return op.symbol
}

// Nin is the number of input values the function consumes.
func (op *UFuncOperator) Nin() int {
	return op.nin
}

// Nout is the number of output values the function produces.
func (op *UFuncOperator) Nout() int {
	return op.nout
}

// Args are the child nodes, in input order.
func (op *UFuncOperator) Args() []Literal {
	return op.args
}

// AddLiteral appends a child node.
func (op *UFuncOperator) AddLiteral(l Literal) error {
	if l == nil {
		return errors.Errorf("cannot add a nil literal to operator %s", op.name)
	}
	if op.f != nil && len(op.args) >= op.nin {
		return errors.Errorf("operator %s takes %d inputs", op.name, op.nin)
	}
	op.args = append(op.args, l)
	return nil
}

// UFunc returns the function the operator was configured with, or nil for
// an unconfigured operator.
func (op *UFuncOperator) UFunc() *ufunc.UFunc {
	return op.f
}

// Identify dispatches the visitor on the operator.
func (op *UFuncOperator) Identify(v Visitor) error {
	return v.OnOperator(op)
}

// Close releases the reference retained at configuration time. The
// operator cannot be invoked afterwards.
func (op *UFuncOperator) Close() error {
	if op.f == nil {
		return nil
	}
	f := op.f
	op.f = nil
	return f.Release()
}

// String representation of the operator.
func (op *UFuncOperator) String() string {
	if op.f == nil {
		return "UFuncOperator(unconfigured)"
	}
	return fmt.Sprintf("UFuncOperator(%s)", op.name)
}

// outputWrap is the wrap handling resolved for one output slot: either
// "use the raw result as-is" (an exact plain array was passed as the
// explicit destination), a wrapping value to call, or neither, in which
// case the default conversion applies.
type outputWrap struct {
	none    bool
	wrapper array.Wrapper
}

// findArrayWrap selects the wrapping function for every output slot.
//
// Inputs that are neither exact plain arrays nor bare scalars are probed
// for the wrap capability; among capable inputs the one with the highest
// declared priority supplies the default choice for all outputs, replaced
// only on strictly greater priority so that earlier inputs win ties.
// Explicit output destinations then override per slot: an exact plain
// array forces the raw result through unconverted, while a wrap-capable
// destination substitutes its own wrapping function.
func findArrayWrap(args []array.Value, nin, nout int) []outputWrap {
	var chosen array.Wrapper
	var maxPriority float64
	for i := 0; i < nin && i < len(args); i++ {
		obj := args[i]
		if obj == nil {
			continue
		}
		if _, ok := obj.(*array.Dense); ok {
			continue
		}
		if _, ok := obj.(array.Float); ok {
			continue
		}
		w, ok := obj.(array.Wrapper)
		if !ok {
			continue
		}
		priority := array.PriorityOf(obj)
		if chosen == nil || priority > maxPriority {
			chosen = w
			maxPriority = priority
		}
	}

	wraps := make([]outputWrap, nout)
	for i := range wraps {
		wraps[i] = outputWrap{wrapper: chosen}
		j := nin + i
		if j >= len(args) || args[j] == nil {
			continue
		}
		obj := args[j]
		if _, ok := obj.(*array.Dense); ok {
			wraps[i] = outputWrap{none: true}
			continue
		}
		if w, ok := obj.(array.Wrapper); ok {
			wraps[i] = outputWrap{wrapper: w}
		}
		// A destination without the wrap capability keeps the choice
		// derived from the inputs.
	}
	return wraps
}

// CallFunction applies the function to already-evaluated argument values:
// the nin input values first, optionally followed by explicit pre-allocated
// output destinations. Results are wrapped per the output-wrapping
// protocol; with a single output the value is returned directly, otherwise
// an ordered array.Values tuple is returned. Any failure surfaces as a
// single evaluation error with no partial result.
func (op *UFuncOperator) CallFunction(args []array.Value) (array.Value, error) {
	if op.f == nil {
		return nil, errors.Errorf("ufunc operator is not configured")
	}
	slots, err := ufunc.GenericFunction(op.f, args)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot evaluate function %s", op.name)
	}

	wraps := findArrayWrap(args, op.nin, op.nout)
	results := make([]array.Value, op.nout)
	for i := 0; i < op.nout; i++ {
		slot := slots[op.nin+i]
		raw := slot.Array
		if slot.CopyBackTo != nil {
			// Resolve the temporary before wrap resolution so that wrapping
			// functions observe the caller's own buffer.
			copy(slot.CopyBackTo.Flat(), raw.Flat())
			raw = slot.CopyBackTo
		}
		choice := wraps[i]
		switch {
		case choice.none:
			results[i] = raw
		case choice.wrapper != nil:
			wrapped, err := array.Wrap(choice.wrapper, raw, array.WrapContext{
				Func:  op.f,
				Args:  args,
				Index: i,
			})
			if err != nil {
				return nil, errors.Wrapf(err, "cannot evaluate function %s", op.name)
			}
			if wrapped == nil {
				// The wrap requested no change: fall back to the default
				// conversion of the raw result.
				results[i] = array.Return(raw)
				continue
			}
			results[i] = wrapped
		default:
			results[i] = array.Return(raw)
		}
	}
	if op.nout == 1 {
		return results[0], nil
	}
	return array.Values(results), nil
}
