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

package ufunc

import (
	"slices"

	"github.com/pkg/errors"
	"github.com/gx-org/backend/shape"
	"github.com/rjkoch/diffpy.srfit/array"
)

// Slot is one raw result cell filled by GenericFunction. Dispatch fills
// nin+nout slots: the marshaled inputs first, then one slot per output.
type Slot struct {
	// Array is the raw dense result (or marshaled input) at this position.
	Array *array.Dense

	// CopyBackTo, when non-nil, marks Array as a temporary whose content
	// must be copied into this destination buffer before the result is
	// handed back. Dispatch sets it for explicit output destinations it
	// cannot write through directly.
	CopyBackTo *array.Dense
}

func toDense(v array.Value) (*array.Dense, error) {
	switch vT := v.(type) {
	case *array.Dense:
		return vT, nil
	case array.Arrayed:
		d := vT.Underlying()
		if d == nil {
			return nil, errors.Errorf("%T has no underlying storage", v)
		}
		return d, nil
	default:
		return nil, errors.Errorf("cannot use %T as a kernel operand", v)
	}
}

func outputSlot(f *UFunc, dest array.Value, i int, bshape *shape.Shape) (Slot, error) {
	switch destT := dest.(type) {
	case *array.Dense:
		if !slices.Equal(destT.Shape().AxisLengths, bshape.AxisLengths) {
			return Slot{}, errors.Errorf("output %d of ufunc %s has axes %v but the call broadcasts to %v", i, f.name, destT.Shape().AxisLengths, bshape.AxisLengths)
		}
		return Slot{Array: destT}, nil
	case array.Arrayed:
		// Foreign destination: compute into a temporary, copy back later.
		under := destT.Underlying()
		if under == nil {
			return Slot{}, errors.Errorf("output %d of ufunc %s has no underlying storage", i, f.name)
		}
		if !slices.Equal(under.Shape().AxisLengths, bshape.AxisLengths) {
			return Slot{}, errors.Errorf("output %d of ufunc %s has axes %v but the call broadcasts to %v", i, f.name, under.Shape().AxisLengths, bshape.AxisLengths)
		}
		return Slot{Array: array.Zeros(bshape.AxisLengths), CopyBackTo: under}, nil
	default:
		return Slot{}, errors.Errorf("output %d of ufunc %s is not an array destination: %T", i, f.name, dest)
	}
}

// GenericFunction applies the kernel of f to the given argument values and
// returns the filled nin+nout result slots: the marshaled inputs first for
// bookkeeping, then the outputs in slot order.
//
// Arguments beyond the nin inputs are explicit pre-allocated output
// destinations, one per output slot; their axes must match the broadcast
// of the inputs exactly. A nil destination leaves its slot to dispatch.
// Any failure discards all slots and reports a single error.
func GenericFunction(f *UFunc, args []array.Value) ([]Slot, error) {
	if f == nil {
		return nil, errors.Errorf("cannot dispatch a nil ufunc")
	}
	if !f.alive() {
		return nil, errors.Errorf("ufunc %s has been released", f.name)
	}
	if len(args) < f.nin {
		return nil, errors.Errorf("ufunc %s takes %d inputs but got %d arguments", f.name, f.nin, len(args))
	}
	if len(args) > f.nin+f.nout {
		return nil, errors.Errorf("ufunc %s takes at most %d arguments but got %d", f.name, f.nin+f.nout, len(args))
	}

	slots := make([]Slot, f.nin+f.nout)
	ins := make([]*array.Dense, f.nin)
	shapes := make([]*shape.Shape, f.nin)
	for i := 0; i < f.nin; i++ {
		if args[i] == nil {
			return nil, errors.Errorf("input %d of ufunc %s is nil", i, f.name)
		}
		in, err := toDense(args[i])
		if err != nil {
			return nil, errors.Wrapf(err, "input %d of ufunc %s", i, f.name)
		}
		ins[i] = in
		shapes[i] = in.Shape()
		slots[i] = Slot{Array: in}
	}
	bshape, err := array.Broadcast(shapes...)
	if err != nil {
		return nil, errors.Wrapf(err, "ufunc %s", f.name)
	}

	outs := make([]*array.Dense, f.nout)
	for i := 0; i < f.nout; i++ {
		j := f.nin + i
		slot := Slot{}
		if j < len(args) && args[j] != nil {
			slot, err = outputSlot(f, args[j], i, bshape)
			if err != nil {
				return nil, err
			}
		} else {
			slot.Array = array.Zeros(bshape.AxisLengths)
		}
		slots[j] = slot
		outs[i] = slot.Array
	}

	run(f, ins, outs, bshape)
	return slots, nil
}

func run(f *UFunc, ins, outs []*array.Dense, bshape *shape.Shape) {
	target := bshape.AxisLengths
	inStrides := make([][]int, len(ins))
	for i, in := range ins {
		inStrides[i] = array.BroadcastStrides(in.Shape().AxisLengths, target)
	}
	in := make([]float64, len(ins))
	out := make([]float64, len(outs))
	pos := make([]int, len(target))
	size := bshape.Size()
	for idx := 0; idx < size; idx++ {
		for i, a := range ins {
			offset := 0
			for k, p := range pos {
				offset += inStrides[i][k] * p
			}
			in[i] = a.Flat()[offset]
		}
		f.kernel(in, out)
		for j, o := range outs {
			o.Flat()[idx] = out[j]
		}
		for k := len(pos) - 1; k >= 0; k-- {
			pos[k]++
			if pos[k] < target[k] {
				break
			}
			pos[k] = 0
		}
	}
}
