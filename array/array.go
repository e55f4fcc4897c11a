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

// Package array implements the numeric values flowing through equation
// trees: dense float64 arrays, bare scalars, tuples, and the capability
// protocol that lets user-defined value types survive a pass through a
// vectorized kernel with their own representation intact.
package array

import (
	"unsafe"

	"github.com/pkg/errors"
	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/backend/shape"
)

type (
	// Value is a value produced or consumed by an equation node.
	Value interface {
		String() string
	}

	// Arrayed is a Value backed by dense storage. Wrappable value types
	// implement it so that kernel dispatch can reach their raw data.
	Arrayed interface {
		Value
		Underlying() *Dense
	}
)

// Dense is a multi-dimensional float64 array. It is the exact plain array
// of the value protocol: kernels read and write Dense buffers, and a Dense
// passed as an explicit output suppresses all result wrapping.
type Dense struct {
	shape  shape.Shape
	values []float64
}

var _ Arrayed = (*Dense)(nil)

// NewDense returns a dense array over the given flat values.
func NewDense(values []float64, axisLengths []int) (*Dense, error) {
	sh := shape.Shape{DType: dtype.Float64, AxisLengths: axisLengths}
	if sh.Size() != len(values) {
		return nil, errors.Errorf("axes %v require %d values but got %d", axisLengths, sh.Size(), len(values))
	}
	return &Dense{shape: sh, values: values}, nil
}

// Zeros returns a dense array of the given axis lengths filled with zeros.
func Zeros(axisLengths []int) *Dense {
	sh := shape.Shape{DType: dtype.Float64, AxisLengths: axisLengths}
	return &Dense{shape: sh, values: make([]float64, sh.Size())}
}

// Scalar returns a zero-dimensional dense array holding a single value.
func Scalar(v float64) *Dense {
	return &Dense{
		shape:  shape.Shape{DType: dtype.Float64},
		values: []float64{v},
	}
}

// FromRaw returns a dense array decoded from a raw byte buffer.
func FromRaw(data []byte, sh *shape.Shape) (*Dense, error) {
	if sh.DType != dtype.Float64 {
		return nil, errors.Errorf("cannot build a dense array from %s data", sh.DType.String())
	}
	if len(data) != sh.ByteSize() {
		return nil, errors.Errorf("buffer size is %d but shape %s specifies a buffer size of %d", len(data), sh.String(), sh.ByteSize())
	}
	return NewDense(dtype.ToSlice[float64](data), sh.AxisLengths)
}

// Shape of the array.
func (a *Dense) Shape() *shape.Shape {
	return &a.shape
}

// Flat values of the array.
func (a *Dense) Flat() []float64 {
	return a.values
}

// Buffer returns the data of the array as a generic []byte buffer.
func (a *Dense) Buffer() []byte {
	ptr := unsafe.Pointer(&(a.values[0]))
	return unsafe.Slice((*byte)(ptr), a.shape.Size()*dtype.Sizeof(a.shape.DType))
}

// ToAtom returns the value contained in a zero-dimensional array.
// It returns an error if the array contains more than one value.
func (a *Dense) ToAtom() (float64, error) {
	if !a.shape.IsAtomic() {
		return 0, errors.Errorf("%s not atomic", a.shape.String())
	}
	return a.values[0], nil
}

// Underlying returns the array itself: a Dense is its own storage.
func (a *Dense) Underlying() *Dense {
	return a
}

// Clone returns a deep copy of the array.
func (a *Dense) Clone() *Dense {
	return &Dense{
		shape:  shape.Shape{DType: a.shape.DType, AxisLengths: append([]int{}, a.shape.AxisLengths...)},
		values: append([]float64{}, a.values...),
	}
}

// String representation of the array.
func (a *Dense) String() string {
	return sprint(a.values, a.shape.AxisLengths)
}

// Float is an opaque numeric scalar. Zero-dimensional kernel results unwrap
// to a Float when no wrapping function claims them.
type Float float64

var _ Arrayed = Float(0)

// Underlying returns the scalar as a zero-dimensional dense array.
func (f Float) Underlying() *Dense {
	return Scalar(float64(f))
}

// String representation of the scalar.
func (f Float) String() string {
	return formatValue(float64(f))
}

// Values is an ordered tuple of values, one per kernel output slot.
type Values []Value

// String representation of the tuple.
func (vs Values) String() string {
	s := "("
	for i, v := range vs {
		if i > 0 {
			s += ", "
		}
		s += v.String()
	}
	return s + ")"
}
