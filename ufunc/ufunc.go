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

// Package ufunc implements vectorized numeric functions: element-wise,
// broadcasting kernels with a fixed number of inputs and outputs, and the
// generic dispatch that applies them to array values.
package ufunc

import (
	"fmt"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/rjkoch/diffpy.srfit/array"
)

// UFunc is a vectorized numeric function. The element kernel is applied at
// every position of the broadcast of the inputs, reading nin values and
// writing nout values.
//
// A UFunc is reference counted: it is created with one reference owned by
// its creator, holders acquire their own with Retain, and every reference
// must be released exactly once. A fully released UFunc rejects calls.
type UFunc struct {
	name   string
	nin    int
	nout   int
	kernel func(in, out []float64)
	refs   atomic.Int64
}

var _ array.Kernel = (*UFunc)(nil)

// New returns a vectorized function over a custom element kernel.
func New(name string, nin, nout int, kernel func(in, out []float64)) (*UFunc, error) {
	if name == "" {
		return nil, errors.Errorf("ufunc name cannot be empty")
	}
	if nin < 1 || nout < 1 {
		return nil, errors.Errorf("ufunc %s declares %d inputs and %d outputs: both must be at least 1", name, nin, nout)
	}
	if kernel == nil {
		return nil, errors.Errorf("ufunc %s has no kernel", name)
	}
	f := &UFunc{name: name, nin: nin, nout: nout, kernel: kernel}
	f.refs.Store(1)
	return f, nil
}

// Unary returns a vectorized function over a one-input one-output kernel.
func Unary(name string, f func(float64) float64) *UFunc {
	u, _ := New(name, 1, 1, func(in, out []float64) {
		out[0] = f(in[0])
	})
	return u
}

// Binary returns a vectorized function over a two-input one-output kernel.
func Binary(name string, f func(x, y float64) float64) *UFunc {
	u, _ := New(name, 2, 1, func(in, out []float64) {
		out[0] = f(in[0], in[1])
	})
	return u
}

// UnaryN returns a vectorized function over a one-input kernel producing
// nout outputs.
func UnaryN(name string, nout int, f func(x float64, out []float64)) *UFunc {
	u, _ := New(name, 1, nout, func(in, out []float64) {
		f(in[0], out)
	})
	return u
}

// BinaryN returns a vectorized function over a two-input kernel producing
// nout outputs.
func BinaryN(name string, nout int, f func(x, y float64, out []float64)) *UFunc {
	u, _ := New(name, 2, nout, func(in, out []float64) {
		f(in[0], in[1], out)
	})
	return u
}

// Name of the function.
func (f *UFunc) Name() string {
	return f.name
}

// Nin is the number of inputs the kernel reads.
func (f *UFunc) Nin() int {
	return f.nin
}

// Nout is the number of outputs the kernel writes.
func (f *UFunc) Nout() int {
	return f.nout
}

// Retain acquires a reference on the function and returns it.
func (f *UFunc) Retain() *UFunc {
	f.refs.Add(1)
	return f
}

// Release drops a reference acquired with Retain (or the creation
// reference). It is an error to release more references than were held.
func (f *UFunc) Release() error {
	if f.refs.Add(-1) < 0 {
		f.refs.Add(1)
		return errors.Errorf("ufunc %s released more times than retained", f.name)
	}
	return nil
}

// RefCount returns the number of live references.
func (f *UFunc) RefCount() int64 {
	return f.refs.Load()
}

func (f *UFunc) alive() bool {
	return f.refs.Load() > 0
}

// String representation of the function.
func (f *UFunc) String() string {
	return fmt.Sprintf("<ufunc %s(%d->%d)>", f.name, f.nin, f.nout)
}
