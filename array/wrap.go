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

package array

// DefaultPriority is the priority assumed for a wrappable value that does
// not declare one.
const DefaultPriority = 0.0

type (
	// Kernel is the vectorized function a wrap call originates from.
	Kernel interface {
		Name() string
		Nin() int
		Nout() int
	}

	// WrapContext describes the kernel call a raw result comes from.
	WrapContext struct {
		// Func is the kernel that produced the raw result.
		Func Kernel

		// Args are the original call arguments, in call order.
		Args []Value

		// Index is the output slot the raw result belongs to.
		Index int
	}

	// Wrapper is the capability of re-wrapping a raw kernel result into the
	// value's own representation.
	//
	// A wrap call returns one of three outcomes: a wrapped value, (nil, nil)
	// meaning no change is requested and the caller should use its default
	// conversion, or an error failing the whole kernel invocation.
	Wrapper interface {
		Value
		ArrayWrap(raw *Dense) (Value, error)
	}

	// ContextWrapper is the richer form of Wrapper which also receives the
	// call context. Dispatch tries this form first and falls back to
	// ArrayWrap when the capability is absent.
	ContextWrapper interface {
		Wrapper
		ArrayWrapContext(raw *Dense, ctx WrapContext) (Value, error)
	}

	// Prioritized is the capability of declaring a wrap-selection priority.
	Prioritized interface {
		ArrayPriority() float64
	}
)

// PriorityOf returns the priority declared by a value, or DefaultPriority
// if the value declares none.
func PriorityOf(v Value) float64 {
	p, ok := v.(Prioritized)
	if !ok {
		return DefaultPriority
	}
	return p.ArrayPriority()
}

// Wrap calls a wrapping function on a raw result, trying the context form
// first and falling back to the plain form when the context capability is
// absent. A nil value with a nil error reports that the wrap requested no
// change.
func Wrap(w Wrapper, raw *Dense, ctx WrapContext) (Value, error) {
	if cw, ok := w.(ContextWrapper); ok {
		return cw.ArrayWrapContext(raw, ctx)
	}
	return w.ArrayWrap(raw)
}

// Return converts a raw kernel result into the value handed back to
// callers when no wrapping function claims it: zero-dimensional arrays
// unwrap to a plain scalar, everything else passes through unchanged.
func Return(raw *Dense) Value {
	if raw.Shape().IsAtomic() {
		return Float(raw.Flat()[0])
	}
	return raw
}
