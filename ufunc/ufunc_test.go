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

package ufunc_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rjkoch/diffpy.srfit/array"
	"github.com/rjkoch/diffpy.srfit/ufunc"
)

func dense(t *testing.T, values []float64, axes ...int) *array.Dense {
	t.Helper()
	a, err := array.NewDense(values, axes)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		nin, nout int
		ok        bool
	}{
		{name: "f", nin: 1, nout: 1, ok: true},
		{name: "f", nin: 3, nout: 2, ok: true},
		{name: "", nin: 1, nout: 1, ok: false},
		{name: "f", nin: 0, nout: 1, ok: false},
		{name: "f", nin: 1, nout: 0, ok: false},
	}
	for ti, test := range tests {
		_, err := ufunc.New(test.name, test.nin, test.nout, func(in, out []float64) {})
		if (err == nil) != test.ok {
			t.Errorf("test %d: New(%q, %d, %d) error: %v", ti, test.name, test.nin, test.nout, err)
		}
	}
}

func TestRefCount(t *testing.T) {
	f := ufunc.Unary("square", func(x float64) float64 { return x * x })
	if got := f.RefCount(); got != 1 {
		t.Fatalf("got %d references but want 1", got)
	}
	f.Retain()
	if got := f.RefCount(); got != 2 {
		t.Fatalf("got %d references after Retain but want 2", got)
	}
	if err := f.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if got := f.RefCount(); got != 1 {
		t.Fatalf("got %d references after Release but want 1", got)
	}
	if err := f.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := f.Release(); err == nil {
		t.Errorf("over-release: got nil error")
	}
	if _, err := ufunc.GenericFunction(f, []array.Value{array.Float(2)}); err == nil {
		t.Errorf("dispatch on a released ufunc: got nil error")
	}
}

func TestGenericFunction(t *testing.T) {
	square := ufunc.Unary("square", func(x float64) float64 { return x * x })
	add := ufunc.Binary("add", func(x, y float64) float64 { return x + y })
	tests := []struct {
		name string
		f    *ufunc.UFunc
		args []array.Value
		want [][]float64
		ok   bool
	}{
		{
			name: "unary over a vector",
			f:    square,
			args: []array.Value{dense(t, []float64{1, 2, 3}, 3)},
			want: [][]float64{{1, 4, 9}},
			ok:   true,
		},
		{
			name: "binary broadcasting scalar",
			f:    add,
			args: []array.Value{dense(t, []float64{1, 2, 3}, 3), array.Float(10)},
			want: [][]float64{{11, 12, 13}},
			ok:   true,
		},
		{
			name: "binary broadcasting axes",
			f:    add,
			args: []array.Value{dense(t, []float64{1, 2, 3}, 3, 1), dense(t, []float64{10, 20}, 2)},
			want: [][]float64{{11, 21, 12, 22, 13, 23}},
			ok:   true,
		},
		{
			name: "incompatible axes",
			f:    add,
			args: []array.Value{dense(t, []float64{1, 2, 3}, 3), dense(t, []float64{1, 2}, 2)},
			ok:   false,
		},
		{
			name: "missing inputs",
			f:    add,
			args: []array.Value{array.Float(1)},
			ok:   false,
		},
		{
			name: "too many arguments",
			f:    square,
			args: []array.Value{array.Float(1), nil, array.Float(2)},
			ok:   false,
		},
	}
	for _, test := range tests {
		slots, err := ufunc.GenericFunction(test.f, test.args)
		if (err == nil) != test.ok {
			t.Errorf("%s: GenericFunction error: %v", test.name, err)
			continue
		}
		if err != nil {
			continue
		}
		if len(slots) != test.f.Nin()+test.f.Nout() {
			t.Errorf("%s: got %d slots but want %d", test.name, len(slots), test.f.Nin()+test.f.Nout())
			continue
		}
		for i, want := range test.want {
			got := slots[test.f.Nin()+i].Array.Flat()
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("%s: output %d mismatch (-want +got):\n%s", test.name, i, diff)
			}
		}
	}
}

func TestGenericFunctionMultiOutput(t *testing.T) {
	modf, err := ufunc.Lookup("modf")
	if err != nil {
		t.Fatal(err)
	}
	slots, err := ufunc.GenericFunction(modf, []array.Value{dense(t, []float64{1.5, -2.25}, 2)})
	if err != nil {
		t.Fatalf("GenericFunction: %v", err)
	}
	if diff := cmp.Diff([]float64{0.5, -0.25}, slots[1].Array.Flat()); diff != "" {
		t.Errorf("fractional parts mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{1, -2}, slots[2].Array.Flat()); diff != "" {
		t.Errorf("integral parts mismatch (-want +got):\n%s", diff)
	}
}

func TestGenericFunctionExplicitOutput(t *testing.T) {
	square := ufunc.Unary("square", func(x float64) float64 { return x * x })
	out := array.Zeros([]int{3})
	slots, err := ufunc.GenericFunction(square, []array.Value{dense(t, []float64{1, 2, 3}, 3), out})
	if err != nil {
		t.Fatalf("GenericFunction: %v", err)
	}
	if slots[1].Array != out {
		t.Errorf("output slot does not use the explicit destination")
	}
	if diff := cmp.Diff([]float64{1, 4, 9}, out.Flat()); diff != "" {
		t.Errorf("destination content mismatch (-want +got):\n%s", diff)
	}

	// Mismatched destination axes fail the whole call.
	if _, err := ufunc.GenericFunction(square, []array.Value{dense(t, []float64{1, 2, 3}, 3), array.Zeros([]int{2})}); err == nil {
		t.Errorf("mismatched destination: got nil error")
	}
}

type wrapped struct {
	data *array.Dense
}

func (w *wrapped) String() string           { return "wrapped" }
func (w *wrapped) Underlying() *array.Dense { return w.data }
func (w *wrapped) ArrayWrap(raw *array.Dense) (array.Value, error) {
	return &wrapped{data: raw}, nil
}

func TestGenericFunctionCopyBackTemporary(t *testing.T) {
	square := ufunc.Unary("square", func(x float64) float64 { return x * x })
	dest := &wrapped{data: array.Zeros([]int{2})}
	slots, err := ufunc.GenericFunction(square, []array.Value{dense(t, []float64{2, 3}, 2), dest})
	if err != nil {
		t.Fatalf("GenericFunction: %v", err)
	}
	slot := slots[1]
	if slot.CopyBackTo != dest.data {
		t.Fatalf("slot is not marked for copy-back into the destination buffer")
	}
	if slot.Array == dest.data {
		t.Errorf("dispatch wrote through the foreign destination directly")
	}
	if diff := cmp.Diff([]float64{4, 9}, slot.Array.Flat()); diff != "" {
		t.Errorf("temporary content mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry(t *testing.T) {
	add, err := ufunc.Lookup("add")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if add.Nin() != 2 || add.Nout() != 1 {
		t.Errorf("add: got nin=%d nout=%d but want 2 and 1", add.Nin(), add.Nout())
	}
	if _, err := ufunc.Lookup("no-such-ufunc"); err == nil {
		t.Errorf("Lookup on an unknown name: got nil error")
	}
	if err := ufunc.Register(add); err == nil {
		t.Errorf("duplicate Register: got nil error")
	}
	names := ufunc.Names()
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("names are not sorted: %v", names)
			break
		}
	}
	found := false
	for _, name := range names {
		if name == "divmod" {
			found = true
		}
	}
	if !found {
		t.Errorf("divmod missing from %v", names)
	}
}
