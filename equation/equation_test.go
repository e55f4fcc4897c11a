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

package equation_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rjkoch/diffpy.srfit/array"
	"github.com/rjkoch/diffpy.srfit/equation"
	"github.com/rjkoch/diffpy.srfit/equation/literals"
	"github.com/rjkoch/diffpy.srfit/ufunc"
)

func buildOperator(t *testing.T, name, symbol string, children ...literals.Literal) *literals.UFuncOperator {
	t.Helper()
	f, err := ufunc.Lookup(name)
	if err != nil {
		t.Fatalf("cannot lookup %s: %v", name, err)
	}
	op, err := literals.NewUFuncOperator(f, symbol)
	if err != nil {
		t.Fatalf("cannot build operator %s: %v", name, err)
	}
	for _, child := range children {
		if err := op.AddLiteral(child); err != nil {
			t.Fatalf("cannot add child to operator %s: %v", name, err)
		}
	}
	return op
}

func lineEquation(t *testing.T) *equation.Equation {
	t.Helper()
	x := literals.NewArgument("x", nil)
	m := literals.NewArgument("m", array.Float(2))
	b := literals.NewArgument("b", array.Float(1))
	root := buildOperator(t, "add", "+",
		buildOperator(t, "multiply", "*", m, x),
		b,
	)
	eq, err := equation.New("line", root)
	if err != nil {
		t.Fatalf("cannot build equation: %v", err)
	}
	return eq
}

func TestEquationArgs(t *testing.T) {
	eq := lineEquation(t)
	want := []string{"m", "x", "b"}
	if diff := cmp.Diff(want, eq.ArgNames()); diff != "" {
		t.Errorf("unexpected argument names (-want +got):\n%s", diff)
	}
	if _, err := eq.Arg("m"); err != nil {
		t.Errorf("cannot fetch argument m: %v", err)
	}
	if _, err := eq.Arg("q"); err == nil {
		t.Error("fetching an unknown argument should fail")
	}
}

func TestEquationEvaluate(t *testing.T) {
	eq := lineEquation(t)
	if _, err := eq.Evaluate(); err == nil {
		t.Error("evaluating with an unset argument should fail")
	}
	x, err := array.NewDense([]float64{0, 1, 2}, []int{3})
	if err != nil {
		t.Fatal(err)
	}
	if err := eq.SetArg("x", x); err != nil {
		t.Fatalf("cannot set x: %v", err)
	}
	got, err := eq.Evaluate()
	if err != nil {
		t.Fatalf("cannot evaluate: %v", err)
	}
	arr, ok := got.(array.Arrayed)
	if !ok {
		t.Fatalf("evaluation returned %T, want an array", got)
	}
	want := []float64{1, 3, 5}
	if diff := cmp.Diff(want, arr.Underlying().Flat()); diff != "" {
		t.Errorf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestEquationString(t *testing.T) {
	eq := lineEquation(t)
	want := "((m * x) + b)"
	if got := eq.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEquationDuplicateArgNames(t *testing.T) {
	root := buildOperator(t, "add", "+",
		literals.NewArgument("x", array.Float(1)),
		literals.NewArgument("x", array.Float(2)),
	)
	if _, err := equation.New("dup", root); err == nil {
		t.Error("two distinct arguments sharing a name should fail")
	}
}

func TestEquationClose(t *testing.T) {
	add, err := ufunc.Lookup("add")
	if err != nil {
		t.Fatal(err)
	}
	before := add.RefCount()
	eq := lineEquation(t)
	if got := add.RefCount(); got != before+1 {
		t.Fatalf("building the equation should retain add: got %d, want %d", got, before+1)
	}
	if err := eq.Close(); err != nil {
		t.Fatalf("cannot close equation: %v", err)
	}
	if got := add.RefCount(); got != before {
		t.Errorf("closing the equation should release add: got %d, want %d", got, before)
	}
}
