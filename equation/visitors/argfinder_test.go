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

package visitors_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rjkoch/diffpy.srfit/equation/literals"
	"github.com/rjkoch/diffpy.srfit/equation/visitors"
)

func TestFindArgs(t *testing.T) {
	x := literals.NewArgument("x", nil)
	a := literals.NewArgument("a", nil)
	b := literals.NewArgument("b", nil)
	// (a * x) + (b * x): x is shared and must be reported once.
	root := buildOperator(t, "add", "+",
		buildOperator(t, "multiply", "*", a, x),
		buildOperator(t, "multiply", "*", b, x),
	)
	args, err := visitors.FindArgs(root)
	if err != nil {
		t.Fatalf("cannot find arguments: %v", err)
	}
	var names []string
	for _, arg := range args {
		names = append(names, arg.Name())
	}
	want := []string{"a", "x", "b"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("unexpected argument order (-want +got):\n%s", diff)
	}
}

func TestFindArgsLeaf(t *testing.T) {
	x := literals.NewArgument("x", nil)
	args, err := visitors.FindArgs(x)
	if err != nil {
		t.Fatalf("cannot find arguments: %v", err)
	}
	if len(args) != 1 || args[0] != x {
		t.Errorf("got %v, want the single leaf", args)
	}
}

func TestFindArgsNilTree(t *testing.T) {
	if _, err := visitors.FindArgs(nil); err == nil {
		t.Error("searching a nil tree should fail")
	}
}
