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
	"strings"
	"testing"

	"github.com/rjkoch/diffpy.srfit/array"
	"github.com/rjkoch/diffpy.srfit/equation/literals"
	"github.com/rjkoch/diffpy.srfit/equation/visitors"
	"go.uber.org/multierr"
)

func TestValidateValidTree(t *testing.T) {
	root := buildOperator(t, "add", "+",
		literals.NewArgument("a", array.Float(1)),
		literals.NewArgument("b", array.Float(2)),
	)
	if err := visitors.Validate(root); err != nil {
		t.Errorf("a complete tree should validate, got: %v", err)
	}
}

func TestValidateReportsAllDefects(t *testing.T) {
	unconfigured := &literals.UFuncOperator{}
	if err := unconfigured.AddLiteral(literals.NewArgument("a", nil)); err != nil {
		t.Fatal(err)
	}
	// add is missing a child, its only child is unconfigured, and the
	// leaf below has no value.
	root := buildOperator(t, "add", "+", unconfigured)

	err := visitors.Validate(root)
	if err == nil {
		t.Fatal("an incomplete tree should not validate")
	}
	defects := multierr.Errors(err)
	if len(defects) != 3 {
		t.Fatalf("got %d defects, want 3: %v", len(defects), err)
	}
	msg := err.Error()
	for _, want := range []string{
		"operator add has 1 children but takes 2 inputs",
		"is not configured",
		"argument a has no value",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("defects %q do not mention %q", msg, want)
		}
	}
}

func TestValidateNilTree(t *testing.T) {
	if err := visitors.Validate(nil); err == nil {
		t.Error("validating a nil tree should fail")
	}
}
