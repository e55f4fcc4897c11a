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

package array_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/backend/shape"
	"github.com/rjkoch/diffpy.srfit/array"
)

func sh(axes ...int) *shape.Shape {
	return &shape.Shape{DType: dtype.Float64, AxisLengths: axes}
}

func TestBroadcast(t *testing.T) {
	tests := []struct {
		shapes []*shape.Shape
		want   []int
		ok     bool
	}{
		{shapes: []*shape.Shape{sh(3), sh(3)}, want: []int{3}, ok: true},
		{shapes: []*shape.Shape{sh(3, 1), sh(3, 5)}, want: []int{3, 5}, ok: true},
		{shapes: []*shape.Shape{sh(), sh(4)}, want: []int{4}, ok: true},
		{shapes: []*shape.Shape{sh(5), sh(2, 5), sh(3, 1, 1)}, want: []int{3, 2, 5}, ok: true},
		{shapes: []*shape.Shape{sh(), sh()}, want: []int{}, ok: true},
		{shapes: []*shape.Shape{sh(3), sh(4)}, ok: false},
		{shapes: []*shape.Shape{sh(2, 3), sh(3, 2)}, ok: false},
	}
	for ti, test := range tests {
		got, err := array.Broadcast(test.shapes...)
		if (err == nil) != test.ok {
			t.Errorf("test %d: Broadcast error: %v", ti, err)
			continue
		}
		if err != nil {
			continue
		}
		if diff := cmp.Diff(test.want, got.AxisLengths); diff != "" {
			t.Errorf("test %d: axes mismatch (-want +got):\n%s", ti, diff)
		}
	}
}

func TestBroadcastStrides(t *testing.T) {
	tests := []struct {
		axes   []int
		target []int
		want   []int
	}{
		{axes: []int{3}, target: []int{3}, want: []int{1}},
		{axes: []int{3, 1}, target: []int{3, 5}, want: []int{1, 0}},
		{axes: []int{5}, target: []int{3, 5}, want: []int{0, 1}},
		{axes: nil, target: []int{2, 2}, want: []int{0, 0}},
		{axes: []int{2, 3}, target: []int{2, 3}, want: []int{3, 1}},
	}
	for ti, test := range tests {
		got := array.BroadcastStrides(test.axes, test.target)
		if !cmp.Equal(got, test.want) {
			t.Errorf("test %d: got strides %v but want %v", ti, got, test.want)
		}
	}
}
