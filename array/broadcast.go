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

import (
	"github.com/pkg/errors"
	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/backend/shape"
)

// Broadcast returns the shape obtained by broadcasting all operand shapes
// together. Axes are compared right-aligned; two axis lengths are
// compatible when they are equal or one of them is 1. Missing leading axes
// are treated as length 1.
func Broadcast(shapes ...*shape.Shape) (*shape.Shape, error) {
	rank := 0
	for _, sh := range shapes {
		if len(sh.AxisLengths) > rank {
			rank = len(sh.AxisLengths)
		}
	}
	axes := make([]int, rank)
	for i := range axes {
		axes[i] = 1
	}
	for _, sh := range shapes {
		offset := rank - len(sh.AxisLengths)
		for i, length := range sh.AxisLengths {
			k := offset + i
			switch {
			case axes[k] == length || length == 1:
			case axes[k] == 1:
				axes[k] = length
			default:
				return nil, errors.Errorf("axes %v are not compatible for broadcasting with %v", sh.AxisLengths, axes)
			}
		}
	}
	return &shape.Shape{DType: dtype.Float64, AxisLengths: axes}, nil
}

// Strides returns the row-major strides of the given axis lengths.
func Strides(axisLengths []int) []int {
	return axesOffsets(axisLengths)
}

// BroadcastStrides returns the strides to read an array of the given axis
// lengths at positions of the target broadcast axes: stretched axes get a
// zero stride so that every position re-reads the same value.
func BroadcastStrides(axisLengths, target []int) []int {
	strides := Strides(axisLengths)
	out := make([]int, len(target))
	offset := len(target) - len(axisLengths)
	for i := range target {
		if i < offset {
			continue
		}
		if axisLengths[i-offset] == 1 && target[i] != 1 {
			continue
		}
		out[i] = strides[i-offset]
	}
	return out
}
