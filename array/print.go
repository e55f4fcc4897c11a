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
	"fmt"
	"strings"
)

func formatValue(x float64) string {
	result := fmt.Sprintf("%.10f", x)
	if strings.ContainsRune(result, '.') {
		// Remove any number of trailing zeroes after the decimal point, and
		// remove the point itself if there are no digits after it.
		result = strings.TrimRight(result, "0")
		result = strings.TrimSuffix(result, ".")
	}
	return result
}

func axesOffsets(axes []int) []int {
	offsets := make([]int, len(axes))
	for i := range offsets {
		offsets[i] = 1
		for _, d := range axes[i+1:] {
			offsets[i] *= d
		}
	}
	return offsets
}

type printer struct {
	w       *strings.Builder
	data    []float64
	axes    []int
	offsets []int
}

func (p *printer) index(pos []int) int {
	var index int
	for i, v := range pos {
		index += p.offsets[i] * v
	}
	return index
}

func (p *printer) printVector(parent []int) {
	pos := make([]int, len(p.axes))
	copy(pos, parent)
	n := p.axes[len(p.axes)-1]
	vec := make([]string, n)
	for i := 0; i < n; i++ {
		pos[len(pos)-1] = i
		vec[i] = formatValue(p.data[p.index(pos)])
	}
	p.w.WriteString(fmt.Sprintf("{%s}", strings.Join(vec, ", ")))
}

func (p *printer) printRec(parent []int) {
	if len(p.axes)-len(parent) == 1 {
		p.printVector(parent)
		return
	}
	pos := append(append([]int{}, parent...), 0)
	p.w.WriteString("{")
	for i := 0; i < p.axes[len(parent)]; i++ {
		if i > 0 {
			p.w.WriteString(", ")
		}
		pos[len(pos)-1] = i
		p.printRec(pos)
	}
	p.w.WriteString("}")
}

func sprint(data []float64, axes []int) string {
	p := &printer{
		w:       &strings.Builder{},
		data:    data,
		axes:    axes,
		offsets: axesOffsets(axes),
	}
	for _, size := range axes {
		p.w.WriteString(fmt.Sprintf("[%d]", size))
	}
	p.w.WriteString("float64")
	if len(axes) == 0 {
		p.w.WriteString(fmt.Sprintf("(%s)", formatValue(data[0])))
		return p.w.String()
	}
	p.printRec(nil)
	return p.w.String()
}
