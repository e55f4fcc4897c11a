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

package ufunc

import (
	"math"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]*UFunc)
)

// Register adds a function to the global registry. The registry holds its
// own reference on the function.
func Register(f *UFunc) error {
	if f == nil {
		return errors.Errorf("cannot register a nil ufunc")
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := registry[f.name]; ok {
		return errors.Errorf("ufunc %s is already registered", f.name)
	}
	registry[f.name] = f.Retain()
	return nil
}

// Lookup returns the registered function with the given name.
func Lookup(name string) (*UFunc, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	if !ok {
		return nil, errors.Errorf("no ufunc registered under the name %q", name)
	}
	return f, nil
}

// Names returns the names of all registered functions, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := maps.Keys(registry)
	sort.Strings(names)
	return names
}

func mustRegister(f *UFunc) {
	if err := Register(f); err != nil {
		panic(err)
	}
}

func init() {
	mustRegister(Binary("add", func(x, y float64) float64 { return x + y }))
	mustRegister(Binary("subtract", func(x, y float64) float64 { return x - y }))
	mustRegister(Binary("multiply", func(x, y float64) float64 { return x * y }))
	mustRegister(Binary("divide", func(x, y float64) float64 { return x / y }))
	mustRegister(Binary("power", math.Pow))
	mustRegister(Unary("negative", func(x float64) float64 { return -x }))
	mustRegister(Unary("absolute", math.Abs))
	mustRegister(Unary("sqrt", math.Sqrt))
	mustRegister(Unary("exp", math.Exp))
	mustRegister(Unary("log", math.Log))
	mustRegister(Unary("sin", math.Sin))
	mustRegister(Unary("cos", math.Cos))
	mustRegister(Unary("tan", math.Tan))
	mustRegister(Unary("arctan", math.Atan))
	mustRegister(UnaryN("modf", 2, func(x float64, out []float64) {
		ipart, frac := math.Modf(x)
		out[0] = frac
		out[1] = ipart
	}))
	mustRegister(BinaryN("divmod", 2, func(x, y float64, out []float64) {
		out[0] = math.Floor(x / y)
		out[1] = x - y*math.Floor(x/y)
	}))
}
