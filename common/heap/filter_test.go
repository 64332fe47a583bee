// Copyright 2022 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package heap

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestTopKFilter(t *testing.T) {
	a := NewTopKFilter[int32, float32](3)
	a.Push(10, 2)
	a.Push(20, 8)
	a.Push(30, 1)
	assert.Equal(t, []int32{20, 10, 30}, a.PopAllValues())
	// full filter
	a = NewTopKFilter[int32, float32](3)
	a.Push(10, 2)
	a.Push(20, 8)
	a.Push(30, 1)
	a.Push(40, 2)
	a.Push(50, 5)
	a.Push(12, 10)
	a.Push(67, 7)
	a.Push(32, 9)
	elems := a.PopAll()
	assert.Equal(t, []int32{12, 32, 20}, lo.Map(elems, func(e Elem[int32, float32], _ int) int32 { return e.Value }))
	assert.Equal(t, []float32{10, 9, 8}, lo.Map(elems, func(e Elem[int32, float32], _ int) float32 { return e.Weight }))
}

func TestTopKFilterStable(t *testing.T) {
	a := NewTopKFilter[string, float64](3)
	a.Push("a", 1)
	a.Push("b", 2)
	a.Push("c", 2)
	a.Push("d", 2)
	a.Push("e", 2)
	a.Push("f", 1)
	assert.Equal(t, []string{"b", "c", "d"}, a.PopAllValues())

	a = NewTopKFilter[string, float64](10)
	for _, s := range []string{"x", "y", "z"} {
		a.Push(s, 0)
	}
	assert.Equal(t, []string{"x", "y", "z"}, a.PopAllValues())
}

func TestTopKFilterEmpty(t *testing.T) {
	a := NewTopKFilter[string, float64](0)
	a.Push("a", 1)
	assert.Empty(t, a.PopAllValues())
}
