// Copyright 2020 gorse Project Authors
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
package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFor(t *testing.T) {
	for _, nWorkers := range []int{0, 1, 4} {
		a := make([]int, 10000)
		var calls atomic.Int64
		For(len(a), nWorkers, func(jobId int) {
			a[jobId] = jobId * jobId
			calls.Add(1)
		})
		assert.Equal(t, int64(len(a)), calls.Load())
		for i := range a {
			assert.Equal(t, i*i, a[i])
		}
	}
	For(0, 4, func(int) { t.Fatal("unexpected job") })
}
