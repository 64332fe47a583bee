// Copyright 2025 gorse Project Authors
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

package logics

import (
	"github.com/gorse-io/moviebox/common/heap"
	"github.com/samber/lo"
)

// ContentBased returns the n movies most similar to a movie, excluding itself. An unknown
// title gives no recommendations. Ties keep the catalog order.
func (e *Engine) ContentBased(title string, n int) []Recommendation {
	i, ok := e.titleIndex[title]
	if !ok || n <= 0 {
		return make([]Recommendation, 0)
	}
	filter := heap.NewTopKFilter[int, float64](n)
	for j, score := range e.content.Row(i) {
		if j != i {
			filter.Push(j, score)
		}
	}
	elems := filter.PopAll()
	recommendations := make([]Recommendation, len(elems))
	for k, elem := range elems {
		recommendations[k] = Recommendation{
			Movie:           e.movies[elem.Value],
			SimilarityScore: lo.ToPtr(elem.Weight),
		}
	}
	return recommendations
}

// Similarity returns the content similarity of two movies.
func (e *Engine) Similarity(title1, title2 string) (float64, bool) {
	i, ok := e.titleIndex[title1]
	if !ok {
		return 0, false
	}
	j, ok := e.titleIndex[title2]
	if !ok {
		return 0, false
	}
	return e.content.Similarity(i, j), true
}
