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
	"github.com/gorse-io/moviebox/storage/data"
	"github.com/samber/lo"
)

// Collaborative returns the n unrated movies with the highest predicted ratings of a user.
// Ties keep the column order of the rating matrix. Rated titles missing from the catalog
// are never recommended. Users without a row in the rating matrix get popular movies.
func (e *Engine) Collaborative(userId string, n int) []Recommendation {
	if n <= 0 {
		return make([]Recommendation, 0)
	}
	var predictions []float64
	if e.model != nil {
		predictions, _ = e.model.PredictRow(userId)
	}
	if predictions == nil {
		FallbackTotal.WithLabelValues("collaborative").Inc()
		return lo.Map(e.Popular(n), func(movie data.Movie, _ int) Recommendation {
			return Recommendation{Movie: movie}
		})
	}
	matrix := e.model.Matrix()
	rated := matrix.Rated(userId)
	filter := heap.NewTopKFilter[int, float64](n)
	for j, title := range matrix.Titles() {
		if rated.Contains(title) {
			continue
		}
		if i, ok := e.titleIndex[title]; ok {
			filter.Push(i, predictions[j])
		}
	}
	elems := filter.PopAll()
	recommendations := make([]Recommendation, len(elems))
	for k, elem := range elems {
		recommendations[k] = Recommendation{
			Movie:           e.movies[elem.Value],
			PredictedRating: lo.ToPtr(elem.Weight),
		}
	}
	return recommendations
}

// Predict the rating of a movie by a user.
func (e *Engine) Predict(userId, title string) (float64, bool) {
	if e.model == nil {
		return 0, false
	}
	return e.model.Predict(userId, title)
}
