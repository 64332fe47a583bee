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
	"sort"
	"strings"

	"github.com/gorse-io/moviebox/common/heap"
	"github.com/gorse-io/moviebox/storage/data"
)

// SearchQuery filters the catalog. Empty strings and a zero year are ignored.
type SearchQuery struct {
	Query    string `json:"query,omitempty"`
	Platform string `json:"platform,omitempty"`
	Genre    string `json:"genre,omitempty"`
	Year     int    `json:"year,omitempty"`
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func (q SearchQuery) match(movie data.Movie) bool {
	if q.Query != "" && !containsFold(movie.Title, q.Query) {
		return false
	}
	if q.Platform != "" && !containsFold(movie.Platform, q.Platform) {
		return false
	}
	if q.Genre != "" && !containsFold(movie.Genre, q.Genre) {
		return false
	}
	if q.Year != 0 && movie.Year != q.Year {
		return false
	}
	return true
}

// Search returns every movie matching all filters, by rating in descending order.
// Movies with the same rating keep the catalog order.
func (e *Engine) Search(q SearchQuery) []data.Movie {
	results := make([]data.Movie, 0)
	for _, movie := range e.movies {
		if q.match(movie) {
			results = append(results, movie)
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Rating > results[j].Rating
	})
	return results
}

// Popular returns the top n movies by rating. Movies with the same rating keep the
// catalog order.
func (e *Engine) Popular(n int) []data.Movie {
	filter := heap.NewTopKFilter[data.Movie, float64](n)
	for _, movie := range e.movies {
		filter.Push(movie, movie.Rating)
	}
	return filter.PopAllValues()
}
