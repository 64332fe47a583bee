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

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorse-io/moviebox/base/log"
	"github.com/gorse-io/moviebox/storage/data"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	SourceContent       = "content"
	SourceCollaborative = "collaborative"
	SourceHybrid        = "hybrid"
)

// HybridQuery holds the optional inputs of a hybrid recommendation. UserRatings are ad hoc
// ratings of a user who may not be in the rating log.
type HybridQuery struct {
	MovieTitle  string             `json:"movie_title,omitempty"`
	UserId      string             `json:"user_id,omitempty"`
	UserRatings map[string]float64 `json:"user_ratings,omitempty"`
}

type candidate struct {
	Recommendation
	source string
}

// Hybrid blends content-based recommendations of MovieTitle, collaborative recommendations
// of UserId and content-based recommendations seeded by highly rated UserRatings. Candidates
// are deduplicated by title and ranked by rating. Popular movies are returned when there is
// nothing to blend.
func (e *Engine) Hybrid(q HybridQuery, n int) []data.Movie {
	if n <= 0 {
		return make([]data.Movie, 0)
	}
	n = min(n, len(e.movies))
	multiplier := max(e.cfg.Hybrid.CandidateMultiplier, 1)
	var candidates []candidate
	if q.MovieTitle != "" {
		for _, rec := range e.ContentBased(q.MovieTitle, multiplier*n) {
			candidates = append(candidates, candidate{Recommendation: rec, source: SourceContent})
		}
	}
	if q.UserId != "" {
		for _, rec := range e.Collaborative(q.UserId, multiplier*n) {
			candidates = append(candidates, candidate{Recommendation: rec, source: SourceCollaborative})
		}
	}
	for _, rec := range e.weightedContent(q.UserRatings, n) {
		candidates = append(candidates, candidate{Recommendation: rec, source: SourceHybrid})
	}
	if len(candidates) == 0 {
		FallbackTotal.WithLabelValues("hybrid").Inc()
		return e.Popular(n)
	}

	// first occurrence wins
	seen := mapset.NewThreadUnsafeSet[string]()
	candidates = lo.Filter(candidates, func(c candidate, _ int) bool {
		return seen.Add(c.Title)
	})
	log.Logger().Debug("hybrid candidates",
		zap.Int("content", lo.CountBy(candidates, func(c candidate) bool { return c.source == SourceContent })),
		zap.Int("collaborative", lo.CountBy(candidates, func(c candidate) bool { return c.source == SourceCollaborative })),
		zap.Int("hybrid", lo.CountBy(candidates, func(c candidate) bool { return c.source == SourceHybrid })))

	e.rank(candidates)
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	return lo.Map(candidates, func(c candidate, _ int) data.Movie { return c.Movie })
}

// rank sorts candidates by rating. Ties are broken by similarity if any candidate has one,
// otherwise by predicted rating. Candidates without the score go last and the rest keep the
// catalog order.
func (e *Engine) rank(candidates []candidate) {
	var secondary func(c candidate) *float64
	switch {
	case lo.ContainsBy(candidates, func(c candidate) bool { return c.SimilarityScore != nil }):
		secondary = func(c candidate) *float64 { return c.SimilarityScore }
	case lo.ContainsBy(candidates, func(c candidate) bool { return c.PredictedRating != nil }):
		secondary = func(c candidate) *float64 { return c.PredictedRating }
	default:
		secondary = func(c candidate) *float64 { return nil }
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Rating != candidates[j].Rating {
			return candidates[i].Rating > candidates[j].Rating
		}
		a, b := secondary(candidates[i]), secondary(candidates[j])
		switch {
		case a != nil && b != nil && *a != *b:
			return *a > *b
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return e.titleIndex[candidates[i].Title] < e.titleIndex[candidates[j].Title]
	})
}

// weightedContent pulls n content-based recommendations for every title rated at least the
// threshold, weighted by rating / 10. Similarities and weights are averaged per title and
// candidates are ranked by mean similarity times mean weight.
func (e *Engine) weightedContent(ratings map[string]float64, n int) []Recommendation {
	type aggregate struct {
		movie      data.Movie
		similarity float64
		weight     float64
		count      int
	}
	aggregates := make(map[string]*aggregate)
	seeds := lo.Keys(ratings)
	sort.Strings(seeds)
	for _, seed := range seeds {
		rating := ratings[seed]
		if rating < e.cfg.Hybrid.RatingThreshold {
			continue
		}
		for _, rec := range e.ContentBased(seed, n) {
			agg, ok := aggregates[rec.Title]
			if !ok {
				agg = &aggregate{movie: rec.Movie}
				aggregates[rec.Title] = agg
			}
			agg.similarity += *rec.SimilarityScore
			agg.weight += rating / 10
			agg.count++
		}
	}

	titles := lo.Keys(aggregates)
	sort.Strings(titles)
	type scored struct {
		Recommendation
		finalScore float64
	}
	results := lo.Map(titles, func(title string, _ int) scored {
		agg := aggregates[title]
		similarity := agg.similarity / float64(agg.count)
		weight := agg.weight / float64(agg.count)
		return scored{
			Recommendation: Recommendation{Movie: agg.movie, SimilarityScore: lo.ToPtr(similarity)},
			finalScore:     similarity * weight,
		}
	})
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].finalScore > results[j].finalScore
	})
	return lo.Map(results, func(s scored, _ int) Recommendation { return s.Recommendation })
}
