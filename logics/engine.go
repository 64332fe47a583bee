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
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorse-io/moviebox/base/log"
	"github.com/gorse-io/moviebox/config"
	"github.com/gorse-io/moviebox/model/cf"
	"github.com/gorse-io/moviebox/model/content"
	"github.com/gorse-io/moviebox/storage/data"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Recommendation is a movie with the score it was ranked by.
type Recommendation struct {
	data.Movie
	SimilarityScore *float64 `json:"similarity_score,omitempty"`
	PredictedRating *float64 `json:"predicted_rating,omitempty"`
}

// Engine answers search and recommendation queries over a catalog and a rating log.
// Both models are built by NewEngine and never change afterwards, so an Engine is safe
// for concurrent use. Load new data by building a new Engine.
type Engine struct {
	cfg        config.RecommendConfig
	movies     []data.Movie
	titleIndex map[string]int
	content    *content.Index
	model      *cf.Model
	users      []string
}

// NewEngine builds the content index of movies and the latent factor model of ratings.
// The latent factor model is skipped if ratings are too few to factorize. Invalid movies
// and ratings are rejected.
func NewEngine(movies []data.Movie, ratings []data.Rating, cfg config.RecommendConfig) (*Engine, error) {
	e := &Engine{
		cfg:        cfg,
		movies:     make([]data.Movie, len(movies)),
		titleIndex: make(map[string]int, len(movies)),
	}
	copy(e.movies, movies)
	for i, movie := range e.movies {
		if err := data.ValidateMovie(movie); err != nil {
			return nil, errors.Trace(err)
		}
		if _, exist := e.titleIndex[movie.Title]; exist {
			return nil, errors.NotValidf("duplicate movie title %q", movie.Title)
		}
		e.titleIndex[movie.Title] = i
	}

	start := time.Now()
	e.content = content.NewIndex(e.movies, content.Config{MaxFeatures: cfg.Content.MaxFeatures})
	BuildSeconds.WithLabelValues("content").Observe(time.Since(start).Seconds())

	users := mapset.NewThreadUnsafeSet[string]()
	for _, rating := range ratings {
		if err := data.ValidateRating(rating); err != nil {
			return nil, errors.Trace(err)
		}
		users.Add(rating.UserId)
	}
	e.users = users.ToSlice()
	sort.Strings(e.users)
	if len(ratings) > 0 {
		start = time.Now()
		model, err := cf.Fit(cf.NewMatrix(ratings), cf.Config{NFactors: cfg.Collaborative.NFactors})
		if err != nil {
			log.Logger().Warn("collaborative filtering unavailable", zap.Error(err))
		} else {
			e.model = model
			BuildSeconds.WithLabelValues("collaborative").Observe(time.Since(start).Seconds())
			log.Logger().Info("fit latent factor model",
				zap.Int("n_users", len(model.Matrix().Users())),
				zap.Int("n_titles", len(model.Matrix().Titles())),
				zap.Int("n_factors", model.K()))
		}
	}
	NumMovies.Set(float64(len(e.movies)))
	NumRatings.Set(float64(len(ratings)))
	return e, nil
}

// CollaborativeAvailable reports whether the latent factor model was built.
func (e *Engine) CollaborativeAvailable() bool {
	return e.model != nil
}

// Movies returns the catalog in its original order.
func (e *Engine) Movies() []data.Movie {
	return e.movies
}

func (e *Engine) Movie(title string) (data.Movie, bool) {
	i, ok := e.titleIndex[title]
	if !ok {
		return data.Movie{}, false
	}
	return e.movies[i], true
}

// Titles returns sorted titles of the catalog.
func (e *Engine) Titles() []string {
	titles := lo.Map(e.movies, func(movie data.Movie, _ int) string { return movie.Title })
	sort.Strings(titles)
	return titles
}

// Platforms returns sorted distinct platforms of the catalog.
func (e *Engine) Platforms() []string {
	platforms := lo.Uniq(lo.Map(e.movies, func(movie data.Movie, _ int) string { return movie.Platform }))
	sort.Strings(platforms)
	return platforms
}

// Genres returns sorted distinct genres of the catalog.
func (e *Engine) Genres() []string {
	genres := lo.Uniq(lo.FlatMap(e.movies, func(movie data.Movie, _ int) []string { return movie.Genres() }))
	sort.Strings(genres)
	return genres
}

// Users returns sorted distinct users of the rating log.
func (e *Engine) Users() []string {
	return e.users
}

// DefaultN returns the configured number of recommendations.
func (e *Engine) DefaultN() int {
	return e.cfg.DefaultN
}
