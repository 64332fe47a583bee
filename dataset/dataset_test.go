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

package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorse-io/moviebox/storage/data"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestSampleMovies(t *testing.T) {
	movies := SampleMovies()
	assert.Len(t, movies, 40)
	titles := mapset.NewSet(lo.Map(movies, func(m data.Movie, _ int) string { return m.Title })...)
	assert.Equal(t, 40, titles.Cardinality())
	// returns a copy
	movies[0].Title = "changed"
	assert.Equal(t, "The Dark Knight", SampleMovies()[0].Title)
}

func TestGenerateRatings(t *testing.T) {
	movies := SampleMovies()
	opts := DefaultGeneratorOptions()
	ratings := GenerateRatings(movies, opts)
	// deterministic for the same seed
	assert.Equal(t, ratings, GenerateRatings(movies, opts))

	perUser := lo.GroupBy(ratings, func(r data.Rating) string { return r.UserId })
	assert.Len(t, perUser, 50)
	for userId, userRatings := range perUser {
		assert.GreaterOrEqual(t, len(userRatings), 5, userId)
		assert.LessOrEqual(t, len(userRatings), 15, userId)
		titles := mapset.NewSet(lo.Map(userRatings, func(r data.Rating, _ int) string { return r.MovieTitle })...)
		assert.Equal(t, len(userRatings), titles.Cardinality(), userId)
		for _, r := range userRatings {
			assert.NoError(t, data.ValidateRating(r))
		}
	}
	_, ok := perUser["user_50"]
	assert.True(t, ok)

	assert.Empty(t, GenerateRatings(nil, opts))
}

func TestCSV(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	source := &CSV{Dir: dir}
	movies := SampleMovies()[:5]
	ratings := []data.Rating{
		{UserId: "user_1", MovieTitle: "Inception", Rating: 9.5},
		{UserId: "user_2", MovieTitle: "The Matrix", Rating: 7},
	}
	assert.NoError(t, source.SaveMovies(movies))
	// missing ratings file means an empty rating log
	loadedRatings, err := source.LoadRatings(ctx)
	assert.NoError(t, err)
	assert.Empty(t, loadedRatings)

	assert.NoError(t, source.SaveRatings(ratings))
	loadedMovies, err := source.LoadMovies(ctx)
	assert.NoError(t, err)
	assert.Equal(t, movies, loadedMovies)
	loadedRatings, err = source.LoadRatings(ctx)
	assert.NoError(t, err)
	assert.Equal(t, ratings, loadedRatings)

	// malformed year
	err = os.WriteFile(filepath.Join(dir, MoviesFile), []byte("title,platform,genre,year,rating,director\nA,B,C,x,1,D\n"), 0644)
	assert.NoError(t, err)
	_, err = source.LoadMovies(ctx)
	assert.True(t, errors.Is(err, errors.NotValid))

	// wrong number of fields
	err = os.WriteFile(filepath.Join(dir, RatingsFile), []byte("user_id,movie_title,rating\nuser_1,A\n"), 0644)
	assert.NoError(t, err)
	_, err = source.LoadRatings(ctx)
	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	source, err := Open("builtin://", DefaultGeneratorOptions())
	assert.NoError(t, err)
	movies, err := source.LoadMovies(ctx)
	assert.NoError(t, err)
	assert.Len(t, movies, 40)
	ratings, err := source.LoadRatings(ctx)
	assert.NoError(t, err)
	assert.NotEmpty(t, ratings)
	assert.NoError(t, source.Close())

	source, err = Open(fmt.Sprintf("sqlite://%s/data.db", t.TempDir()), DefaultGeneratorOptions())
	assert.NoError(t, err)
	database := source.(*Database)
	assert.NoError(t, database.BatchInsertMovies(ctx, movies[:3]))
	movies, err = source.LoadMovies(ctx)
	assert.NoError(t, err)
	assert.Len(t, movies, 3)
	assert.NoError(t, source.Close())

	source, err = Open("csv://"+t.TempDir(), DefaultGeneratorOptions())
	assert.NoError(t, err)
	assert.IsType(t, &CSV{}, source)

	_, err = Open("mongodb://localhost:27017", DefaultGeneratorOptions())
	assert.True(t, errors.Is(err, errors.NotSupported))
}
