// Copyright 2021 gorse Project Authors
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

package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/gorse-io/moviebox/config"
	"github.com/gorse-io/moviebox/dataset"
	"github.com/gorse-io/moviebox/logics"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

func TestParseRatings(t *testing.T) {
	ratings, err := parseRatings([]string{"Inception=9", " Interstellar = 8.5 ", "A=B=7"})
	assert.NoError(t, err)
	assert.Equal(t, map[string]float64{"Inception": 9, "Interstellar": 8.5, "A=B": 7}, ratings)

	ratings, err = parseRatings(nil)
	assert.NoError(t, err)
	assert.Nil(t, ratings)

	for _, value := range []string{"Inception", "=9", "Inception=nine", "Inception=11", "Inception=0.5"} {
		_, err = parseRatings([]string{value})
		assert.True(t, errors.Is(err, errors.NotValid), value)
	}
}

func TestPrint(t *testing.T) {
	movies := dataset.SampleMovies()
	engine, err := logics.NewEngine(movies, dataset.GenerateRatings(movies, dataset.DefaultGeneratorOptions()),
		config.GetDefaultConfig().Recommend)
	assert.NoError(t, err)

	var buf bytes.Buffer
	assert.NoError(t, printMovies(&buf, engine.Search(logics.SearchQuery{Query: "inception"})))
	assert.Contains(t, buf.String(), "Inception")
	assert.Contains(t, buf.String(), "Christopher Nolan")

	buf.Reset()
	assert.NoError(t, printRecommendations(&buf, engine.ContentBased("Inception", 3)))
	assert.Contains(t, buf.String(), "%")

	buf.Reset()
	assert.NoError(t, printRecommendations(&buf, engine.ContentBased("Unknown", 3)))
	assert.Equal(t, "No recommendations found.\n", buf.String())

	buf.Reset()
	assert.NoError(t, printMovies(&buf, nil))
	assert.Equal(t, "No movies found.\n", buf.String())
}

func TestImportDataset(t *testing.T) {
	ctx := context.Background()
	movies := dataset.SampleMovies()
	ratings := dataset.GenerateRatings(movies, dataset.DefaultGeneratorOptions())

	for _, target := range []string{
		"csv://" + filepath.Join(t.TempDir(), "export"),
		"sqlite://" + filepath.Join(t.TempDir(), "moviebox.db"),
	} {
		assert.NoError(t, importDataset(ctx, target, movies, ratings, true), target)
		source, err := dataset.Open(target, dataset.DefaultGeneratorOptions())
		assert.NoError(t, err)
		loadedMovies, err := source.LoadMovies(ctx)
		assert.NoError(t, err)
		assert.ElementsMatch(t, movies, loadedMovies, target)
		loadedRatings, err := source.LoadRatings(ctx)
		assert.NoError(t, err)
		assert.Len(t, loadedRatings, len(ratings), target)
		assert.NoError(t, source.Close())
	}

	err := importDataset(ctx, "mongodb://localhost", movies, ratings, false)
	assert.True(t, errors.Is(err, errors.NotSupported))
}
