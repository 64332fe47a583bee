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
	"strings"

	"github.com/gorse-io/moviebox/storage/data"
	"github.com/juju/errors"
)

// Source produces the catalog and the rating log.
type Source interface {
	LoadMovies(ctx context.Context) ([]data.Movie, error)
	LoadRatings(ctx context.Context) ([]data.Rating, error)
	Close() error
}

const (
	builtInPrefix = "builtin://"
	csvPrefix     = "csv://"
	sqlitePrefix  = "sqlite://"
)

// Open a data source from a URL:
//
//	builtin://      sample catalog with generated ratings
//	csv://<dir>     <dir>/movies.csv and <dir>/ratings.csv
//	sqlite://<path> tables movies and ratings
func Open(dataStore string, opts GeneratorOptions) (Source, error) {
	switch {
	case strings.HasPrefix(dataStore, builtInPrefix):
		return NewBuiltIn(opts), nil
	case strings.HasPrefix(dataStore, csvPrefix):
		return &CSV{Dir: dataStore[len(csvPrefix):]}, nil
	case strings.HasPrefix(dataStore, sqlitePrefix):
		database, err := data.Open(dataStore)
		if err != nil {
			return nil, errors.Trace(err)
		}
		if err = database.Init(); err != nil {
			return nil, errors.Trace(err)
		}
		return &Database{Database: database}, nil
	}
	return nil, errors.NotSupportedf("data store %s", dataStore)
}

// BuiltIn serves the sample catalog and a synthetic rating log.
type BuiltIn struct {
	opts GeneratorOptions
}

func NewBuiltIn(opts GeneratorOptions) *BuiltIn {
	return &BuiltIn{opts: opts}
}

func (b *BuiltIn) LoadMovies(_ context.Context) ([]data.Movie, error) {
	return SampleMovies(), nil
}

func (b *BuiltIn) LoadRatings(_ context.Context) ([]data.Rating, error) {
	return GenerateRatings(SampleMovies(), b.opts), nil
}

func (b *BuiltIn) Close() error {
	return nil
}

// Database adapts a data store to a Source.
type Database struct {
	data.Database
}

func (d *Database) LoadMovies(ctx context.Context) ([]data.Movie, error) {
	return d.GetMovies(ctx)
}

func (d *Database) LoadRatings(ctx context.Context) ([]data.Rating, error) {
	return d.GetRatings(ctx)
}
