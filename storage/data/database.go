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

package data

import (
	"context"
	"strings"

	"github.com/juju/errors"
)

// Movie is a record of the catalog. Title is the unique, case-sensitive key.
type Movie struct {
	Title    string  `json:"title"`
	Platform string  `json:"platform"`
	Genre    string  `json:"genre"`
	Year     int     `json:"year"`
	Rating   float64 `json:"rating"`
	Director string  `json:"director"`
}

// Genres splits the comma-joined genre string.
func (m Movie) Genres() []string {
	var genres []string
	for _, genre := range strings.Split(m.Genre, ",") {
		if genre = strings.TrimSpace(genre); genre != "" {
			genres = append(genres, genre)
		}
	}
	return genres
}

// Rating is an observation of a user rating a movie.
type Rating struct {
	UserId     string  `json:"user_id"`
	MovieTitle string  `json:"movie_title"`
	Rating     float64 `json:"rating"`
}

const (
	MinRating = 1.0
	MaxRating = 10.0
)

// ValidateMovie checks that a movie can be loaded into a catalog.
func ValidateMovie(movie Movie) error {
	if strings.TrimSpace(movie.Title) == "" {
		return errors.NotValidf("movie title cannot be empty")
	}
	return nil
}

// ValidateRating checks that a rating observation is well formed.
func ValidateRating(rating Rating) error {
	if strings.TrimSpace(rating.UserId) == "" {
		return errors.NotValidf("user id cannot be empty")
	}
	if strings.TrimSpace(rating.MovieTitle) == "" {
		return errors.NotValidf("movie title of rating by %s cannot be empty", rating.UserId)
	}
	if rating.Rating < MinRating || rating.Rating > MaxRating {
		return errors.NotValidf("rating %v of %s by %s out of [%v, %v]",
			rating.Rating, rating.MovieTitle, rating.UserId, MinRating, MaxRating)
	}
	return nil
}

// Database is a persistent store of the catalog and the rating log.
type Database interface {
	Init() error
	Close() error
	Purge() error
	BatchInsertMovies(ctx context.Context, movies []Movie) error
	BatchInsertRatings(ctx context.Context, ratings []Rating) error
	GetMovies(ctx context.Context) ([]Movie, error)
	GetRatings(ctx context.Context) ([]Rating, error)
}

const sqlitePrefix = "sqlite://"

// Open a connection to a database.
func Open(path string) (Database, error) {
	if strings.HasPrefix(path, sqlitePrefix) {
		return openSQLite(path[len(sqlitePrefix):])
	}
	return nil, errors.NotSupportedf("data store %s", path)
}
