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
	"database/sql"
	"time"

	"github.com/juju/errors"
	_ "modernc.org/sqlite"
)

// SQLDatabase stores the catalog and the rating log in SQLite.
type SQLDatabase struct {
	client *sql.DB
}

func openSQLite(path string) (*SQLDatabase, error) {
	client, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	// SQLite does not support concurrent writes.
	client.SetMaxOpenConns(1)
	return &SQLDatabase{client: client}, nil
}

// Init tables in SQLite.
func (d *SQLDatabase) Init() error {
	if _, err := d.client.Exec("CREATE TABLE IF NOT EXISTS movies (" +
		"title TEXT NOT NULL PRIMARY KEY," +
		"platform TEXT NOT NULL DEFAULT ''," +
		"genre TEXT NOT NULL DEFAULT ''," +
		"year INTEGER NOT NULL DEFAULT 0," +
		"rating REAL NOT NULL DEFAULT 0," +
		"director TEXT NOT NULL DEFAULT ''," +
		"position INTEGER NOT NULL)"); err != nil {
		return errors.Trace(err)
	}
	if _, err := d.client.Exec("CREATE TABLE IF NOT EXISTS ratings (" +
		"position INTEGER NOT NULL PRIMARY KEY," +
		"user_id TEXT NOT NULL," +
		"movie_title TEXT NOT NULL," +
		"rating REAL NOT NULL)"); err != nil {
		return errors.Trace(err)
	}
	return nil
}

func (d *SQLDatabase) Close() error {
	return d.client.Close()
}

// Purge deletes all rows.
func (d *SQLDatabase) Purge() error {
	for _, tableName := range []string{"movies", "ratings"} {
		if _, err := d.client.Exec("DELETE FROM " + tableName); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

// BatchInsertMovies appends movies after the existing ones. Movies with an existing title are replaced in place.
func (d *SQLDatabase) BatchInsertMovies(ctx context.Context, movies []Movie) error {
	defer func(start time.Time) { BatchInsertMoviesSeconds.Observe(time.Since(start).Seconds()) }(time.Now())
	if len(movies) == 0 {
		return nil
	}
	tx, err := d.client.BeginTx(ctx, nil)
	if err != nil {
		return errors.Trace(err)
	}
	var offset int
	if err = tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(position) + 1, 0) FROM movies").Scan(&offset); err != nil {
		_ = tx.Rollback()
		return errors.Trace(err)
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO movies(title, platform, genre, year, rating, director, position) "+
		"VALUES (?, ?, ?, ?, ?, ?, ?) ON CONFLICT(title) DO UPDATE SET "+
		"platform = excluded.platform, genre = excluded.genre, year = excluded.year, "+
		"rating = excluded.rating, director = excluded.director")
	if err != nil {
		_ = tx.Rollback()
		return errors.Trace(err)
	}
	defer stmt.Close()
	for i, movie := range movies {
		if err = ValidateMovie(movie); err != nil {
			_ = tx.Rollback()
			return errors.Trace(err)
		}
		if _, err = stmt.ExecContext(ctx, movie.Title, movie.Platform, movie.Genre, movie.Year,
			movie.Rating, movie.Director, offset+i); err != nil {
			_ = tx.Rollback()
			return errors.Trace(err)
		}
	}
	return errors.Trace(tx.Commit())
}

// BatchInsertRatings appends observations to the rating log.
func (d *SQLDatabase) BatchInsertRatings(ctx context.Context, ratings []Rating) error {
	defer func(start time.Time) { BatchInsertRatingsSeconds.Observe(time.Since(start).Seconds()) }(time.Now())
	if len(ratings) == 0 {
		return nil
	}
	tx, err := d.client.BeginTx(ctx, nil)
	if err != nil {
		return errors.Trace(err)
	}
	var offset int
	if err = tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(position) + 1, 0) FROM ratings").Scan(&offset); err != nil {
		_ = tx.Rollback()
		return errors.Trace(err)
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO ratings(position, user_id, movie_title, rating) VALUES (?, ?, ?, ?)")
	if err != nil {
		_ = tx.Rollback()
		return errors.Trace(err)
	}
	defer stmt.Close()
	for i, rating := range ratings {
		if err = ValidateRating(rating); err != nil {
			_ = tx.Rollback()
			return errors.Trace(err)
		}
		if _, err = stmt.ExecContext(ctx, offset+i, rating.UserId, rating.MovieTitle, rating.Rating); err != nil {
			_ = tx.Rollback()
			return errors.Trace(err)
		}
	}
	return errors.Trace(tx.Commit())
}

// GetMovies returns movies in insertion order.
func (d *SQLDatabase) GetMovies(ctx context.Context) ([]Movie, error) {
	defer func(start time.Time) { GetMoviesSeconds.Observe(time.Since(start).Seconds()) }(time.Now())
	rows, err := d.client.QueryContext(ctx, "SELECT title, platform, genre, year, rating, director FROM movies ORDER BY position")
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer rows.Close()
	var movies []Movie
	for rows.Next() {
		var movie Movie
		if err = rows.Scan(&movie.Title, &movie.Platform, &movie.Genre, &movie.Year, &movie.Rating, &movie.Director); err != nil {
			return nil, errors.Trace(err)
		}
		movies = append(movies, movie)
	}
	return movies, errors.Trace(rows.Err())
}

// GetRatings returns the rating log in insertion order.
func (d *SQLDatabase) GetRatings(ctx context.Context) ([]Rating, error) {
	defer func(start time.Time) { GetRatingsSeconds.Observe(time.Since(start).Seconds()) }(time.Now())
	rows, err := d.client.QueryContext(ctx, "SELECT user_id, movie_title, rating FROM ratings ORDER BY position")
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer rows.Close()
	var ratings []Rating
	for rows.Next() {
		var rating Rating
		if err = rows.Scan(&rating.UserId, &rating.MovieTitle, &rating.Rating); err != nil {
			return nil, errors.Trace(err)
		}
		ratings = append(ratings, rating)
	}
	return ratings, errors.Trace(rows.Err())
}
