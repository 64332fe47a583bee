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
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorse-io/moviebox/base"
	"github.com/gorse-io/moviebox/storage/data"
	"github.com/juju/errors"
)

const (
	MoviesFile  = "movies.csv"
	RatingsFile = "ratings.csv"
)

var (
	movieHeader  = []string{"title", "platform", "genre", "year", "rating", "director"}
	ratingHeader = []string{"user_id", "movie_title", "rating"}
)

// CSV reads movies.csv and ratings.csv from a directory. Both files start with a
// header line. A missing ratings.csv means an empty rating log.
type CSV struct {
	Dir string
}

func (c *CSV) LoadMovies(_ context.Context) ([]data.Movie, error) {
	var movies []data.Movie
	err := c.readFile(MoviesFile, movieHeader, func(lineNumber int, fields []string) error {
		year, err := strconv.Atoi(strings.TrimSpace(fields[3]))
		if err != nil {
			return errors.NotValidf("year %q at line %d", fields[3], lineNumber)
		}
		rating, err := strconv.ParseFloat(strings.TrimSpace(fields[4]), 64)
		if err != nil {
			return errors.NotValidf("rating %q at line %d", fields[4], lineNumber)
		}
		movie := data.Movie{
			Title:    fields[0],
			Platform: fields[1],
			Genre:    fields[2],
			Year:     year,
			Rating:   rating,
			Director: fields[5],
		}
		if err = data.ValidateMovie(movie); err != nil {
			return errors.Annotatef(err, "line %d", lineNumber)
		}
		movies = append(movies, movie)
		return nil
	})
	return movies, err
}

func (c *CSV) LoadRatings(_ context.Context) ([]data.Rating, error) {
	if _, err := os.Stat(filepath.Join(c.Dir, RatingsFile)); os.IsNotExist(err) {
		return nil, nil
	}
	var ratings []data.Rating
	err := c.readFile(RatingsFile, ratingHeader, func(lineNumber int, fields []string) error {
		value, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
		if err != nil {
			return errors.NotValidf("rating %q at line %d", fields[2], lineNumber)
		}
		rating := data.Rating{UserId: fields[0], MovieTitle: fields[1], Rating: value}
		if err = data.ValidateRating(rating); err != nil {
			return errors.Annotatef(err, "line %d", lineNumber)
		}
		ratings = append(ratings, rating)
		return nil
	})
	return ratings, err
}

func (c *CSV) Close() error {
	return nil
}

func (c *CSV) readFile(name string, header []string, handle func(int, []string) error) error {
	file, err := os.Open(filepath.Join(c.Dir, name))
	if err != nil {
		return errors.Trace(err)
	}
	defer file.Close()
	var handleErr error
	err = base.ReadLines(bufio.NewScanner(file), ",", func(lineNumber int, fields []string) bool {
		// skip header and blank lines
		if lineNumber == 0 || (len(fields) == 1 && strings.TrimSpace(fields[0]) == "") {
			return true
		}
		if len(fields) != len(header) {
			handleErr = errors.NotValidf("%s line %d has %d fields, expect %d (%s)",
				name, lineNumber, len(fields), len(header), strings.Join(header, ","))
			return false
		}
		handleErr = handle(lineNumber, fields)
		return handleErr == nil
	})
	if err != nil {
		return errors.Trace(err)
	}
	return handleErr
}

// SaveMovies writes movies.csv into the directory.
func (c *CSV) SaveMovies(movies []data.Movie) error {
	return c.writeFile(MoviesFile, movieHeader, len(movies), func(i int) []string {
		m := movies[i]
		return []string{m.Title, m.Platform, m.Genre, strconv.Itoa(m.Year),
			strconv.FormatFloat(m.Rating, 'f', -1, 64), m.Director}
	})
}

// SaveRatings writes ratings.csv into the directory.
func (c *CSV) SaveRatings(ratings []data.Rating) error {
	return c.writeFile(RatingsFile, ratingHeader, len(ratings), func(i int) []string {
		r := ratings[i]
		return []string{r.UserId, r.MovieTitle, strconv.FormatFloat(r.Rating, 'f', -1, 64)}
	})
}

func (c *CSV) writeFile(name string, header []string, n int, row func(int) []string) error {
	if err := os.MkdirAll(c.Dir, os.ModePerm); err != nil {
		return errors.Trace(err)
	}
	file, err := os.Create(filepath.Join(c.Dir, name))
	if err != nil {
		return errors.Trace(err)
	}
	defer file.Close()
	writer := bufio.NewWriter(file)
	if _, err = fmt.Fprintln(writer, strings.Join(header, ",")); err != nil {
		return errors.Trace(err)
	}
	for i := 0; i < n; i++ {
		fields := row(i)
		for j := range fields {
			fields[j] = base.Escape(fields[j])
		}
		if _, err = fmt.Fprintln(writer, strings.Join(fields, ",")); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(writer.Flush())
}
