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
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gorse-io/moviebox/logics"
	"github.com/gorse-io/moviebox/storage/data"
	"github.com/juju/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var searchCommand = &cobra.Command{
	Use:   "search [query]",
	Short: "Search movies by title, platform, genre and year",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := prepare(cmd)
		if err != nil {
			return err
		}
		var q logics.SearchQuery
		if len(args) > 0 {
			q.Query = args[0]
		}
		q.Platform, _ = cmd.Flags().GetString("platform")
		q.Genre, _ = cmd.Flags().GetString("genre")
		q.Year, _ = cmd.Flags().GetInt("year")
		return printMovies(cmd.OutOrStdout(), engine.Search(q))
	},
}

var contentCommand = &cobra.Command{
	Use:   "content <title>",
	Short: "Recommend movies similar to a movie",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := prepare(cmd)
		if err != nil {
			return err
		}
		n := numRecommendations(cmd, engine)
		return printRecommendations(cmd.OutOrStdout(), engine.ContentBased(args[0], n))
	},
}

var collaborativeCommand = &cobra.Command{
	Use:   "collaborative <user>",
	Short: "Recommend movies for a user from the rating log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := prepare(cmd)
		if err != nil {
			return err
		}
		n := numRecommendations(cmd, engine)
		return printRecommendations(cmd.OutOrStdout(), engine.Collaborative(args[0], n))
	},
}

var hybridCommand = &cobra.Command{
	Use:   "hybrid",
	Short: "Recommend movies combining a liked movie, a user and ad-hoc ratings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			q   logics.HybridQuery
			err error
		)
		q.MovieTitle, _ = cmd.Flags().GetString("title")
		q.UserId, _ = cmd.Flags().GetString("user")
		ratings, _ := cmd.Flags().GetStringArray("rating")
		if q.UserRatings, err = parseRatings(ratings); err != nil {
			return err
		}
		engine, err := prepare(cmd)
		if err != nil {
			return err
		}
		n := numRecommendations(cmd, engine)
		return printMovies(cmd.OutOrStdout(), engine.Hybrid(q, n))
	},
}

func init() {
	searchCommand.Flags().String("platform", "", "streaming platform, case-insensitive")
	searchCommand.Flags().String("genre", "", "genre substring, case-insensitive")
	searchCommand.Flags().Int("year", 0, "release year")
	for _, command := range []*cobra.Command{contentCommand, collaborativeCommand, hybridCommand} {
		command.Flags().IntP("n", "n", 0, "number of recommendations (default from config)")
	}
	hybridCommand.Flags().String("title", "", "title of a movie the user likes")
	hybridCommand.Flags().String("user", "", "user id in the rating log")
	hybridCommand.Flags().StringArray("rating", nil, "ad-hoc rating as <title>=<rating>, repeatable")
	rootCommand.AddCommand(searchCommand, contentCommand, collaborativeCommand, hybridCommand)
}

func numRecommendations(cmd *cobra.Command, engine *logics.Engine) int {
	if cmd.Flags().Changed("n") {
		n, _ := cmd.Flags().GetInt("n")
		return n
	}
	return engine.DefaultN()
}

// parseRatings parses ratings in the form of <title>=<rating>. Titles may contain '=',
// the rating follows the last one.
func parseRatings(values []string) (map[string]float64, error) {
	if len(values) == 0 {
		return nil, nil
	}
	ratings := make(map[string]float64, len(values))
	for _, value := range values {
		i := strings.LastIndex(value, "=")
		if i <= 0 {
			return nil, errors.NotValidf("rating %q", value)
		}
		title := strings.TrimSpace(value[:i])
		rating, err := strconv.ParseFloat(strings.TrimSpace(value[i+1:]), 64)
		if err != nil {
			return nil, errors.NotValidf("rating %q", value)
		}
		if rating < data.MinRating || rating > data.MaxRating {
			return nil, errors.NotValidf("rating %v of %s out of [%v, %v]", rating, title, data.MinRating, data.MaxRating)
		}
		ratings[title] = rating
	}
	return ratings, nil
}

func printMovies(w io.Writer, movies []data.Movie) error {
	if len(movies) == 0 {
		_, err := fmt.Fprintln(w, "No movies found.")
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header("Title", "Year", "Platform", "Genre", "Director", "Rating")
	for _, movie := range movies {
		if err := table.Append(movieRow(movie)); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(table.Render())
}

func printRecommendations(w io.Writer, recommendations []logics.Recommendation) error {
	if len(recommendations) == 0 {
		_, err := fmt.Fprintln(w, "No recommendations found.")
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header("Title", "Year", "Platform", "Genre", "Director", "Rating", "Similarity", "Predicted")
	for _, r := range recommendations {
		row := movieRow(r.Movie)
		row = append(row, "", "")
		if r.SimilarityScore != nil {
			row[6] = fmt.Sprintf("%.2f%%", *r.SimilarityScore*100)
		}
		if r.PredictedRating != nil {
			row[7] = fmt.Sprintf("%.1f", *r.PredictedRating)
		}
		if err := table.Append(row); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(table.Render())
}

func movieRow(movie data.Movie) []string {
	year := ""
	if movie.Year != 0 {
		year = strconv.Itoa(movie.Year)
	}
	return []string{movie.Title, year, movie.Platform, movie.Genre, movie.Director,
		strconv.FormatFloat(movie.Rating, 'f', 1, 64)}
}
