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
	"fmt"

	"github.com/gorse-io/moviebox/base"
	"github.com/gorse-io/moviebox/storage/data"
)

// GeneratorOptions controls the synthetic rating log.
type GeneratorOptions struct {
	NumUsers   int
	MinRatings int
	MaxRatings int
	StdDev     float64
	Seed       int64
}

func DefaultGeneratorOptions() GeneratorOptions {
	return GeneratorOptions{
		NumUsers:   50,
		MinRatings: 5,
		MaxRatings: 15,
		StdDev:     1.0,
		Seed:       42,
	}
}

// GenerateRatings simulates users user_1..user_N. Each user rates between MinRatings and
// MaxRatings distinct movies. A rating is drawn around the catalog rating of the movie,
// clipped into [1, 10] and rounded to one decimal.
func GenerateRatings(movies []data.Movie, opts GeneratorOptions) []data.Rating {
	if len(movies) == 0 || opts.NumUsers <= 0 {
		return nil
	}
	rng := base.NewRandomGenerator(opts.Seed)
	var ratings []data.Rating
	for i := 0; i < opts.NumUsers; i++ {
		userId := fmt.Sprintf("user_%d", i+1)
		n := rng.IntRange(opts.MinRatings, opts.MaxRatings)
		for _, index := range rng.Sample(0, len(movies), n) {
			movie := movies[index]
			ratings = append(ratings, data.Rating{
				UserId:     userId,
				MovieTitle: movie.Title,
				Rating:     base.Round(rng.ClippedNormal(movie.Rating, opts.StdDev, data.MinRating, data.MaxRating), 1),
			})
		}
	}
	return ratings
}
