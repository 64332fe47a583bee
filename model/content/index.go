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

package content

import (
	"runtime"
	"strconv"

	"github.com/gorse-io/moviebox/common/parallel"
	"github.com/gorse-io/moviebox/storage/data"
	"github.com/samber/lo"
)

type Config struct {
	MaxFeatures int
}

// Index holds a content vector per movie and the cosine similarity between every pair
// of movies. Rows follow the order of the catalog.
type Index struct {
	vectorizer *Vectorizer
	vectors    []SparseVector
	similarity [][]float64
}

// Document returns the text a movie is described by.
func Document(movie data.Movie) string {
	return movie.Genre + " " + movie.Director + " " + strconv.Itoa(movie.Year)
}

// NewIndex builds the index of a catalog.
func NewIndex(movies []data.Movie, cfg Config) *Index {
	vectorizer := NewVectorizer(cfg.MaxFeatures)
	docs := lo.Map(movies, func(movie data.Movie, _ int) string { return Document(movie) })
	vectorizer.Fit(docs)
	idx := &Index{
		vectorizer: vectorizer,
		vectors:    lo.Map(docs, func(doc string, _ int) SparseVector { return vectorizer.Transform(doc) }),
		similarity: make([][]float64, len(movies)),
	}
	for i := range idx.similarity {
		idx.similarity[i] = make([]float64, len(movies))
	}
	// each pair is written once by the row of its smaller index
	parallel.For(len(idx.vectors), runtime.GOMAXPROCS(0), func(i int) {
		idx.similarity[i][i] = 1
		for j := i + 1; j < len(idx.vectors); j++ {
			sim := clamp(idx.vectors[i].Dot(idx.vectors[j]))
			idx.similarity[i][j] = sim
			idx.similarity[j][i] = sim
		}
	})
	return idx
}

func clamp(x float64) float64 {
	return min(max(x, -1), 1)
}

// Len returns the number of movies.
func (idx *Index) Len() int {
	return len(idx.vectors)
}

func (idx *Index) Similarity(i, j int) float64 {
	return idx.similarity[i][j]
}

// Row returns the similarities between the i-th movie and every movie.
func (idx *Index) Row(i int) []float64 {
	return idx.similarity[i]
}

func (idx *Index) Vector(i int) SparseVector {
	return idx.vectors[i]
}

func (idx *Index) Vocabulary() []string {
	return idx.vectorizer.Vocabulary()
}
