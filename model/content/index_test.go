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
	"math"
	"testing"

	"github.com/gorse-io/moviebox/dataset"
	"github.com/gorse-io/moviebox/storage/data"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"action", "sci", "fi", "thriller", "christopher", "nolan", "2010"},
		Tokenize("Action,Sci-Fi,Thriller Christopher Nolan 2010", EnglishStopWords))
	assert.Equal(t, []string{"lord", "rings"}, Tokenize("The Lord of the Rings", EnglishStopWords))
	// single characters are not tokens
	assert.Equal(t, []string{"night", "shyamalan"}, Tokenize("M. Night Shyamalan", EnglishStopWords))
	assert.Empty(t, Tokenize("", EnglishStopWords))
	// non-ASCII letters belong to words
	assert.Equal(t, []string{"drama", "alejandro", "gonzález", "iñárritu", "2014"},
		Tokenize("Drama Alejandro González Iñárritu 2014", EnglishStopWords))
	assert.Equal(t, []string{"amélie", "jeunet"}, Tokenize("Amélie - Jeunet", nil))
}

func TestVectorizerMaxFeatures(t *testing.T) {
	docs := []string{"drama drama nolan", "drama fincher"}
	v := NewVectorizer(1)
	v.Fit(docs)
	assert.Equal(t, []string{"drama"}, v.Vocabulary())
	// terms beyond the cap are dropped
	assert.Equal(t, []int{0}, v.Transform("nolan drama").Indices)

	v = NewVectorizer(2)
	v.Fit(docs)
	assert.Equal(t, []string{"drama", "fincher"}, v.Vocabulary())

	v = NewVectorizer(0)
	assert.Equal(t, DefaultMaxFeatures, v.MaxFeatures)
	v.Fit(docs)
	assert.Equal(t, []string{"drama", "fincher", "nolan"}, v.Vocabulary())
}

func TestVectorizerTransform(t *testing.T) {
	v := NewVectorizer(DefaultMaxFeatures)
	v.Fit([]string{"drama", "drama comedy"})
	assert.Equal(t, []string{"comedy", "drama"}, v.Vocabulary())
	vec := v.Transform("drama comedy")
	idf := math.Log(1.5) + 1
	norm := math.Sqrt(idf*idf + 1)
	assert.Equal(t, []int{0, 1}, vec.Indices)
	assert.InDelta(t, idf/norm, vec.Values[0], 1e-9)
	assert.InDelta(t, 1/norm, vec.Values[1], 1e-9)
	assert.InDelta(t, 1, vec.Norm(), 1e-9)
	// unknown terms produce a zero vector
	assert.Empty(t, v.Transform("western").Indices)
}

func TestIndex(t *testing.T) {
	movies := dataset.SampleMovies()
	idx := NewIndex(movies, Config{MaxFeatures: DefaultMaxFeatures})
	assert.Equal(t, len(movies), idx.Len())
	for i := 0; i < idx.Len(); i++ {
		assert.Equal(t, 1.0, idx.Similarity(i, i))
		assert.Equal(t, 1.0, lo.Max(idx.Row(i)))
		for j := 0; j < idx.Len(); j++ {
			assert.Equal(t, idx.Similarity(i, j), idx.Similarity(j, i))
			assert.GreaterOrEqual(t, idx.Similarity(i, j), -1.0)
			assert.LessOrEqual(t, idx.Similarity(i, j), 1.0)
		}
	}

	position := func(title string) int {
		_, i, ok := lo.FindIndexOf(movies, func(m data.Movie) bool { return m.Title == title })
		assert.True(t, ok, title)
		return i
	}
	inception := position("Inception")
	assert.Greater(t, idx.Similarity(inception, position("The Dark Knight")),
		idx.Similarity(inception, position("The Shawshank Redemption")))
	assert.Greater(t, idx.Similarity(inception, position("Interstellar")),
		idx.Similarity(inception, position("Forrest Gump")))
	assert.Contains(t, idx.Vocabulary(), "nolan")
}

func TestIndexDegenerate(t *testing.T) {
	idx := NewIndex(nil, Config{})
	assert.Zero(t, idx.Len())

	idx = NewIndex([]data.Movie{{Title: "Solo", Genre: "Drama", Director: "Someone", Year: 2000}}, Config{})
	assert.Equal(t, 1, idx.Len())
	assert.Equal(t, []float64{1}, idx.Row(0))
}
