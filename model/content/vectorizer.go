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
	"regexp"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorse-io/moviebox/dataset"
)

const DefaultMaxFeatures = 1000

// Word characters are Unicode letters, digits and underscores.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Tokenize lowercases text and splits it into tokens of at least two word characters.
// Stop words are removed.
func Tokenize(text string, stopWords mapset.Set[string]) []string {
	var tokens []string
	for _, token := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		if stopWords == nil || !stopWords.Contains(token) {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// SparseVector is a vector stored as ascending indices and their values.
type SparseVector struct {
	Indices []int
	Values  []float64
}

// Dot returns the inner product of two sparse vectors.
func (v SparseVector) Dot(u SparseVector) float64 {
	var sum float64
	for i, j := 0, 0; i < len(v.Indices) && j < len(u.Indices); {
		switch {
		case v.Indices[i] == u.Indices[j]:
			sum += v.Values[i] * u.Values[j]
			i++
			j++
		case v.Indices[i] < u.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Norm returns the euclidean norm.
func (v SparseVector) Norm() float64 {
	var sum float64
	for _, value := range v.Values {
		sum += value * value
	}
	return math.Sqrt(sum)
}

// Vectorizer converts documents to L2 normalized TF-IDF vectors. The vocabulary keeps
// at most MaxFeatures terms ordered by their count over the corpus.
type Vectorizer struct {
	MaxFeatures int
	StopWords   mapset.Set[string]

	vocabulary map[string]int
	terms      []string
	idf        []float64
}

func NewVectorizer(maxFeatures int) *Vectorizer {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}
	return &Vectorizer{
		MaxFeatures: maxFeatures,
		StopWords:   EnglishStopWords,
	}
}

// Fit learns the vocabulary and the inverse document frequencies of a corpus.
func (v *Vectorizer) Fit(docs []string) {
	counts := dataset.NewFreqDict()
	var df []int
	for _, doc := range docs {
		seen := mapset.NewThreadUnsafeSet[int]()
		for _, token := range Tokenize(doc, v.StopWords) {
			id := counts.Id(token)
			if id == len(df) {
				df = append(df, 0)
			}
			if seen.Add(id) {
				df[id]++
			}
		}
	}

	// rank terms by corpus count, ties in alphabetical order
	ids := make([]int, counts.Count())
	for i := range ids {
		ids[i] = i
	}
	terms := counts.Strings()
	sort.Slice(ids, func(i, j int) bool {
		if counts.Freq(ids[i]) != counts.Freq(ids[j]) {
			return counts.Freq(ids[i]) > counts.Freq(ids[j])
		}
		return terms[ids[i]] < terms[ids[j]]
	})
	if len(ids) > v.MaxFeatures {
		ids = ids[:v.MaxFeatures]
	}
	// features are indexed alphabetically
	sort.Slice(ids, func(i, j int) bool {
		return terms[ids[i]] < terms[ids[j]]
	})

	n := float64(len(docs))
	v.vocabulary = make(map[string]int, len(ids))
	v.terms = make([]string, len(ids))
	v.idf = make([]float64, len(ids))
	for index, id := range ids {
		v.vocabulary[terms[id]] = index
		v.terms[index] = terms[id]
		v.idf[index] = math.Log((1+n)/(1+float64(df[id]))) + 1
	}
}

// Vocabulary returns the terms kept after fitting, in feature order.
func (v *Vectorizer) Vocabulary() []string {
	return v.terms
}

// Transform converts a document to a TF-IDF vector. Terms outside the vocabulary are ignored.
func (v *Vectorizer) Transform(doc string) SparseVector {
	tf := make(map[int]float64)
	for _, token := range Tokenize(doc, v.StopWords) {
		if index, ok := v.vocabulary[token]; ok {
			tf[index]++
		}
	}
	vec := SparseVector{
		Indices: make([]int, 0, len(tf)),
		Values:  make([]float64, 0, len(tf)),
	}
	for index := range tf {
		vec.Indices = append(vec.Indices, index)
	}
	sort.Ints(vec.Indices)
	for _, index := range vec.Indices {
		vec.Values = append(vec.Values, tf[index]*v.idf[index])
	}
	if norm := vec.Norm(); norm > 0 {
		for i := range vec.Values {
			vec.Values[i] /= norm
		}
	}
	return vec
}
