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

package cf

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorse-io/moviebox/storage/data"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"
)

// Matrix is the user-item rating matrix pivoted from a rating log. Rows are users and
// columns are titles, both sorted. A zero cell means the user has not rated the title.
type Matrix struct {
	users      []string
	titles     []string
	userIndex  map[string]int
	titleIndex map[string]int
	values     *mat.Dense
}

type cell struct {
	user  string
	title string
}

// NewMatrix pivots ratings into a matrix. Repeated ratings of a title by the same user
// are averaged.
func NewMatrix(ratings []data.Rating) *Matrix {
	sums := make(map[cell]float64)
	counts := make(map[cell]int)
	users := mapset.NewThreadUnsafeSet[string]()
	titles := mapset.NewThreadUnsafeSet[string]()
	for _, rating := range ratings {
		key := cell{user: rating.UserId, title: rating.MovieTitle}
		sums[key] += rating.Rating
		counts[key]++
		users.Add(rating.UserId)
		titles.Add(rating.MovieTitle)
	}

	m := &Matrix{
		users:  users.ToSlice(),
		titles: titles.ToSlice(),
	}
	sort.Strings(m.users)
	sort.Strings(m.titles)
	m.userIndex = lo.SliceToMap(lo.Range(len(m.users)), func(i int) (string, int) { return m.users[i], i })
	m.titleIndex = lo.SliceToMap(lo.Range(len(m.titles)), func(i int) (string, int) { return m.titles[i], i })
	if len(m.users) == 0 || len(m.titles) == 0 {
		return m
	}
	m.values = mat.NewDense(len(m.users), len(m.titles), nil)
	for key, sum := range sums {
		m.values.Set(m.userIndex[key.user], m.titleIndex[key.title], sum/float64(counts[key]))
	}
	return m
}

// Dims returns the number of users and the number of titles.
func (m *Matrix) Dims() (int, int) {
	return len(m.users), len(m.titles)
}

func (m *Matrix) Users() []string {
	return m.users
}

// Titles returns the column titles in column order.
func (m *Matrix) Titles() []string {
	return m.titles
}

func (m *Matrix) UserIndex(userId string) (int, bool) {
	i, ok := m.userIndex[userId]
	return i, ok
}

func (m *Matrix) TitleIndex(title string) (int, bool) {
	j, ok := m.titleIndex[title]
	return j, ok
}

// At returns the rating of a cell, 0 if unrated.
func (m *Matrix) At(i, j int) float64 {
	return m.values.At(i, j)
}

// Rated returns the titles rated by a user.
func (m *Matrix) Rated(userId string) mapset.Set[string] {
	rated := mapset.NewThreadUnsafeSet[string]()
	i, ok := m.userIndex[userId]
	if !ok {
		return rated
	}
	for j, title := range m.titles {
		if m.values.At(i, j) > 0 {
			rated.Add(title)
		}
	}
	return rated
}
