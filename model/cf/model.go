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
	"github.com/juju/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const DefaultFactors = 50

// ErrInsufficientData is returned when the rating matrix has fewer than two users or two titles.
var ErrInsufficientData = errors.NotValidf("rating matrix smaller than 2x2")

type Config struct {
	NFactors int
}

// Model predicts ratings by a truncated SVD of the mean-centered rating matrix. The mean
// of a user is taken over every column, unrated cells included as zeros.
type Model struct {
	matrix        *Matrix
	means         []float64
	reconstructed *mat.Dense
	k             int
}

// Fit factorizes a rating matrix and keeps the k largest singular values, where
// k = min(NFactors, min(users, titles) - 1).
func Fit(matrix *Matrix, cfg Config) (*Model, error) {
	rows, cols := matrix.Dims()
	if rows < 2 || cols < 2 {
		return nil, errors.Annotatef(ErrInsufficientData, "%d users and %d titles", rows, cols)
	}
	nFactors := cfg.NFactors
	if nFactors <= 0 {
		nFactors = DefaultFactors
	}
	k := min(nFactors, min(rows, cols)-1)

	means := make([]float64, rows)
	centered := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		row := mat.Row(nil, i, matrix.values)
		means[i] = floats.Sum(row) / float64(cols)
		floats.AddConst(-means[i], row)
		centered.SetRow(i, row)
	}

	var svd mat.SVD
	if ok := svd.Factorize(centered, mat.SVDThin); !ok {
		return nil, errors.New("failed to factorize rating matrix")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	values := svd.Values(nil)
	sigma := mat.NewDiagDense(k, values[:k])
	var reconstructed mat.Dense
	reconstructed.Product(u.Slice(0, rows, 0, k), sigma, v.Slice(0, cols, 0, k).T())
	return &Model{
		matrix:        matrix,
		means:         means,
		reconstructed: &reconstructed,
		k:             k,
	}, nil
}

// K returns the number of latent factors.
func (m *Model) K() int {
	return m.k
}

func (m *Model) Matrix() *Matrix {
	return m.matrix
}

// Mean returns the mean of a user row.
func (m *Model) Mean(userId string) (float64, bool) {
	i, ok := m.matrix.UserIndex(userId)
	if !ok {
		return 0, false
	}
	return m.means[i], true
}

// Predict the rating of a title by a user. Predictions are not clamped into the rating range.
func (m *Model) Predict(userId, title string) (float64, bool) {
	i, ok := m.matrix.UserIndex(userId)
	if !ok {
		return 0, false
	}
	j, ok := m.matrix.TitleIndex(title)
	if !ok {
		return 0, false
	}
	return m.reconstructed.At(i, j) + m.means[i], true
}

// PredictRow predicts ratings of every title by a user, in column order.
func (m *Model) PredictRow(userId string) ([]float64, bool) {
	i, ok := m.matrix.UserIndex(userId)
	if !ok {
		return nil, false
	}
	row := mat.Row(nil, i, m.reconstructed)
	floats.AddConst(m.means[i], row)
	return row, true
}
