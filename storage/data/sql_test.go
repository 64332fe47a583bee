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
	"fmt"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type SQLiteTestSuite struct {
	suite.Suite
	Database
}

func (suite *SQLiteTestSuite) SetupSuite() {
	var err error
	suite.Database, err = Open(fmt.Sprintf("sqlite://%s/data.db", suite.T().TempDir()))
	suite.NoError(err)
	suite.NoError(suite.Database.Init())
}

func (suite *SQLiteTestSuite) TearDownSuite() {
	suite.NoError(suite.Database.Close())
}

func (suite *SQLiteTestSuite) SetupTest() {
	suite.NoError(suite.Database.Purge())
}

func (suite *SQLiteTestSuite) TestMovies() {
	ctx := context.Background()
	movies := []Movie{
		{Title: "Inception", Platform: "Netflix", Genre: "Action,Sci-Fi,Thriller", Year: 2010, Rating: 8.8, Director: "Christopher Nolan"},
		{Title: "Avatar", Platform: "Disney+ Hotstar", Genre: "Action,Adventure,Fantasy", Year: 2009, Rating: 7.8, Director: "James Cameron"},
	}
	suite.NoError(suite.BatchInsertMovies(ctx, movies))
	suite.NoError(suite.BatchInsertMovies(ctx, []Movie{
		{Title: "Dangal", Platform: "Hotstar", Genre: "Action,Biography,Drama", Year: 2016, Rating: 8.4, Director: "Nitesh Tiwari"},
		{Title: "Avatar", Platform: "Disney+ Hotstar", Genre: "Action,Adventure,Fantasy", Year: 2009, Rating: 7.9, Director: "James Cameron"},
	}))
	// insertion order is kept and duplicated titles are replaced in place
	result, err := suite.GetMovies(ctx)
	suite.NoError(err)
	if suite.Len(result, 3) {
		suite.Equal("Inception", result[0].Title)
		suite.Equal("Avatar", result[1].Title)
		suite.Equal(7.9, result[1].Rating)
		suite.Equal("Dangal", result[2].Title)
	}
	// empty title is rejected
	err = suite.BatchInsertMovies(ctx, []Movie{{Title: " "}})
	suite.True(errors.Is(err, errors.NotValid))
}

func (suite *SQLiteTestSuite) TestRatings() {
	ctx := context.Background()
	ratings := []Rating{
		{UserId: "user_2", MovieTitle: "Inception", Rating: 9},
		{UserId: "user_1", MovieTitle: "Avatar", Rating: 6.5},
		{UserId: "user_1", MovieTitle: "Inception", Rating: 7},
	}
	suite.NoError(suite.BatchInsertRatings(ctx, ratings))
	result, err := suite.GetRatings(ctx)
	suite.NoError(err)
	suite.Equal(ratings, result)
	// out of range rating is rejected
	err = suite.BatchInsertRatings(ctx, []Rating{{UserId: "user_1", MovieTitle: "Avatar", Rating: 11}})
	suite.True(errors.Is(err, errors.NotValid))
}

func TestSQLite(t *testing.T) {
	suite.Run(t, new(SQLiteTestSuite))
}

func TestOpenNotSupported(t *testing.T) {
	_, err := Open("redis://127.0.0.1:6379/0")
	assert.True(t, errors.Is(err, errors.NotSupported))
}

func TestGenres(t *testing.T) {
	movie := Movie{Genre: "Action, Sci-Fi,,Thriller"}
	assert.Equal(t, []string{"Action", "Sci-Fi", "Thriller"}, movie.Genres())
	assert.Empty(t, Movie{}.Genres())
}
