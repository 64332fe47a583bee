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
	"context"
	"os"
	"strings"

	"github.com/gorse-io/moviebox/base/log"
	"github.com/gorse-io/moviebox/dataset"
	"github.com/gorse-io/moviebox/storage/data"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	importBatchSize = 1000
	csvPrefix       = "csv://"
	sqlitePrefix    = "sqlite://"
)

var importCommand = &cobra.Command{
	Use:   "import <target>",
	Short: "Copy the catalog and the rating log into csv://<dir> or sqlite://<path>",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		source, err := dataset.Open(conf.Database.DataStore, conf.Generator.Options())
		if err != nil {
			return errors.Trace(err)
		}
		defer source.Close()
		movies, err := source.LoadMovies(ctx)
		if err != nil {
			return errors.Trace(err)
		}
		ratings, err := source.LoadRatings(ctx)
		if err != nil {
			return errors.Trace(err)
		}
		purge, _ := cmd.Flags().GetBool("purge")
		if err = importDataset(ctx, args[0], movies, ratings, purge); err != nil {
			return err
		}
		log.Logger().Info("import dataset",
			zap.String("from", log.RedactDataStore(conf.Database.DataStore)),
			zap.String("to", log.RedactDataStore(args[0])),
			zap.Int("n_movies", len(movies)),
			zap.Int("n_ratings", len(ratings)))
		return nil
	},
}

func init() {
	importCommand.Flags().Bool("purge", false, "remove existing records in the target database")
	rootCommand.AddCommand(importCommand)
}

func importDataset(ctx context.Context, target string, movies []data.Movie, ratings []data.Rating, purge bool) error {
	switch {
	case strings.HasPrefix(target, csvPrefix):
		dir := target[len(csvPrefix):]
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Trace(err)
		}
		c := &dataset.CSV{Dir: dir}
		if err := c.SaveMovies(movies); err != nil {
			return errors.Trace(err)
		}
		return errors.Trace(c.SaveRatings(ratings))
	case strings.HasPrefix(target, sqlitePrefix):
		database, err := data.Open(target)
		if err != nil {
			return errors.Trace(err)
		}
		defer database.Close()
		if err = database.Init(); err != nil {
			return errors.Trace(err)
		}
		if purge {
			if err = database.Purge(); err != nil {
				return errors.Trace(err)
			}
		}
		bar := progressbar.Default(int64(len(movies)+len(ratings)), "Importing")
		for _, chunk := range lo.Chunk(movies, importBatchSize) {
			if err = database.BatchInsertMovies(ctx, chunk); err != nil {
				return errors.Trace(err)
			}
			_ = bar.Add(len(chunk))
		}
		for _, chunk := range lo.Chunk(ratings, importBatchSize) {
			if err = database.BatchInsertRatings(ctx, chunk); err != nil {
				return errors.Trace(err)
			}
			_ = bar.Add(len(chunk))
		}
		return errors.Trace(bar.Finish())
	}
	return errors.NotSupportedf("import target %s", target)
}
