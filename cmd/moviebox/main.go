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
	"fmt"

	"github.com/gorse-io/moviebox/base/log"
	"github.com/gorse-io/moviebox/cmd/version"
	"github.com/gorse-io/moviebox/config"
	"github.com/gorse-io/moviebox/dataset"
	"github.com/gorse-io/moviebox/logics"
	"github.com/juju/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCommand = &cobra.Command{
	Use:           "moviebox",
	Short:         "Movie recommendations across streaming platforms.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// setup logger
		debug, _ := cmd.Flags().GetBool("debug")
		log.SetLogger(cmd.Flags(), debug)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// show version
		if showVersion, _ := cmd.Flags().GetBool("version"); showVersion {
			fmt.Fprint(cmd.OutOrStdout(), version.BuildInfo())
			return nil
		}
		return cmd.Help()
	},
}

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Show the version of moviebox",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), version.BuildInfo())
	},
}

func init() {
	log.AddFlags(rootCommand.PersistentFlags())
	rootCommand.PersistentFlags().Bool("debug", false, "use debug log mode")
	rootCommand.PersistentFlags().StringP("config", "c", "", "configuration file path")
	rootCommand.PersistentFlags().String("data-store", "", "data store overriding the configuration (builtin://, csv://<dir>, sqlite://<path>)")
	rootCommand.Flags().BoolP("version", "v", false, "moviebox version")
	rootCommand.AddCommand(versionCommand)
}

// loadConfig loads the configuration file given by --config and applies --data-store.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	conf, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, errors.Annotate(err, "failed to load config")
	}
	if dataStore, _ := cmd.Flags().GetString("data-store"); dataStore != "" {
		conf.Database.DataStore = dataStore
	}
	return conf, nil
}

// loadEngine reads the catalog and the rating log from the configured data store and
// builds an engine over them.
func loadEngine(ctx context.Context, conf *config.Config) (*logics.Engine, error) {
	source, err := dataset.Open(conf.Database.DataStore, conf.Generator.Options())
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer source.Close()
	movies, err := source.LoadMovies(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}
	ratings, err := source.LoadRatings(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Info("load dataset",
		zap.String("data_store", log.RedactDataStore(conf.Database.DataStore)),
		zap.Int("n_movies", len(movies)),
		zap.Int("n_ratings", len(ratings)))
	return logics.NewEngine(movies, ratings, conf.Recommend)
}

// prepare loads the configuration and the engine for a query command.
func prepare(cmd *cobra.Command) (*logics.Engine, error) {
	conf, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return loadEngine(cmd.Context(), conf)
}

func main() {
	defer log.CloseLogger()
	if err := rootCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}
