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

package config

import (
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/gorse-io/moviebox/dataset"
	"github.com/juju/errors"
	"github.com/spf13/viper"
)

// Config is the configuration for moviebox.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Recommend RecommendConfig `mapstructure:"recommend"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Server    ServerConfig    `mapstructure:"server"`
}

// DatabaseConfig is the configuration for the data source.
type DatabaseConfig struct {
	DataStore string `mapstructure:"data_store" validate:"required"`
}

// RecommendConfig is the configuration of the recommendation engine.
type RecommendConfig struct {
	DefaultN      int                 `mapstructure:"default_n" validate:"gt=0"`
	Content       ContentConfig       `mapstructure:"content"`
	Collaborative CollaborativeConfig `mapstructure:"collaborative"`
	Hybrid        HybridConfig        `mapstructure:"hybrid"`
}

type ContentConfig struct {
	MaxFeatures int `mapstructure:"max_features" validate:"gt=0"`
}

type CollaborativeConfig struct {
	NFactors int `mapstructure:"n_factors" validate:"gt=0"`
}

type HybridConfig struct {
	RatingThreshold     float64 `mapstructure:"rating_threshold" validate:"gte=1,lte=10"`
	CandidateMultiplier int     `mapstructure:"candidate_multiplier" validate:"gte=1"`
}

// GeneratorConfig is the configuration of synthetic ratings for builtin://.
type GeneratorConfig struct {
	NumUsers   int   `mapstructure:"num_users" validate:"gte=0"`
	MinRatings int   `mapstructure:"min_ratings" validate:"gte=0"`
	MaxRatings int   `mapstructure:"max_ratings" validate:"gtefield=MinRatings"`
	Seed       int64 `mapstructure:"seed"`
}

func (c GeneratorConfig) Options() dataset.GeneratorOptions {
	opts := dataset.DefaultGeneratorOptions()
	opts.NumUsers = c.NumUsers
	opts.MinRatings = c.MinRatings
	opts.MaxRatings = c.MaxRatings
	opts.Seed = c.Seed
	return opts
}

// ServerConfig is the configuration of the REST server.
type ServerConfig struct {
	Host      string        `mapstructure:"host"`
	Port      int           `mapstructure:"port" validate:"gte=1,lte=65535"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl" validate:"gte=0"`
	CacheSize uint64        `mapstructure:"cache_size"`
}

func GetDefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DataStore: "builtin://",
		},
		Recommend: RecommendConfig{
			DefaultN: 10,
			Content: ContentConfig{
				MaxFeatures: 1000,
			},
			Collaborative: CollaborativeConfig{
				NFactors: 50,
			},
			Hybrid: HybridConfig{
				RatingThreshold:     7.0,
				CandidateMultiplier: 2,
			},
		},
		Generator: GeneratorConfig{
			NumUsers:   50,
			MinRatings: 5,
			MaxRatings: 15,
			Seed:       42,
		},
		Server: ServerConfig{
			Host:      "0.0.0.0",
			Port:      8088,
			CacheTTL:  time.Minute,
			CacheSize: 1024,
		},
	}
}

func setDefault(v *viper.Viper) {
	defaultConfig := GetDefaultConfig()
	// [database]
	v.SetDefault("database.data_store", defaultConfig.Database.DataStore)
	// [recommend]
	v.SetDefault("recommend.default_n", defaultConfig.Recommend.DefaultN)
	v.SetDefault("recommend.content.max_features", defaultConfig.Recommend.Content.MaxFeatures)
	v.SetDefault("recommend.collaborative.n_factors", defaultConfig.Recommend.Collaborative.NFactors)
	v.SetDefault("recommend.hybrid.rating_threshold", defaultConfig.Recommend.Hybrid.RatingThreshold)
	v.SetDefault("recommend.hybrid.candidate_multiplier", defaultConfig.Recommend.Hybrid.CandidateMultiplier)
	// [generator]
	v.SetDefault("generator.num_users", defaultConfig.Generator.NumUsers)
	v.SetDefault("generator.min_ratings", defaultConfig.Generator.MinRatings)
	v.SetDefault("generator.max_ratings", defaultConfig.Generator.MaxRatings)
	v.SetDefault("generator.seed", defaultConfig.Generator.Seed)
	// [server]
	v.SetDefault("server.host", defaultConfig.Server.Host)
	v.SetDefault("server.port", defaultConfig.Server.Port)
	v.SetDefault("server.cache_ttl", defaultConfig.Server.CacheTTL)
	v.SetDefault("server.cache_size", defaultConfig.Server.CacheSize)
}

type configBinding struct {
	key string
	env string
}

func bindEnv(v *viper.Viper) error {
	bindings := []configBinding{
		{"database.data_store", "MOVIEBOX_DATA_STORE"},
		{"recommend.default_n", "MOVIEBOX_DEFAULT_N"},
		{"recommend.collaborative.n_factors", "MOVIEBOX_N_FACTORS"},
		{"generator.seed", "MOVIEBOX_GENERATOR_SEED"},
		{"server.host", "MOVIEBOX_SERVER_HOST"},
		{"server.port", "MOVIEBOX_SERVER_PORT"},
		{"server.cache_ttl", "MOVIEBOX_SERVER_CACHE_TTL"},
	}
	for _, binding := range bindings {
		if err := v.BindEnv(binding.key, binding.env); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

// LoadConfig loads configuration from a TOML file. Environment variables override the file
// and defaults fill what neither sets. An empty path loads defaults and environment only.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefault(v)
	if err := bindEnv(v); err != nil {
		return nil, err
	}
	if path != "" {
		v.SetConfigType("toml")
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Trace(err)
		}
	}
	var conf Config
	if err := v.Unmarshal(&conf, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, errors.Trace(err)
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validate checks the ranges of every field.
func (config *Config) Validate() error {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	if err := validate.Struct(config); err != nil {
		return errors.NewNotValid(err, "invalid config")
	}
	return nil
}
