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
	"os/signal"
	"syscall"
	"time"

	"github.com/gorse-io/moviebox/base/log"
	"github.com/gorse-io/moviebox/server"
	"github.com/juju/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCommand = &cobra.Command{
	Use:   "serve",
	Short: "Serve recommendations over REST APIs",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("host") {
			conf.Server.Host, _ = cmd.Flags().GetString("host")
		}
		if cmd.Flags().Changed("port") {
			conf.Server.Port, _ = cmd.Flags().GetInt("port")
		}
		engine, err := loadEngine(cmd.Context(), conf)
		if err != nil {
			return err
		}
		s := server.NewRestServer(engine, conf.Server)

		// SIGHUP reloads the data store, SIGINT and SIGTERM stop the server
		done := make(chan struct{})
		go func() {
			signals := make(chan os.Signal, 1)
			signal.Notify(signals, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
			for sig := range signals {
				if sig == syscall.SIGHUP {
					reloaded, err := loadEngine(context.Background(), conf)
					if err != nil {
						log.Logger().Error("failed to reload engine", zap.Error(err))
						continue
					}
					s.SetEngine(reloaded)
					continue
				}
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				if err := s.Shutdown(ctx); err != nil {
					log.Logger().Error("failed to shutdown server", zap.Error(err))
				}
				cancel()
				close(done)
				return
			}
		}()
		if err = s.StartHttpServer(); err != nil {
			return errors.Trace(err)
		}
		<-done
		log.Logger().Info("stop moviebox server successfully")
		return nil
	},
}

func init() {
	serveCommand.Flags().String("host", "", "host of RESTful APIs")
	serveCommand.Flags().Int("port", 0, "port of RESTful APIs")
	rootCommand.AddCommand(serveCommand)
}
