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

package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/gorse-io/moviebox/base/log"
	"github.com/gorse-io/moviebox/config"
	"github.com/gorse-io/moviebox/logics"
	"github.com/jellydator/ttlcache/v3"
	"github.com/juju/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RestServer implements a REST-ful API server.
type RestServer struct {
	Config     config.ServerConfig
	WebService *restful.WebService

	serving     atomic.Pointer[serving]
	generations atomic.Uint64
	cache       *ttlcache.Cache[string, any]

	mutex      sync.Mutex
	httpServer *http.Server
	closed     bool
}

// serving is an engine with the generation it was installed at. Generations are never reused.
type serving struct {
	engine     *logics.Engine
	generation uint64
}

// NewRestServer creates a REST server serving an engine.
func NewRestServer(engine *logics.Engine, cfg config.ServerConfig) *RestServer {
	opts := []ttlcache.Option[string, any]{ttlcache.WithTTL[string, any](cfg.CacheTTL)}
	if cfg.CacheSize > 0 {
		opts = append(opts, ttlcache.WithCapacity[string, any](cfg.CacheSize))
	}
	s := &RestServer{
		Config:     cfg,
		WebService: new(restful.WebService),
		cache:      ttlcache.New[string, any](opts...),
	}
	s.serving.Store(&serving{engine: engine, generation: s.generations.Add(1)})
	return s
}

// Engine returns the engine serving requests.
func (s *RestServer) Engine() *logics.Engine {
	return s.serving.Load().engine
}

// SetEngine replaces the engine serving requests and drops cached responses.
func (s *RestServer) SetEngine(engine *logics.Engine) {
	s.serving.Store(&serving{engine: engine, generation: s.generations.Add(1)})
	s.cache.DeleteAll()
	log.Logger().Info("engine replaced", zap.Int("n_movies", len(engine.Movies())))
}

// Handler creates the HTTP handler with REST APIs, API docs and metrics.
func (s *RestServer) Handler() http.Handler {
	s.CreateWebService()
	container := restful.NewContainer()
	container.Add(s.WebService)
	specConfig := restfulspec.Config{
		WebServices: container.RegisteredWebServices(),
		APIPath:     "/apidocs.json",
	}
	container.Add(restfulspec.NewOpenAPIService(specConfig))
	container.Handle("/metrics", promhttp.Handler())
	return container
}

// StartHttpServer starts the REST-ful API server. It blocks until the server is shut down
// and returns immediately if Shutdown was called before.
func (s *RestServer) StartHttpServer() error {
	s.mutex.Lock()
	if s.closed {
		s.mutex.Unlock()
		return nil
	}
	go s.cache.Start()
	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port),
		Handler: s.Handler(),
	}
	httpServer := s.httpServer
	s.mutex.Unlock()

	log.Logger().Info("start http server",
		zap.String("url", fmt.Sprintf("http://%s:%d", s.Config.Host, s.Config.Port)))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Trace(err)
	}
	return nil
}

// Shutdown stops the HTTP server gracefully. It is safe to call concurrently with
// StartHttpServer and more than once.
func (s *RestServer) Shutdown(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.httpServer == nil {
		return nil
	}
	s.cache.Stop()
	return errors.Trace(s.httpServer.Shutdown(ctx))
}
