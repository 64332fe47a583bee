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
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/google/uuid"
	"github.com/gorse-io/moviebox/base/log"
	"github.com/gorse-io/moviebox/logics"
	"github.com/gorse-io/moviebox/storage/data"
	"github.com/jellydator/ttlcache/v3"
	"github.com/juju/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const RequestIdHeader = "X-Request-ID"

const noRecommendations = "No recommendations found"

// MoviesResponse is the response of search and hybrid recommendation APIs.
type MoviesResponse struct {
	Movies  []data.Movie `json:"movies"`
	Count   int          `json:"count"`
	Message string       `json:"message,omitempty"`
}

func newMoviesResponse(movies []data.Movie) MoviesResponse {
	if movies == nil {
		movies = make([]data.Movie, 0)
	}
	return MoviesResponse{Movies: movies, Count: len(movies)}
}

// RecommendationsResponse is the response of content-based and collaborative APIs.
type RecommendationsResponse struct {
	Movies  []logics.Recommendation `json:"movies"`
	Count   int                     `json:"count"`
	Message string                  `json:"message,omitempty"`
}

func newRecommendationsResponse(recommendations []logics.Recommendation) RecommendationsResponse {
	if recommendations == nil {
		recommendations = make([]logics.Recommendation, 0)
	}
	resp := RecommendationsResponse{Movies: recommendations, Count: len(recommendations)}
	if len(recommendations) == 0 {
		resp.Message = noRecommendations
	}
	return resp
}

type Health struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	MoviesLoaded  int    `json:"movies_loaded"`
	UsersLoaded   int    `json:"users_loaded"`
	Collaborative bool   `json:"collaborative"`
}

type ContentBasedRequest struct {
	MovieTitle       string `json:"movie_title"`
	NRecommendations *int   `json:"n_recommendations,omitempty"`
}

type CollaborativeRequest struct {
	UserId           string `json:"user_id"`
	NRecommendations *int   `json:"n_recommendations,omitempty"`
}

type HybridRequest struct {
	logics.HybridQuery
	NRecommendations *int `json:"n_recommendations,omitempty"`
}

type Platforms struct {
	Platforms []string `json:"platforms"`
}

type Genres struct {
	Genres []string `json:"genres"`
}

type Titles struct {
	Titles []string `json:"titles"`
}

type Users struct {
	Users []string `json:"users"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// RequestIdFilter tags the response with the request id of the request, or a new one.
func RequestIdFilter(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	requestId := req.HeaderParameter(RequestIdHeader)
	if requestId == "" {
		requestId = uuid.NewString()
	}
	resp.Header().Set(RequestIdHeader, requestId)
	chain.ProcessFilter(req, resp)
}

func LogFilter(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	start := time.Now()
	chain.ProcessFilter(req, resp)
	if req.Request.URL.Path != "/api/health" {
		log.ResponseLogger(resp).Info(fmt.Sprintf("%s %s", req.Request.Method, req.Request.URL),
			zap.Int("status_code", resp.StatusCode()),
			zap.Duration("duration", time.Since(start)))
	}
}

// CreateWebService creates web service.
func (s *RestServer) CreateWebService() {
	ws := s.WebService
	ws.Consumes(restful.MIME_JSON).Produces(restful.MIME_JSON)
	ws.Path("/api/")
	ws.Filter(RequestIdFilter)
	ws.Filter(LogFilter)

	ws.Route(ws.GET("/health").To(s.health).
		Doc("Health check.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
		Writes(Health{}))

	/* Catalog */

	// Get movies
	ws.Route(ws.GET("/movies").To(s.getMovies).
		Doc("Get movies, optionally filtered.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"movies"}).
		Param(ws.QueryParameter("query", "substring of titles").DataType("string")).
		Param(ws.QueryParameter("platform", "substring of platforms").DataType("string")).
		Param(ws.QueryParameter("genre", "substring of genres").DataType("string")).
		Param(ws.QueryParameter("year", "release year").DataType("integer")).
		Writes(MoviesResponse{}))
	// Search movies
	ws.Route(ws.GET("/movies/search").To(s.searchMovies).
		Doc("Search movies.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"movies"}).
		Param(ws.QueryParameter("q", "substring of titles").DataType("string")).
		Param(ws.QueryParameter("platform", "substring of platforms").DataType("string")).
		Param(ws.QueryParameter("genre", "substring of genres").DataType("string")).
		Param(ws.QueryParameter("year", "release year").DataType("integer")).
		Writes(MoviesResponse{}))
	ws.Route(ws.GET("/platforms").To(s.getPlatforms).
		Doc("Get platforms.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"movies"}).
		Writes(Platforms{}))
	ws.Route(ws.GET("/genres").To(s.getGenres).
		Doc("Get genres.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"movies"}).
		Writes(Genres{}))
	ws.Route(ws.GET("/movie-titles").To(s.getTitles).
		Doc("Get movie titles.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"movies"}).
		Writes(Titles{}))
	ws.Route(ws.GET("/users").To(s.getUsers).
		Doc("Get users in the rating log.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"users"}).
		Writes(Users{}))

	/* Recommendation */

	ws.Route(ws.POST("/recommendations/content-based").To(s.recommendContentBased).
		Doc("Recommend movies similar to a movie.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"recommendation"}).
		Reads(ContentBasedRequest{}).
		Writes(RecommendationsResponse{}))
	ws.Route(ws.POST("/recommendations/collaborative").To(s.recommendCollaborative).
		Doc("Recommend movies to a user by collaborative filtering.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"recommendation"}).
		Reads(CollaborativeRequest{}).
		Writes(RecommendationsResponse{}))
	ws.Route(ws.POST("/recommendations/hybrid").To(s.recommendHybrid).
		Doc("Recommend movies by blending content, collaborative and ad hoc ratings.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"recommendation"}).
		Reads(HybridRequest{}).
		Writes(MoviesResponse{}))
}

// ParseInt parses an integer query parameter. A missing parameter gives the fallback.
func ParseInt(request *restful.Request, name string, fallback int) (value int, err error) {
	valueString := strings.TrimSpace(request.QueryParameter(name))
	if valueString == "" {
		return fallback, nil
	}
	value, err = strconv.Atoi(valueString)
	if err != nil {
		return 0, errors.NotValidf("%s %q", name, valueString)
	}
	return value, nil
}

func (s *RestServer) health(_ *restful.Request, response *restful.Response) {
	engine := s.Engine()
	Ok(response, Health{
		Status:        "ok",
		Message:       "Movie Recommendation API is running",
		MoviesLoaded:  len(engine.Movies()),
		UsersLoaded:   len(engine.Users()),
		Collaborative: engine.CollaborativeAvailable(),
	})
}

func parseSearchQuery(request *restful.Request, queryName string) (logics.SearchQuery, error) {
	year, err := ParseInt(request, "year", 0)
	if err != nil {
		return logics.SearchQuery{}, err
	}
	return logics.SearchQuery{
		Query:    strings.TrimSpace(request.QueryParameter(queryName)),
		Platform: strings.TrimSpace(request.QueryParameter("platform")),
		Genre:    strings.TrimSpace(request.QueryParameter("genre")),
		Year:     year,
	}, nil
}

func (s *RestServer) search(queryName string, request *restful.Request, response *restful.Response) {
	q, err := parseSearchQuery(request, queryName)
	if err != nil {
		BadRequest(response, err)
		return
	}
	start := time.Now()
	movies := s.Engine().Search(q)
	SearchSeconds.Observe(time.Since(start).Seconds())
	Ok(response, newMoviesResponse(movies))
}

func (s *RestServer) getMovies(request *restful.Request, response *restful.Response) {
	s.search("query", request, response)
}

func (s *RestServer) searchMovies(request *restful.Request, response *restful.Response) {
	s.search("q", request, response)
}

func (s *RestServer) getPlatforms(_ *restful.Request, response *restful.Response) {
	Ok(response, Platforms{Platforms: s.Engine().Platforms()})
}

func (s *RestServer) getGenres(_ *restful.Request, response *restful.Response) {
	Ok(response, Genres{Genres: s.Engine().Genres()})
}

func (s *RestServer) getTitles(_ *restful.Request, response *restful.Response) {
	Ok(response, Titles{Titles: s.Engine().Titles()})
}

func (s *RestServer) getUsers(_ *restful.Request, response *restful.Response) {
	users := s.Engine().Users()
	if users == nil {
		users = make([]string, 0)
	}
	Ok(response, Users{Users: users})
}

func (s *RestServer) n(requested *int) int {
	if requested == nil {
		return s.Engine().DefaultN()
	}
	return *requested
}

// cached serves a response from the response cache, or computes and caches it. Keys
// carry the engine generation so responses computed by a replaced engine are never served.
func (s *RestServer) cached(route string, body any, timer prometheus.Observer, compute func(*logics.Engine) any) (any, error) {
	current := s.serving.Load()
	key, err := cacheKey(current.generation, route, body)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if item := s.cache.Get(key); item != nil {
		ResponseCacheHits.Inc()
		return item.Value(), nil
	}
	ResponseCacheMisses.Inc()
	start := time.Now()
	value := compute(current.engine)
	timer.Observe(time.Since(start).Seconds())
	s.cache.Set(key, value, ttlcache.DefaultTTL)
	return value, nil
}

func cacheKey(generation uint64, route string, body any) (string, error) {
	keyBytes, err := json.Marshal(body)
	if err != nil {
		return "", errors.Trace(err)
	}
	return fmt.Sprintf("%d:%s:%s", generation, route, keyBytes), nil
}

func (s *RestServer) recommendContentBased(request *restful.Request, response *restful.Response) {
	var req ContentBasedRequest
	if err := request.ReadEntity(&req); err != nil {
		BadRequest(response, err)
		return
	}
	if req.MovieTitle == "" {
		BadRequest(response, errors.NotValidf("movie_title is required"))
		return
	}
	n := s.n(req.NRecommendations)
	resp, err := s.cached("content-based", ContentBasedRequest{MovieTitle: req.MovieTitle, NRecommendations: &n},
		ContentBasedRecommendSeconds, func(engine *logics.Engine) any {
			return newRecommendationsResponse(engine.ContentBased(req.MovieTitle, n))
		})
	if err != nil {
		InternalServerError(response, err)
		return
	}
	Ok(response, resp)
}

func (s *RestServer) recommendCollaborative(request *restful.Request, response *restful.Response) {
	var req CollaborativeRequest
	if err := request.ReadEntity(&req); err != nil {
		BadRequest(response, err)
		return
	}
	if req.UserId == "" {
		BadRequest(response, errors.NotValidf("user_id is required"))
		return
	}
	n := s.n(req.NRecommendations)
	resp, err := s.cached("collaborative", CollaborativeRequest{UserId: req.UserId, NRecommendations: &n},
		CollaborativeRecommendSeconds, func(engine *logics.Engine) any {
			return newRecommendationsResponse(engine.Collaborative(req.UserId, n))
		})
	if err != nil {
		InternalServerError(response, err)
		return
	}
	Ok(response, resp)
}

func (s *RestServer) recommendHybrid(request *restful.Request, response *restful.Response) {
	var req HybridRequest
	if err := request.ReadEntity(&req); err != nil {
		BadRequest(response, err)
		return
	}
	for title, rating := range req.UserRatings {
		if rating < data.MinRating || rating > data.MaxRating {
			BadRequest(response, errors.NotValidf("rating %v of %q out of [%v, %v]",
				rating, title, data.MinRating, data.MaxRating))
			return
		}
	}
	n := s.n(req.NRecommendations)
	resp, err := s.cached("hybrid", HybridRequest{HybridQuery: req.HybridQuery, NRecommendations: &n},
		HybridRecommendSeconds, func(engine *logics.Engine) any {
			resp := newMoviesResponse(engine.Hybrid(req.HybridQuery, n))
			if resp.Count == 0 {
				resp.Message = noRecommendations
			}
			return resp
		})
	if err != nil {
		InternalServerError(response, err)
		return
	}
	Ok(response, resp)
}

func writeError(response *restful.Response, status int, err error) {
	response.Header().Set("Access-Control-Allow-Origin", "*")
	if err := response.WriteHeaderAndJson(status, ErrorResponse{Error: err.Error()}, restful.MIME_JSON); err != nil {
		log.ResponseLogger(response).Error("failed to write error", zap.Error(err))
	}
}

// BadRequest returns a bad request error.
func BadRequest(response *restful.Response, err error) {
	log.ResponseLogger(response).Error("bad request", zap.Error(err))
	writeError(response, http.StatusBadRequest, err)
}

// InternalServerError returns a internal server error.
func InternalServerError(response *restful.Response, err error) {
	log.ResponseLogger(response).Error("internal server error", zap.Error(err))
	writeError(response, http.StatusInternalServerError, err)
}

// Ok sends the content as JSON to the client.
func Ok(response *restful.Response, content interface{}) {
	response.Header().Set("Access-Control-Allow-Origin", "*")
	if err := response.WriteAsJson(content); err != nil {
		log.ResponseLogger(response).Error("failed to write json", zap.Error(err))
	}
}
