package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/himanishpuri/SongScope/internal/metrics"
	"github.com/himanishpuri/SongScope/pkg/logger"
	"github.com/himanishpuri/SongScope/pkg/models"
	"github.com/himanishpuri/SongScope/pkg/songscope"
	"github.com/himanishpuri/SongScope/pkg/songscope/recommend"
)

// Server encapsulates the HTTP server and its dependencies
type Server struct {
	service  songscope.Service
	config   *ServerConfig
	log      *logger.Logger
	validate *validator.Validate
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// NewServer creates a new server instance
func NewServer(service songscope.Service, config *ServerConfig) *Server {
	return &Server{
		service:  service,
		config:   config,
		log:      logger.GetLogger().With("http"),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// respondJSON writes a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Errorf("Failed to encode JSON response: %v", err)
	}
}

// respondError writes an error response
func (s *Server) respondError(w http.ResponseWriter, statusCode int, message string) {
	s.respondJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	})
}

// respondServiceError maps service errors to status codes. Bad references
// are 404s; anything else came from the model and is a 502.
func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, songscope.ErrUserIndexRange),
		errors.Is(err, songscope.ErrUnknownUser),
		errors.Is(err, songscope.ErrSongNotPlayed):
		s.respondError(w, http.StatusNotFound, err.Error())
	default:
		s.log.Errorf("Request failed: %v", err)
		s.respondError(w, http.StatusBadGateway, "Recommendation model request failed")
	}
}

// decodeAndValidate reads a JSON body into req and runs its validate tags.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status: "healthy",
		Time:   time.Now().Format(time.RFC3339),
		Stats:  s.service.Stats(),
	})
}

// handleListUsers handles GET /api/users
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users := s.service.Users()
	dtos := make([]UserDTO, len(users))
	for i, id := range users {
		dtos[i] = UserDTO{Index: i, UserID: id}
	}
	s.respondJSON(w, http.StatusOK, ListUsersResponse{
		Users: dtos,
		Count: len(dtos),
	})
}

// userFromPath resolves the {index} URL parameter to a user id.
func (s *Server) userFromPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "user index must be an integer")
		return "", false
	}
	userID, err := s.service.UserByIndex(index)
	if err != nil {
		s.respondServiceError(w, err)
		return "", false
	}
	return userID, true
}

// handleGetUser handles GET /api/users/{index}
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userFromPath(w, r)
	if !ok {
		return
	}
	sel, err := s.service.SelectUser(userID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, sel)
}

// handleGetSong handles GET /api/users/{index}/songs/{songID}
func (s *Server) handleGetSong(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userFromPath(w, r)
	if !ok {
		return
	}
	detail, err := s.service.SongDetail(userID, chi.URLParam(r, "songID"))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, detail)
}

// handleRecommend handles POST /api/recommendations
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendationRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID := req.UserID
	if req.UserIndex != nil {
		id, err := s.service.UserByIndex(*req.UserIndex)
		if err != nil {
			s.respondServiceError(w, err)
			return
		}
		userID = id
	}

	start := time.Now()
	res, err := s.service.Recommend(r.Context(), userID, req.SongID)
	noSong := errors.Is(err, recommend.ErrNoSongSelected)
	metrics.RecordResult(res, noSong, err, time.Since(start))

	switch {
	case noSong:
		s.respondJSON(w, http.StatusOK, RecommendationResponse{Message: songscope.MsgNoSongSelected})
		return
	case err != nil:
		s.respondServiceError(w, err)
		return
	}

	resp := RecommendationResponse{Result: &res}
	if res.Outcome == models.OutcomeEmpty {
		resp.Message = songscope.MsgNoRecommendations
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// handleDashboard handles POST /api/dashboard
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	var req DashboardRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := s.runDashboard(r, req.Interaction())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, view)
}

// runDashboard renders one dashboard state and records the recommendation
// outcome when the button was pressed.
func (s *Server) runDashboard(r *http.Request, in songscope.Interaction) (songscope.View, error) {
	start := time.Now()
	view, err := s.service.Dashboard(r.Context(), in)
	if !in.Generate || view.Stage == songscope.StageNoUserSelected {
		return view, err
	}

	var res models.RecommendationResult
	if view.Recommendations != nil {
		res = *view.Recommendations
	}
	noSong := err == nil && view.Recommendations == nil
	if err == nil || view.Stage == songscope.StageRecommendationRequested {
		metrics.RecordResult(res, noSong, err, time.Since(start))
	}
	return view, err
}
