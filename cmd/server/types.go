package main

import (
	"github.com/himanishpuri/SongScope/pkg/models"
	"github.com/himanishpuri/SongScope/pkg/songscope"
)

// MaxRequestBytes caps JSON request bodies.
const MaxRequestBytes = 64 << 10

// RecommendationRequest is the request body for POST /api/recommendations.
// The user is given either by dashboard index or by id. An empty song_id is
// accepted and answered with the "no song selected" message.
type RecommendationRequest struct {
	UserIndex *int   `json:"user_index,omitempty" validate:"omitempty,min=0"`
	UserID    string `json:"user_id,omitempty" validate:"required_without=UserIndex,max=256"`
	SongID    string `json:"song_id" validate:"max=256"`
}

// DashboardRequest is the request body for POST /api/dashboard. It carries
// the full widget state; every field is optional.
type DashboardRequest struct {
	UserIndex *int   `json:"user_index,omitempty" validate:"omitempty,min=0"`
	UserID    string `json:"user_id,omitempty" validate:"max=256"`
	SongID    string `json:"song_id,omitempty" validate:"max=256"`
	Generate  bool   `json:"generate,omitempty"`
}

func (r DashboardRequest) Interaction() songscope.Interaction {
	return songscope.Interaction{
		UserIndex: r.UserIndex,
		UserID:    r.UserID,
		SongID:    r.SongID,
		Generate:  r.Generate,
	}
}

// UserDTO is one entry of the user picker.
type UserDTO struct {
	Index  int    `json:"index"`
	UserID string `json:"user_id"`
}

// ListUsersResponse is the response for GET /api/users
type ListUsersResponse struct {
	Users []UserDTO `json:"users"`
	Count int       `json:"count"`
}

// RecommendationResponse is the response for POST /api/recommendations.
// Message is set for the informational outcomes.
type RecommendationResponse struct {
	Result  *models.RecommendationResult `json:"result,omitempty"`
	Message string                       `json:"message,omitempty"`
}

// HealthResponse is the response for GET /health
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
	songscope.Stats
}

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
