// Package dto defines request and response shapes for the HTTP API.
package dto

import (
	"time"

	"github.com/authbase/authbase/internal/model"
	"github.com/authbase/authbase/internal/validation"
)

// Envelope is the shared response wrapper. Every endpoint reports
// success and a human-readable message.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ValidationErrorResponse carries field-level validation violations.
type ValidationErrorResponse struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message"`
	Errors  []validation.FieldError `json:"errors"`
}

// UserResponse is the public projection of a user. The password hash
// never appears here.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	DOB       string    `json:"dob"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

// ProfileResponse is returned by the profile endpoint.
type ProfileResponse struct {
	Success bool         `json:"success"`
	User    UserResponse `json:"user"`
}

// UsersResponse is returned by the user listing endpoint.
type UsersResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Users   []UserResponse `json:"users"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadyResponse is returned by the readiness endpoint.
type ReadyResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Checks  map[string]string `json:"checks"`
}

// ToUserResponse converts a domain user to its public projection.
func ToUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		DOB:       u.DateOfBirth.Format("2006-01-02"),
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// ToUserResponses converts a slice of domain users.
func ToUserResponses(users []*model.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserResponse(u))
	}
	return out
}
