package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/authbase/authbase/internal/auth"
	"github.com/authbase/authbase/internal/handler/dto"
	"github.com/authbase/authbase/internal/middleware"
	"github.com/authbase/authbase/internal/service"
)

// userListLimit caps the user listing at the newest entries.
const userListLimit = 50

// ProtectedHandler serves the token-gated endpoints.
type ProtectedHandler struct {
	svc    *service.AuthService
	logger *slog.Logger
}

// NewProtectedHandler creates a ProtectedHandler.
func NewProtectedHandler(svc *service.AuthService, logger *slog.Logger) *ProtectedHandler {
	return &ProtectedHandler{
		svc:    svc,
		logger: logger,
	}
}

// Profile handles GET /api/protected/profile.
// The access guard has already verified the token and put the claims
// into the request context.
func (h *ProtectedHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	user, err := h.svc.Profile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, dto.Envelope{
				Success: false,
				Message: "User not found",
			})
			return
		}
		h.logger.Error("profile lookup failed",
			slog.String("error", err.Error()),
			slog.String("user_id", userID),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		writeJSON(w, http.StatusInternalServerError, dto.Envelope{
			Success: false,
			Message: "Server error while fetching profile",
		})
		return
	}

	writeJSON(w, http.StatusOK, dto.ProfileResponse{
		Success: true,
		User:    dto.ToUserResponse(user),
	})
}

// Users handles GET /api/protected/users. It returns the newest users
// first; when the store is empty it falls back to static demo data so
// a fresh deployment still renders something.
func (h *ProtectedHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context(), userListLimit)
	if err != nil {
		h.logger.Error("user listing failed",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		writeJSON(w, http.StatusInternalServerError, dto.Envelope{
			Success: false,
			Message: "Server error while fetching users",
		})
		return
	}

	if len(users) == 0 {
		writeJSON(w, http.StatusOK, dto.UsersResponse{
			Success: true,
			Message: "Static demo data (no users in database yet)",
			Users:   demoUsers(),
		})
		return
	}

	writeJSON(w, http.StatusOK, dto.UsersResponse{
		Success: true,
		Message: "Users retrieved successfully",
		Users:   dto.ToUserResponses(users),
	})
}

// demoUsers returns placeholder listing data for an empty store.
func demoUsers() []dto.UserResponse {
	now := time.Now().UTC()
	return []dto.UserResponse{
		{ID: "1", Name: "John Doe", Email: "john@example.com", DOB: "1990-01-15", CreatedAt: now},
		{ID: "2", Name: "Jane Smith", Email: "jane@example.com", DOB: "1992-05-22", CreatedAt: now},
		{ID: "3", Name: "Bob Johnson", Email: "bob@example.com", DOB: "1988-11-30", CreatedAt: now},
	}
}
