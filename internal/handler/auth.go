package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/authbase/authbase/internal/audit"
	"github.com/authbase/authbase/internal/handler/dto"
	"github.com/authbase/authbase/internal/middleware"
	"github.com/authbase/authbase/internal/service"
	"github.com/authbase/authbase/internal/validation"
)

// AuthHandler serves the registration and login endpoints.
type AuthHandler struct {
	svc       *service.AuthService
	validator *validation.Validator
	logger    *slog.Logger
	audit     audit.Sink
}

// NewAuthHandler creates an AuthHandler. A nil sink disables the audit
// trail.
func NewAuthHandler(svc *service.AuthService, validator *validation.Validator, logger *slog.Logger, sink audit.Sink) *AuthHandler {
	return &AuthHandler{
		svc:       svc,
		validator: validator,
		logger:    logger,
		audit:     sink,
	}
}

// recordEvent publishes an audit event for the request, if auditing is
// enabled.
func (h *AuthHandler) recordEvent(r *http.Request, kind, userID, email string) {
	if h.audit == nil {
		return
	}
	h.audit.PublishAsync(audit.Event{
		Kind:       kind,
		UserID:     userID,
		Email:      email,
		IPHash:     audit.HashIP(middleware.ClientIP(r)),
		RequestID:  middleware.GetRequestID(r.Context()),
		OccurredAt: time.Now().UnixMilli(),
	})
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req validation.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Envelope{
			Success: false,
			Message: "Invalid request body",
		})
		return
	}

	payload, err := h.validator.ValidateRegister(req)
	if err != nil {
		h.writeValidationError(w, err)
		return
	}

	result, err := h.svc.Register(r.Context(), payload)
	if err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			writeJSON(w, http.StatusConflict, dto.Envelope{
				Success: false,
				Message: "User with this email already exists",
			})
			return
		}
		h.logger.Error("registration failed",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		writeJSON(w, http.StatusInternalServerError, dto.Envelope{
			Success: false,
			Message: "Server error during registration",
		})
		return
	}

	h.logger.Info("user registered",
		slog.String("user_id", result.User.ID),
		slog.String("request_id", middleware.GetRequestID(r.Context())),
	)
	h.recordEvent(r, audit.KindRegistered, result.User.ID, result.User.Email)

	writeJSON(w, http.StatusCreated, dto.AuthResponse{
		Success: true,
		Message: "User registered successfully",
		Token:   result.Token,
		User:    dto.ToUserResponse(result.User),
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req validation.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Envelope{
			Success: false,
			Message: "Invalid request body",
		})
		return
	}

	payload, err := h.validator.ValidateLogin(req)
	if err != nil {
		h.writeValidationError(w, err)
		return
	}

	result, err := h.svc.Login(r.Context(), payload)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.recordEvent(r, audit.KindLoginFailure, "", payload.Email)
			writeJSON(w, http.StatusUnauthorized, dto.Envelope{
				Success: false,
				Message: "Invalid email or password",
			})
			return
		}
		h.logger.Error("login failed",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		writeJSON(w, http.StatusInternalServerError, dto.Envelope{
			Success: false,
			Message: "Server error during login",
		})
		return
	}

	h.logger.Info("user logged in",
		slog.String("user_id", result.User.ID),
		slog.String("request_id", middleware.GetRequestID(r.Context())),
	)
	h.recordEvent(r, audit.KindLoginSuccess, result.User.ID, result.User.Email)

	writeJSON(w, http.StatusOK, dto.AuthResponse{
		Success: true,
		Message: "Login successful",
		Token:   result.Token,
		User:    dto.ToUserResponse(result.User),
	})
}

// writeValidationError maps a validation failure to a 400 with
// field-level detail. A non-validation error at this point is a
// programming error and is reported as a generic 400.
func (h *AuthHandler) writeValidationError(w http.ResponseWriter, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, dto.ValidationErrorResponse{
			Success: false,
			Message: "Validation error",
			Errors:  verr.Fields,
		})
		return
	}
	writeJSON(w, http.StatusBadRequest, dto.Envelope{
		Success: false,
		Message: "Invalid request body",
	})
}
