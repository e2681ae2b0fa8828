package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasklink-api/internal/api/shared"
	"github.com/phrazzld/tasklink-api/internal/platform/logger"
	"github.com/phrazzld/tasklink-api/internal/service"
	"github.com/phrazzld/tasklink-api/internal/service/auth"
)

// AuthHandler handles account registration and login.
type AuthHandler struct {
	users      service.UserService
	jwtService auth.JWTService
	logger     *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(users service.UserService, jwtService auth.JWTService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		users:      users,
		jwtService: jwtService,
		logger:     logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	h.respondWithToken(w, r, http.StatusCreated, user.ID.String(), func() (AuthResponse, error) {
		token, err := h.jwtService.GenerateToken(r.Context(), user.ID)
		return AuthResponse{UserID: user.ID, Token: token}, err
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	h.respondWithToken(w, r, http.StatusOK, user.ID.String(), func() (AuthResponse, error) {
		token, err := h.jwtService.GenerateToken(r.Context(), user.ID)
		return AuthResponse{UserID: user.ID, Token: token}, err
	})
}

func (h *AuthHandler) respondWithToken(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userID string,
	issue func() (AuthResponse, error),
) {
	resp, err := issue()
	if err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Error("failed to generate token",
			slog.String("user_id", userID))
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, shared.CodeInternalError,
			"Failed to generate authentication token", err)
		return
	}
	shared.RespondWithJSON(w, r, status, resp)
}
