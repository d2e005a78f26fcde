package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Dosada05/tournament-engine/services"
)

type AuthHandler struct {
	responder
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		responder:   responder{logger: logger},
		authService: authService,
	}
}

type loginInput struct {
	Password string `json:"password"`
}

// Login exchanges the organizer password for a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input loginInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	if input.Password == "" {
		h.badRequestResponse(w, r, errors.New("password is required"))
		return
	}

	token, expiresAt, err := h.authService.Login(r.Context(), input.Password)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"token":      token,
		"token_type": "Bearer",
		"expires_at": expiresAt,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
