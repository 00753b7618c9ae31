package httpapi

import (
	"fmt"
	"mime"
	"net/http"

	"github.com/dmitrijs2005/gremath/internal/common"
)

// handleLogin accepts an OAuth2 password form (username, password) or the
// same fields as JSON. The username is the account email.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	email, password, err := readCredentials(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	tok, err := h.Users.Login(r.Context(), email, password)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: tok.AccessToken, TokenType: tok.TokenType})
}

func readCredentials(r *http.Request) (string, string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "application/json" {
		var req credentialsRequest
		if err := decodeJSON(r, &req); err != nil {
			return "", "", err
		}
		email := req.Username
		if email == "" {
			email = req.Email
		}
		if email == "" || req.Password == "" {
			return "", "", fmt.Errorf("%w: username and password are required", common.ErrValidation)
		}
		return email, req.Password, nil
	}

	if err := r.ParseForm(); err != nil {
		return "", "", fmt.Errorf("%w: invalid form payload", common.ErrValidation)
	}
	email, password := r.PostForm.Get("username"), r.PostForm.Get("password")
	if email == "" || password == "" {
		return "", "", fmt.Errorf("%w: username and password are required", common.ErrValidation)
	}
	return email, password, nil
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	u, err := h.Users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newUserResponse(u))
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newUserResponse(principal(r)))
}
