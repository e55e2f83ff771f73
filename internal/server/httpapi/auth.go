package httpapi

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/bookshelf/internal/common"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account and signs the new user in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err, "")
		return
	}

	user, err := h.accounts.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err, "Error registering user")
		return
	}

	token, err := h.accounts.IssueToken(user.ID)
	if err != nil {
		h.fail(w, r, err, "Error registering user")
		return
	}

	h.setSession(w, token)
	h.logger.Info(r.Context(), "user registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, userResponse{Success: true, Message: "User registered successfully", User: user})
}

// Login checks credentials and sets the session cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err, "")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		h.fail(w, r, common.NewValidationError("Email and password are required"), "")
		return
	}

	user, err := h.accounts.VerifyCredentials(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err, "Error logging in")
		return
	}

	token, err := h.accounts.IssueToken(user.ID)
	if err != nil {
		h.fail(w, r, err, "Error logging in")
		return
	}

	h.setSession(w, token)
	writeJSON(w, http.StatusOK, userResponse{Success: true, Message: "Login successful", User: user})
}

// Logout clears the session cookie. The token itself stays valid until it
// expires.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSession(w)
	writeMessage(w, http.StatusOK, true, "Logged out successfully")
}

// Me returns the signed-in user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, userResponse{Success: true, User: user})
}
