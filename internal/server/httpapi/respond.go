package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/bookshelf/internal/common"
)

const maxBodyBytes = 1 << 20

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type userResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	User    any    `json:"user"`
}

type listResponse struct {
	Success bool `json:"success"`
	Books   any  `json:"books"`
	Count   int  `json:"count"`
}

type bookResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Book    any    `json:"book"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, success bool, msg string) {
	writeJSON(w, status, messageResponse{Success: success, Message: msg})
}

// decode reads a JSON body of at most maxBodyBytes into v.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return common.NewValidationError("Invalid request body")
	}
	return nil
}

// statusFor maps a service error onto an HTTP status and the message shown
// to the client. Unknown errors map to 500 with an empty message; callers
// substitute their own.
func statusFor(err error) (int, string) {
	var verr *common.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Message
	case errors.Is(err, common.ErrInvalidStatus):
		return http.StatusBadRequest, "Invalid status"
	case errors.Is(err, common.ErrInvalidRating):
		return http.StatusBadRequest, "Rating must be between 1 and 5"
	case errors.Is(err, common.ErrDuplicateEmail):
		return http.StatusBadRequest, "User already exists with this email"
	case errors.Is(err, common.ErrAlreadyInLibrary):
		return http.StatusBadRequest, "Book already in your library"
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, common.ErrMissingToken):
		return http.StatusUnauthorized, "Access denied. Please log in."
	case errors.Is(err, common.ErrUnknownUser):
		return http.StatusUnauthorized, "User not found."
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, "Invalid token."
	case errors.Is(err, common.ErrBookNotFound):
		return http.StatusNotFound, "Book not found"
	case errors.Is(err, common.ErrEntryNotFound):
		return http.StatusNotFound, "Book not found in your library"
	}
	return http.StatusInternalServerError, ""
}

// fail answers with the envelope for err. Internal errors are logged and
// replaced by fallback so storage details never reach the client.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(r.Context(), fallback, "error", err, "request_id", RequestID(r.Context()))
		msg = fallback
	}
	writeMessage(w, status, false, msg)
}
