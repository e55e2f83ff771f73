package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/bookshelf/internal/common"
	"github.com/dmitrijs2005/bookshelf/internal/server/models"
	"github.com/gorilla/mux"
)

type statusRequest struct {
	Status string `json:"status"`
}

type ratingRequest struct {
	Rating *int `json:"rating"`
}

// ListMyBooks returns the user's library, most recently added first.
func (h *Handler) ListMyBooks(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	list, err := h.library.List(r.Context(), user.ID)
	if err != nil {
		h.fail(w, r, err, "Error fetching your books")
		return
	}
	if list == nil {
		list = []models.LibraryEntry{}
	}
	writeJSON(w, http.StatusOK, listResponse{Success: true, Books: list, Count: len(list)})
}

// AddToLibrary adds the catalog book {bookId} as "Want to Read".
func (h *Handler) AddToLibrary(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	entry, err := h.library.Add(r.Context(), user.ID, mux.Vars(r)["bookId"])
	if err != nil {
		h.fail(w, r, err, "Error adding book to library")
		return
	}
	writeJSON(w, http.StatusCreated, bookResponse{Success: true, Message: "Book added to your library", Book: entry})
}

// UpdateStatus changes the reading status of {bookId}.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var req statusRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err, "")
		return
	}

	entry, err := h.library.SetStatus(r.Context(), user.ID, mux.Vars(r)["bookId"], models.Status(req.Status))
	if err != nil {
		h.fail(w, r, err, "Error updating book status")
		return
	}
	writeJSON(w, http.StatusOK, bookResponse{Success: true, Message: "Book status updated", Book: entry})
}

// UpdateRating sets a 1..5 rating on {bookId}.
func (h *Handler) UpdateRating(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var req ratingRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err, "")
		return
	}
	if req.Rating == nil {
		h.fail(w, r, common.ErrInvalidRating, "")
		return
	}

	entry, err := h.library.SetRating(r.Context(), user.ID, mux.Vars(r)["bookId"], *req.Rating)
	if err != nil {
		h.fail(w, r, err, "Error updating book rating")
		return
	}
	writeJSON(w, http.StatusOK, bookResponse{Success: true, Message: "Book rating updated", Book: entry})
}
