package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/bookshelf/internal/server/models"
	"github.com/gorilla/mux"
)

// ListBooks returns the whole catalog, newest first.
func (h *Handler) ListBooks(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.List(r.Context())
	if err != nil {
		h.fail(w, r, err, "Error fetching books")
		return
	}
	if list == nil {
		list = []models.Book{}
	}
	writeJSON(w, http.StatusOK, listResponse{Success: true, Books: list, Count: len(list)})
}

// GetBook returns one catalog book.
func (h *Handler) GetBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.catalog.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err, "Error fetching book")
		return
	}
	writeJSON(w, http.StatusOK, bookResponse{Success: true, Book: book})
}
