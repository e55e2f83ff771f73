package httpapi

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/bookshelf/internal/common"
	"github.com/dmitrijs2005/bookshelf/internal/logging"
	"github.com/dmitrijs2005/bookshelf/internal/server/dbtest"
	"github.com/dmitrijs2005/bookshelf/internal/server/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingCatalog struct{ err error }

func (f failingCatalog) List(context.Context) ([]models.Book, error)       { return nil, f.err }
func (f failingCatalog) Get(context.Context, string) (*models.Book, error) { return nil, f.err }

func TestListBooks(t *testing.T) {
	a := newAPI(t, Options{})

	rec := a.do(t, http.MethodGet, "/api/books", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"books":[],"count":0}`, rec.Body.String())

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	dbtest.InsertBook(t, a.db, &models.Book{Title: "Old", Author: "A", CreatedAt: base})
	dbtest.InsertBook(t, a.db, &models.Book{Title: "New", Author: "B", CreatedAt: base.Add(time.Hour)})

	rec = a.do(t, http.MethodGet, "/api/books", "")
	require.Equal(t, http.StatusOK, rec.Code)

	m := body(t, rec)
	assert.Equal(t, true, m["success"])
	assert.EqualValues(t, 2, m["count"])
	list := m["books"].([]any)
	require.Len(t, list, 2)
	assert.Equal(t, "New", list[0].(map[string]any)["title"])
	assert.Equal(t, "Old", list[1].(map[string]any)["title"])
	assert.Equal(t, common.DefaultCoverImage, list[0].(map[string]any)["coverImage"])
}

func TestGetBook(t *testing.T) {
	a := newAPI(t, Options{})
	b := a.book(t, "Dune")

	rec := a.do(t, http.MethodGet, "/api/books/"+b.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	m := body(t, rec)
	book := m["book"].(map[string]any)
	assert.Equal(t, b.ID, book["_id"])
	assert.Equal(t, "Dune", book["title"])
	assert.Equal(t, "Fiction", book["genre"])

	for _, id := range []string{uuid.NewString(), "not-a-uuid"} {
		rec = a.do(t, http.MethodGet, "/api/books/"+id, "")
		require.Equal(t, http.StatusNotFound, rec.Code, id)
		assert.JSONEq(t, `{"success":false,"message":"Book not found"}`, rec.Body.String())
	}
}

func TestBooks_StorageFailureIsGeneric(t *testing.T) {
	h := NewHandler(nil, failingCatalog{err: errors.New("db error: dial tcp: connection refused")}, nil, logging.Nop{}, Options{})
	a := &api{handler: h, routes: h.Routes()}

	rec := a.do(t, http.MethodGet, "/api/books", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Error fetching books"}`, rec.Body.String())

	rec = a.do(t, http.MethodGet, "/api/books/"+uuid.NewString(), "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Error fetching book"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "connection refused")
}
