package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/bookshelf/internal/dbx"
	"github.com/dmitrijs2005/bookshelf/internal/logging"
	"github.com/dmitrijs2005/bookshelf/internal/server/config"
	"github.com/dmitrijs2005/bookshelf/internal/server/dbtest"
	"github.com/dmitrijs2005/bookshelf/internal/server/models"
	"github.com/dmitrijs2005/bookshelf/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bookshelf/internal/server/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

type api struct {
	db      *sql.DB
	handler *Handler
	routes  http.Handler
}

// newAPI serves real services over a fresh sqlite database.
func newAPI(t *testing.T, opts Options) *api {
	t.Helper()
	db := dbtest.Open(t)
	rm := repomanager.NewSQLRepositoryManager(dbx.DriverSQLite)
	cfg := &config.Config{
		SecretKey:  testSecret,
		SessionTTL: time.Hour,
		BcryptCost: bcrypt.MinCost,
	}

	h := NewHandler(
		services.NewUserService(db, rm, cfg, logging.Nop{}),
		services.NewCatalogService(db, rm, nil, logging.Nop{}),
		services.NewLibraryService(db, rm, nil, logging.Nop{}),
		logging.Nop{},
		opts,
	)
	return &api{db: db, handler: h, routes: h.Routes()}
}

func (a *api) book(t *testing.T, title string) *models.Book {
	t.Helper()
	return dbtest.InsertBook(t, a.db, &models.Book{Title: title, Author: "Author of " + title, Genre: "Fiction"})
}

func (a *api) do(t *testing.T, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.routes.ServeHTTP(rec, req)
	return rec
}

// signUp registers email and returns its session cookie.
func (a *api) signUp(t *testing.T, email string) *http.Cookie {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/auth/register", `{"email":"`+email+`","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	c := sessionCookie(rec)
	require.NotNil(t, c)
	return c
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	return nil
}

func body(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m), rec.Body.String())
	return m
}

// stubLimiter answers Allow with fixed values and counts calls.
type stubLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (s *stubLimiter) Allow(_ context.Context, key string) (bool, error) {
	s.keys = append(s.keys, key)
	return s.allowed, s.err
}
