package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/bookshelf/internal/client/models"
	"github.com/go-resty/resty/v2"
)

type HTTPClient struct {
	r *resty.Client
}

// NewHTTPClient returns a client for the API at baseURL. Each call is bounded
// by timeout in addition to its context.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	r := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &HTTPClient{r: r}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userEnvelope struct {
	User *models.User `json:"user"`
}

type booksEnvelope struct {
	Books []models.Book `json:"books"`
}

type bookEnvelope struct {
	Book *models.Book `json:"book"`
}

type entriesEnvelope struct {
	Books []models.LibraryEntry `json:"books"`
}

type entryEnvelope struct {
	Book *models.LibraryEntry `json:"book"`
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/", nil, nil)
}

func (c *HTTPClient) Register(ctx context.Context, email, password string) (*models.User, error) {
	var out userEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", credentials{email, password}, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.User, error) {
	var out userEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", credentials{email, password}, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/auth/logout", nil, nil)
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var out userEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *HTTPClient) Books(ctx context.Context) ([]models.Book, error) {
	var out booksEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/books", nil, &out); err != nil {
		return nil, err
	}
	return out.Books, nil
}

func (c *HTTPClient) Book(ctx context.Context, id string) (*models.Book, error) {
	var out bookEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/books/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return out.Book, nil
}

func (c *HTTPClient) MyBooks(ctx context.Context) ([]models.LibraryEntry, error) {
	var out entriesEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/mybooks", nil, &out); err != nil {
		return nil, err
	}
	return out.Books, nil
}

func (c *HTTPClient) AddToLibrary(ctx context.Context, bookID string) (*models.LibraryEntry, error) {
	var out entryEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/mybooks/"+url.PathEscape(bookID), nil, &out); err != nil {
		return nil, err
	}
	return out.Book, nil
}

func (c *HTTPClient) SetStatus(ctx context.Context, bookID, status string) (*models.LibraryEntry, error) {
	var out entryEnvelope
	body := map[string]string{"status": status}
	if err := c.do(ctx, http.MethodPatch, "/api/mybooks/"+url.PathEscape(bookID)+"/status", body, &out); err != nil {
		return nil, err
	}
	return out.Book, nil
}

func (c *HTTPClient) SetRating(ctx context.Context, bookID string, rating int) (*models.LibraryEntry, error) {
	var out entryEnvelope
	body := map[string]int{"rating": rating}
	if err := c.do(ctx, http.MethodPatch, "/api/mybooks/"+url.PathEscape(bookID)+"/rating", body, &out); err != nil {
		return nil, err
	}
	return out.Book, nil
}

// do sends one request and decodes a 2xx body into out.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	req := c.r.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if resp.IsError() {
		var e struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(resp.Body(), &e)
		return &APIError{Status: resp.StatusCode(), Message: e.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
