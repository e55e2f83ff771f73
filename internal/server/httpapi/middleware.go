package httpapi

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/bookshelf/internal/server/models"
	"github.com/google/uuid"
)

type ctxKey string

const (
	userKey      ctxKey = "user"
	requestIDKey ctxKey = "requestID"
)

// limiterTimeout bounds the Redis round trip of the rate limiter.
const limiterTimeout = 200 * time.Millisecond

// UserFromContext returns the user resolved by requireUser.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok
}

// RequestID returns the id assigned by logRequests, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

type responseRecorder struct {
	b      int
	status int
	w      http.ResponseWriter
}

func (r *responseRecorder) Header() http.Header { return r.w.Header() }

func (r *responseRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.w.Write(p)
	r.b += n
	return n, err
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.status = statusCode
	r.w.WriteHeader(statusCode)
}

// logRequests tags each request with an id and logs its outcome.
func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)

		start := time.Now()
		rr := &responseRecorder{w: w}
		defer func() {
			h.logger.Info(ctx, "request complete",
				"http.req.path", r.URL.Path,
				"http.req.method", r.Method,
				"http.req.id", requestID,
				"http.resp.took_ms", time.Since(start).Milliseconds(),
				"http.resp.status", rr.status,
				"http.resp.bytes", rr.b,
			)
		}()

		next.ServeHTTP(rr, r.WithContext(ctx))
	})
}

// recoverPanics turns a handler panic into a 500 envelope.
func (h *Handler) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			h.logger.Error(r.Context(), "panic serving request", "panic", rec, "request_id", RequestID(r.Context()))
			writeMessage(w, http.StatusInternalServerError, false, "Internal server error")
		}()
		next.ServeHTTP(w, r)
	})
}

// withTimeout bounds the request context so slow storage cannot pin a
// connection.
func (h *Handler) withTimeout(next http.Handler) http.Handler {
	if h.opts.RequestTimeout <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), h.opts.RequestTimeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireUser resolves the session cookie to a user or answers 401.
func (h *Handler) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := h.accounts.Authenticate(r.Context(), sessionToken(r))
		if err != nil {
			h.fail(w, r, err, "Error authenticating user")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

// rateLimited throttles next per client address. A limiter error lets the
// request through.
func (h *Handler) rateLimited(next http.Handler) http.Handler {
	if h.opts.Limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), limiterTimeout)
		allowed, err := h.opts.Limiter.Allow(ctx, ClientIP(r))
		cancel()

		if err != nil {
			h.logger.Warn(r.Context(), "rate limiter unavailable", "error", err)
		} else if !allowed {
			writeMessage(w, http.StatusTooManyRequests, false, "Too many requests. Please try again later.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ClientIP returns the host part of the peer address. Behind a trusted proxy
// the address has already been rewritten from the forwarding headers.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
