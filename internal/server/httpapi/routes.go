package httpapi

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Routes builds the API router wrapped in its middleware chain.
func (h *Handler) Routes() http.Handler {
	r := mux.NewRouter()
	withEnvelopeErrors(r)

	r.HandleFunc("/", h.Root).Methods(http.MethodGet)

	api := withEnvelopeErrors(r.PathPrefix("/api").Subrouter())

	auth := withEnvelopeErrors(api.PathPrefix("/auth").Subrouter())
	auth.Handle("/register", h.rateLimited(http.HandlerFunc(h.Register))).Methods(http.MethodPost)
	auth.Handle("/login", h.rateLimited(http.HandlerFunc(h.Login))).Methods(http.MethodPost)
	auth.HandleFunc("/logout", h.Logout).Methods(http.MethodGet)
	auth.Handle("/me", h.requireUser(http.HandlerFunc(h.Me))).Methods(http.MethodGet)

	api.HandleFunc("/books", h.ListBooks).Methods(http.MethodGet)
	api.HandleFunc("/books/{id}", h.GetBook).Methods(http.MethodGet)

	api.Handle("/mybooks", h.requireUser(http.HandlerFunc(h.ListMyBooks))).Methods(http.MethodGet)
	api.Handle("/mybooks/{bookId}", h.requireUser(http.HandlerFunc(h.AddToLibrary))).Methods(http.MethodPost)
	api.Handle("/mybooks/{bookId}/status", h.requireUser(http.HandlerFunc(h.UpdateStatus))).Methods(http.MethodPatch)
	api.Handle("/mybooks/{bookId}/rating", h.requireUser(http.HandlerFunc(h.UpdateRating))).Methods(http.MethodPatch)

	var handler http.Handler = r
	handler = h.withTimeout(handler)
	handler = h.cors(handler)
	handler = h.recoverPanics(handler)
	handler = h.logRequests(handler)
	if h.opts.TrustProxy {
		handler = handlers.ProxyHeaders(handler)
	}
	if h.opts.Tracing {
		handler = otelhttp.NewHandler(handler, "bookshelf-api")
	}
	return handler
}

// withEnvelopeErrors answers unmatched paths and methods with the JSON
// envelope. mux does not inherit these handlers into subrouters, so each
// router gets its own.
func withEnvelopeErrors(r *mux.Router) *mux.Router {
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusNotFound, false, "Route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, false, "Method not allowed")
	})
	return r
}

// cors admits the configured frontend origin with credentials.
func (h *Handler) cors(next http.Handler) http.Handler {
	if h.opts.CORSOrigin == "" {
		return next
	}
	return handlers.CORS(
		handlers.AllowedOrigins([]string{h.opts.CORSOrigin}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
		handlers.AllowCredentials(),
	)(next)
}

// Root answers liveness checks.
func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Books Library API is running!"})
}
