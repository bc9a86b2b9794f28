package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterOptions struct {
	// AuthMiddleware guards the bearer-protected routes. Nil leaves them open,
	// which is only useful in tests.
	AuthMiddleware func(http.Handler) http.Handler

	Logger *slog.Logger
}

// NewRouter constructs the API router with bearer auth enforced by auth.
func NewRouter(api *Server, auth func(http.Handler) http.Handler) http.Handler {
	return NewRouterWithOptions(api, RouterOptions{AuthMiddleware: auth, Logger: api.Logger})
}

func NewRouterWithOptions(api *Server, opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = api.Logger
	}
	protect := opts.AuthMiddleware
	if protect == nil {
		protect = func(next http.Handler) http.Handler { return next }
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	// Clients call most collection routes with a trailing slash.
	r.Use(middleware.StripSlashes)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/", api.Root)
	r.Get("/rl-online", api.ListTables)

	r.Route("/mobile", func(r chi.Router) {
		r.Post("/signup", api.Signup)
		r.Post("/login", api.Login)

		r.Group(func(r chi.Router) {
			r.Use(protect)
			r.Get("/users", api.ListUsers)
			r.Get("/users/me-protected", api.MeProtected)
			r.Get("/users/{national_id}", api.GetUser)
			r.Post("/vehicles", api.CreateVehicle)
			r.Get("/vehicles", api.ListVehicles)
			r.Get("/vehicles/{national_id}", api.ListVehiclesByOwner)
		})
	})

	r.Route("/traffic-lights", func(r chi.Router) {
		r.Use(protect)
		r.Post("/", api.CreateSignal)
		r.Get("/", api.ListSignals)
		r.Get("/{lat}/{lon}", api.GetSignal)
		r.Put("/{lat}/{lon}", api.UpdateSignal)
		r.Delete("/{lat}/{lon}", api.DeleteSignal)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeOASError(w, r, http.StatusNotFound, "NOT_FOUND", "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeOASError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})
	return r
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
