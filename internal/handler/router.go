/*
Package handler provides the HTTP surface of the relay.

This file defines the main Router: CORS, request IDs, request logging and
panic recovery wrap every route; the WebSocket endpoint is additionally
throttled per client IP.
*/
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"georelay/internal/pkg/errs"
	"georelay/internal/pkg/limiter"
	"georelay/internal/pkg/logx"
	"georelay/internal/pkg/resp"
)

// Router builds the chi routing table. ctx bounds background work owned by
// the router, such as the handshake limiter's sweep.
func Router(ctx context.Context, deps *AppDeps) http.Handler {
	cfg := deps.Config

	handshakeLimiter := limiter.NewIPRateLimiter(ctx, rate.Limit(cfg.HandshakeRate), cfg.HandshakeBurst, limiter.DefaultSweepInterval)

	allowedOrigins := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	wsUpgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if cfg.IsDevelopment() {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
		Error: func(w http.ResponseWriter, r *http.Request, status int, reason error) {
			code := errs.ErrInvalidParams
			if status == http.StatusForbidden {
				code = errs.ErrOriginNotAllowed
			}
			resp.RespondError(w, errs.Wrap(reason, code))
		},
	}

	corsAllowedOrigins := cfg.AllowedOrigins
	if cfg.IsDevelopment() {
		corsAllowedOrigins = []string{"*"}
	}

	c := cors.New(cors.Options{
		AllowedOrigins: corsAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})

	r := chi.NewRouter()

	r.Use(c.Handler)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", HandleHealth())

	r.Route("/api", func(api chi.Router) {
		api.Get("/users", HandleListUsers(deps))
	})

	r.With(handshakeLimiter.Middleware).Get("/ws", HandleWebSocket(deps, wsUpgrader))

	if cfg.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))
	} else {
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			resp.RespondError(w, errs.NewError(errs.ErrNotFound))
		})
	}

	return r
}
