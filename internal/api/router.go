package api

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	defaultRateLimitRPS   = 50
	defaultRateLimitBurst = 100
)

type routerConfig struct {
	limiter    RateLimiter
	accessLogs bool
}

// RouterOption configures the router middleware chain.
type RouterOption func(*routerConfig)

// WithRateLimiter replaces the default token-bucket limiter.
func WithRateLimiter(limiter RateLimiter) RouterOption {
	return func(rc *routerConfig) {
		rc.limiter = limiter
	}
}

// WithAccessLogs toggles per-request access logging.
func WithAccessLogs(enabled bool) RouterOption {
	return func(rc *routerConfig) {
		rc.accessLogs = enabled
	}
}

// NewRouter assembles the HTTP routes and wraps them in the middleware
// chain: request ID, access logging, panic recovery, CORS, rate limiting.
func NewRouter(handler *Handler, logger *zap.Logger, opts ...RouterOption) http.Handler {
	rc := &routerConfig{
		limiter:    NewTokenBucketLimiter(defaultRateLimitRPS, defaultRateLimitBurst),
		accessLogs: true,
	}
	for _, opt := range opts {
		opt(rc)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/format", handler.handleFormat)
	mux.HandleFunc("GET /api/health", handler.handleHealth)
	mux.HandleFunc("GET /api/config", handler.handleGetConfig)
	mux.HandleFunc("DELETE /api/cache", handler.handleClearCache)

	var chain http.Handler = mux
	chain = rateLimitMiddleware(rc.limiter)(chain)
	chain = corsMiddleware(chain)
	chain = recoveryMiddleware(logger)(chain)
	if rc.accessLogs {
		chain = loggingMiddleware(logger)(chain)
	}
	chain = requestIDMiddleware(chain)
	return chain
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = newRequestID()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := contextWithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func loggingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)
			logger.Info("request handled",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", recorder.status),
				zap.Duration("duration", time.Since(start)),
				zap.String("requestId", requestIDFromContext(r.Context())),
			)
		})
	}
}

func recoveryMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rec),
						zap.String("path", r.URL.Path),
					)
					writeError(w, http.StatusInternalServerError, "Internal error", "unexpected server failure")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func rateLimitMiddleware(limiter RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeError(w, http.StatusTooManyRequests, "Too many requests", "rate limit exceeded, retry later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func newRequestID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(buf)
}
