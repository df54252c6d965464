package api

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pmf-io/matrix-formatter/internal/cache"
	"github.com/pmf-io/matrix-formatter/internal/config"
	"github.com/pmf-io/matrix-formatter/internal/matrix"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Handler wires the formatter and cache manager into HTTP handlers. Both
// collaborators read the same snapshot the handler holds, so every request
// observes one consistent configuration.
type Handler struct {
	cfg       *config.Config
	formatter *matrix.Formatter
	cache     *cache.Manager

	clock func() time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(cfg *config.Config, formatter *matrix.Formatter, cacheManager *cache.Manager, opts ...HandlerOption) *Handler {
	h := &Handler{
		cfg:       cfg,
		formatter: formatter,
		cache:     cacheManager,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:       "ok",
		Timestamp:    h.clock(),
		CacheEnabled: h.cache.Enabled(),
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleGetConfig exposes the effective snapshot for operability. Values are
// read through the section accessors; the snapshot itself stays immutable.
func (h *Handler) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	resp := configResponse{
		Logging: map[string]any{
			"level":  h.cfg.Logging().Level(),
			"format": h.cfg.Logging().Format(),
		},
		Parallel: map[string]any{
			"workers":    h.cfg.Parallel().Workers(),
			"chunk_size": h.cfg.Parallel().ChunkSize(),
		},
		Matrix: map[string]any{
			"max_size":          h.cfg.Matrix().MaxSize(),
			"default_precision": h.cfg.Matrix().DefaultPrecision(),
		},
		Output: map[string]any{
			"format":      h.cfg.Output().Format(),
			"compression": h.cfg.Output().Compression(),
		},
		Cache: map[string]any{
			"enabled": h.cfg.Cache().Enabled(),
			"ttl":     h.cfg.Cache().TTL(),
			"backend": h.cfg.Cache().Backend(),
		},
		Debug: map[string]any{
			"enabled":   h.cfg.Debug().Enabled(),
			"profiling": h.cfg.Debug().Profiling(),
		},
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleFormat(w http.ResponseWriter, r *http.Request) {
	var req formatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	m, err := matrix.FromGrid(req.Matrix)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid matrix", err.Error())
		return
	}

	format := req.Format
	if format == "" {
		format = h.cfg.Output().Format()
	}

	key := h.cacheKey(m, format)
	if cached, ok := h.cache.Get(key); ok {
		if result, isResult := cached.(matrix.Result); isResult {
			writeJSON(w, http.StatusOK, newFormatResponse(m, result, true, 0))
			return
		}
	}

	start := time.Now()
	result, formatErr := h.formatter.FormatAs(m, format)
	elapsed := time.Since(start)

	if formatErr != nil {
		switch {
		case errors.Is(formatErr, matrix.ErrUnsupportedFormat):
			writeError(w, http.StatusBadRequest, "Unsupported format", formatErr.Error())
		case errors.Is(formatErr, matrix.ErrMatrixTooLarge):
			suggestion := fmt.Sprintf("Reduce the matrix below %d elements or raise the configured limit", h.cfg.Matrix().MaxSize())
			writeError(w, http.StatusUnprocessableEntity, "Matrix too large", formatErr.Error(), suggestion)
		default:
			writeInternalError(w, formatErr)
		}
		return
	}

	h.cache.Set(key, result)
	writeJSON(w, http.StatusOK, newFormatResponse(m, result, false, elapsed.Milliseconds()))
}

func (h *Handler) handleClearCache(w http.ResponseWriter, r *http.Request) {
	h.cache.Clear()
	resp := clearCacheResponse{
		Message:      "cache cleared",
		CacheEnabled: h.cache.Enabled(),
	}
	writeJSON(w, http.StatusOK, resp)
}

// cacheKey derives a stable key from the grid content and the effective
// formatting settings, so a precision or compression change never serves a
// stale rendition. The format name is lowercased to match the
// case-insensitive format matching downstream.
func (h *Handler) cacheKey(m matrix.Matrix, format string) string {
	hasher := sha256.New()
	fmt.Fprintf(hasher, "%s|%d|%v|%dx%d", strings.ToLower(format), h.cfg.Matrix().DefaultPrecision(), h.cfg.Output().Compression(), m.Rows, m.Cols)
	for _, row := range m.Data {
		fmt.Fprintf(hasher, "|%v", row)
	}
	return hex.EncodeToString(hasher.Sum(nil))
}

func contextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, id)
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type formatRequest struct {
	Matrix [][]float64 `json:"matrix"`
	Format string      `json:"format,omitempty"`
}

type formatResponse struct {
	Rows       int    `json:"rows"`
	Cols       int    `json:"cols"`
	Format     string `json:"format"`
	Compressed bool   `json:"compressed"`
	Body       string `json:"body"`
	Cached     bool   `json:"cached"`
	ElapsedMs  int64  `json:"elapsedMs"`
}

// newFormatResponse wraps a formatting result for transport. Compressed
// payloads are base64-encoded because the gzip stream is not valid JSON text.
func newFormatResponse(m matrix.Matrix, result matrix.Result, cached bool, elapsedMs int64) formatResponse {
	body := string(result.Body)
	if result.Compressed {
		body = base64.StdEncoding.EncodeToString(result.Body)
	}
	return formatResponse{
		Rows:       m.Rows,
		Cols:       m.Cols,
		Format:     result.Format,
		Compressed: result.Compressed,
		Body:       body,
		Cached:     cached,
		ElapsedMs:  elapsedMs,
	}
}

type healthResponse struct {
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
	CacheEnabled bool      `json:"cacheEnabled"`
}

type configResponse struct {
	Logging  map[string]any `json:"logging"`
	Parallel map[string]any `json:"parallel"`
	Matrix   map[string]any `json:"matrix"`
	Output   map[string]any `json:"output"`
	Cache    map[string]any `json:"cache"`
	Debug    map[string]any `json:"debug"`
}

type clearCacheResponse struct {
	Message      string `json:"message"`
	CacheEnabled bool   `json:"cacheEnabled"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
