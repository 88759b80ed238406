package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/mileage-recorder/internal/domain"
)

type contextKey string

// ContextKeyAppMessage holds the decoded *domain.AppMessage
const ContextKeyAppMessage contextKey = "appmessage"

// maxMessageBytes bounds an app message body; the watch inbox is a few KB
const maxMessageBytes = 64 << 10

// Middleware struct holds dependencies for middleware functions
type Middleware struct {
	Logger hclog.Logger
}

// NewMiddleware creates a new Middleware instance
func NewMiddleware(logger hclog.Logger) *Middleware {
	return &Middleware{Logger: logger}
}

// ContentTypeMiddleware sets the Content-Type header to application/json
func (m *Middleware) ContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// LoggingMiddleware logs the incoming requests and responses
func (m *Middleware) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.New().String()

		m.Logger.Debug("Incoming request",
			"method", r.Method,
			"url", r.URL.Path,
			"request_id", requestID,
		)

		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r)

		m.Logger.Info("Completed request",
			"method", r.Method,
			"url", r.URL.Path,
			"request_id", requestID,
			"duration", time.Since(start),
		)
	})
}

// AppMessageMiddleware decodes the app message in the request body and adds
// it to the context
func (m *Middleware) AppMessageMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageBytes))
		dec.UseNumber()

		var msg domain.AppMessage
		if err := dec.Decode(&msg); err != nil {
			m.Logger.Error("Error decoding app message", "error", err)
			writeError(w, http.StatusBadRequest, "Invalid app message")
			return
		}
		// The body must hold exactly one JSON document
		if err := dec.Decode(&struct{}{}); err != io.EOF {
			m.Logger.Error("Trailing data after app message", "error", err)
			writeError(w, http.StatusBadRequest, "Invalid app message")
			return
		}
		if msg.Payload == nil {
			writeError(w, http.StatusBadRequest, domain.ErrMissingPayload.Error())
			return
		}
		msg.ReceivedAt = time.Now()

		ctx := context.WithValue(r.Context(), ContextKeyAppMessage, &msg)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
