// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"go.uber.org/zap"
)

// ErrorLogger logs a failure with request context and answers with the
// matching JSON error body. Handlers keep one and call it on every error
// path so nothing fails silently.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger wraps logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error, extra []zap.Field) []zap.Field {
	fs := make([]zap.Field, 0, len(extra)+3)
	fs = append(fs,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
	if err != nil {
		fs = append(fs, zap.Error(err))
	}
	return append(fs, extra...)
}

// LogServerError logs at error level and answers 500 with userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string, extra ...zap.Field) {
	e.log.Error(msg, e.fields(r, err, extra)...)
	Render(w, http.StatusInternalServerError, CodeServerError, userMsg)
}

// LogUnavailable logs at warn level and answers 503 with userMsg.
func (e *ErrorLogger) LogUnavailable(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string, extra ...zap.Field) {
	e.log.Warn(msg, e.fields(r, err, extra)...)
	Render(w, http.StatusServiceUnavailable, CodeUnavailable, userMsg)
}

// LogBadRequest logs at warn level and answers 400 with userMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string, extra ...zap.Field) {
	e.log.Warn(msg, e.fields(r, err, extra)...)
	RenderBadRequest(w, r, userMsg)
}

// LogForbidden logs at warn level and answers 403 with userMsg.
func (e *ErrorLogger) LogForbidden(w http.ResponseWriter, r *http.Request, msg string, userMsg string, extra ...zap.Field) {
	e.log.Warn(msg, e.fields(r, nil, extra)...)
	RenderForbidden(w, r, userMsg)
}

// Logger exposes the underlying logger.
func (e *ErrorLogger) Logger() *zap.Logger { return e.log }
