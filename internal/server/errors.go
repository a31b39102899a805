package server

import (
	"fmt"
	"net/http"

	"todo/internal/errors"
	"todo/internal/logging"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusFor maps the error taxonomy to an HTTP status
func statusFor(err error) int {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Type {
	case errors.ErrorTypeValidation:
		return http.StatusBadRequest
	case errors.ErrorTypeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// logContextKeys are the AppError context entries worth a log field
var logContextKeys = []string{"operation", "template"}

func logError(r *http.Request, err error) {
	if !errors.ShouldLogError(err) {
		return
	}

	fields := "request_id=" + RequestID(r.Context())
	if appErr, ok := errors.AsAppError(err); ok {
		for _, key := range logContextKeys {
			if value, ok := appErr.GetContext(key); ok {
				fields += fmt.Sprintf(" %s=%v", key, value)
			}
		}
	}
	logging.Errorf("%s %s %s: %v", r.Method, r.URL.Path, fields, err)
}

// writeTextError answers HTML routes with a plain text message
func (h *Handler) writeTextError(w http.ResponseWriter, r *http.Request, err error) {
	logError(r, err)
	http.Error(w, errors.GetUserMessage(err), statusFor(err))
}

// writeJSONError answers JSON routes with an errorResponse body
func (h *Handler) writeJSONError(w http.ResponseWriter, r *http.Request, err error) {
	logError(r, err)
	code := errors.GetErrorCode(err)
	if statusFor(err) == http.StatusInternalServerError {
		code = "INTERNAL_ERROR"
	}
	writeJSON(w, statusFor(err), errorResponse{
		Error: errors.GetUserMessage(err),
		Code:  code,
	})
}
