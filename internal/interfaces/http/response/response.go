// Package response writes the JSON envelope shared by handlers and
// middleware.
package response

import (
	"context"
	"encoding/json"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/patent-litigation-graph/pkg/errors"
	"github.com/turtacn/patent-litigation-graph/pkg/types/common"
)

// JSON writes data with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// OK wraps data in a success envelope.
func OK[T any](w http.ResponseWriter, r *http.Request, status int, data T) {
	JSON(w, status, common.Success(data, chimw.GetReqID(r.Context())))
}

// Paginated wraps data and its page in a success envelope.
func Paginated[T any](w http.ResponseWriter, r *http.Request, data T, page common.Pagination) {
	JSON(w, http.StatusOK, common.Page(data, page, chimw.GetReqID(r.Context())))
}

// Error maps err to its HTTP status and writes an error envelope. Server-side
// failures are logged and their message is replaced by the code's default so
// internals never reach the client.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if _, known := errors.ErrorCodeHTTPStatus[code]; !known {
		code = errors.ErrCodeInternal
		if errors.Is(err, context.DeadlineExceeded) {
			code = errors.ErrCodeTimeout
		}
	}
	status := errors.HTTPStatusForCode(code)

	message := errors.DefaultMessageForCode(code)
	var appErr *errors.AppError
	if errors.As(err, &appErr) && status < http.StatusInternalServerError {
		message = appErr.Message
	}
	if status >= http.StatusInternalServerError {
		logging.FromContext(r.Context(), nil).Error("Request failed",
			logging.String("code", string(code)),
			logging.String("path", r.URL.Path),
			logging.Err(err))
	}

	resp := common.Failure(string(code), message, chimw.GetReqID(r.Context()))
	if appErr != nil && appErr.Detail != "" && status < http.StatusInternalServerError {
		resp.Error.Details = map[string]any{"detail": appErr.Detail}
	}
	JSON(w, status, resp)
}

//Personal.AI order the ending
