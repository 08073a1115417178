package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/utafrali/patatpalace/internal/service"
	"github.com/utafrali/patatpalace/pkg/httputil"
	"github.com/utafrali/patatpalace/pkg/middleware"
)

// sessionID returns the session of the request. The Session middleware
// always sets one; a missing session is answered with 400.
func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.SessionIDFromContext(r.Context())
	if !ok {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "session is required"},
		})
	}
	return id, ok
}

// writeError writes err as a JSON error. A form validation failure becomes a
// 400 naming the first invalid field.
func writeError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	var vf *service.ValidationFailure
	if errors.As(err, &vf) {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{
				Code:    "VALIDATION_ERROR",
				Message: vf.Message,
				Fields:  map[string]string{vf.Field: vf.Message},
			},
		})
		return
	}
	httputil.WriteError(w, r, err, logger)
}

// decodeJSON decodes the request body into dst. An empty body leaves dst
// untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
		Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
	})
	return false
}

// quantityValue is a quantity sent either as a JSON number or as the text of
// a number input. Text is read with service.ParseQuantity.
type quantityValue struct {
	raw string
	set bool
}

func (q *quantityValue) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		q.raw, q.set = s, true
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("quantity must be a number or a string")
	}
	q.raw, q.set = n.String(), true
	return nil
}

// Int returns the parsed quantity, or def when none was sent.
func (q quantityValue) Int(def int) int {
	if !q.set {
		return def
	}
	return service.ParseQuantity(q.raw)
}
