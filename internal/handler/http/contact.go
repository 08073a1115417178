package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/patatpalace/internal/service"
	"github.com/utafrali/patatpalace/pkg/httputil"
)

// ContactHandler handles the contact form.
type ContactHandler struct {
	service *service.ContactService
	logger  *slog.Logger
}

// NewContactHandler creates a new contact HTTP handler.
func NewContactHandler(svc *service.ContactService, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{service: svc, logger: logger}
}

// Submit handles POST /api/v1/contact. An accepted message is sent in the
// background, so the response is 202 with the busy submit control.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req service.ContactInput
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.Submit(r.Context(), sid, req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, httputil.Response{Data: h.service.Status(sid)})
}

// Status handles GET /api/v1/contact/status
func (h *ContactHandler) Status(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.service.Status(sid)})
}
