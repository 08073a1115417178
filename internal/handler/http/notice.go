package http

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/patatpalace/internal/notice"
	apperrors "github.com/utafrali/patatpalace/pkg/errors"
	"github.com/utafrali/patatpalace/pkg/httputil"
)

// NoticeHandler exposes the transient messages of a session.
type NoticeHandler struct {
	board  *notice.Board
	logger *slog.Logger
}

// NewNoticeHandler creates a new notice HTTP handler.
func NewNoticeHandler(board *notice.Board, logger *slog.Logger) *NoticeHandler {
	return &NoticeHandler{board: board, logger: logger}
}

// ListNotices handles GET /api/v1/notices
func (h *NoticeHandler) ListNotices(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.board.Active(sid)})
}

// DismissNotice handles DELETE /api/v1/notices/{slot}
func (h *NoticeHandler) DismissNotice(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	slot := notice.Slot(chi.URLParam(r, "slot"))
	if !slices.Contains(notice.Slots(), slot) {
		writeError(w, r, apperrors.NotFound("notice slot", string(slot)), h.logger)
		return
	}

	h.board.Dismiss(sid, slot)
	w.WriteHeader(http.StatusNoContent)
}
