package httpx

import (
	"net/http"
)

// NotFound renders the error page with a 404 status.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	view := NotFoundView()
	h.renderError(w, r, ErrorOpts{
		View: &view,
		Data: map[string]any{"RequestPath": r.URL.Path},
	})
}
