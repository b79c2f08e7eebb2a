package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/portfolio/internal/content"
)

// ContentHandler serves the portfolio content as JSON.
type ContentHandler struct {
	BaseHandler
	portfolio *content.Portfolio
}

func NewContentHandler(logger *slog.Logger, p *content.Portfolio) *ContentHandler {
	return &ContentHandler{BaseHandler: BaseHandler{Logger: logger}, portfolio: p}
}

// All handles GET /api/content.
func (h *ContentHandler) All(w http.ResponseWriter, r *http.Request) {
	if err := h.writeJSON(w, http.StatusOK, h.portfolio, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// Section handles GET /api/content/{section}.
func (h *ContentHandler) Section(w http.ResponseWriter, r *http.Request) {
	v, ok := h.portfolio.Section(chi.URLParam(r, "section"))
	if !ok {
		h.notFoundResponse(w, r)
		return
	}
	if err := h.writeJSON(w, http.StatusOK, envelope{"data": v}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
