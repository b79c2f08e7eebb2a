package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/portfolio/internal/contact"
	"github.com/portfolio/internal/mailer"
	"github.com/portfolio/internal/middleware"
)

const (
	msgReceived      = "Your message has been received. I will get back to you soon!"
	msgMissingFields = "Missing required fields"
	msgNotEmailed    = "Failed to send email, but your message was received."
	msgProcessFailed = "Failed to process your request"
)

// ContactHandler accepts contact form submissions.
type ContactHandler struct {
	BaseHandler
	service   *contact.Service
	clientKey middleware.KeyFunc
}

func NewContactHandler(logger *slog.Logger, service *contact.Service, clientKey middleware.KeyFunc) *ContactHandler {
	return &ContactHandler{
		BaseHandler: BaseHandler{Logger: logger},
		service:     service,
		clientKey:   clientKey,
	}
}

// Submit handles POST /api/contact. Every outcome is a JSON body: 200 on
// delivery, 400 for missing fields, 500 when delivery or anything else fails.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	client := h.clientKey(r)

	defer func() {
		if rec := recover(); rec != nil {
			h.Logger.Error("contact: panic", "client", client, "panic", fmt.Sprint(rec))
			h.errorResponse(w, r, http.StatusInternalServerError, msgProcessFailed)
		}
	}()

	var sub contact.Submission
	if err := h.readJSON(w, r, &sub); err != nil {
		h.Logger.Warn("contact: unreadable body", "client", client, "err", err)
		h.errorResponse(w, r, http.StatusInternalServerError, msgProcessFailed)
		return
	}

	attrs := []any{
		"client", client,
		"name_len", len(sub.Name),
		"email_len", len(sub.Email),
		"subject_len", len(sub.Subject),
		"message_len", len(sub.Message),
	}

	err := h.service.Submit(r.Context(), sub)

	var missing *contact.MissingFieldError
	var delivery *mailer.DeliveryError
	switch {
	case err == nil:
		h.Logger.Info("contact: submission forwarded", attrs...)
		if err := h.writeJSON(w, http.StatusOK, envelope{"success": true, "message": msgReceived}, nil); err != nil {
			h.logError(r, err)
		}
	case errors.As(err, &missing):
		h.Logger.Info("contact: submission rejected", append(attrs, "missing", missing.Fields)...)
		h.errorResponse(w, r, http.StatusBadRequest, msgMissingFields)
	case errors.As(err, &delivery):
		h.Logger.Error("contact: delivery failed", append(attrs, "provider", delivery.Provider, "err", delivery.Err)...)
		env := envelope{"error": msgNotEmailed, "details": delivery.Err.Error()}
		if err := h.writeJSON(w, http.StatusInternalServerError, env, nil); err != nil {
			h.logError(r, err)
		}
	default:
		h.Logger.Error("contact: submission failed", append(attrs, "err", err)...)
		h.errorResponse(w, r, http.StatusInternalServerError, msgProcessFailed)
	}
}
