package server

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/bahayahay/realty/internal/auth"
	"github.com/bahayahay/realty/internal/inquiry"
)

const missingFieldsMessage = "Missing required fields"

func (h *handler) handleContact(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleContact"

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.respondBodyError(w, err, op)
		return
	}
	contact, err := inquiry.DecodeContact(body)
	if err != nil {
		h.metrics.observeInquiry("contact", "rejected")
		h.respondErrorWithOp(w, http.StatusBadRequest, missingFieldsMessage, op)
		return
	}

	if err := h.inquiries.SubmitContact(r.Context(), contact); err != nil {
		h.respondInquiryError(w, err, "contact", "Failed to send email", op)
		return
	}
	h.metrics.observeInquiry("contact", "sent")
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Email sent successfully"})
}

func (h *handler) handleBookViewing(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleBookViewing"

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.respondBodyError(w, err, op)
		return
	}
	booking, err := inquiry.DecodeBooking(body)
	if err != nil {
		h.metrics.observeInquiry("booking", "rejected")
		h.respondErrorWithOp(w, http.StatusBadRequest, missingFieldsMessage, op)
		return
	}

	if err := h.inquiries.SubmitBooking(r.Context(), booking); err != nil {
		h.respondInquiryError(w, err, "booking", "Failed to send booking request", op)
		return
	}
	h.metrics.observeInquiry("booking", "sent")
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Booking request sent successfully"})
}

func (h *handler) respondInquiryError(w http.ResponseWriter, err error, kind, failureMessage, op string) {
	if errors.Is(err, inquiry.ErrMissingFields) {
		h.metrics.observeInquiry(kind, "rejected")
		h.respondErrorWithOp(w, http.StatusBadRequest, missingFieldsMessage, op)
		return
	}
	h.metrics.observeInquiry(kind, "failed")
	h.respondErrorWithOp(w, http.StatusInternalServerError, failureMessage, op)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h *handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleLogin"

	if h.auth == nil {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, auth.ErrNotConfigured.Error(), op)
		return
	}
	var req loginRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	token, expires, err := h.auth.Login(req.Username, req.Password)
	switch {
	case err == nil:
		h.writeJSON(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: expires})
	case errors.Is(err, auth.ErrInvalidCredentials):
		h.respondErrorWithOp(w, http.StatusUnauthorized, err.Error(), op)
	case errors.Is(err, auth.ErrNotConfigured):
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, err.Error(), op)
	default:
		h.respondErrorWithOp(w, http.StatusInternalServerError, "failed to sign in", op)
	}
}
