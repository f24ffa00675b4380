package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	ledgerdomain "splitledger/internal/domain/ledger"
	"splitledger/internal/transport/httpserver/middleware"
)

type paymentResponse struct {
	ID          string    `json:"id"`
	PayerID     string    `json:"payer_id"`
	ReceiverID  string    `json:"receiver_id"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Description *string   `json:"description,omitempty"`
	ExpenseID   *string   `json:"expense_id,omitempty"`
	GroupID     *string   `json:"group_id,omitempty"`
	PaidAt      time.Time `json:"paid_at"`
}

func toPaymentResponse(p ledgerdomain.Payment) paymentResponse {
	return paymentResponse{
		ID:          p.ID,
		PayerID:     p.PayerID,
		ReceiverID:  p.ReceiverID,
		Amount:      p.Amount,
		Currency:    p.Currency,
		Description: p.Description,
		ExpenseID:   p.ExpenseID,
		GroupID:     p.GroupID,
		PaidAt:      p.PaidAt,
	}
}

type recordPaymentRequest struct {
	ReceiverID  string     `json:"receiver_id"`
	Amount      float64    `json:"amount"`
	Currency    string     `json:"currency"`
	Description *string    `json:"description"`
	ExpenseID   *string    `json:"expense_id"`
	GroupID     *string    `json:"group_id"`
	PaidAt      *time.Time `json:"paid_at"`
}

func (h *Handlers) RecordPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req recordPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if strings.TrimSpace(req.ReceiverID) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "receiver_id is required")
		return
	}

	paidAt := time.Now().UTC()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = h.defaultCurrency
	}

	payment, err := h.Ledger.RecordPayment(r.Context(), ledgerdomain.RecordPaymentInput{
		PayerID:     userID,
		ReceiverID:  req.ReceiverID,
		Amount:      req.Amount,
		Currency:    currency,
		Description: req.Description,
		ExpenseID:   req.ExpenseID,
		GroupID:     req.GroupID,
		PaidAt:      paidAt,
	})
	if err != nil {
		h.respondError(w, "ledger.record payment failed", err, "user_id", userID)
		return
	}

	writeJSON(w, http.StatusCreated, toPaymentResponse(*payment))
}

func (h *Handlers) DeletePayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	paymentID := chi.URLParam(r, "paymentID")
	if err := h.Ledger.DeletePayment(r.Context(), userID, paymentID); err != nil {
		h.respondError(w, "ledger.delete payment failed", err, "user_id", userID, "payment_id", paymentID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListPaymentsWith(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	otherUserID := chi.URLParam(r, "userID")
	payments, err := h.Ledger.ListPaymentsBetween(r.Context(), userID, otherUserID)
	if err != nil {
		h.respondError(w, "ledger.list payments failed", err, "user_id", userID, "other_user_id", otherUserID)
		return
	}

	response := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		response = append(response, toPaymentResponse(p))
	}
	writeJSON(w, http.StatusOK, response)
}
