package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	friendsdomain "splitledger/internal/domain/friends"
	"splitledger/internal/transport/httpserver/middleware"
)

type friendshipResponse struct {
	ID          string    `json:"id"`
	RequesterID string    `json:"requester_id"`
	AddresseeID string    `json:"addressee_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func toFriendshipResponse(f friendsdomain.Friendship) friendshipResponse {
	return friendshipResponse{
		ID:          f.ID,
		RequesterID: f.RequesterID,
		AddresseeID: f.AddresseeID,
		Status:      string(f.Status),
		CreatedAt:   f.CreatedAt,
	}
}

type sendFriendRequestRequest struct {
	Identifier string `json:"identifier"`
}

func (h *Handlers) SendFriendRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req sendFriendRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if strings.TrimSpace(req.Identifier) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "identifier is required")
		return
	}

	friendship, err := h.Friends.SendRequest(r.Context(), userID, req.Identifier)
	if err != nil {
		h.respondError(w, "friends.send request failed", err, "user_id", userID)
		return
	}

	writeJSON(w, http.StatusCreated, toFriendshipResponse(*friendship))
}

type respondFriendRequestRequest struct {
	Accept *bool `json:"accept"`
}

func (h *Handlers) RespondFriendRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req respondFriendRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.Accept == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "accept is required")
		return
	}

	requestID := chi.URLParam(r, "requestID")
	friendship, err := h.Friends.Respond(r.Context(), userID, requestID, *req.Accept)
	if err != nil {
		h.respondError(w, "friends.respond failed", err, "user_id", userID, "request_id", requestID)
		return
	}

	if !*req.Accept {
		// Declined requests are removed so the requester may try again.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, toFriendshipResponse(*friendship))
}

type friendResponse struct {
	FriendshipID string    `json:"friendship_id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Since        time.Time `json:"since"`
}

func (h *Handlers) ListFriends(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	friends, err := h.Friends.ListFriends(r.Context(), userID)
	if err != nil {
		h.respondError(w, "friends.list failed", err, "user_id", userID)
		return
	}

	response := make([]friendResponse, 0, len(friends))
	for _, f := range friends {
		response = append(response, friendResponse{
			FriendshipID: f.FriendshipID,
			UserID:       f.UserID,
			Name:         f.Name,
			Username:     f.Username,
			Email:        f.Email,
			Since:        f.Since,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

type pendingRequestResponse struct {
	FriendshipID string    `json:"friendship_id"`
	RequesterID  string    `json:"requester_id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	RequestedAt  time.Time `json:"requested_at"`
}

func (h *Handlers) ListFriendRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	pending, err := h.Friends.ListPendingRequests(r.Context(), userID)
	if err != nil {
		h.respondError(w, "friends.list requests failed", err, "user_id", userID)
		return
	}

	response := make([]pendingRequestResponse, 0, len(pending))
	for _, p := range pending {
		response = append(response, pendingRequestResponse{
			FriendshipID: p.FriendshipID,
			RequesterID:  p.RequesterID,
			Name:         p.Name,
			Username:     p.Username,
			Email:        p.Email,
			RequestedAt:  p.RequestedAt,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

type friendBalanceResponse struct {
	UserID   string  `json:"user_id"`
	Name     string  `json:"name"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Amount   float64 `json:"amount"`
}

type friendBalancesResponse struct {
	Balances []friendBalanceResponse `json:"balances"`
	Skipped  int                     `json:"skipped,omitempty"`
}

func (h *Handlers) FriendBalances(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	result, err := h.Balances.FriendBalances(r.Context(), userID)
	if err != nil {
		h.respondError(w, "balances.friends failed", err, "user_id", userID)
		return
	}

	response := friendBalancesResponse{
		Balances: make([]friendBalanceResponse, 0, len(result.Balances)),
		Skipped:  result.Skipped,
	}
	for _, b := range result.Balances {
		response.Balances = append(response.Balances, friendBalanceResponse{
			UserID:   b.UserID,
			Name:     b.Name,
			Username: b.Username,
			Email:    b.Email,
			Amount:   b.Amount,
		})
	}
	writeJSON(w, http.StatusOK, response)
}
