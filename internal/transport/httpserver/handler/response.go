package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"splitledger/internal/auth"
	friendsdomain "splitledger/internal/domain/friends"
	groupsdomain "splitledger/internal/domain/groups"
	ledgerdomain "splitledger/internal/domain/ledger"
	usersdomain "splitledger/internal/domain/users"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

var errorMappings = []errorMapping{
	{usersdomain.ErrUserNotFound, http.StatusNotFound, "user_not_found", "user not found"},
	{groupsdomain.ErrGroupNotFound, http.StatusNotFound, "group_not_found", "group not found"},
	{groupsdomain.ErrMemberNotFound, http.StatusNotFound, "member_not_found", "member not found"},
	{friendsdomain.ErrRequestNotFound, http.StatusNotFound, "request_not_found", "friend request not found"},
	{ledgerdomain.ErrExpenseNotFound, http.StatusNotFound, "expense_not_found", "expense not found"},
	{ledgerdomain.ErrSplitNotFound, http.StatusNotFound, "split_not_found", "split not found"},
	{ledgerdomain.ErrPaymentNotFound, http.StatusNotFound, "payment_not_found", "payment not found"},
	{ledgerdomain.ErrCategoryNotFound, http.StatusNotFound, "category_not_found", "category not found"},

	{groupsdomain.ErrNotMember, http.StatusForbidden, "not_member", "not a member of this group"},
	{ledgerdomain.ErrNotParticipant, http.StatusForbidden, "not_participant", "not a participant"},
	{friendsdomain.ErrNotAddressee, http.StatusForbidden, "not_addressee", "only the addressee may respond"},

	{usersdomain.ErrEmailTaken, http.StatusConflict, "email_taken", "email already registered"},
	{usersdomain.ErrUsernameTaken, http.StatusConflict, "username_taken", "username already taken"},
	{friendsdomain.ErrAlreadyFriends, http.StatusConflict, "already_friends", "friendship already exists"},
	{groupsdomain.ErrAlreadyMember, http.StatusConflict, "already_member", "user is already a member"},

	{ledgerdomain.ErrSelfPayment, http.StatusBadRequest, "self_payment", "payer and receiver must differ"},
	{ledgerdomain.ErrUnexpectedSplits, http.StatusBadRequest, "unexpected_splits", "personal expenses carry no splits"},
	{ledgerdomain.ErrInvalidInput, http.StatusBadRequest, "invalid_request", "invalid request"},
	{groupsdomain.ErrInvalidInput, http.StatusBadRequest, "invalid_request", "invalid request"},
	{usersdomain.ErrInvalidInput, http.StatusBadRequest, "invalid_request", "invalid request"},
	{ledgerdomain.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount", "amount must be positive"},
	{ledgerdomain.ErrNoParticipants, http.StatusBadRequest, "no_participants", "at least one participant is required"},
	{ledgerdomain.ErrSplitMismatch, http.StatusBadRequest, "split_mismatch", "split amounts do not sum to the total"},
	{friendsdomain.ErrSelfFriendship, http.StatusBadRequest, "self_friendship", "cannot befriend yourself"},
	{usersdomain.ErrQueryTooShort, http.StatusBadRequest, "query_too_short", "search query must be at least 3 characters"},
	{auth.ErrWeakPassword, http.StatusBadRequest, "weak_password", "password must be at least 8 characters"},

	{usersdomain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials", "invalid email or password"},
}

// respondError maps domain failures onto the wire taxonomy: not-found
// 404, authorization 403, conflict 409, validation 400, credential 401,
// everything unexpected 500. Expected failures log at WARN, unexpected
// at ERROR.
func (h *Handlers) respondError(w http.ResponseWriter, op string, err error, args ...any) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			h.log.BusinessError(op, err, args...)
			writeError(w, m.status, m.code, m.message)
			return
		}
	}

	h.log.InternalError(op, err, args...)
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
