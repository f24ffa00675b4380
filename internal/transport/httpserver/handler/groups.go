package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	groupsdomain "splitledger/internal/domain/groups"
	ledgerdomain "splitledger/internal/domain/ledger"
	"splitledger/internal/transport/httpserver/middleware"
)

type groupResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description,omitempty"`
	SimplifyDebts bool      `json:"simplify_debts"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

func toGroupResponse(g groupsdomain.Group) groupResponse {
	return groupResponse{
		ID:            g.ID,
		Name:          g.Name,
		Description:   g.Description,
		SimplifyDebts: g.SimplifyDebts,
		CreatedBy:     g.CreatedBy,
		CreatedAt:     g.CreatedAt,
	}
}

type createGroupRequest struct {
	Name          string  `json:"name"`
	Description   *string `json:"description"`
	SimplifyDebts bool    `json:"simplify_debts"`
}

func (h *Handlers) CreateGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	group, err := h.Groups.Create(r.Context(), userID, groupsdomain.CreateGroupInput{
		Name:          req.Name,
		Description:   req.Description,
		SimplifyDebts: req.SimplifyDebts,
	})
	if err != nil {
		h.respondError(w, "groups.create failed", err, "user_id", userID)
		return
	}

	writeJSON(w, http.StatusCreated, toGroupResponse(*group))
}

func (h *Handlers) ListGroups(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	groups, err := h.Groups.ListByUser(r.Context(), userID)
	if err != nil {
		h.respondError(w, "groups.list failed", err, "user_id", userID)
		return
	}

	response := make([]groupResponse, 0, len(groups))
	for _, g := range groups {
		response = append(response, toGroupResponse(g))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) GetGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	groupID := chi.URLParam(r, "groupID")
	group, err := h.Groups.Get(r.Context(), userID, groupID)
	if err != nil {
		h.respondError(w, "groups.get failed", err, "user_id", userID, "group_id", groupID)
		return
	}

	writeJSON(w, http.StatusOK, toGroupResponse(*group))
}

type updateGroupRequest struct {
	Name          *string         `json:"name"`
	Description   json.RawMessage `json:"description"`
	SimplifyDebts *bool           `json:"simplify_debts"`
}

func (h *Handlers) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req updateGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	input := groupsdomain.UpdateGroupInput{
		Name:          req.Name,
		SimplifyDebts: req.SimplifyDebts,
	}
	if len(req.Description) > 0 {
		var description *string
		if err := json.Unmarshal(req.Description, &description); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "description must be a string or null")
			return
		}
		input.Description = groupsdomain.OptionalString{Set: true, Value: description}
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name cannot be empty")
		return
	}

	groupID := chi.URLParam(r, "groupID")
	group, err := h.Groups.Update(r.Context(), userID, groupID, input)
	if err != nil {
		h.respondError(w, "groups.update failed", err, "user_id", userID, "group_id", groupID)
		return
	}

	writeJSON(w, http.StatusOK, toGroupResponse(*group))
}

func (h *Handlers) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	groupID := chi.URLParam(r, "groupID")
	if err := h.Groups.Delete(r.Context(), userID, groupID); err != nil {
		h.respondError(w, "groups.delete failed", err, "user_id", userID, "group_id", groupID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type addMemberRequest struct {
	Email string `json:"email"`
}

type memberResponse struct {
	ID       string    `json:"id"`
	GroupID  string    `json:"group_id"`
	UserID   string    `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

func (h *Handlers) AddGroupMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req addMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "email is required")
		return
	}

	groupID := chi.URLParam(r, "groupID")
	member, err := h.Groups.AddMemberByEmail(r.Context(), userID, groupID, req.Email)
	if err != nil {
		h.respondError(w, "groups.add member failed", err, "user_id", userID, "group_id", groupID)
		return
	}

	writeJSON(w, http.StatusCreated, memberResponse{
		ID:       member.ID,
		GroupID:  member.GroupID,
		UserID:   member.UserID,
		Role:     string(member.Role),
		JoinedAt: member.JoinedAt,
	})
}

func (h *Handlers) RemoveGroupMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	groupID := chi.URLParam(r, "groupID")
	removeUserID := chi.URLParam(r, "userID")
	if err := h.Groups.RemoveMember(r.Context(), userID, groupID, removeUserID); err != nil {
		h.respondError(w, "groups.remove member failed", err,
			"user_id", userID, "group_id", groupID, "remove_user_id", removeUserID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type memberDetailResponse struct {
	UserID   string    `json:"user_id"`
	Name     string    `json:"name"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

func (h *Handlers) ListGroupMembers(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	groupID := chi.URLParam(r, "groupID")
	members, err := h.Groups.ListMembers(r.Context(), userID, groupID)
	if err != nil {
		h.respondError(w, "groups.list members failed", err, "user_id", userID, "group_id", groupID)
		return
	}

	response := make([]memberDetailResponse, 0, len(members))
	for _, m := range members {
		response = append(response, memberDetailResponse{
			UserID:   m.UserID,
			Name:     m.Name,
			Username: m.Username,
			Email:    m.Email,
			Role:     string(m.Role),
			JoinedAt: m.JoinedAt,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) ListGroupExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	filter, ok := listFilterFromQuery(w, r)
	if !ok {
		return
	}

	groupID := chi.URLParam(r, "groupID")
	expenses, err := h.Ledger.ListGroupExpenses(r.Context(), userID, groupID, filter)
	if err != nil {
		h.respondError(w, "ledger.list group expenses failed", err, "user_id", userID, "group_id", groupID)
		return
	}

	writeJSON(w, http.StatusOK, toExpenseResponses(expenses))
}

type settlementEdgeResponse struct {
	FromUserID string  `json:"from_user_id"`
	ToUserID   string  `json:"to_user_id"`
	Amount     float64 `json:"amount"`
}

func (h *Handlers) GroupBalances(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	groupID := chi.URLParam(r, "groupID")
	edges, err := h.Balances.GroupBalances(r.Context(), userID, groupID)
	if err != nil {
		h.respondError(w, "balances.group failed", err, "user_id", userID, "group_id", groupID)
		return
	}

	response := make([]settlementEdgeResponse, 0, len(edges))
	for _, e := range edges {
		response = append(response, settlementEdgeResponse{
			FromUserID: e.FromUserID,
			ToUserID:   e.ToUserID,
			Amount:     e.Amount,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func listFilterFromQuery(w http.ResponseWriter, r *http.Request) (ledgerdomain.ListFilter, bool) {
	from, err := parseDateParam(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "from must be YYYY-MM-DD")
		return ledgerdomain.ListFilter{}, false
	}
	to, err := parseDateParam(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "to must be YYYY-MM-DD")
		return ledgerdomain.ListFilter{}, false
	}
	limit, err := parseIntParam(r.URL.Query().Get("limit"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
		return ledgerdomain.ListFilter{}, false
	}
	offset, err := parseIntParam(r.URL.Query().Get("offset"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid offset")
		return ledgerdomain.ListFilter{}, false
	}
	return ledgerdomain.ListFilter{From: from, To: to, Limit: limit, Offset: offset}, true
}
