package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	ledgerdomain "splitledger/internal/domain/ledger"
	"splitledger/internal/transport/httpserver/middleware"
)

type splitResponse struct {
	ID         string   `json:"id"`
	ExpenseID  string   `json:"expense_id"`
	DebtorID   string   `json:"debtor_id"`
	Amount     float64  `json:"amount"`
	Method     string   `json:"method"`
	Percentage *float64 `json:"percentage,omitempty"`
	IsPaid     bool     `json:"is_paid"`
}

type expenseResponse struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	Currency    string          `json:"currency"`
	PayerID     string          `json:"payer_id"`
	GroupID     *string         `json:"group_id,omitempty"`
	CategoryID  *string         `json:"category_id,omitempty"`
	Note        *string         `json:"note,omitempty"`
	SpentAt     time.Time       `json:"spent_at"`
	CreatedAt   time.Time       `json:"created_at"`
	Splits      []splitResponse `json:"splits"`
}

func toExpenseResponse(e ledgerdomain.ExpenseWithSplits) expenseResponse {
	splits := make([]splitResponse, 0, len(e.Splits))
	for _, s := range e.Splits {
		splits = append(splits, splitResponse{
			ID:         s.ID,
			ExpenseID:  s.ExpenseID,
			DebtorID:   s.DebtorID,
			Amount:     s.Amount,
			Method:     string(s.Method),
			Percentage: s.Percentage,
			IsPaid:     s.IsPaid,
		})
	}
	return expenseResponse{
		ID:          e.ID,
		Type:        string(e.Type),
		Description: e.Description,
		Amount:      e.Amount,
		Currency:    e.Currency,
		PayerID:     e.PayerID,
		GroupID:     e.GroupID,
		CategoryID:  e.CategoryID,
		Note:        e.Note,
		SpentAt:     e.SpentAt,
		CreatedAt:   e.CreatedAt,
		Splits:      splits,
	}
}

func toExpenseResponses(expenses []ledgerdomain.ExpenseWithSplits) []expenseResponse {
	response := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		response = append(response, toExpenseResponse(e))
	}
	return response
}

type shareRequest struct {
	UserID     string  `json:"user_id"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

type createExpenseRequest struct {
	Type         string         `json:"type"`
	Description  string         `json:"description"`
	Amount       float64        `json:"amount"`
	Currency     string         `json:"currency"`
	GroupID      *string        `json:"group_id"`
	CategoryID   *string        `json:"category_id"`
	Note         *string        `json:"note"`
	SpentAt      *time.Time     `json:"spent_at"`
	Method       string         `json:"method"`
	Participants []shareRequest `json:"participants"`
}

func (h *Handlers) CreateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req createExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	expenseType := ledgerdomain.ExpenseType(strings.ToUpper(strings.TrimSpace(req.Type)))
	if expenseType != ledgerdomain.TypePersonal && expenseType != ledgerdomain.TypeSplit {
		writeError(w, http.StatusBadRequest, "invalid_request", "type must be PERSONAL or SPLIT")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "description is required")
		return
	}

	var method ledgerdomain.SplitMethod
	if expenseType == ledgerdomain.TypeSplit {
		method = ledgerdomain.SplitMethod(strings.ToUpper(strings.TrimSpace(req.Method)))
		switch method {
		case ledgerdomain.MethodEqual, ledgerdomain.MethodExact, ledgerdomain.MethodPercentage:
		default:
			writeError(w, http.StatusBadRequest, "invalid_request", "method must be EQUAL, EXACT or PERCENTAGE")
			return
		}
	}

	spentAt := time.Now().UTC()
	if req.SpentAt != nil {
		spentAt = *req.SpentAt
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = h.defaultCurrency
	}

	participants := make([]ledgerdomain.ShareInput, 0, len(req.Participants))
	for _, p := range req.Participants {
		participants = append(participants, ledgerdomain.ShareInput{
			UserID:     p.UserID,
			Amount:     p.Amount,
			Percentage: p.Percentage,
		})
	}

	expense, err := h.Ledger.CreateExpense(r.Context(), ledgerdomain.CreateExpenseInput{
		Type:         expenseType,
		Description:  req.Description,
		Amount:       req.Amount,
		Currency:     currency,
		PayerID:      userID,
		GroupID:      req.GroupID,
		CategoryID:   req.CategoryID,
		Note:         req.Note,
		SpentAt:      spentAt,
		Method:       method,
		Participants: participants,
	})
	if err != nil {
		h.respondError(w, "ledger.create expense failed", err, "user_id", userID)
		return
	}

	writeJSON(w, http.StatusCreated, toExpenseResponse(*expense))
}

func (h *Handlers) ListExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	filter, ok := listFilterFromQuery(w, r)
	if !ok {
		return
	}

	expenses, err := h.Ledger.ListUserExpenses(r.Context(), userID, filter)
	if err != nil {
		h.respondError(w, "ledger.list expenses failed", err, "user_id", userID)
		return
	}

	writeJSON(w, http.StatusOK, toExpenseResponses(expenses))
}

func (h *Handlers) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	expenseID := chi.URLParam(r, "expenseID")
	if err := h.Ledger.DeleteExpense(r.Context(), userID, expenseID); err != nil {
		h.respondError(w, "ledger.delete expense failed", err, "user_id", userID, "expense_id", expenseID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) SettleSplit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	splitID := chi.URLParam(r, "splitID")
	split, err := h.Ledger.SettleSplit(r.Context(), userID, splitID)
	if err != nil {
		h.respondError(w, "ledger.settle split failed", err, "user_id", userID, "split_id", splitID)
		return
	}

	writeJSON(w, http.StatusOK, splitResponse{
		ID:         split.ID,
		ExpenseID:  split.ExpenseID,
		DebtorID:   split.DebtorID,
		Amount:     split.Amount,
		Method:     string(split.Method),
		Percentage: split.Percentage,
		IsPaid:     split.IsPaid,
	})
}

func (h *Handlers) Activity(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	limit, err := parseIntParam(r.URL.Query().Get("limit"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
		return
	}

	expenses, err := h.Ledger.ActivityLog(r.Context(), userID, limit)
	if err != nil {
		h.respondError(w, "ledger.activity failed", err, "user_id", userID)
		return
	}

	writeJSON(w, http.StatusOK, toExpenseResponses(expenses))
}

type categoryResponse struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Icon  *string `json:"icon,omitempty"`
	Color *string `json:"color,omitempty"`
}

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Ledger.ListCategories(r.Context())
	if err != nil {
		h.respondError(w, "ledger.list categories failed", err)
		return
	}

	response := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		response = append(response, categoryResponse{ID: c.ID, Label: c.Label, Icon: c.Icon, Color: c.Color})
	}
	writeJSON(w, http.StatusOK, response)
}

type createCategoryRequest struct {
	Label string  `json:"label"`
	Icon  *string `json:"icon"`
	Color *string `json:"color"`
}

func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if strings.TrimSpace(req.Label) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "label is required")
		return
	}

	category, err := h.Ledger.CreateCategory(r.Context(), ledgerdomain.CreateCategoryInput{
		Label: req.Label,
		Icon:  req.Icon,
		Color: req.Color,
	})
	if err != nil {
		h.respondError(w, "ledger.create category failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, categoryResponse{
		ID:    category.ID,
		Label: category.Label,
		Icon:  category.Icon,
		Color: category.Color,
	})
}
