package handler

import (
	"net/http"
	"time"

	"splitledger/internal/transport/httpserver/middleware"
)

type dayStatResponse struct {
	Date             string  `json:"date"`
	Personal         float64 `json:"personal"`
	Borrowed         float64 `json:"borrowed"`
	Lent             float64 `json:"lent"`
	TotalExpenditure float64 `json:"total_expenditure"`
}

type statsResponse struct {
	From             time.Time         `json:"from"`
	To               time.Time         `json:"to"`
	Personal         float64           `json:"personal"`
	Borrowed         float64           `json:"borrowed"`
	Lent             float64           `json:"lent"`
	TotalExpenditure float64           `json:"total_expenditure"`
	Days             []dayStatResponse `json:"days"`
}

func (h *Handlers) MonthlyStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	ref, err := parseMonthParam(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "month must be YYYY-MM")
		return
	}

	stats, err := h.Stats.MonthlyStats(r.Context(), userID, ref)
	if err != nil {
		h.respondError(w, "stats.monthly failed", err, "user_id", userID)
		return
	}

	days := make([]dayStatResponse, 0, len(stats.Days))
	for _, d := range stats.Days {
		days = append(days, dayStatResponse{
			Date:             d.Date,
			Personal:         d.Personal,
			Borrowed:         d.Borrowed,
			Lent:             d.Lent,
			TotalExpenditure: d.TotalExpenditure,
		})
	}
	writeJSON(w, http.StatusOK, statsResponse{
		From:             stats.From,
		To:               stats.To,
		Personal:         stats.Personal,
		Borrowed:         stats.Borrowed,
		Lent:             stats.Lent,
		TotalExpenditure: stats.TotalExpenditure,
		Days:             days,
	})
}

type breakdownEntryResponse struct {
	Kind        string  `json:"kind"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type breakdownDayResponse struct {
	Date    string                   `json:"date"`
	Total   float64                  `json:"total"`
	Entries []breakdownEntryResponse `json:"entries"`
}

func (h *Handlers) MonthlyBreakdown(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	ref, err := parseMonthParam(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "month must be YYYY-MM")
		return
	}

	days, err := h.Stats.MonthlyBreakdown(r.Context(), userID, ref)
	if err != nil {
		h.respondError(w, "stats.breakdown failed", err, "user_id", userID)
		return
	}

	response := make([]breakdownDayResponse, 0, len(days))
	for _, d := range days {
		entries := make([]breakdownEntryResponse, 0, len(d.Entries))
		for _, e := range d.Entries {
			entries = append(entries, breakdownEntryResponse{
				Kind:        e.Kind,
				Description: e.Description,
				Amount:      e.Amount,
			})
		}
		response = append(response, breakdownDayResponse{Date: d.Date, Total: d.Total, Entries: entries})
	}
	writeJSON(w, http.StatusOK, response)
}

type overviewResponse struct {
	YouOwe       float64 `json:"you_owe"`
	YouAreOwed   float64 `json:"you_are_owed"`
	TotalBalance float64 `json:"total_balance"`
}

func (h *Handlers) BalanceOverview(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	overview, err := h.Balances.Overview(r.Context(), userID)
	if err != nil {
		h.respondError(w, "balances.overview failed", err, "user_id", userID)
		return
	}

	writeJSON(w, http.StatusOK, overviewResponse{
		YouOwe:       overview.YouOwe,
		YouAreOwed:   overview.YouAreOwed,
		TotalBalance: overview.TotalBalance,
	})
}
