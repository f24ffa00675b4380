package handler

import (
	"net/http"
	"strings"
	"time"

	usersdomain "splitledger/internal/domain/users"
	"splitledger/internal/transport/httpserver/middleware"
)

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func toUserResponse(user usersdomain.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Username:  user.Username,
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" ||
		strings.TrimSpace(req.Username) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name, email, username and password are required")
		return
	}

	session, err := h.Users.Register(r.Context(), usersdomain.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.respondError(w, "auth.register failed", err, "email", req.Email)
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse{
		Token: session.Token,
		User:  toUserResponse(session.User),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	session, err := h.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(w, "auth.login failed", err, "email", req.Email)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		Token: session.Token,
		User:  toUserResponse(session.User),
	})
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	user, err := h.Users.GetByID(r.Context(), userID)
	if err != nil {
		h.respondError(w, "auth.me failed", err, "user_id", userID)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(*user))
}

func (h *Handlers) SearchUsers(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	limit, err := parseIntParam(r.URL.Query().Get("limit"), 10)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
		return
	}

	found, err := h.Users.Search(r.Context(), userID, r.URL.Query().Get("q"), limit)
	if err != nil {
		h.respondError(w, "users.search failed", err, "user_id", userID)
		return
	}

	response := make([]userResponse, 0, len(found))
	for _, user := range found {
		response = append(response, toUserResponse(user))
	}
	writeJSON(w, http.StatusOK, response)
}
