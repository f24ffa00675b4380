package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"splitledger/internal/auth"
)

const minSearchQueryLength = 3

type Service struct {
	repo   Repository
	tokens *auth.TokenManager
}

func NewService(repo Repository, tokens *auth.TokenManager) *Service {
	return &Service{repo: repo, tokens: tokens}
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)
	username := strings.ToLower(strings.TrimSpace(input.Username))

	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if err := auth.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	} else if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	if existing, err := s.repo.GetByUsername(ctx, username); err == nil && existing != nil {
		return nil, ErrUsernameTaken
	} else if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Username:     username,
		PasswordHash: hash,
	}

	if err := s.repo.Create(ctx, &user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &Session{User: user, Token: token}, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &Session{User: *user, Token: token}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, normalizeEmail(email))
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*User, error) {
	return s.repo.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
}

func (s *Service) GetByIDs(ctx context.Context, ids []string) (map[string]User, error) {
	found, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]User, len(found))
	for _, user := range found {
		byID[user.ID] = user
	}
	return byID, nil
}

// Search matches email or username prefixes, excluding the searching
// user from the results.
func (s *Service) Search(ctx context.Context, userID, query string, limit int) ([]User, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if len([]rune(query)) < minSearchQueryLength {
		return nil, ErrQueryTooShort
	}
	if limit <= 0 || limit > 25 {
		limit = 10
	}

	return s.repo.Search(ctx, query, userID, limit)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
