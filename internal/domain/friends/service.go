package friends

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"

	"splitledger/internal/domain/users"
)

// UserDirectory resolves users when sending requests and when
// decorating friendships with counterparty details.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*users.User, error)
	GetByEmail(ctx context.Context, email string) (*users.User, error)
	GetByUsername(ctx context.Context, username string) (*users.User, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]users.User, error)
}

type Service struct {
	repo  Repository
	users UserDirectory
}

func NewService(repo Repository, directory UserDirectory) *Service {
	return &Service{repo: repo, users: directory}
}

// SendRequest creates a pending friendship toward the user identified
// by email, username or id. A row in either direction blocks a new one.
func (s *Service) SendRequest(ctx context.Context, requesterID, identifier string) (*Friendship, error) {
	addressee, err := s.resolveUser(ctx, identifier)
	if err != nil {
		return nil, err
	}

	if addressee.ID == requesterID {
		return nil, ErrSelfFriendship
	}

	existing, err := s.repo.GetByPair(ctx, requesterID, addressee.ID)
	if err != nil && !errors.Is(err, ErrRequestNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyFriends
	}

	friendship := Friendship{
		ID:          uuid.NewString(),
		RequesterID: requesterID,
		AddresseeID: addressee.ID,
		Status:      StatusPending,
	}

	if err := s.repo.Create(ctx, &friendship); err != nil {
		return nil, err
	}

	return &friendship, nil
}

// Respond accepts or declines a pending request. Only the addressee
// may respond; declining removes the row so a new request can follow.
func (s *Service) Respond(ctx context.Context, userID, friendshipID string, accept bool) (*Friendship, error) {
	friendship, err := s.repo.GetByID(ctx, friendshipID)
	if err != nil {
		return nil, err
	}

	if friendship.AddresseeID != userID {
		return nil, ErrNotAddressee
	}
	if friendship.Status != StatusPending {
		return nil, ErrRequestNotFound
	}

	if !accept {
		if err := s.repo.Delete(ctx, friendship.ID); err != nil {
			return nil, err
		}
		return friendship, nil
	}

	friendship.Status = StatusAccepted
	if err := s.repo.Update(ctx, friendship); err != nil {
		return nil, err
	}

	return friendship, nil
}

func (s *Service) ListFriends(ctx context.Context, userID string) ([]Friend, error) {
	rows, err := s.repo.ListByUser(ctx, userID, StatusAccepted)
	if err != nil {
		return nil, err
	}

	counterpartyIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		counterpartyIDs = append(counterpartyIDs, counterpartyID(row, userID))
	}

	details, err := s.users.GetByIDs(ctx, counterpartyIDs)
	if err != nil {
		return nil, err
	}

	result := make([]Friend, 0, len(rows))
	for _, row := range rows {
		id := counterpartyID(row, userID)
		user, ok := details[id]
		if !ok {
			continue
		}
		result = append(result, Friend{
			FriendshipID: row.ID,
			UserID:       user.ID,
			Name:         user.Name,
			Username:     user.Username,
			Email:        user.Email,
			Since:        row.UpdatedAt,
		})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (s *Service) ListPendingRequests(ctx context.Context, userID string) ([]PendingRequest, error) {
	rows, err := s.repo.ListIncoming(ctx, userID, StatusPending)
	if err != nil {
		return nil, err
	}

	requesterIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		requesterIDs = append(requesterIDs, row.RequesterID)
	}

	details, err := s.users.GetByIDs(ctx, requesterIDs)
	if err != nil {
		return nil, err
	}

	result := make([]PendingRequest, 0, len(rows))
	for _, row := range rows {
		user, ok := details[row.RequesterID]
		if !ok {
			continue
		}
		result = append(result, PendingRequest{
			FriendshipID: row.ID,
			RequesterID:  user.ID,
			Name:         user.Name,
			Username:     user.Username,
			Email:        user.Email,
			RequestedAt:  row.CreatedAt,
		})
	}

	return result, nil
}

// FriendIDs returns the accepted counterparty ids for a user.
func (s *Service) FriendIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.repo.ListByUser(ctx, userID, StatusAccepted)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, counterpartyID(row, userID))
	}
	return ids, nil
}

func (s *Service) resolveUser(ctx context.Context, identifier string) (*users.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, users.ErrUserNotFound
	}

	if strings.Contains(identifier, "@") {
		return s.users.GetByEmail(ctx, strings.ToLower(identifier))
	}

	if user, err := s.users.GetByUsername(ctx, strings.ToLower(identifier)); err == nil {
		return user, nil
	} else if !errors.Is(err, users.ErrUserNotFound) {
		return nil, err
	}

	return s.users.GetByID(ctx, identifier)
}

func counterpartyID(row Friendship, userID string) string {
	if row.RequesterID == userID {
		return row.AddresseeID
	}
	return row.RequesterID
}
