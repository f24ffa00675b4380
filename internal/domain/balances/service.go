package balances

import (
	"context"

	"splitledger/internal/domain/groups"
	"splitledger/internal/domain/users"
	"splitledger/pkg/logger"
)

// UserDirectory resolves counterparty details for friend balances.
type UserDirectory interface {
	GetByIDs(ctx context.Context, ids []string) (map[string]users.User, error)
}

// GroupReader is the slice of the groups service balance views need.
type GroupReader interface {
	Get(ctx context.Context, userID, groupID string) (*groups.Group, error)
	MemberIDs(ctx context.Context, groupID string) ([]string, error)
}

type Service struct {
	repo   Repository
	users  UserDirectory
	groups GroupReader
	log    logger.Logger
}

func NewService(repo Repository, directory UserDirectory, groupReader GroupReader, log logger.Logger) *Service {
	return &Service{repo: repo, users: directory, groups: groupReader, log: log}
}

// FriendBalances computes the subject's signed balances and resolves
// each counterparty. A counterparty whose user record is gone is
// skipped and counted rather than failing the whole view.
func (s *Service) FriendBalances(ctx context.Context, userID string) (*FriendBalancesResult, error) {
	shares, err := s.repo.ListSharesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	signed := ComputeFriendBalances(userID, shares)

	ids := make([]string, 0, len(signed))
	for _, balance := range signed {
		ids = append(ids, balance.UserID)
	}

	details, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := &FriendBalancesResult{Balances: make([]FriendBalance, 0, len(signed))}
	for _, balance := range signed {
		user, ok := details[balance.UserID]
		if !ok {
			result.Skipped++
			s.log.Warn("balances: skipping unresolvable counterparty", "user_id", balance.UserID)
			continue
		}
		result.Balances = append(result.Balances, FriendBalance{
			UserID:   user.ID,
			Name:     user.Name,
			Username: user.Username,
			Email:    user.Email,
			Amount:   balance.Amount,
		})
	}

	return result, nil
}

// GroupBalances returns the group's settlement edges, simplified or raw
// depending on the group's flag. Membership is enforced by the group
// read.
func (s *Service) GroupBalances(ctx context.Context, userID, groupID string) ([]SettlementEdge, error) {
	group, err := s.groups.Get(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}

	memberIDs, err := s.groups.MemberIDs(ctx, groupID)
	if err != nil {
		return nil, err
	}

	shares, err := s.repo.ListSharesByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	transfers, err := s.repo.ListTransfersAmong(ctx, memberIDs)
	if err != nil {
		return nil, err
	}

	return ComputeGroupBalances(memberIDs, shares, transfers, group.SimplifyDebts), nil
}

func (s *Service) Overview(ctx context.Context, userID string) (*Overview, error) {
	shares, err := s.repo.ListSharesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	overview := ComputeOverview(userID, shares)
	return &overview, nil
}
