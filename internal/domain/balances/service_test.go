package balances

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"splitledger/internal/domain/groups"
	"splitledger/internal/domain/users"
	"splitledger/pkg/logger"
)

type fakeBalancesRepo struct {
	shares    []ShareRecord
	transfers []Transfer
}

func (r *fakeBalancesRepo) ListSharesByUser(ctx context.Context, userID string) ([]ShareRecord, error) {
	result := make([]ShareRecord, 0)
	for _, share := range r.shares {
		if share.PayerID == userID || share.DebtorID == userID {
			result = append(result, share)
		}
	}
	return result, nil
}

func (r *fakeBalancesRepo) ListSharesByGroup(ctx context.Context, groupID string) ([]ShareRecord, error) {
	result := make([]ShareRecord, 0)
	for _, share := range r.shares {
		if share.GroupID == groupID {
			result = append(result, share)
		}
	}
	return result, nil
}

func (r *fakeBalancesRepo) ListTransfersAmong(ctx context.Context, userIDs []string) ([]Transfer, error) {
	members := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		members[id] = struct{}{}
	}

	result := make([]Transfer, 0)
	for _, transfer := range r.transfers {
		_, payerIn := members[transfer.PayerID]
		_, receiverIn := members[transfer.ReceiverID]
		if payerIn && receiverIn {
			result = append(result, transfer)
		}
	}
	return result, nil
}

type fakeBalanceDirectory struct {
	users map[string]users.User
}

func (d *fakeBalanceDirectory) GetByIDs(ctx context.Context, ids []string) (map[string]users.User, error) {
	result := make(map[string]users.User, len(ids))
	for _, id := range ids {
		if user, ok := d.users[id]; ok {
			result[id] = user
		}
	}
	return result, nil
}

type fakeGroupReader struct {
	group   *groups.Group
	members []string
}

func (g *fakeGroupReader) Get(ctx context.Context, userID, groupID string) (*groups.Group, error) {
	if g.group == nil || g.group.ID != groupID {
		return nil, groups.ErrGroupNotFound
	}
	for _, member := range g.members {
		if member == userID {
			return g.group, nil
		}
	}
	return nil, groups.ErrNotMember
}

func (g *fakeGroupReader) MemberIDs(ctx context.Context, groupID string) ([]string, error) {
	return g.members, nil
}

func testLogger() logger.Logger {
	return logger.New(io.Discard, slog.LevelError, "text")
}

func TestFriendBalancesResolvesCounterparties(t *testing.T) {
	repo := &fakeBalancesRepo{shares: []ShareRecord{
		{ExpenseID: "e1", PayerID: "alice", DebtorID: "bob", Amount: 100},
	}}
	directory := &fakeBalanceDirectory{users: map[string]users.User{
		"bob": {ID: "bob", Name: "Bob", Username: "bob", Email: "bob@example.com"},
	}}
	service := NewService(repo, directory, &fakeGroupReader{}, testLogger())

	result, err := service.FriendBalances(context.Background(), "alice")
	if err != nil {
		t.Fatalf("friend balances: %v", err)
	}
	if result.Skipped != 0 {
		t.Fatalf("expected no skips, got %d", result.Skipped)
	}
	if len(result.Balances) != 1 || result.Balances[0].Name != "Bob" || result.Balances[0].Amount != 100 {
		t.Fatalf("unexpected balances %+v", result.Balances)
	}
}

func TestFriendBalancesSkipsUnresolvable(t *testing.T) {
	repo := &fakeBalancesRepo{shares: []ShareRecord{
		{ExpenseID: "e1", PayerID: "alice", DebtorID: "ghost", Amount: 40},
		{ExpenseID: "e2", PayerID: "alice", DebtorID: "bob", Amount: 10},
	}}
	directory := &fakeBalanceDirectory{users: map[string]users.User{
		"bob": {ID: "bob", Name: "Bob"},
	}}
	service := NewService(repo, directory, &fakeGroupReader{}, testLogger())

	result, err := service.FriendBalances(context.Background(), "alice")
	if err != nil {
		t.Fatalf("friend balances: %v", err)
	}
	if result.Skipped != 1 {
		t.Fatalf("expected 1 skip, got %d", result.Skipped)
	}
	if len(result.Balances) != 1 || result.Balances[0].UserID != "bob" {
		t.Fatalf("expected only bob, got %+v", result.Balances)
	}
}

func TestGroupBalancesHonorsSimplifyFlag(t *testing.T) {
	shares := []ShareRecord{
		{ExpenseID: "e1", PayerID: "bob", DebtorID: "alice", Amount: 10, GroupID: "g"},
		{ExpenseID: "e2", PayerID: "charlie", DebtorID: "bob", Amount: 10, GroupID: "g"},
	}
	repo := &fakeBalancesRepo{shares: shares}
	reader := &fakeGroupReader{
		group:   &groups.Group{ID: "g", Name: "Trip"},
		members: []string{"alice", "bob", "charlie"},
	}
	service := NewService(repo, &fakeBalanceDirectory{}, reader, testLogger())
	ctx := context.Background()

	raw, err := service.GroupBalances(ctx, "alice", "g")
	if err != nil {
		t.Fatalf("group balances: %v", err)
	}
	if len(raw) != 2 {
		t.Fatalf("expected 2 raw edges, got %+v", raw)
	}

	reader.group.SimplifyDebts = true
	simplified, err := service.GroupBalances(ctx, "alice", "g")
	if err != nil {
		t.Fatalf("group balances: %v", err)
	}
	if len(simplified) != 1 {
		t.Fatalf("expected 1 simplified edge, got %+v", simplified)
	}
}

func TestGroupBalancesNetsPaymentsWithoutGroupTag(t *testing.T) {
	repo := &fakeBalancesRepo{
		shares: []ShareRecord{
			{ExpenseID: "e1", PayerID: "alice", DebtorID: "bob", Amount: 25, GroupID: "g"},
		},
		// Direct repayment recorded without any group reference.
		transfers: []Transfer{
			{PayerID: "bob", ReceiverID: "alice", Amount: 25},
		},
	}
	reader := &fakeGroupReader{
		group:   &groups.Group{ID: "g", Name: "Trip"},
		members: []string{"alice", "bob"},
	}
	service := NewService(repo, &fakeBalanceDirectory{}, reader, testLogger())

	edges, err := service.GroupBalances(context.Background(), "alice", "g")
	if err != nil {
		t.Fatalf("group balances: %v", err)
	}
	if len(edges) != 0 {
		t.Fatalf("expected settled group, got %+v", edges)
	}
}

func TestGroupBalancesIgnoresOutsiderPayments(t *testing.T) {
	repo := &fakeBalancesRepo{
		shares: []ShareRecord{
			{ExpenseID: "e1", PayerID: "alice", DebtorID: "bob", Amount: 25, GroupID: "g"},
		},
		transfers: []Transfer{
			{PayerID: "bob", ReceiverID: "mallory", Amount: 25},
		},
	}
	reader := &fakeGroupReader{
		group:   &groups.Group{ID: "g", Name: "Trip"},
		members: []string{"alice", "bob"},
	}
	service := NewService(repo, &fakeBalanceDirectory{}, reader, testLogger())

	edges, err := service.GroupBalances(context.Background(), "alice", "g")
	if err != nil {
		t.Fatalf("group balances: %v", err)
	}
	if len(edges) != 1 || edges[0].FromUserID != "bob" || edges[0].ToUserID != "alice" || edges[0].Amount != 25 {
		t.Fatalf("expected bob -> alice 25, got %+v", edges)
	}
}

func TestGroupBalancesRequiresMembership(t *testing.T) {
	reader := &fakeGroupReader{
		group:   &groups.Group{ID: "g", Name: "Trip"},
		members: []string{"alice"},
	}
	service := NewService(&fakeBalancesRepo{}, &fakeBalanceDirectory{}, reader, testLogger())

	if _, err := service.GroupBalances(context.Background(), "mallory", "g"); !errors.Is(err, groups.ErrNotMember) {
		t.Fatalf("expected ErrNotMember, got %v", err)
	}
}
