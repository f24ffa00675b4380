package friends

import (
	"context"
	"errors"
	"testing"

	"splitledger/internal/domain/users"
)

type fakeFriendsRepo struct {
	rows map[string]*Friendship
}

func newFakeFriendsRepo() *fakeFriendsRepo {
	return &fakeFriendsRepo{rows: make(map[string]*Friendship)}
}

func (r *fakeFriendsRepo) Create(ctx context.Context, friendship *Friendship) error {
	r.rows[friendship.ID] = friendship
	return nil
}

func (r *fakeFriendsRepo) GetByID(ctx context.Context, id string) (*Friendship, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, ErrRequestNotFound
	}
	return row, nil
}

func (r *fakeFriendsRepo) GetByPair(ctx context.Context, userA, userB string) (*Friendship, error) {
	for _, row := range r.rows {
		if (row.RequesterID == userA && row.AddresseeID == userB) ||
			(row.RequesterID == userB && row.AddresseeID == userA) {
			return row, nil
		}
	}
	return nil, ErrRequestNotFound
}

func (r *fakeFriendsRepo) Update(ctx context.Context, friendship *Friendship) error {
	if _, ok := r.rows[friendship.ID]; !ok {
		return ErrRequestNotFound
	}
	r.rows[friendship.ID] = friendship
	return nil
}

func (r *fakeFriendsRepo) Delete(ctx context.Context, id string) error {
	delete(r.rows, id)
	return nil
}

func (r *fakeFriendsRepo) ListByUser(ctx context.Context, userID string, status Status) ([]Friendship, error) {
	result := make([]Friendship, 0)
	for _, row := range r.rows {
		if row.Status != status {
			continue
		}
		if row.RequesterID == userID || row.AddresseeID == userID {
			result = append(result, *row)
		}
	}
	return result, nil
}

func (r *fakeFriendsRepo) ListIncoming(ctx context.Context, addresseeID string, status Status) ([]Friendship, error) {
	result := make([]Friendship, 0)
	for _, row := range r.rows {
		if row.Status == status && row.AddresseeID == addresseeID {
			result = append(result, *row)
		}
	}
	return result, nil
}

type fakeDirectory struct {
	users map[string]users.User
}

func newFakeDirectory(list ...users.User) *fakeDirectory {
	d := &fakeDirectory{users: make(map[string]users.User)}
	for _, user := range list {
		d.users[user.ID] = user
	}
	return d
}

func (d *fakeDirectory) GetByID(ctx context.Context, id string) (*users.User, error) {
	user, ok := d.users[id]
	if !ok {
		return nil, users.ErrUserNotFound
	}
	return &user, nil
}

func (d *fakeDirectory) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	for _, user := range d.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, users.ErrUserNotFound
}

func (d *fakeDirectory) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	for _, user := range d.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, users.ErrUserNotFound
}

func (d *fakeDirectory) GetByIDs(ctx context.Context, ids []string) (map[string]users.User, error) {
	result := make(map[string]users.User, len(ids))
	for _, id := range ids {
		if user, ok := d.users[id]; ok {
			result[id] = user
		}
	}
	return result, nil
}

var (
	alice = users.User{ID: "u-alice", Name: "Alice", Username: "alice", Email: "alice@example.com"}
	bob   = users.User{ID: "u-bob", Name: "Bob", Username: "bob", Email: "bob@example.com"}
)

func TestSendRequestByEmailAndUsername(t *testing.T) {
	repo := newFakeFriendsRepo()
	service := NewService(repo, newFakeDirectory(alice, bob))
	ctx := context.Background()

	request, err := service.SendRequest(ctx, alice.ID, "bob@example.com")
	if err != nil {
		t.Fatalf("send request: %v", err)
	}
	if request.Status != StatusPending {
		t.Fatalf("expected PENDING, got %s", request.Status)
	}
	if request.RequesterID != alice.ID || request.AddresseeID != bob.ID {
		t.Fatalf("unexpected direction: %+v", request)
	}

	if _, err := service.SendRequest(ctx, alice.ID, "nosuch"); !errors.Is(err, users.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestSendRequestRejectsSelfAndDuplicates(t *testing.T) {
	repo := newFakeFriendsRepo()
	service := NewService(repo, newFakeDirectory(alice, bob))
	ctx := context.Background()

	if _, err := service.SendRequest(ctx, alice.ID, "alice"); !errors.Is(err, ErrSelfFriendship) {
		t.Fatalf("expected ErrSelfFriendship, got %v", err)
	}

	if _, err := service.SendRequest(ctx, alice.ID, "bob"); err != nil {
		t.Fatalf("send request: %v", err)
	}
	if _, err := service.SendRequest(ctx, alice.ID, "bob"); !errors.Is(err, ErrAlreadyFriends) {
		t.Fatalf("expected ErrAlreadyFriends, got %v", err)
	}
	// The reverse direction is blocked by the same canonical row.
	if _, err := service.SendRequest(ctx, bob.ID, "alice"); !errors.Is(err, ErrAlreadyFriends) {
		t.Fatalf("expected ErrAlreadyFriends for reverse edge, got %v", err)
	}
}

func TestRespond(t *testing.T) {
	repo := newFakeFriendsRepo()
	service := NewService(repo, newFakeDirectory(alice, bob))
	ctx := context.Background()

	request, err := service.SendRequest(ctx, alice.ID, "bob")
	if err != nil {
		t.Fatalf("send request: %v", err)
	}

	// Requester cannot accept their own request.
	if _, err := service.Respond(ctx, alice.ID, request.ID, true); !errors.Is(err, ErrNotAddressee) {
		t.Fatalf("expected ErrNotAddressee, got %v", err)
	}

	accepted, err := service.Respond(ctx, bob.ID, request.ID, true)
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if accepted.Status != StatusAccepted {
		t.Fatalf("expected ACCEPTED, got %s", accepted.Status)
	}

	friendsOfBob, err := service.ListFriends(ctx, bob.ID)
	if err != nil {
		t.Fatalf("list friends: %v", err)
	}
	if len(friendsOfBob) != 1 || friendsOfBob[0].UserID != alice.ID {
		t.Fatalf("expected alice as bob's friend, got %+v", friendsOfBob)
	}
}

func TestDeclineRemovesRow(t *testing.T) {
	repo := newFakeFriendsRepo()
	service := NewService(repo, newFakeDirectory(alice, bob))
	ctx := context.Background()

	request, err := service.SendRequest(ctx, alice.ID, "bob")
	if err != nil {
		t.Fatalf("send request: %v", err)
	}

	if _, err := service.Respond(ctx, bob.ID, request.ID, false); err != nil {
		t.Fatalf("decline: %v", err)
	}

	// A declined request no longer blocks a new one.
	if _, err := service.SendRequest(ctx, bob.ID, "alice"); err != nil {
		t.Fatalf("resend after decline: %v", err)
	}
}

func TestListPendingRequests(t *testing.T) {
	repo := newFakeFriendsRepo()
	service := NewService(repo, newFakeDirectory(alice, bob))
	ctx := context.Background()

	if _, err := service.SendRequest(ctx, alice.ID, "bob"); err != nil {
		t.Fatalf("send request: %v", err)
	}

	incoming, err := service.ListPendingRequests(ctx, bob.ID)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(incoming) != 1 || incoming[0].RequesterID != alice.ID {
		t.Fatalf("expected alice's request, got %+v", incoming)
	}

	// Outgoing requests are not in the requester's inbox.
	outgoing, err := service.ListPendingRequests(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(outgoing) != 0 {
		t.Fatalf("expected no incoming requests for alice, got %+v", outgoing)
	}
}
