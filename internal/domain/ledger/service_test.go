package ledger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"testing"

	"splitledger/internal/domain/groups"
	"splitledger/internal/events"
	"splitledger/pkg/logger"
)

type fakeLedgerRepo struct {
	expenses   map[string]*Expense
	splits     map[string]*ExpenseSplit
	payments   map[string]*Payment
	categories map[string]*Category
	failSplits bool
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{
		expenses:   make(map[string]*Expense),
		splits:     make(map[string]*ExpenseSplit),
		payments:   make(map[string]*Payment),
		categories: make(map[string]*Category),
	}
}

func (r *fakeLedgerRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	snapshot := newFakeLedgerRepo()
	for id, e := range r.expenses {
		copied := *e
		snapshot.expenses[id] = &copied
	}
	for id, s := range r.splits {
		copied := *s
		snapshot.splits[id] = &copied
	}
	snapshot.failSplits = r.failSplits

	if err := fn(snapshot); err != nil {
		return err
	}

	r.expenses = snapshot.expenses
	r.splits = snapshot.splits
	return nil
}

func (r *fakeLedgerRepo) CreateExpense(ctx context.Context, expense *Expense) error {
	r.expenses[expense.ID] = expense
	return nil
}

func (r *fakeLedgerRepo) CreateSplits(ctx context.Context, splits []ExpenseSplit) error {
	if r.failSplits {
		return errors.New("splits write failed")
	}
	for i := range splits {
		split := splits[i]
		r.splits[split.ID] = &split
	}
	return nil
}

func (r *fakeLedgerRepo) GetExpenseByID(ctx context.Context, id string) (*Expense, error) {
	expense, ok := r.expenses[id]
	if !ok {
		return nil, ErrExpenseNotFound
	}
	return expense, nil
}

func (r *fakeLedgerRepo) DeleteExpense(ctx context.Context, id string) (bool, error) {
	if _, ok := r.expenses[id]; !ok {
		return false, nil
	}
	delete(r.expenses, id)
	for splitID, split := range r.splits {
		if split.ExpenseID == id {
			delete(r.splits, splitID)
		}
	}
	return true, nil
}

func (r *fakeLedgerRepo) ListExpensesByUser(ctx context.Context, userID string, filter ListFilter) ([]Expense, error) {
	result := make([]Expense, 0)
	for _, expense := range r.expenses {
		involved := expense.PayerID == userID
		for _, split := range r.splits {
			if split.ExpenseID == expense.ID && split.DebtorID == userID {
				involved = true
			}
		}
		if involved {
			result = append(result, *expense)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SpentAt.After(result[j].SpentAt) })
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (r *fakeLedgerRepo) ListExpensesByGroup(ctx context.Context, groupID string, filter ListFilter) ([]Expense, error) {
	result := make([]Expense, 0)
	for _, expense := range r.expenses {
		if expense.GroupID != nil && *expense.GroupID == groupID {
			result = append(result, *expense)
		}
	}
	return result, nil
}

func (r *fakeLedgerRepo) GetSplitsByExpenseIDs(ctx context.Context, expenseIDs []string) (map[string][]ExpenseSplit, error) {
	result := make(map[string][]ExpenseSplit, len(expenseIDs))
	for _, id := range expenseIDs {
		for _, split := range r.splits {
			if split.ExpenseID == id {
				result[id] = append(result[id], *split)
			}
		}
	}
	return result, nil
}

func (r *fakeLedgerRepo) GetSplitByID(ctx context.Context, id string) (*ExpenseSplit, error) {
	split, ok := r.splits[id]
	if !ok {
		return nil, ErrSplitNotFound
	}
	return split, nil
}

func (r *fakeLedgerRepo) UpdateSplit(ctx context.Context, split *ExpenseSplit) error {
	if _, ok := r.splits[split.ID]; !ok {
		return ErrSplitNotFound
	}
	r.splits[split.ID] = split
	return nil
}

func (r *fakeLedgerRepo) CreatePayment(ctx context.Context, payment *Payment) error {
	r.payments[payment.ID] = payment
	return nil
}

func (r *fakeLedgerRepo) GetPaymentByID(ctx context.Context, id string) (*Payment, error) {
	payment, ok := r.payments[id]
	if !ok {
		return nil, ErrPaymentNotFound
	}
	return payment, nil
}

func (r *fakeLedgerRepo) DeletePayment(ctx context.Context, id string) (bool, error) {
	if _, ok := r.payments[id]; !ok {
		return false, nil
	}
	delete(r.payments, id)
	return true, nil
}

func (r *fakeLedgerRepo) ListPaymentsBetween(ctx context.Context, userA, userB string) ([]Payment, error) {
	result := make([]Payment, 0)
	for _, payment := range r.payments {
		if (payment.PayerID == userA && payment.ReceiverID == userB) ||
			(payment.PayerID == userB && payment.ReceiverID == userA) {
			result = append(result, *payment)
		}
	}
	return result, nil
}

func (r *fakeLedgerRepo) ListCategories(ctx context.Context) ([]Category, error) {
	result := make([]Category, 0, len(r.categories))
	for _, category := range r.categories {
		result = append(result, *category)
	}
	return result, nil
}

func (r *fakeLedgerRepo) GetCategoryByID(ctx context.Context, id string) (*Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

func (r *fakeLedgerRepo) CreateCategory(ctx context.Context, category *Category) error {
	r.categories[category.ID] = category
	return nil
}

type fakeGroupChecker struct {
	members map[string]map[string]bool
}

func (c *fakeGroupChecker) RequireMember(ctx context.Context, userID, groupID string) error {
	if c.members[groupID][userID] {
		return nil
	}
	return groups.ErrNotMember
}

type recordingPublisher struct {
	published []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.published = append(p.published, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func newLedgerTestService(repo Repository, publisher events.Publisher) *Service {
	checker := &fakeGroupChecker{members: map[string]map[string]bool{
		"g-trip": {"alice": true, "bob": true},
	}}
	log := logger.New(io.Discard, slog.LevelError, "text")
	return NewService(repo, checker, publisher, log, "USD")
}

func TestCreateSplitExpense(t *testing.T) {
	repo := newFakeLedgerRepo()
	publisher := &recordingPublisher{}
	service := newLedgerTestService(repo, publisher)
	ctx := context.Background()

	created, err := service.CreateExpense(ctx, CreateExpenseInput{
		Type:        TypeSplit,
		Description: "Dinner",
		Amount:      300,
		PayerID:     "alice",
		Method:      MethodEqual,
		Participants: []ShareInput{
			{UserID: "alice"}, {UserID: "bob"}, {UserID: "charlie"},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if created.Currency != "USD" {
		t.Fatalf("expected default currency USD, got %q", created.Currency)
	}
	if len(created.Splits) != 3 {
		t.Fatalf("expected 3 splits, got %d", len(created.Splits))
	}
	for _, split := range created.Splits {
		if split.DebtorID == "alice" && !split.IsPaid {
			t.Fatal("payer's split must be created paid")
		}
		if split.DebtorID != "alice" && split.IsPaid {
			t.Fatalf("%s's split must be unpaid", split.DebtorID)
		}
	}

	if len(publisher.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(publisher.published))
	}
	event := publisher.published[0]
	if event.Kind != events.KindExpenseCreated {
		t.Fatalf("expected expense.created, got %s", event.Kind)
	}
	if len(event.UserIDs) != 3 {
		t.Fatalf("expected payer and both debtors in the event, got %v", event.UserIDs)
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	repo := newFakeLedgerRepo()
	service := newLedgerTestService(repo, &recordingPublisher{})
	ctx := context.Background()

	if _, err := service.CreateExpense(ctx, CreateExpenseInput{
		Type: TypeSplit, Description: "x", Amount: 0, PayerID: "alice",
		Method: MethodEqual, Participants: []ShareInput{{UserID: "alice"}},
	}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	if _, err := service.CreateExpense(ctx, CreateExpenseInput{
		Type: TypeSplit, Description: "x", Amount: 10, PayerID: "alice",
		Method: MethodEqual,
	}); !errors.Is(err, ErrNoParticipants) {
		t.Fatalf("expected ErrNoParticipants, got %v", err)
	}

	// Payer must be among the participants of a SPLIT expense.
	if _, err := service.CreateExpense(ctx, CreateExpenseInput{
		Type: TypeSplit, Description: "x", Amount: 10, PayerID: "alice",
		Method: MethodEqual, Participants: []ShareInput{{UserID: "bob"}},
	}); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}

	// PERSONAL expenses carry no splits.
	if _, err := service.CreateExpense(ctx, CreateExpenseInput{
		Type: TypePersonal, Description: "x", Amount: 10, PayerID: "alice",
		Participants: []ShareInput{{UserID: "alice"}},
	}); !errors.Is(err, ErrUnexpectedSplits) {
		t.Fatalf("expected ErrUnexpectedSplits, got %v", err)
	}

	groupID := "g-other"
	if _, err := service.CreateExpense(ctx, CreateExpenseInput{
		Type: TypeSplit, Description: "x", Amount: 10, PayerID: "alice", GroupID: &groupID,
		Method: MethodEqual, Participants: []ShareInput{{UserID: "alice"}},
	}); !errors.Is(err, groups.ErrNotMember) {
		t.Fatalf("expected ErrNotMember for foreign group, got %v", err)
	}
}

func TestCreateExpenseAtomicity(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.failSplits = true
	service := newLedgerTestService(repo, &recordingPublisher{})

	_, err := service.CreateExpense(context.Background(), CreateExpenseInput{
		Type: TypeSplit, Description: "Dinner", Amount: 100, PayerID: "alice",
		Method: MethodEqual, Participants: []ShareInput{{UserID: "alice"}, {UserID: "bob"}},
	})
	if err == nil {
		t.Fatal("expected transaction failure")
	}
	if len(repo.expenses) != 0 {
		t.Fatal("expense persisted despite failed split write")
	}
}

func TestSettleSplitAuthorization(t *testing.T) {
	repo := newFakeLedgerRepo()
	publisher := &recordingPublisher{}
	service := newLedgerTestService(repo, publisher)
	ctx := context.Background()

	created, err := service.CreateExpense(ctx, CreateExpenseInput{
		Type: TypeSplit, Description: "Dinner", Amount: 100, PayerID: "alice",
		Method: MethodEqual, Participants: []ShareInput{{UserID: "alice"}, {UserID: "bob"}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var bobSplit ExpenseSplit
	for _, split := range created.Splits {
		if split.DebtorID == "bob" {
			bobSplit = split
		}
	}

	if _, err := service.SettleSplit(ctx, "charlie", bobSplit.ID); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant for outsider, got %v", err)
	}

	settled, err := service.SettleSplit(ctx, "bob", bobSplit.ID)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if !settled.IsPaid {
		t.Fatal("expected split marked paid")
	}

	last := publisher.published[len(publisher.published)-1]
	if last.Kind != events.KindSplitSettled {
		t.Fatalf("expected split.settled event, got %s", last.Kind)
	}
}

func TestDeleteExpenseRequiresParticipant(t *testing.T) {
	repo := newFakeLedgerRepo()
	service := newLedgerTestService(repo, &recordingPublisher{})
	ctx := context.Background()

	created, err := service.CreateExpense(ctx, CreateExpenseInput{
		Type: TypeSplit, Description: "Dinner", Amount: 100, PayerID: "alice",
		Method: MethodEqual, Participants: []ShareInput{{UserID: "alice"}, {UserID: "bob"}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := service.DeleteExpense(ctx, "charlie", created.ID); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}
	if err := service.DeleteExpense(ctx, "bob", created.ID); err != nil {
		t.Fatalf("participant delete: %v", err)
	}
	if err := service.DeleteExpense(ctx, "bob", created.ID); !errors.Is(err, ErrExpenseNotFound) {
		t.Fatalf("expected ErrExpenseNotFound, got %v", err)
	}
}

func TestRecordAndDeletePayment(t *testing.T) {
	repo := newFakeLedgerRepo()
	publisher := &recordingPublisher{}
	service := newLedgerTestService(repo, publisher)
	ctx := context.Background()

	payment, err := service.RecordPayment(ctx, RecordPaymentInput{
		PayerID: "bob", ReceiverID: "alice", Amount: 25,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if payment.Currency != "USD" {
		t.Fatalf("expected default currency, got %q", payment.Currency)
	}

	if _, err := service.RecordPayment(ctx, RecordPaymentInput{PayerID: "bob", ReceiverID: "bob", Amount: 5}); !errors.Is(err, ErrSelfPayment) {
		t.Fatalf("expected ErrSelfPayment, got %v", err)
	}
	if _, err := service.RecordPayment(ctx, RecordPaymentInput{PayerID: "bob", ReceiverID: "alice", Amount: -1}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	if err := service.DeletePayment(ctx, "charlie", payment.ID); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}
	if err := service.DeletePayment(ctx, "alice", payment.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	kinds := make([]string, 0, len(publisher.published))
	for _, event := range publisher.published {
		kinds = append(kinds, event.Kind)
	}
	if kinds[0] != events.KindPaymentRecorded || kinds[len(kinds)-1] != events.KindPaymentDeleted {
		t.Fatalf("unexpected event kinds %v", kinds)
	}
}
