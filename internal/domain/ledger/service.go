package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"splitledger/internal/events"
	"splitledger/pkg/logger"
)

const defaultActivityLimit = 20

// GroupChecker is the slice of the groups service the ledger needs for
// membership authorization.
type GroupChecker interface {
	RequireMember(ctx context.Context, userID, groupID string) error
}

type Service struct {
	repo            Repository
	groups          GroupChecker
	publisher       events.Publisher
	log             logger.Logger
	defaultCurrency string
}

func NewService(repo Repository, groupChecker GroupChecker, publisher events.Publisher, log logger.Logger, defaultCurrency string) *Service {
	if publisher == nil {
		publisher = events.NewNoopPublisher()
	}
	return &Service{
		repo:            repo,
		groups:          groupChecker,
		publisher:       publisher,
		log:             log,
		defaultCurrency: defaultCurrency,
	}
}

// CreateExpense validates the split inputs, writes the expense and its
// splits in one transaction and publishes invalidation events for every
// affected user and the group.
func (s *Service) CreateExpense(ctx context.Context, input CreateExpenseInput) (*ExpenseWithSplits, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = s.defaultCurrency
	}

	spentAt := input.SpentAt
	if spentAt.IsZero() {
		spentAt = time.Now().UTC()
	}

	if input.GroupID != nil {
		if err := s.groups.RequireMember(ctx, input.PayerID, *input.GroupID); err != nil {
			return nil, err
		}
	}

	if input.CategoryID != nil {
		if _, err := s.repo.GetCategoryByID(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
	}

	expense := Expense{
		ID:          uuid.NewString(),
		Type:        input.Type,
		Description: description,
		Amount:      input.Amount,
		Currency:    currency,
		PayerID:     input.PayerID,
		GroupID:     input.GroupID,
		CategoryID:  input.CategoryID,
		Note:        input.Note,
		SpentAt:     spentAt,
	}

	var splits []ExpenseSplit

	switch input.Type {
	case TypePersonal:
		if len(input.Participants) > 0 {
			return nil, ErrUnexpectedSplits
		}

	case TypeSplit:
		shares, err := ComputeShares(input.Amount, input.PayerID, input.Method, input.Participants)
		if err != nil {
			return nil, err
		}

		payerIncluded := false
		for _, share := range shares {
			if share.UserID == input.PayerID {
				payerIncluded = true
			}
			splits = append(splits, ExpenseSplit{
				ID:         uuid.NewString(),
				ExpenseID:  expense.ID,
				DebtorID:   share.UserID,
				Amount:     share.Amount,
				Method:     share.Method,
				Percentage: share.Percentage,
				IsPaid:     share.IsPaid,
			})
		}
		if !payerIncluded {
			return nil, ErrNotParticipant
		}

	default:
		return nil, fmt.Errorf("%w: unknown expense type %q", ErrInvalidInput, input.Type)
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.CreateExpense(ctx, &expense); err != nil {
			return err
		}
		if len(splits) > 0 {
			return tx.CreateSplits(ctx, splits)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.KindExpenseCreated, expenseScope(&expense, splits))

	return &ExpenseWithSplits{Expense: expense, Splits: splits}, nil
}

// DeleteExpense removes an expense and, via the schema cascade, its
// splits. Only the payer or a split participant may delete.
func (s *Service) DeleteExpense(ctx context.Context, userID, expenseID string) error {
	expense, err := s.repo.GetExpenseByID(ctx, expenseID)
	if err != nil {
		return err
	}

	splitsByExpense, err := s.repo.GetSplitsByExpenseIDs(ctx, []string{expenseID})
	if err != nil {
		return err
	}
	splits := splitsByExpense[expenseID]

	if !isParticipant(expense, splits, userID) {
		return ErrNotParticipant
	}

	deleted, err := s.repo.DeleteExpense(ctx, expenseID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrExpenseNotFound
	}

	s.publish(ctx, events.KindExpenseDeleted, expenseScope(expense, splits))
	return nil
}

func (s *Service) ListUserExpenses(ctx context.Context, userID string, filter ListFilter) ([]ExpenseWithSplits, error) {
	expenses, err := s.repo.ListExpensesByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	return s.attachSplits(ctx, expenses)
}

func (s *Service) ListGroupExpenses(ctx context.Context, userID, groupID string, filter ListFilter) ([]ExpenseWithSplits, error) {
	if err := s.groups.RequireMember(ctx, userID, groupID); err != nil {
		return nil, err
	}

	expenses, err := s.repo.ListExpensesByGroup(ctx, groupID, filter)
	if err != nil {
		return nil, err
	}
	return s.attachSplits(ctx, expenses)
}

// SettleSplit flips a split's paid flag. The debtor settles their own
// share; the payer may also mark it settled on the debtor's behalf.
func (s *Service) SettleSplit(ctx context.Context, userID, splitID string) (*ExpenseSplit, error) {
	split, err := s.repo.GetSplitByID(ctx, splitID)
	if err != nil {
		return nil, err
	}

	expense, err := s.repo.GetExpenseByID(ctx, split.ExpenseID)
	if err != nil {
		return nil, err
	}

	if userID != split.DebtorID && userID != expense.PayerID {
		return nil, ErrNotParticipant
	}

	if split.IsPaid {
		return split, nil
	}

	split.IsPaid = true
	split.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateSplit(ctx, split); err != nil {
		return nil, err
	}

	scope := events.Event{UserIDs: []string{expense.PayerID, split.DebtorID}}
	if expense.GroupID != nil {
		scope.GroupID = *expense.GroupID
	}
	s.publish(ctx, events.KindSplitSettled, scope)

	return split, nil
}

func (s *Service) RecordPayment(ctx context.Context, input RecordPaymentInput) (*Payment, error) {
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if input.PayerID == input.ReceiverID {
		return nil, ErrSelfPayment
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = s.defaultCurrency
	}

	paidAt := input.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now().UTC()
	}

	if input.GroupID != nil {
		if err := s.groups.RequireMember(ctx, input.PayerID, *input.GroupID); err != nil {
			return nil, err
		}
	}
	if input.ExpenseID != nil {
		if _, err := s.repo.GetExpenseByID(ctx, *input.ExpenseID); err != nil {
			return nil, err
		}
	}

	payment := Payment{
		ID:          uuid.NewString(),
		PayerID:     input.PayerID,
		ReceiverID:  input.ReceiverID,
		Amount:      input.Amount,
		Currency:    currency,
		Description: input.Description,
		ExpenseID:   input.ExpenseID,
		GroupID:     input.GroupID,
		PaidAt:      paidAt,
	}

	if err := s.repo.CreatePayment(ctx, &payment); err != nil {
		return nil, err
	}

	s.publish(ctx, events.KindPaymentRecorded, paymentScope(&payment))
	return &payment, nil
}

func (s *Service) DeletePayment(ctx context.Context, userID, paymentID string) error {
	payment, err := s.repo.GetPaymentByID(ctx, paymentID)
	if err != nil {
		return err
	}

	if userID != payment.PayerID && userID != payment.ReceiverID {
		return ErrNotParticipant
	}

	deleted, err := s.repo.DeletePayment(ctx, paymentID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrPaymentNotFound
	}

	s.publish(ctx, events.KindPaymentDeleted, paymentScope(payment))
	return nil
}

func (s *Service) ListPaymentsBetween(ctx context.Context, userID, otherUserID string) ([]Payment, error) {
	return s.repo.ListPaymentsBetween(ctx, userID, otherUserID)
}

// ActivityLog returns the user's most recent expenses, capped by limit.
func (s *Service) ActivityLog(ctx context.Context, userID string, limit int) ([]ExpenseWithSplits, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultActivityLimit
	}
	return s.ListUserExpenses(ctx, userID, ListFilter{Limit: limit})
}

func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*Category, error) {
	label := strings.TrimSpace(input.Label)
	if label == "" {
		return nil, fmt.Errorf("%w: label is required", ErrInvalidInput)
	}

	category := Category{
		ID:    uuid.NewString(),
		Label: label,
		Icon:  input.Icon,
		Color: input.Color,
	}

	if err := s.repo.CreateCategory(ctx, &category); err != nil {
		return nil, err
	}

	return &category, nil
}

func (s *Service) attachSplits(ctx context.Context, expenses []Expense) ([]ExpenseWithSplits, error) {
	if len(expenses) == 0 {
		return []ExpenseWithSplits{}, nil
	}

	ids := make([]string, 0, len(expenses))
	for _, expense := range expenses {
		ids = append(ids, expense.ID)
	}

	splitsByExpense, err := s.repo.GetSplitsByExpenseIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]ExpenseWithSplits, 0, len(expenses))
	for _, expense := range expenses {
		result = append(result, ExpenseWithSplits{
			Expense: expense,
			Splits:  splitsByExpense[expense.ID],
		})
	}
	return result, nil
}

// publish never fails the mutation; a lost invalidation only means a
// stale cache until its TTL.
func (s *Service) publish(ctx context.Context, kind string, event events.Event) {
	event.Kind = kind
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("events: publish failed", "kind", kind, "err", err)
	}
}

func expenseScope(expense *Expense, splits []ExpenseSplit) events.Event {
	seen := map[string]struct{}{expense.PayerID: {}}
	userIDs := []string{expense.PayerID}
	for _, split := range splits {
		if _, ok := seen[split.DebtorID]; ok {
			continue
		}
		seen[split.DebtorID] = struct{}{}
		userIDs = append(userIDs, split.DebtorID)
	}

	event := events.Event{UserIDs: userIDs}
	if expense.GroupID != nil {
		event.GroupID = *expense.GroupID
	}
	return event
}

func paymentScope(payment *Payment) events.Event {
	event := events.Event{UserIDs: []string{payment.PayerID, payment.ReceiverID}}
	if payment.GroupID != nil {
		event.GroupID = *payment.GroupID
	}
	return event
}

func isParticipant(expense *Expense, splits []ExpenseSplit, userID string) bool {
	if expense.PayerID == userID {
		return true
	}
	for _, split := range splits {
		if split.DebtorID == userID {
			return true
		}
	}
	return false
}
