package ledger

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	CreateExpense(ctx context.Context, expense *Expense) error
	CreateSplits(ctx context.Context, splits []ExpenseSplit) error
	GetExpenseByID(ctx context.Context, id string) (*Expense, error)
	DeleteExpense(ctx context.Context, id string) (bool, error)
	// ListExpensesByUser returns expenses the user paid or participates
	// in via a split, newest first.
	ListExpensesByUser(ctx context.Context, userID string, filter ListFilter) ([]Expense, error)
	ListExpensesByGroup(ctx context.Context, groupID string, filter ListFilter) ([]Expense, error)
	GetSplitsByExpenseIDs(ctx context.Context, expenseIDs []string) (map[string][]ExpenseSplit, error)
	GetSplitByID(ctx context.Context, id string) (*ExpenseSplit, error)
	UpdateSplit(ctx context.Context, split *ExpenseSplit) error
	CreatePayment(ctx context.Context, payment *Payment) error
	GetPaymentByID(ctx context.Context, id string) (*Payment, error)
	DeletePayment(ctx context.Context, id string) (bool, error)
	ListPaymentsBetween(ctx context.Context, userA, userB string) ([]Payment, error)
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategoryByID(ctx context.Context, id string) (*Category, error)
	CreateCategory(ctx context.Context, category *Category) error
}
