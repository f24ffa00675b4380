package ledger

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "splitledger/internal/domain/ledger"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(domain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateExpense(ctx context.Context, expense *domain.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *PostgresRepository) CreateSplits(ctx context.Context, splits []domain.ExpenseSplit) error {
	if len(splits) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&splits).Error
}

func (r *PostgresRepository) GetExpenseByID(ctx context.Context, id string) (*domain.Expense, error) {
	var expense domain.Expense
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return &expense, nil
}

func (r *PostgresRepository) DeleteExpense(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&domain.Expense{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) ListExpensesByUser(ctx context.Context, userID string, filter domain.ListFilter) ([]domain.Expense, error) {
	query := r.db.WithContext(ctx).
		Model(&domain.Expense{}).
		Where("payer_id = ? OR id IN (?)",
			userID,
			r.db.WithContext(ctx).Model(&domain.ExpenseSplit{}).Select("expense_id").Where("debtor_id = ?", userID),
		)

	return r.listExpenses(query, filter)
}

func (r *PostgresRepository) ListExpensesByGroup(ctx context.Context, groupID string, filter domain.ListFilter) ([]domain.Expense, error) {
	query := r.db.WithContext(ctx).
		Model(&domain.Expense{}).
		Where("group_id = ?", groupID)

	return r.listExpenses(query, filter)
}

func (r *PostgresRepository) listExpenses(query *gorm.DB, filter domain.ListFilter) ([]domain.Expense, error) {
	if filter.From != nil {
		query = query.Where("spent_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("spent_at <= ?", *filter.To)
	}

	query = query.Order("spent_at desc, created_at desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var expenses []domain.Expense
	if err := query.Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *PostgresRepository) GetSplitsByExpenseIDs(ctx context.Context, expenseIDs []string) (map[string][]domain.ExpenseSplit, error) {
	result := make(map[string][]domain.ExpenseSplit, len(expenseIDs))
	if len(expenseIDs) == 0 {
		return result, nil
	}

	var splits []domain.ExpenseSplit
	if err := r.db.WithContext(ctx).Where("expense_id IN ?", expenseIDs).Find(&splits).Error; err != nil {
		return nil, err
	}

	for _, split := range splits {
		result[split.ExpenseID] = append(result[split.ExpenseID], split)
	}
	return result, nil
}

func (r *PostgresRepository) GetSplitByID(ctx context.Context, id string) (*domain.ExpenseSplit, error) {
	var split domain.ExpenseSplit
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&split).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSplitNotFound
		}
		return nil, err
	}
	return &split, nil
}

func (r *PostgresRepository) UpdateSplit(ctx context.Context, split *domain.ExpenseSplit) error {
	return r.db.WithContext(ctx).
		Model(&domain.ExpenseSplit{}).
		Where("id = ?", split.ID).
		Updates(map[string]interface{}{
			"is_paid":    split.IsPaid,
			"updated_at": split.UpdatedAt,
		}).Error
}

func (r *PostgresRepository) CreatePayment(ctx context.Context, payment *domain.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *PostgresRepository) GetPaymentByID(ctx context.Context, id string) (*domain.Payment, error) {
	var payment domain.Payment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *PostgresRepository) DeletePayment(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&domain.Payment{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) ListPaymentsBetween(ctx context.Context, userA, userB string) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := r.db.WithContext(ctx).
		Where("(payer_id = ? AND receiver_id = ?) OR (payer_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		Order("paid_at desc").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := r.db.WithContext(ctx).Order("label").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *PostgresRepository) GetCategoryByID(ctx context.Context, id string) (*domain.Category, error) {
	var category domain.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *PostgresRepository) CreateCategory(ctx context.Context, category *domain.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}
