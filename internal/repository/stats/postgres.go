package stats

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "splitledger/internal/domain/stats"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListPersonalExpenses(ctx context.Context, userID string, from, to time.Time) ([]domain.PersonalRecord, error) {
	var rows []struct {
		SpentAt     time.Time `gorm:"column:spent_at"`
		Amount      float64   `gorm:"column:amount"`
		Description string    `gorm:"column:description"`
	}
	err := r.db.WithContext(ctx).
		Table("expenses").
		Select("spent_at, amount, description").
		Where("payer_id = ? AND type = ? AND spent_at BETWEEN ? AND ?", userID, "PERSONAL", from, endOfDay(to)).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	records := make([]domain.PersonalRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.PersonalRecord{
			Date:        row.SpentAt,
			Amount:      row.Amount,
			Description: row.Description,
		})
	}
	return records, nil
}

func (r *PostgresRepository) ListOwnShares(ctx context.Context, userID string, from, to time.Time) ([]domain.OwnShareRecord, error) {
	var rows []struct {
		SpentAt     time.Time `gorm:"column:spent_at"`
		Amount      float64   `gorm:"column:amount"`
		Description string    `gorm:"column:description"`
		PayerID     string    `gorm:"column:payer_id"`
	}
	err := r.db.WithContext(ctx).
		Table("expense_splits").
		Select("expenses.spent_at, expense_splits.amount, expenses.description, expenses.payer_id").
		Joins("JOIN expenses ON expenses.id = expense_splits.expense_id").
		Where("expense_splits.debtor_id = ? AND expenses.spent_at BETWEEN ? AND ?", userID, from, endOfDay(to)).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	records := make([]domain.OwnShareRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.OwnShareRecord{
			Date:        row.SpentAt,
			Amount:      row.Amount,
			SelfPaid:    row.PayerID == userID,
			Description: row.Description,
		})
	}
	return records, nil
}

func (r *PostgresRepository) ListLentShares(ctx context.Context, userID string, from, to time.Time) ([]domain.LentShareRecord, error) {
	var rows []struct {
		SpentAt     time.Time `gorm:"column:spent_at"`
		Amount      float64   `gorm:"column:amount"`
		Description string    `gorm:"column:description"`
	}
	err := r.db.WithContext(ctx).
		Table("expense_splits").
		Select("expenses.spent_at, expense_splits.amount, expenses.description").
		Joins("JOIN expenses ON expenses.id = expense_splits.expense_id").
		Where("expenses.payer_id = ? AND expense_splits.debtor_id <> ? AND expenses.spent_at BETWEEN ? AND ?",
			userID, userID, from, endOfDay(to)).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	records := make([]domain.LentShareRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.LentShareRecord{
			Date:        row.SpentAt,
			Amount:      row.Amount,
			Description: row.Description,
		})
	}
	return records, nil
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
