package balances

import (
	"context"

	"gorm.io/gorm"

	domain "splitledger/internal/domain/balances"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type shareRow struct {
	ExpenseID string  `gorm:"column:expense_id"`
	PayerID   string  `gorm:"column:payer_id"`
	DebtorID  string  `gorm:"column:debtor_id"`
	Amount    float64 `gorm:"column:amount"`
	IsPaid    bool    `gorm:"column:is_paid"`
	GroupID   *string `gorm:"column:group_id"`
}

func (r *PostgresRepository) ListSharesByUser(ctx context.Context, userID string) ([]domain.ShareRecord, error) {
	var rows []shareRow
	err := r.db.WithContext(ctx).
		Table("expense_splits").
		Select("expense_splits.expense_id, expenses.payer_id, expense_splits.debtor_id, expense_splits.amount, expense_splits.is_paid, expenses.group_id").
		Joins("JOIN expenses ON expenses.id = expense_splits.expense_id").
		Where("expenses.payer_id = ? OR expense_splits.debtor_id = ?", userID, userID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toShareRecords(rows), nil
}

func (r *PostgresRepository) ListSharesByGroup(ctx context.Context, groupID string) ([]domain.ShareRecord, error) {
	var rows []shareRow
	err := r.db.WithContext(ctx).
		Table("expense_splits").
		Select("expense_splits.expense_id, expenses.payer_id, expense_splits.debtor_id, expense_splits.amount, expense_splits.is_paid, expenses.group_id").
		Joins("JOIN expenses ON expenses.id = expense_splits.expense_id").
		Where("expenses.group_id = ?", groupID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toShareRecords(rows), nil
}

// ListTransfersAmong matches payments by participant set rather than
// by any group tag: a payment settles group debt whenever both parties
// are members, tagged or not.
func (r *PostgresRepository) ListTransfersAmong(ctx context.Context, userIDs []string) ([]domain.Transfer, error) {
	if len(userIDs) == 0 {
		return []domain.Transfer{}, nil
	}

	var rows []struct {
		PayerID    string  `gorm:"column:payer_id"`
		ReceiverID string  `gorm:"column:receiver_id"`
		Amount     float64 `gorm:"column:amount"`
	}
	err := r.db.WithContext(ctx).
		Table("payments").
		Select("payer_id, receiver_id, amount").
		Where("payer_id IN ? AND receiver_id IN ?", userIDs, userIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	transfers := make([]domain.Transfer, 0, len(rows))
	for _, row := range rows {
		transfers = append(transfers, domain.Transfer{
			PayerID:    row.PayerID,
			ReceiverID: row.ReceiverID,
			Amount:     row.Amount,
		})
	}
	return transfers, nil
}

func toShareRecords(rows []shareRow) []domain.ShareRecord {
	records := make([]domain.ShareRecord, 0, len(rows))
	for _, row := range rows {
		record := domain.ShareRecord{
			ExpenseID: row.ExpenseID,
			PayerID:   row.PayerID,
			DebtorID:  row.DebtorID,
			Amount:    row.Amount,
			Paid:      row.IsPaid,
		}
		if row.GroupID != nil {
			record.GroupID = *row.GroupID
		}
		records = append(records, record)
	}
	return records
}
