package ledger

import "time"

type ExpenseType string

const (
	TypePersonal ExpenseType = "PERSONAL"
	TypeSplit    ExpenseType = "SPLIT"
)

type SplitMethod string

const (
	MethodEqual      SplitMethod = "EQUAL"
	MethodExact      SplitMethod = "EXACT"
	MethodPercentage SplitMethod = "PERCENTAGE"
)

type Expense struct {
	ID          string      `gorm:"type:uuid;primaryKey"`
	Type        ExpenseType `gorm:"not null"`
	Description string      `gorm:"not null"`
	Amount      float64     `gorm:"type:numeric(12,2);not null"`
	Currency    string      `gorm:"size:3;not null"`
	PayerID     string      `gorm:"type:uuid;index;not null"`
	GroupID     *string     `gorm:"type:uuid;index"`
	CategoryID  *string     `gorm:"type:uuid"`
	Note        *string     `gorm:"type:text"`
	SpentAt     time.Time   `gorm:"not null"`
	CreatedAt   time.Time   `gorm:"autoCreateTime"`
	UpdatedAt   time.Time   `gorm:"autoUpdateTime"`
}

type ExpenseSplit struct {
	ID         string      `gorm:"type:uuid;primaryKey"`
	ExpenseID  string      `gorm:"type:uuid;index;not null"`
	DebtorID   string      `gorm:"type:uuid;index;not null"`
	Amount     float64     `gorm:"type:numeric(12,2);not null"`
	Method     SplitMethod `gorm:"not null"`
	Percentage *float64    `gorm:"type:numeric(6,3)"`
	IsPaid     bool        `gorm:"not null;default:false"`
	CreatedAt  time.Time   `gorm:"autoCreateTime"`
	UpdatedAt  time.Time   `gorm:"autoUpdateTime"`
}

type Payment struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	PayerID     string    `gorm:"type:uuid;index;not null"`
	ReceiverID  string    `gorm:"type:uuid;index;not null"`
	Amount      float64   `gorm:"type:numeric(12,2);not null"`
	Currency    string    `gorm:"size:3;not null"`
	Description *string   `gorm:"type:text"`
	ExpenseID   *string   `gorm:"type:uuid"`
	GroupID     *string   `gorm:"type:uuid;index"`
	PaidAt      time.Time `gorm:"not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

type Category struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Label     string    `gorm:"not null"`
	Icon      *string   `gorm:"type:text"`
	Color     *string   `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

type ExpenseWithSplits struct {
	Expense
	Splits []ExpenseSplit
}

// ShareInput names one selected participant; Amount is read for EXACT
// splits, Percentage for PERCENTAGE splits.
type ShareInput struct {
	UserID     string
	Amount     float64
	Percentage float64
}

// Share is one participant's computed owed amount.
type Share struct {
	UserID     string
	Amount     float64
	Method     SplitMethod
	Percentage *float64
	IsPaid     bool
}

type CreateExpenseInput struct {
	Type         ExpenseType
	Description  string
	Amount       float64
	Currency     string
	PayerID      string
	GroupID      *string
	CategoryID   *string
	Note         *string
	SpentAt      time.Time
	Method       SplitMethod
	Participants []ShareInput
}

type RecordPaymentInput struct {
	PayerID     string
	ReceiverID  string
	Amount      float64
	Currency    string
	Description *string
	ExpenseID   *string
	GroupID     *string
	PaidAt      time.Time
}

type CreateCategoryInput struct {
	Label string
	Icon  *string
	Color *string
}

type ListFilter struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}
