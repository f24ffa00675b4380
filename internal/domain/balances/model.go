package balances

// ShareRecord is one split joined to its parent expense: who fronted
// the money, who owes the share, and whether it has been settled.
type ShareRecord struct {
	ExpenseID string
	PayerID   string
	DebtorID  string
	Amount    float64
	Paid      bool
	GroupID   string
}

// Transfer is a direct payment between two users.
type Transfer struct {
	PayerID    string
	ReceiverID string
	Amount     float64
}

// SignedBalance is a per-counterparty net: positive means the
// counterparty owes the subject.
type SignedBalance struct {
	UserID string
	Amount float64
}

type FriendBalance struct {
	UserID   string
	Name     string
	Username string
	Email    string
	Amount   float64
}

// FriendBalancesResult carries the resolved balances plus the count of
// counterparties dropped because their user record could not be found.
type FriendBalancesResult struct {
	Balances []FriendBalance
	Skipped  int
}

// SettlementEdge is one directed payment: From pays To.
type SettlementEdge struct {
	FromUserID string
	ToUserID   string
	Amount     float64
}

type Overview struct {
	YouOwe       float64
	YouAreOwed   float64
	TotalBalance float64
}
