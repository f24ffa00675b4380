package stats

import "time"

// PersonalRecord is one of the user's own PERSONAL expenses.
type PersonalRecord struct {
	Date        time.Time
	Amount      float64
	Description string
}

// OwnShareRecord is the user's own split on any expense; SelfPaid
// marks shares of expenses the user paid for themself.
type OwnShareRecord struct {
	Date        time.Time
	Amount      float64
	SelfPaid    bool
	Description string
}

// LentShareRecord is another participant's split on an expense the
// user paid.
type LentShareRecord struct {
	Date        time.Time
	Amount      float64
	Description string
}

type DayStat struct {
	Date             string
	Personal         float64
	Borrowed         float64
	Lent             float64
	TotalExpenditure float64
}

type Stats struct {
	From             time.Time
	To               time.Time
	Personal         float64
	Borrowed         float64
	Lent             float64
	TotalExpenditure float64
	Days             []DayStat
}

const (
	EntryPersonal   = "PERSONAL"
	EntrySplitShare = "SPLIT_SHARE"
	EntryBorrowed   = "BORROWED"
)

type BreakdownEntry struct {
	Kind        string
	Description string
	Amount      float64
}

type BreakdownDay struct {
	Date    string
	Total   float64
	Entries []BreakdownEntry
}
