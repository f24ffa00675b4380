package friends

import "time"

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
	StatusBlocked  Status = "BLOCKED"
)

// Friendship is stored as one canonical row per pair, directed from
// the requester to the addressee. Reads consider both directions.
type Friendship struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	RequesterID string    `gorm:"type:uuid;index;not null"`
	AddresseeID string    `gorm:"type:uuid;index;not null"`
	Status      Status    `gorm:"not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// Friend is a friendship viewed from one side: the counterparty plus
// the row it came from.
type Friend struct {
	FriendshipID string
	UserID       string
	Name         string
	Username     string
	Email        string
	Since        time.Time
}

type PendingRequest struct {
	FriendshipID string
	RequesterID  string
	Name         string
	Username     string
	Email        string
	RequestedAt  time.Time
}
