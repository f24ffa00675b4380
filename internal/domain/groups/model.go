package groups

import "time"

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

type Group struct {
	ID            string    `gorm:"type:uuid;primaryKey"`
	Name          string    `gorm:"not null"`
	Description   *string   `gorm:"type:text"`
	SimplifyDebts bool      `gorm:"not null;default:false"`
	CreatedBy     string    `gorm:"type:uuid;not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

type Member struct {
	ID       string    `gorm:"type:uuid;primaryKey"`
	GroupID  string    `gorm:"type:uuid;index;not null"`
	UserID   string    `gorm:"type:uuid;index;not null"`
	Role     Role      `gorm:"not null"`
	JoinedAt time.Time `gorm:"autoCreateTime"`
}

func (Member) TableName() string { return "group_members" }

type MemberDetail struct {
	Member
	Name     string
	Username string
	Email    string
}

type CreateGroupInput struct {
	Name          string
	Description   *string
	SimplifyDebts bool
}

type OptionalString struct {
	Set   bool
	Value *string
}

type UpdateGroupInput struct {
	Name          *string
	Description   OptionalString
	SimplifyDebts *bool
}
