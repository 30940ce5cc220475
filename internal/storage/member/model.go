package member

import (
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/church-finance/internal/storage/sqlconfig"
)

const TableName = "members"

var columns = []any{
	"id", "first_name", "last_name", "email", "phone", "address", "status",
	"membership_date", "notes", "created_at", "updated_at",
}

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusVisitor  = "visitor"
)

// Member represents a members record.
type Member struct {
	ID             uuid.UUID  `db:"id"`
	FirstName      string     `db:"first_name"`
	LastName       string     `db:"last_name"`
	Email          *string    `db:"email"`
	Phone          *string    `db:"phone"`
	Address        *string    `db:"address"`
	Status         string     `db:"status"`
	MembershipDate *time.Time `db:"membership_date"`
	Notes          *string    `db:"notes"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

type MemberCreate struct {
	FirstName      string
	LastName       string
	Email          *string
	Phone          *string
	Address        *string
	Status         string
	MembershipDate *time.Time
	Notes          *string
}

type MemberUpdate struct {
	FirstName      omit.Val[string]
	LastName       omit.Val[string]
	Email          omit.Val[*string]
	Phone          omit.Val[*string]
	Address        omit.Val[*string]
	Status         omit.Val[string]
	MembershipDate omit.Val[*time.Time]
	Notes          omit.Val[*string]
}

// MemberFilter specifies filters for listing members. Query matches first
// name, last name or email case-insensitively.
type MemberFilter struct {
	Query  string
	Status string
	Limit  int
	Offset int
}

type MemberListResult struct {
	Members    []*Member
	NextCursor *sqlconfig.Cursor
}
