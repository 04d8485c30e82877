package domain

import (
	"time"

	"github.com/google/uuid"
)

// AccountType represents a user's role in the campus wallet system.
type AccountType string

const (
	AccountTypeUser       AccountType = "USER"
	AccountTypeCashier    AccountType = "CASHIER"
	AccountTypeCashTopUp  AccountType = "CASH_TOP_UP"
	AccountTypeAdmin      AccountType = "ADMIN"
	AccountTypeSuperAdmin AccountType = "SUPER_ADMIN"
)

// accountTypeRanks is the fixed role hierarchy:
// SUPER_ADMIN > ADMIN > {CASH_TOP_UP, CASHIER, USER}.
// The bottom three are mutually equal rank.
var accountTypeRanks = map[AccountType]int{
	AccountTypeUser:       1,
	AccountTypeCashier:    1,
	AccountTypeCashTopUp:  1,
	AccountTypeAdmin:      2,
	AccountTypeSuperAdmin: 3,
}

// IsValid checks if the account type is a known role.
func (a AccountType) IsValid() bool {
	_, ok := accountTypeRanks[a]
	return ok
}

// Rank returns the hierarchy rank of the role. Unknown roles rank 0,
// below every valid role.
func (a AccountType) Rank() int {
	return accountTypeRanks[a]
}

// User represents a wallet-holding account.
type User struct {
	ID           uuid.UUID   `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"` // Never expose
	FullName     string      `json:"full_name"`
	AccountType  AccountType `json:"account_type"`
	Verified     bool        `json:"verified"`
	Deleted      bool        `json:"deleted"`
	DeletedAt    *time.Time  `json:"deleted_at,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// IsActive returns true if the user exists and has not been soft-deleted.
func (u *User) IsActive() bool {
	return !u.Deleted
}

// AuditEntityID implements AuditSnapshot.
func (u *User) AuditEntityID() uuid.UUID {
	return u.ID
}

// AuditTargetID implements AuditSnapshot. A user audit targets the user itself.
func (u *User) AuditTargetID() uuid.UUID {
	return u.ID
}

// AuditFields implements AuditSnapshot. Ordered projection of the fields
// subject to audit diffing. Timestamps are deliberately excluded.
func (u *User) AuditFields() []AuditField {
	return []AuditField{
		{Name: "email", Value: u.Email},
		{Name: "fullName", Value: u.FullName},
		{Name: "accountType", Value: string(u.AccountType)},
		{Name: "verified", Value: boolString(u.Verified)},
		{Name: "deleted", Value: boolString(u.Deleted)},
	}
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
