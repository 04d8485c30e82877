package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrInsufficientBalance is the user-facing domain error for a debit that
// exceeds the available balance. Kept distinct from the generic balance
// validation failure so callers can surface it as-is.
var ErrInsufficientBalance = errors.New("insufficient balance")

// Wallet holds a user's monetary balance. Exactly one wallet exists per user,
// created together with the user at registration. Wallets are never physically
// deleted, only soft-deleted.
type Wallet struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Balance   Balance    `json:"balance"`
	Deleted   bool       `json:"deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewWallet creates a zero-balance wallet for a user.
func NewWallet(id, userID uuid.UUID, now time.Time) *Wallet {
	return &Wallet{
		ID:        id,
		UserID:    userID,
		Balance:   Balance{}, // zero value is a valid zero balance
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Credit replaces the balance with old + amount. The result is routed through
// NewBalance so the non-negativity invariant stays centralized, even though
// a credit cannot produce a negative value.
func (w *Wallet) Credit(amount Amount) error {
	newBalance, err := NewBalance(w.Balance.Value() + amount.Value())
	if err != nil {
		return err
	}
	w.Balance = newBalance
	w.UpdatedAt = time.Now().UTC()
	return nil
}

// Debit replaces the balance with old - amount. The insufficient-balance check
// runs before constructing the new Balance so callers get the specific domain
// error rather than a generic validation failure. The balance is unchanged on
// failure.
func (w *Wallet) Debit(amount Amount) error {
	if w.Balance.Value()-amount.Value() < 0 {
		return ErrInsufficientBalance
	}
	newBalance, err := NewBalance(w.Balance.Value() - amount.Value())
	if err != nil {
		return err
	}
	w.Balance = newBalance
	w.UpdatedAt = time.Now().UTC()
	return nil
}

// SetBalance is the administrative override. It validates through NewBalance
// exactly like Credit/Debit.
func (w *Wallet) SetBalance(value int64) error {
	newBalance, err := NewBalance(value)
	if err != nil {
		return err
	}
	w.Balance = newBalance
	w.UpdatedAt = time.Now().UTC()
	return nil
}

// SoftDelete marks the wallet deleted without removing the row.
func (w *Wallet) SoftDelete(now time.Time) {
	w.Deleted = true
	w.DeletedAt = &now
	w.UpdatedAt = now
}

// AuditEntityID implements AuditSnapshot.
func (w *Wallet) AuditEntityID() uuid.UUID {
	return w.ID
}

// AuditTargetID implements AuditSnapshot. Wallet audits target the owning
// user, not the wallet row.
func (w *Wallet) AuditTargetID() uuid.UUID {
	return w.UserID
}

// AuditFields implements AuditSnapshot. Timestamps are excluded.
func (w *Wallet) AuditFields() []AuditField {
	return []AuditField{
		{Name: "balance", Value: w.Balance.String()},
		{Name: "deleted", Value: boolString(w.Deleted)},
	}
}

// Snapshot returns a copy of the wallet for use as an audit "before" image.
func (w *Wallet) Snapshot() *Wallet {
	cp := *w
	return &cp
}
