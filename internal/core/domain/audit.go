package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of privileged mutation being audited.
type AuditAction string

const (
	AuditActionUserUpdate   AuditAction = "USER_UPDATE"
	AuditActionWalletUpdate AuditAction = "WALLET_UPDATE"
	AuditActionUserDelete   AuditAction = "USER_DELETE"
)

// ErrSnapshotMismatch is returned when the old and new snapshots handed to the
// diff do not describe the same entity.
var ErrSnapshotMismatch = errors.New("audit snapshots reference different entities")

// FieldChange records a single field-level difference between two snapshots.
type FieldChange struct {
	Field string `json:"field"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// AuditLog is an immutable record of what changed, by whom. Created once per
// privileged mutation; never updated or deleted.
type AuditLog struct {
	ID         uuid.UUID     `json:"id"`
	ExecutorID uuid.UUID     `json:"executor_id"`
	TargetID   uuid.UUID     `json:"target_id"`
	Action     AuditAction   `json:"action"`
	Changes    []FieldChange `json:"changes"`
	CreatedAt  time.Time     `json:"created_at"`
}

// AuditField is one entry of an entity's ordered audit projection.
type AuditField struct {
	Name  string
	Value string
}

// AuditSnapshot is the capability an entity exposes to be audit-diffed.
// The projection decides once which fields are visible to the diff;
// timestamp fields are never part of it.
type AuditSnapshot interface {
	// AuditEntityID identifies the snapshot for the mismatch check.
	AuditEntityID() uuid.UUID
	// AuditTargetID resolves the user the audit entry is about. For wallets
	// this is the owning user, not the wallet id.
	AuditTargetID() uuid.UUID
	// AuditFields returns the ordered field-to-string projection.
	AuditFields() []AuditField
}

// DiffSnapshots computes the field-level changes between two snapshots of the
// same entity, in projection order. Mismatched entity ids are a hard failure.
func DiffSnapshots(oldSnap, newSnap AuditSnapshot) ([]FieldChange, error) {
	if oldSnap.AuditEntityID() != newSnap.AuditEntityID() {
		return nil, ErrSnapshotMismatch
	}

	oldFields := oldSnap.AuditFields()
	newFields := newSnap.AuditFields()

	newByName := make(map[string]string, len(newFields))
	for _, f := range newFields {
		newByName[f.Name] = f.Value
	}

	var changes []FieldChange
	for _, f := range oldFields {
		newValue, ok := newByName[f.Name]
		if !ok {
			continue
		}
		if f.Value != newValue {
			changes = append(changes, FieldChange{
				Field: f.Name,
				From:  f.Value,
				To:    newValue,
			})
		}
	}
	return changes, nil
}
