package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"campus-wallet/internal/core/domain"

	"github.com/google/uuid"
)

// AuditLogRepo implements ports.AuditLogRepository. The audit trail is
// append-only: entries are inserted and read, never updated or deleted.
type AuditLogRepo struct {
	pool Pool
}

// NewAuditLogRepo creates a new AuditLogRepo.
func NewAuditLogRepo(pool Pool) *AuditLogRepo {
	return &AuditLogRepo{pool: pool}
}

// Create appends one audit entry. The field-change set is stored as JSONB.
func (r *AuditLogRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	changes, err := json.Marshal(entry.Changes)
	if err != nil {
		return fmt.Errorf("marshal audit changes: %w", err)
	}

	query := `INSERT INTO audit_logs (id, executor_id, target_id, action, changes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = r.pool.Exec(ctx, query,
		entry.ID, entry.ExecutorID, entry.TargetID,
		string(entry.Action), changes, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// ListByTarget fetches a page of audit entries for one target user, most
// recent first.
func (r *AuditLogRepo) ListByTarget(ctx context.Context, targetID uuid.UUID, page, pageSize int) ([]domain.AuditLog, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs WHERE target_id = $1`, targetID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit entries: %w", err)
	}

	offset := (page - 1) * pageSize
	query := `SELECT id, executor_id, target_id, action, changes, created_at
		FROM audit_logs WHERE target_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, targetID, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditLog
	for rows.Next() {
		var (
			entry   domain.AuditLog
			action  string
			changes []byte
		)
		err := rows.Scan(&entry.ID, &entry.ExecutorID, &entry.TargetID, &action, &changes, &entry.CreatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("scan audit row: %w", err)
		}
		entry.Action = domain.AuditAction(action)
		if len(changes) > 0 {
			if err := json.Unmarshal(changes, &entry.Changes); err != nil {
				return nil, 0, fmt.Errorf("unmarshal audit changes: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate audit rows: %w", err)
	}
	return entries, total, nil
}
