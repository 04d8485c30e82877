package service

import (
	"context"
	"fmt"
	"time"

	"campus-wallet/internal/core/domain"
	"campus-wallet/internal/core/ports"
	"campus-wallet/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AuditServiceImpl implements ports.AuditRecorder. Given before/after
// snapshots of a mutated entity it computes a field-level diff and persists
// it as an immutable audit entry.
type AuditServiceImpl struct {
	repo  ports.AuditLogRepository
	idGen ports.IDGenerator
	log   zerolog.Logger
}

// NewAuditService creates a new AuditServiceImpl.
func NewAuditService(repo ports.AuditLogRepository, idGen ports.IDGenerator, log zerolog.Logger) *AuditServiceImpl {
	return &AuditServiceImpl{repo: repo, idGen: idGen, log: log}
}

// Record diffs the two snapshots and persists one audit entry. For
// USER_DELETE the diff is skipped entirely: deletion is a state transition,
// not a field comparison, so the change set is empty.
func (s *AuditServiceImpl) Record(ctx context.Context, executorID uuid.UUID, action domain.AuditAction, oldSnap, newSnap domain.AuditSnapshot) (*domain.AuditLog, error) {
	var changes []domain.FieldChange
	if action != domain.AuditActionUserDelete {
		var err error
		changes, err = domain.DiffSnapshots(oldSnap, newSnap)
		if err != nil {
			return nil, apperror.ErrAuditSnapshotMismatch(err)
		}
	}

	entry := &domain.AuditLog{
		ID:         s.idGen.NewID(),
		ExecutorID: executorID,
		TargetID:   newSnap.AuditTargetID(),
		Action:     action,
		Changes:    changes,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("persist audit entry: %w", err))
	}

	s.log.Info().
		Str("action", string(action)).
		Str("executor_id", executorID.String()).
		Str("target_id", entry.TargetID.String()).
		Int("changes", len(changes)).
		Msg("audit")

	return entry, nil
}

// ListByTarget returns the audit trail for a target user.
func (s *AuditServiceImpl) ListByTarget(ctx context.Context, targetID uuid.UUID, page, pageSize int) ([]domain.AuditLog, int64, error) {
	entries, total, err := s.repo.ListByTarget(ctx, targetID, page, pageSize)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list audit entries: %w", err))
	}
	return entries, total, nil
}
