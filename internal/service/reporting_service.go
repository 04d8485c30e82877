package service

import (
	"context"

	"campus-wallet/internal/core/domain"
	"campus-wallet/internal/core/ports"
	"campus-wallet/pkg/apperror"

	"github.com/google/uuid"
)

// reportingService implements ports.ReportingService.
type reportingService struct {
	txRepo ports.TransactionRepository
}

// NewReportingService creates a new reporting service.
func NewReportingService(txRepo ports.TransactionRepository) ports.ReportingService {
	return &reportingService{txRepo: txRepo}
}

// ListTransactions returns a paginated list of ledger transactions.
func (s *reportingService) ListTransactions(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}

	txns, total, err := s.txRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(err)
	}
	return txns, total, nil
}

// GetStats returns aggregated transaction counts and volumes, scoped to a
// single user when userID is non-nil.
func (s *reportingService) GetStats(ctx context.Context, userID *uuid.UUID) (*ports.TransactionStats, error) {
	stats, err := s.txRepo.GetStats(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	return stats, nil
}
