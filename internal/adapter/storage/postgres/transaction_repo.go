package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campus-wallet/internal/core/domain"
	"campus-wallet/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

const transactionColumns = `id, sender_id, receiver_id, amount, type, status, created_at, processed_at`

// Create inserts the PROCESSING record. It deliberately runs on the pool, not
// inside the money-movement transaction: the attempt record must survive a
// rollback of the movement itself.
func (r *TransactionRepo) Create(ctx context.Context, t *domain.Transaction) error {
	query := `INSERT INTO transactions (id, sender_id, receiver_id, amount, type, status, created_at, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		t.ID, t.SenderID, t.ReceiverID, t.Amount,
		t.Type, t.Status, t.CreatedAt, t.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID fetches a transaction by UUID.
func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM transactions WHERE id = $1`, transactionColumns)
	return scanTransaction(r.pool.QueryRow(ctx, query, id))
}

// UpdateStatus finalizes a transaction's status within the money-movement
// database transaction, so the terminal status commits atomically with the
// balance writes.
func (r *TransactionRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.TransactionStatus) error {
	now := time.Now().UTC()
	query := `UPDATE transactions SET status = $1, processed_at = $2 WHERE id = $3`

	tag, err := tx.Exec(ctx, query, status, now, id)
	if err != nil {
		return fmt.Errorf("update transaction status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction not found: %s", id)
	}
	return nil
}

// MarkFailed records the FAILED terminal status on the pool, after the
// money-movement transaction has been rolled back.
func (r *TransactionRepo) MarkFailed(ctx context.Context, id uuid.UUID) error {
	now := time.Now().UTC()
	query := `UPDATE transactions SET status = $1, processed_at = $2 WHERE id = $3`

	tag, err := r.pool.Exec(ctx, query, domain.TransactionStatusFailed, now, id)
	if err != nil {
		return fmt.Errorf("mark transaction failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction not found: %s", id)
	}
	return nil
}

// List fetches transactions with filtering and pagination. A UserID filter
// matches either side of the movement.
func (r *TransactionRepo) List(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if params.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("(sender_id = $%d OR receiver_id = $%d)", argIdx, argIdx))
		args = append(args, *params.UserID)
		argIdx++
	}
	if params.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *params.Status)
		argIdx++
	}
	if params.Type != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argIdx))
		args = append(args, *params.Type)
		argIdx++
	}
	if params.From != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= to_timestamp($%d)", argIdx))
		args = append(args, *params.From)
		argIdx++
	}
	if params.To != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= to_timestamp($%d)", argIdx))
		args = append(args, *params.To)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	// Count total
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM transactions %s", where)
	var total int64
	err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	// Fetch page
	offset := (params.Page - 1) * params.PageSize
	dataQuery := fmt.Sprintf(`SELECT %s FROM transactions %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		transactionColumns, where, argIdx, argIdx+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t := domain.Transaction{}
		err := rows.Scan(
			&t.ID, &t.SenderID, &t.ReceiverID, &t.Amount,
			&t.Type, &t.Status, &t.CreatedAt, &t.ProcessedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, total, nil
}

// GetStats retrieves aggregated ledger statistics, optionally scoped to one
// user (as sender or receiver).
func (r *TransactionRepo) GetStats(ctx context.Context, userID *uuid.UUID) (*ports.TransactionStats, error) {
	var args []any
	condition := "TRUE"
	if userID != nil {
		condition = "(sender_id = $1 OR receiver_id = $1)"
		args = append(args, *userID)
	}

	query := fmt.Sprintf(`SELECT
		COUNT(*) AS total,
		COUNT(*) FILTER (WHERE status = 'SUCCESS') AS successful,
		COUNT(*) FILTER (WHERE status = 'FAILED') AS failed,
		COUNT(*) FILTER (WHERE status = 'PROCESSING') AS processing,
		COALESCE(SUM(amount) FILTER (WHERE type = 'TRANSFER' AND status = 'SUCCESS'), 0) AS transferred,
		COALESCE(SUM(amount) FILTER (WHERE type = 'DEPOSIT' AND status = 'SUCCESS'), 0) AS deposited,
		COALESCE(SUM(amount) FILTER (WHERE type = 'WITHDRAW' AND status = 'SUCCESS'), 0) AS withdrawn,
		COALESCE(SUM(amount) FILTER (WHERE type = 'PAYMENT' AND status = 'SUCCESS'), 0) AS paid
		FROM transactions WHERE %s`, condition)

	stats := &ports.TransactionStats{}
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&stats.TotalTransactions, &stats.Successful, &stats.Failed, &stats.Processing,
		&stats.TotalTransferred, &stats.TotalDeposited, &stats.TotalWithdrawn, &stats.TotalPaid,
	)
	if err != nil {
		return nil, fmt.Errorf("get transaction stats: %w", err)
	}
	return stats, nil
}

// scanTransaction is a helper to scan a single row into a Transaction.
func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	err := row.Scan(
		&t.ID, &t.SenderID, &t.ReceiverID, &t.Amount,
		&t.Type, &t.Status, &t.CreatedAt, &t.ProcessedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	return t, nil
}
