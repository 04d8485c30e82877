package ports

import (
	"context"

	"campus-wallet/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UserRepository defines persistence operations for users.
// Lookups return (nil, nil) when the user does not exist.
type UserRepository interface {
	Create(ctx context.Context, tx pgx.Tx, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	List(ctx context.Context, page, pageSize int) ([]domain.User, int64, error)
}

// WalletRepository defines persistence operations for wallets.
// Methods accepting pgx.Tx are used inside transaction blocks for pessimistic locking.
type WalletRepository interface {
	Create(ctx context.Context, tx pgx.Tx, wallet *domain.Wallet) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error)
	GetByUserIDForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*domain.Wallet, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance int64) error
	SoftDelete(ctx context.Context, walletID uuid.UUID) error
}

// TransactionRepository defines persistence operations for ledger transactions.
type TransactionRepository interface {
	// Create inserts the PROCESSING record before the money movement runs.
	Create(ctx context.Context, t *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	// UpdateStatus finalizes a transaction inside the money-movement database
	// transaction so the terminal status commits atomically with the balance writes.
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.TransactionStatus) error
	// MarkFailed records the FAILED terminal status after the money-movement
	// transaction has been rolled back.
	MarkFailed(ctx context.Context, id uuid.UUID) error
	// Reporting queries
	List(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
	GetStats(ctx context.Context, userID *uuid.UUID) (*TransactionStats, error)
}

// TransactionListParams holds filter + pagination for listing transactions.
type TransactionListParams struct {
	UserID   *uuid.UUID // Matches sender or receiver; nil = all (admin)
	Status   *domain.TransactionStatus
	Type     *domain.TransactionType
	From     *int64 // Unix timestamp
	To       *int64 // Unix timestamp
	Page     int
	PageSize int
}

// TransactionStats holds aggregated ledger statistics.
type TransactionStats struct {
	TotalTransactions int64
	Successful        int64
	Failed            int64
	Processing        int64
	TotalTransferred  int64 // Sum of successful transfer amounts
	TotalDeposited    int64 // Sum of successful deposit amounts
	TotalWithdrawn    int64 // Sum of successful withdraw amounts
	TotalPaid         int64 // Sum of successful payment amounts
}

// AuditLogRepository defines persistence for the append-only audit trail.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
	ListByTarget(ctx context.Context, targetID uuid.UUID, page, pageSize int) ([]domain.AuditLog, int64, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// IDGenerator produces unique identifiers for new entities.
type IDGenerator interface {
	NewID() uuid.UUID
}
