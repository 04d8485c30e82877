package ports

import (
	"context"
	"time"

	"campus-wallet/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(userID uuid.UUID, role domain.AccountType) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	UserID uuid.UUID
	Role   domain.AccountType
}

// BalanceCache is the Redis read-through cache for wallet balances.
type BalanceCache interface {
	Get(ctx context.Context, userID uuid.UUID) (int64, bool, error) // balance, hit, error
	Set(ctx context.Context, userID uuid.UUID, balance int64, ttl time.Duration) error
	Invalidate(ctx context.Context, userIDs ...uuid.UUID) error
}

// --- Service Ports (Business Logic) ---

// Effect is the caller-supplied closure a TransactionRunner executes between
// creating the PROCESSING record and finalizing the status. It runs inside the
// supplied database transaction; returning an error rolls back every balance
// write it made.
type Effect func(ctx context.Context, dbTx pgx.Tx, txn *domain.Transaction) error

// TransactionRequest identifies the parties, amount and kind of a money movement.
type TransactionRequest struct {
	SenderID   uuid.UUID
	ReceiverID uuid.UUID
	Amount     domain.Amount
	Type       domain.TransactionType
}

// TransactionRunner implements the execute-with-compensation pattern: record
// the attempt, run its effect, record the outcome.
type TransactionRunner interface {
	// ExecuteTransaction creates a PROCESSING transaction, runs the effect, and
	// finalizes the status to SUCCESS or FAILED. The effect's error, if any, is
	// returned unchanged.
	ExecuteTransaction(ctx context.Context, req TransactionRequest, effect Effect) (*domain.Transaction, error)
	// CreateTransaction records a PROCESSING transaction without an effect;
	// the caller manages success/failure itself.
	CreateTransaction(ctx context.Context, req TransactionRequest) (*domain.Transaction, error)
}

// LedgerService defines the money-movement use cases.
type LedgerService interface {
	Transfer(ctx context.Context, req TransferRequest) (*domain.Transaction, error)
	Pay(ctx context.Context, req PayRequest) (*domain.Transaction, error)
	TopUp(ctx context.Context, req TopUpRequest) (*domain.Transaction, error)
	Withdraw(ctx context.Context, req WithdrawRequest) (*domain.Transaction, error)
	SetBalance(ctx context.Context, req SetBalanceRequest) (*domain.Transaction, error)
	GetBalance(ctx context.Context, userID uuid.UUID) (int64, error)
}

// TransferRequest moves funds between two user wallets.
type TransferRequest struct {
	SenderID   uuid.UUID
	ReceiverID uuid.UUID
	Amount     int64
}

// PayRequest moves funds from a user to a cashier.
type PayRequest struct {
	SenderID  uuid.UUID
	CashierID uuid.UUID
	Amount    int64
}

// TopUpRequest credits a user's wallet on behalf of a top-up operator.
type TopUpRequest struct {
	ActorID uuid.UUID
	UserID  uuid.UUID
	Amount  int64
}

// WithdrawRequest debits a user's wallet through a cashier.
type WithdrawRequest struct {
	ActorID uuid.UUID
	UserID  uuid.UUID
	Amount  int64
}

// SetBalanceRequest is the administrative balance override.
type SetBalanceRequest struct {
	AdminID uuid.UUID
	UserID  uuid.UUID
	Value   int64
}

// RoleService decides whether one actor may act on or assign another's role.
type RoleService interface {
	HasPermission(ctx context.Context, actorID uuid.UUID, required domain.AccountType) (bool, error)
	HasHigherPermission(ctx context.Context, actorID, targetID uuid.UUID) (bool, error)
	EnsureValidRoleChange(updaterRole, oldRole, newRole domain.AccountType) error
}

// AuditRecorder computes and persists field-level diffs for privileged mutations.
type AuditRecorder interface {
	Record(ctx context.Context, executorID uuid.UUID, action domain.AuditAction, oldSnap, newSnap domain.AuditSnapshot) (*domain.AuditLog, error)
	ListByTarget(ctx context.Context, targetID uuid.UUID, page, pageSize int) ([]domain.AuditLog, int64, error)
}

// AuthService defines registration and login.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, time.Time, error) // token, expiry, error
}

// RegisterRequest holds input for user registration.
type RegisterRequest struct {
	Email    string
	Password string
	FullName string
}

// UserService defines privileged user management.
type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	ListUsers(ctx context.Context, actorID uuid.UUID, page, pageSize int) ([]domain.User, int64, error)
	UpdateRole(ctx context.Context, executorID, targetID uuid.UUID, newRole domain.AccountType) (*domain.User, error)
	SetVerified(ctx context.Context, executorID, targetID uuid.UUID, verified bool) (*domain.User, error)
	Delete(ctx context.Context, executorID, targetID uuid.UUID) error
}

// ReportingService defines history/statistics queries over the ledger.
type ReportingService interface {
	ListTransactions(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
	GetStats(ctx context.Context, userID *uuid.UUID) (*TransactionStats, error)
}
