package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"campus-wallet/internal/core/domain"
	"campus-wallet/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- In-Memory User Repo ---

type inMemoryUserRepo struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*domain.User
}

func newInMemoryUserRepo() *inMemoryUserRepo {
	return &inMemoryUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *inMemoryUserRepo) Create(ctx context.Context, tx pgx.Tx, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return fmt.Errorf("email already exists")
		}
	}
	clone := *u
	r.users[u.ID] = &clone
	return nil
}

func (r *inMemoryUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

func (r *inMemoryUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *inMemoryUserRepo) Update(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return fmt.Errorf("user not found")
	}
	clone := *u
	r.users[u.ID] = &clone
	return nil
}

func (r *inMemoryUserRepo) List(ctx context.Context, page, pageSize int) ([]domain.User, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.User
	for _, u := range r.users {
		if u.Deleted {
			continue
		}
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return paginate(result, page, pageSize)
}

// --- In-Memory Wallet Repo ---

type inMemoryWalletRepo struct {
	mu      sync.RWMutex
	wallets map[uuid.UUID]*domain.Wallet
}

func newInMemoryWalletRepo() *inMemoryWalletRepo {
	return &inMemoryWalletRepo{wallets: make(map[uuid.UUID]*domain.Wallet)}
}

func (r *inMemoryWalletRepo) Create(ctx context.Context, tx pgx.Tx, w *domain.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *w
	r.wallets[w.ID] = &clone
	return nil
}

func (r *inMemoryWalletRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.wallets {
		if w.UserID == userID {
			clone := *w
			return &clone, nil
		}
	}
	return nil, nil
}

// GetByUserIDForUpdate returns a copy, same as GetByUserID. Row-level lock
// semantics come from the serializing transactor: only one database
// transaction runs at a time, so read-modify-write cycles never interleave.
func (r *inMemoryWalletRepo) GetByUserIDForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*domain.Wallet, error) {
	return r.GetByUserID(ctx, userID)
}

func (r *inMemoryWalletRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[walletID]
	if !ok {
		return fmt.Errorf("wallet not found")
	}
	newBalance, err := domain.NewBalance(balance)
	if err != nil {
		return err
	}
	w.Balance = newBalance
	w.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *inMemoryWalletRepo) SoftDelete(ctx context.Context, walletID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[walletID]
	if !ok {
		return fmt.Errorf("wallet not found")
	}
	now := time.Now().UTC()
	w.Deleted = true
	w.DeletedAt = &now
	w.UpdatedAt = now
	return nil
}

// --- In-Memory Transaction Repo ---

type inMemoryTransactionRepo struct {
	mu           sync.RWMutex
	transactions map[uuid.UUID]*domain.Transaction
}

func newInMemoryTransactionRepo() *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{transactions: make(map[uuid.UUID]*domain.Transaction)}
}

func (r *inMemoryTransactionRepo) Create(ctx context.Context, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *t
	r.transactions[t.ID] = &clone
	return nil
}

func (r *inMemoryTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.transactions[id]
	if !ok {
		return nil, nil
	}
	clone := *t
	return &clone, nil
}

func (r *inMemoryTransactionRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.TransactionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.transactions[id]
	if !ok {
		return fmt.Errorf("transaction not found")
	}
	now := time.Now().UTC()
	t.Status = status
	t.ProcessedAt = &now
	return nil
}

func (r *inMemoryTransactionRepo) MarkFailed(ctx context.Context, id uuid.UUID) error {
	return r.UpdateStatus(ctx, nil, id, domain.TransactionStatusFailed)
}

func (r *inMemoryTransactionRepo) List(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Transaction
	for _, t := range r.transactions {
		if params.UserID != nil && t.SenderID != *params.UserID && t.ReceiverID != *params.UserID {
			continue
		}
		if params.Status != nil && t.Status != *params.Status {
			continue
		}
		if params.Type != nil && t.Type != *params.Type {
			continue
		}
		if params.From != nil && t.CreatedAt.Unix() < *params.From {
			continue
		}
		if params.To != nil && t.CreatedAt.Unix() > *params.To {
			continue
		}
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return paginate(result, params.Page, params.PageSize)
}

func (r *inMemoryTransactionRepo) GetStats(ctx context.Context, userID *uuid.UUID) (*ports.TransactionStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := &ports.TransactionStats{}
	for _, t := range r.transactions {
		if userID != nil && t.SenderID != *userID && t.ReceiverID != *userID {
			continue
		}
		stats.TotalTransactions++
		switch t.Status {
		case domain.TransactionStatusSuccess:
			stats.Successful++
		case domain.TransactionStatusFailed:
			stats.Failed++
		case domain.TransactionStatusProcessing:
			stats.Processing++
		}
		if t.Status != domain.TransactionStatusSuccess {
			continue
		}
		switch t.Type {
		case domain.TransactionTypeTransfer:
			stats.TotalTransferred += t.Amount
		case domain.TransactionTypeDeposit:
			stats.TotalDeposited += t.Amount
		case domain.TransactionTypeWithdraw:
			stats.TotalWithdrawn += t.Amount
		case domain.TransactionTypePayment:
			stats.TotalPaid += t.Amount
		}
	}
	return stats, nil
}

// --- In-Memory Audit Log Repo ---

type inMemoryAuditLogRepo struct {
	mu      sync.RWMutex
	entries []domain.AuditLog
}

func newInMemoryAuditLogRepo() *inMemoryAuditLogRepo {
	return &inMemoryAuditLogRepo{}
}

func (r *inMemoryAuditLogRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *inMemoryAuditLogRepo) ListByTarget(ctx context.Context, targetID uuid.UUID, page, pageSize int) ([]domain.AuditLog, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.AuditLog
	for _, e := range r.entries {
		if e.TargetID == targetID {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return paginate(result, page, pageSize)
}

// --- In-Memory Transactor ---

// inMemoryTransactor serializes "database transactions" behind one mutex,
// standing in for PostgreSQL row locks: an effect holding the tx sees no
// interleaved writes from concurrent effects.
type inMemoryTransactor struct {
	mu sync.Mutex
}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	return &serialTx{mu: &t.mu}, nil
}

// serialTx is a pgx.Tx that holds the transactor mutex until Commit or
// Rollback. The runner calls Rollback via defer even after a successful
// Commit, so the unlock is once-guarded.
type serialTx struct {
	mu      *sync.Mutex
	release sync.Once
}

func (t *serialTx) done() {
	t.release.Do(t.mu.Unlock)
}

func (t *serialTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *serialTx) Commit(ctx context.Context) error          { t.done(); return nil }
func (t *serialTx) Rollback(ctx context.Context) error        { t.done(); return nil }
func (t *serialTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *serialTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *serialTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *serialTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *serialTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *serialTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *serialTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *serialTx) Conn() *pgx.Conn { return nil }

// paginate slices a result set the way LIMIT/OFFSET would.
func paginate[T any](result []T, page, pageSize int) ([]T, int64, error) {
	total := int64(len(result))
	start := (page - 1) * pageSize
	if start >= len(result) {
		return []T{}, total, nil
	}
	end := start + pageSize
	if end > len(result) {
		end = len(result)
	}
	return result[start:end], total, nil
}
