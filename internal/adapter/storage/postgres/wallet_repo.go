package postgres

import (
	"context"
	"errors"
	"fmt"

	"campus-wallet/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

const walletColumns = `id, user_id, balance, deleted, deleted_at, created_at, updated_at`

// Create inserts a new wallet within a database transaction. Called together
// with user creation so an account never exists without its wallet.
func (r *WalletRepo) Create(ctx context.Context, tx pgx.Tx, w *domain.Wallet) error {
	query := `INSERT INTO wallets (id, user_id, balance, deleted, deleted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.Exec(ctx, query,
		w.ID, w.UserID, w.Balance.Value(), w.Deleted, w.DeletedAt,
		w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// GetByUserID fetches a user's wallet (non-locking read).
func (r *WalletRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	query := fmt.Sprintf(`SELECT %s FROM wallets WHERE user_id = $1`, walletColumns)
	return scanWallet(r.pool.QueryRow(ctx, query, userID))
}

// GetByUserIDForUpdate fetches a user's wallet with pessimistic locking.
// This MUST be called within a transaction.
func (r *WalletRepo) GetByUserIDForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*domain.Wallet, error) {
	query := fmt.Sprintf(`SELECT %s FROM wallets WHERE user_id = $1 FOR UPDATE`, walletColumns)
	return scanWallet(tx.QueryRow(ctx, query, userID))
}

// UpdateBalance updates a wallet's balance within a transaction.
func (r *WalletRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance int64) error {
	query := `UPDATE wallets SET balance = $1, updated_at = NOW() WHERE id = $2`

	tag, err := tx.Exec(ctx, query, balance, walletID)
	if err != nil {
		return fmt.Errorf("update wallet balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", walletID)
	}
	return nil
}

// SoftDelete marks a wallet deleted without removing the row.
func (r *WalletRepo) SoftDelete(ctx context.Context, walletID uuid.UUID) error {
	query := `UPDATE wallets SET deleted = TRUE, deleted_at = NOW(), updated_at = NOW() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, walletID)
	if err != nil {
		return fmt.Errorf("soft delete wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", walletID)
	}
	return nil
}

// scanWallet scans a single row into a Wallet, routing the stored balance
// through the Balance constructor.
func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	w := &domain.Wallet{}
	var balance int64
	err := row.Scan(
		&w.ID, &w.UserID, &balance, &w.Deleted, &w.DeletedAt,
		&w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan wallet: %w", err)
	}

	w.Balance, err = domain.NewBalance(balance)
	if err != nil {
		return nil, fmt.Errorf("stored balance invalid: %w", err)
	}
	return w, nil
}
