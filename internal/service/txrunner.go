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

// TxRunner implements ports.TransactionRunner. Every money movement goes
// through it: the attempt is recorded as a PROCESSING transaction, the effect
// runs inside one database transaction, and the outcome is recorded as
// SUCCESS or FAILED. The terminal status always reflects whether the balance
// mutation actually committed.
type TxRunner struct {
	txRepo     ports.TransactionRepository
	userRepo   ports.UserRepository
	transactor ports.DBTransactor
	idGen      ports.IDGenerator
	log        zerolog.Logger
}

// NewTxRunner creates a new TxRunner.
func NewTxRunner(
	txRepo ports.TransactionRepository,
	userRepo ports.UserRepository,
	transactor ports.DBTransactor,
	idGen ports.IDGenerator,
	log zerolog.Logger,
) *TxRunner {
	return &TxRunner{
		txRepo:     txRepo,
		userRepo:   userRepo,
		transactor: transactor,
		idGen:      idGen,
		log:        log,
	}
}

// ExecuteTransaction runs the execute-with-compensation flow:
//
//  1. Validate both parties exist.
//  2. Persist a PROCESSING transaction.
//  3. Run the effect inside one database transaction; the SUCCESS status
//     update commits in the same transaction as the effect's balance writes.
//  4. If the effect (or the commit) fails, every balance write is rolled
//     back, the transaction is marked FAILED, and the original error is
//     returned unchanged.
func (r *TxRunner) ExecuteTransaction(ctx context.Context, req ports.TransactionRequest, effect ports.Effect) (*domain.Transaction, error) {
	txn, err := r.CreateTransaction(ctx, req)
	if err != nil {
		return nil, err
	}

	if effectErr := r.runEffect(ctx, txn, effect); effectErr != nil {
		r.markFailed(ctx, txn)
		// The failure transition must not mask the real cause.
		return nil, effectErr
	}

	now := time.Now().UTC()
	txn.Status = domain.TransactionStatusSuccess
	txn.ProcessedAt = &now

	r.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("type", string(txn.Type)).
		Int64("amount", txn.Amount).
		Msg("transaction executed")

	return txn, nil
}

// CreateTransaction validates both parties and persists a PROCESSING
// transaction without running an effect. The caller manages success/failure.
func (r *TxRunner) CreateTransaction(ctx context.Context, req ports.TransactionRequest) (*domain.Transaction, error) {
	if err := r.ensureUserExists(ctx, req.SenderID); err != nil {
		return nil, err
	}
	if err := r.ensureUserExists(ctx, req.ReceiverID); err != nil {
		return nil, err
	}

	txn := domain.NewTransaction(
		r.idGen.NewID(),
		req.SenderID,
		req.ReceiverID,
		req.Amount,
		req.Type,
		time.Now().UTC(),
	)

	if err := r.txRepo.Create(ctx, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create transaction: %w", err))
	}
	return txn, nil
}

// runEffect executes the effect and the SUCCESS status write inside a single
// database transaction.
func (r *TxRunner) runEffect(ctx context.Context, txn *domain.Transaction, effect ports.Effect) error {
	dbTx, err := r.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := effect(ctx, dbTx, txn); err != nil {
		return err
	}

	if err := r.txRepo.UpdateStatus(ctx, dbTx, txn.ID, domain.TransactionStatusSuccess); err != nil {
		return apperror.InternalError(fmt.Errorf("finalize transaction: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	return nil
}

// markFailed records the FAILED terminal status after a rollback. If this
// write itself fails, the record stays PROCESSING; the balances were already
// rolled back, so no money moved.
func (r *TxRunner) markFailed(ctx context.Context, txn *domain.Transaction) {
	if err := r.txRepo.MarkFailed(ctx, txn.ID); err != nil {
		r.log.Error().Err(err).
			Str("tx_id", txn.ID.String()).
			Msg("failed to mark transaction FAILED, record left PROCESSING")
		return
	}
	txn.Status = domain.TransactionStatusFailed
}

func (r *TxRunner) ensureUserExists(ctx context.Context, id uuid.UUID) error {
	user, err := r.userRepo.GetByID(ctx, id)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("find user: %w", err))
	}
	if user == nil || !user.IsActive() {
		return apperror.ErrUserNotFound(id.String())
	}
	return nil
}
