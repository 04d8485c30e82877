package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"campus-wallet/internal/core/domain"
	"campus-wallet/internal/core/ports"
	"campus-wallet/internal/core/ports/mocks"
	"campus-wallet/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// mockTx implements pgx.Tx for testing
type mockTx struct{ pgx.Tx }

func (m *mockTx) Rollback(_ context.Context) error { return nil }
func (m *mockTx) Commit(_ context.Context) error   { return nil }

type runnerTestDeps struct {
	runner     *TxRunner
	txRepo     *mocks.MockTransactionRepository
	userRepo   *mocks.MockUserRepository
	transactor *mocks.MockDBTransactor
	idGen      *mocks.MockIDGenerator
	ctrl       *gomock.Controller
}

func setupTxRunner(t *testing.T) *runnerTestDeps {
	ctrl := gomock.NewController(t)
	d := &runnerTestDeps{
		txRepo:     mocks.NewMockTransactionRepository(ctrl),
		userRepo:   mocks.NewMockUserRepository(ctrl),
		transactor: mocks.NewMockDBTransactor(ctrl),
		idGen:      mocks.NewMockIDGenerator(ctrl),
		ctrl:       ctrl,
	}
	d.runner = NewTxRunner(d.txRepo, d.userRepo, d.transactor, d.idGen, zerolog.Nop())
	return d
}

func activeUser(id uuid.UUID) *domain.User {
	return &domain.User{
		ID:          id,
		Email:       id.String() + "@example.com",
		AccountType: domain.AccountTypeUser,
		Verified:    true,
	}
}

func mustAmount(t *testing.T, value int64, txType domain.TransactionType) domain.Amount {
	t.Helper()
	amount, err := domain.NewAmount(value, txType)
	require.NoError(t, err)
	return amount
}

func TestTxRunner_ExecuteTransaction_Success(t *testing.T) {
	d := setupTxRunner(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	senderID := uuid.New()
	receiverID := uuid.New()
	txID := uuid.New()
	tx := &mockTx{}

	req := ports.TransactionRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Amount:     mustAmount(t, 5000, domain.TransactionTypeTransfer),
		Type:       domain.TransactionTypeTransfer,
	}

	d.userRepo.EXPECT().GetByID(ctx, senderID).Return(activeUser(senderID), nil)
	d.userRepo.EXPECT().GetByID(ctx, receiverID).Return(activeUser(receiverID), nil)
	d.idGen.EXPECT().NewID().Return(txID)
	d.txRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, txn *domain.Transaction) error {
			assert.Equal(t, domain.TransactionStatusProcessing, txn.Status)
			assert.Equal(t, int64(5000), txn.Amount)
			return nil
		},
	)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.txRepo.EXPECT().UpdateStatus(ctx, tx, txID, domain.TransactionStatusSuccess).Return(nil)

	effectRan := false
	result, err := d.runner.ExecuteTransaction(ctx, req, func(_ context.Context, dbTx pgx.Tx, txn *domain.Transaction) error {
		effectRan = true
		assert.Same(t, tx, dbTx)
		assert.Equal(t, txID, txn.ID)
		return nil
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, effectRan)
	assert.Equal(t, domain.TransactionStatusSuccess, result.Status)
	require.NotNil(t, result.ProcessedAt)
}

func TestTxRunner_ExecuteTransaction_EffectFails_MarksFailed(t *testing.T) {
	d := setupTxRunner(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	senderID := uuid.New()
	receiverID := uuid.New()
	txID := uuid.New()
	tx := &mockTx{}

	req := ports.TransactionRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Amount:     mustAmount(t, 5000, domain.TransactionTypeTransfer),
		Type:       domain.TransactionTypeTransfer,
	}

	d.userRepo.EXPECT().GetByID(ctx, senderID).Return(activeUser(senderID), nil)
	d.userRepo.EXPECT().GetByID(ctx, receiverID).Return(activeUser(receiverID), nil)
	d.idGen.EXPECT().NewID().Return(txID)
	d.txRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.txRepo.EXPECT().MarkFailed(ctx, txID).Return(nil)

	effectErr := apperror.ErrInsufficientBalance()
	result, err := d.runner.ExecuteTransaction(ctx, req, func(_ context.Context, _ pgx.Tx, _ *domain.Transaction) error {
		return effectErr
	})

	assert.Nil(t, result)
	require.Error(t, err)
	// The failure transition must not mask the effect's error.
	assert.Same(t, error(effectErr), err)
}

func TestTxRunner_ExecuteTransaction_MarkFailedErrorDoesNotMask(t *testing.T) {
	d := setupTxRunner(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	senderID := uuid.New()
	receiverID := uuid.New()
	txID := uuid.New()
	tx := &mockTx{}

	req := ports.TransactionRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Amount:     mustAmount(t, 5000, domain.TransactionTypeTransfer),
		Type:       domain.TransactionTypeTransfer,
	}

	d.userRepo.EXPECT().GetByID(ctx, senderID).Return(activeUser(senderID), nil)
	d.userRepo.EXPECT().GetByID(ctx, receiverID).Return(activeUser(receiverID), nil)
	d.idGen.EXPECT().NewID().Return(txID)
	d.txRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.txRepo.EXPECT().MarkFailed(ctx, txID).Return(errors.New("db down"))

	effectErr := errors.New("effect blew up")
	_, err := d.runner.ExecuteTransaction(ctx, req, func(_ context.Context, _ pgx.Tx, _ *domain.Transaction) error {
		return effectErr
	})

	require.Error(t, err)
	assert.Same(t, effectErr, err)
}

func TestTxRunner_ExecuteTransaction_UnknownSender(t *testing.T) {
	d := setupTxRunner(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	senderID := uuid.New()
	receiverID := uuid.New()

	req := ports.TransactionRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Amount:     mustAmount(t, 5000, domain.TransactionTypeTransfer),
		Type:       domain.TransactionTypeTransfer,
	}

	d.userRepo.EXPECT().GetByID(ctx, senderID).Return(nil, nil)

	_, err := d.runner.ExecuteTransaction(ctx, req, func(_ context.Context, _ pgx.Tx, _ *domain.Transaction) error {
		t.Fatal("effect must not run for unknown sender")
		return nil
	})

	require.Error(t, err)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "USR_001", appErr.Code)
}

func TestTxRunner_ExecuteTransaction_DeletedReceiver(t *testing.T) {
	d := setupTxRunner(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	senderID := uuid.New()
	receiverID := uuid.New()

	deletedAt := time.Now()
	deleted := activeUser(receiverID)
	deleted.Deleted = true
	deleted.DeletedAt = &deletedAt

	req := ports.TransactionRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Amount:     mustAmount(t, 5000, domain.TransactionTypeTransfer),
		Type:       domain.TransactionTypeTransfer,
	}

	d.userRepo.EXPECT().GetByID(ctx, senderID).Return(activeUser(senderID), nil)
	d.userRepo.EXPECT().GetByID(ctx, receiverID).Return(deleted, nil)

	_, err := d.runner.ExecuteTransaction(ctx, req, func(_ context.Context, _ pgx.Tx, _ *domain.Transaction) error {
		return nil
	})

	require.Error(t, err)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "USR_001", appErr.Code)
}

func TestTxRunner_CreateTransaction_PersistsProcessing(t *testing.T) {
	d := setupTxRunner(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	senderID := uuid.New()
	receiverID := uuid.New()
	txID := uuid.New()

	d.userRepo.EXPECT().GetByID(ctx, senderID).Return(activeUser(senderID), nil)
	d.userRepo.EXPECT().GetByID(ctx, receiverID).Return(activeUser(receiverID), nil)
	d.idGen.EXPECT().NewID().Return(txID)
	d.txRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	txn, err := d.runner.CreateTransaction(ctx, ports.TransactionRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Amount:     mustAmount(t, 2000, domain.TransactionTypeDeposit),
		Type:       domain.TransactionTypeDeposit,
	})

	require.NoError(t, err)
	assert.Equal(t, txID, txn.ID)
	assert.Equal(t, domain.TransactionStatusProcessing, txn.Status)
	assert.Nil(t, txn.ProcessedAt)
}
