package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"campus-wallet/internal/core/domain"
	"campus-wallet/internal/core/ports"
	"campus-wallet/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const balanceCacheTTL = 5 * time.Minute

// LedgerServiceImpl implements ports.LedgerService. Each use case validates
// its preconditions, then delegates to the transaction runner with an effect
// that performs the wallet mutations.
type LedgerServiceImpl struct {
	runner     ports.TransactionRunner
	walletRepo ports.WalletRepository
	roleSvc    ports.RoleService
	auditRec   ports.AuditRecorder
	cache      ports.BalanceCache
	log        zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(
	runner ports.TransactionRunner,
	walletRepo ports.WalletRepository,
	roleSvc ports.RoleService,
	auditRec ports.AuditRecorder,
	cache ports.BalanceCache,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		runner:     runner,
		walletRepo: walletRepo,
		roleSvc:    roleSvc,
		auditRec:   auditRec,
		cache:      cache,
		log:        log,
	}
}

// Transfer moves funds between two user wallets. Both wallets are locked and
// updated inside the runner's single database transaction: both sides commit
// or neither does.
func (s *LedgerServiceImpl) Transfer(ctx context.Context, req ports.TransferRequest) (*domain.Transaction, error) {
	amount, err := domain.NewAmount(req.Amount, domain.TransactionTypeTransfer)
	if err != nil {
		return nil, apperror.ErrInvalidAmount(err)
	}
	if req.SenderID == req.ReceiverID {
		return nil, apperror.ErrSelfTransfer()
	}

	txn, err := s.runner.ExecuteTransaction(ctx, ports.TransactionRequest{
		SenderID:   req.SenderID,
		ReceiverID: req.ReceiverID,
		Amount:     amount,
		Type:       domain.TransactionTypeTransfer,
	}, s.moveFundsEffect(req.SenderID, req.ReceiverID, amount))
	if err != nil {
		return nil, err
	}

	s.invalidateBalances(ctx, req.SenderID, req.ReceiverID)
	return txn, nil
}

// Pay moves funds from a user to a cashier. Only CASHIER-role actors may
// receive payments.
func (s *LedgerServiceImpl) Pay(ctx context.Context, req ports.PayRequest) (*domain.Transaction, error) {
	amount, err := domain.NewAmount(req.Amount, domain.TransactionTypePayment)
	if err != nil {
		return nil, apperror.ErrInvalidAmount(err)
	}
	if req.SenderID == req.CashierID {
		return nil, apperror.ErrSelfTransfer()
	}

	isCashier, err := s.roleSvc.HasPermission(ctx, req.CashierID, domain.AccountTypeCashier)
	if err != nil {
		return nil, err
	}
	if !isCashier {
		return nil, apperror.ErrCashierRequired()
	}

	txn, err := s.runner.ExecuteTransaction(ctx, ports.TransactionRequest{
		SenderID:   req.SenderID,
		ReceiverID: req.CashierID,
		Amount:     amount,
		Type:       domain.TransactionTypePayment,
	}, s.moveFundsEffect(req.SenderID, req.CashierID, amount))
	if err != nil {
		return nil, err
	}

	s.invalidateBalances(ctx, req.SenderID, req.CashierID)
	return txn, nil
}

// TopUp credits a user's wallet. Only CASH_TOP_UP-role actors may top up.
func (s *LedgerServiceImpl) TopUp(ctx context.Context, req ports.TopUpRequest) (*domain.Transaction, error) {
	amount, err := domain.NewAmount(req.Amount, domain.TransactionTypeDeposit)
	if err != nil {
		return nil, apperror.ErrInvalidAmount(err)
	}

	allowed, err := s.roleSvc.HasPermission(ctx, req.ActorID, domain.AccountTypeCashTopUp)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperror.ErrPermissionDenied(string(domain.AccountTypeCashTopUp))
	}

	txn, err := s.runner.ExecuteTransaction(ctx, ports.TransactionRequest{
		SenderID:   req.ActorID,
		ReceiverID: req.UserID,
		Amount:     amount,
		Type:       domain.TransactionTypeDeposit,
	}, func(ctx context.Context, dbTx pgx.Tx, txn *domain.Transaction) error {
		wallet, err := s.lockWallet(ctx, dbTx, req.UserID)
		if err != nil {
			return err
		}
		if err := wallet.Credit(amount); err != nil {
			return err
		}
		return s.persistBalance(ctx, dbTx, wallet)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateBalances(ctx, req.UserID)
	return txn, nil
}

// Withdraw debits a user's wallet through a cashier.
func (s *LedgerServiceImpl) Withdraw(ctx context.Context, req ports.WithdrawRequest) (*domain.Transaction, error) {
	amount, err := domain.NewAmount(req.Amount, domain.TransactionTypeWithdraw)
	if err != nil {
		return nil, apperror.ErrInvalidAmount(err)
	}

	allowed, err := s.roleSvc.HasPermission(ctx, req.ActorID, domain.AccountTypeCashier)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperror.ErrPermissionDenied(string(domain.AccountTypeCashier))
	}

	txn, err := s.runner.ExecuteTransaction(ctx, ports.TransactionRequest{
		SenderID:   req.UserID,
		ReceiverID: req.ActorID,
		Amount:     amount,
		Type:       domain.TransactionTypeWithdraw,
	}, func(ctx context.Context, dbTx pgx.Tx, txn *domain.Transaction) error {
		wallet, err := s.lockWallet(ctx, dbTx, req.UserID)
		if err != nil {
			return err
		}
		if err := wallet.Debit(amount); err != nil {
			return s.translateDebitError(err)
		}
		return s.persistBalance(ctx, dbTx, wallet)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateBalances(ctx, req.UserID)
	return txn, nil
}

// SetBalance is the administrative balance override. The delta is recorded as
// a DEPOSIT or WITHDRAW transaction and the mutation is audited with
// before/after snapshots.
func (s *LedgerServiceImpl) SetBalance(ctx context.Context, req ports.SetBalanceRequest) (*domain.Transaction, error) {
	if _, err := domain.NewBalance(req.Value); err != nil {
		return nil, apperror.ErrInvalidBalance(err)
	}

	allowed, err := s.roleSvc.HasPermission(ctx, req.AdminID, domain.AccountTypeAdmin)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperror.ErrPermissionDenied(string(domain.AccountTypeAdmin))
	}
	outranks, err := s.roleSvc.HasHigherPermission(ctx, req.AdminID, req.UserID)
	if err != nil {
		return nil, err
	}
	if !outranks {
		return nil, apperror.ErrModifyHigherRole()
	}

	current, err := s.walletRepo.GetByUserID(ctx, req.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load wallet: %w", err))
	}
	if current == nil || current.Deleted {
		return nil, apperror.ErrWalletNotFound(req.UserID.String())
	}
	if current.Balance.Value() == req.Value {
		return nil, nil // no-op override, nothing to record
	}

	delta := req.Value - current.Balance.Value()
	txType := domain.TransactionTypeDeposit
	if delta < 0 {
		txType = domain.TransactionTypeWithdraw
		delta = -delta
	}
	amount, err := domain.NewAdjustmentAmount(delta)
	if err != nil {
		return nil, apperror.ErrInvalidAmount(err)
	}

	var oldSnap, newSnap *domain.Wallet
	txn, err := s.runner.ExecuteTransaction(ctx, ports.TransactionRequest{
		SenderID:   req.AdminID,
		ReceiverID: req.UserID,
		Amount:     amount,
		Type:       txType,
	}, func(ctx context.Context, dbTx pgx.Tx, txn *domain.Transaction) error {
		wallet, err := s.lockWallet(ctx, dbTx, req.UserID)
		if err != nil {
			return err
		}
		oldSnap = wallet.Snapshot()
		if err := wallet.SetBalance(req.Value); err != nil {
			return err
		}
		newSnap = wallet
		return s.persistBalance(ctx, dbTx, wallet)
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.auditRec.Record(ctx, req.AdminID, domain.AuditActionWalletUpdate, oldSnap, newSnap); err != nil {
		s.log.Warn().Err(err).
			Str("user_id", req.UserID.String()).
			Msg("balance override succeeded but audit record failed")
	}

	s.invalidateBalances(ctx, req.UserID)
	return txn, nil
}

// GetBalance returns a user's wallet balance through the read-through cache.
func (s *LedgerServiceImpl) GetBalance(ctx context.Context, userID uuid.UUID) (int64, error) {
	if balance, hit, err := s.cache.Get(ctx, userID); err != nil {
		s.log.Warn().Err(err).Msg("balance cache read failed, falling through to DB")
	} else if hit {
		return balance, nil
	}

	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("load wallet: %w", err))
	}
	if wallet == nil || wallet.Deleted {
		return 0, apperror.ErrWalletNotFound(userID.String())
	}

	if err := s.cache.Set(ctx, userID, wallet.Balance.Value(), balanceCacheTTL); err != nil {
		s.log.Warn().Err(err).Msg("balance cache write failed")
	}
	return wallet.Balance.Value(), nil
}

// moveFundsEffect builds the two-wallet effect shared by Transfer and Pay:
// lock both wallets, debit the sender, credit the receiver, persist both.
// Wallets are locked in deterministic id order to avoid lock-order deadlocks
// between concurrent opposite-direction movements.
func (s *LedgerServiceImpl) moveFundsEffect(senderID, receiverID uuid.UUID, amount domain.Amount) ports.Effect {
	return func(ctx context.Context, dbTx pgx.Tx, txn *domain.Transaction) error {
		first, second := senderID, receiverID
		if bytes.Compare(receiverID[:], senderID[:]) < 0 {
			first, second = receiverID, senderID
		}

		wallets := map[uuid.UUID]*domain.Wallet{}
		for _, id := range []uuid.UUID{first, second} {
			w, err := s.lockWallet(ctx, dbTx, id)
			if err != nil {
				return err
			}
			wallets[id] = w
		}

		if err := wallets[senderID].Debit(amount); err != nil {
			return s.translateDebitError(err)
		}
		if err := wallets[receiverID].Credit(amount); err != nil {
			return err
		}

		for _, id := range []uuid.UUID{first, second} {
			if err := s.persistBalance(ctx, dbTx, wallets[id]); err != nil {
				return err
			}
		}
		return nil
	}
}

// lockWallet loads a wallet row FOR UPDATE. A user without a wallet is its
// own failure mode, re-checked inside every effect.
func (s *LedgerServiceImpl) lockWallet(ctx context.Context, dbTx pgx.Tx, userID uuid.UUID) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByUserIDForUpdate(ctx, dbTx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil || wallet.Deleted {
		return nil, apperror.ErrWalletNotFound(userID.String())
	}
	return wallet, nil
}

func (s *LedgerServiceImpl) persistBalance(ctx context.Context, dbTx pgx.Tx, wallet *domain.Wallet) error {
	if err := s.walletRepo.UpdateBalance(ctx, dbTx, wallet.ID, wallet.Balance.Value()); err != nil {
		return apperror.InternalError(fmt.Errorf("update balance: %w", err))
	}
	return nil
}

func (s *LedgerServiceImpl) translateDebitError(err error) error {
	if errors.Is(err, domain.ErrInsufficientBalance) {
		return apperror.ErrInsufficientBalance()
	}
	return err
}

// invalidateBalances drops cached balances after a successful mutation
// (best-effort).
func (s *LedgerServiceImpl) invalidateBalances(ctx context.Context, userIDs ...uuid.UUID) {
	if err := s.cache.Invalidate(ctx, userIDs...); err != nil {
		s.log.Warn().Err(err).Msg("balance cache invalidation failed")
	}
}
