package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBalance(t *testing.T) {
	tests := []struct {
		name    string
		value   int64
		wantErr error
	}{
		{"zero", 0, nil},
		{"positive", 50000, nil},
		{"negative", -1, ErrNegativeBalance},
		{"large negative", -1000000, ErrNegativeBalance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBalance(tt.value)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.value, b.Value())
		})
	}
}

func TestNewAmount_Minimums(t *testing.T) {
	tests := []struct {
		name    string
		value   int64
		txType  TransactionType
		wantErr bool
	}{
		{"transfer at minimum", MinTransferAmount, TransactionTypeTransfer, false},
		{"transfer below minimum", MinTransferAmount - 1, TransactionTypeTransfer, true},
		{"payment at minimum", MinPaymentAmount, TransactionTypePayment, false},
		{"payment below minimum", MinPaymentAmount - 1, TransactionTypePayment, true},
		{"deposit at minimum", MinDepositAmount, TransactionTypeDeposit, false},
		{"deposit below minimum", MinDepositAmount - 1, TransactionTypeDeposit, true},
		{"withdraw at minimum", MinWithdrawAmount, TransactionTypeWithdraw, false},
		{"withdraw below minimum", MinWithdrawAmount - 1, TransactionTypeWithdraw, true},
		{"zero", 0, TransactionTypeTransfer, true},
		{"negative", -500, TransactionTypePayment, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAmount(tt.value, tt.txType)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrAmountBelowMinimum)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.value, a.Value())
		})
	}
}

func TestNewAdjustmentAmount(t *testing.T) {
	a, err := NewAdjustmentAmount(1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.Value())

	_, err = NewAdjustmentAmount(0)
	assert.ErrorIs(t, err, ErrAmountBelowMinimum)
}

func TestWallet_Credit(t *testing.T) {
	w := NewWallet(uuid.New(), uuid.New(), time.Now().UTC())
	amount, err := NewAmount(50000, TransactionTypeTransfer)
	require.NoError(t, err)

	require.NoError(t, w.Credit(amount))
	assert.Equal(t, int64(50000), w.Balance.Value())

	require.NoError(t, w.Credit(amount))
	assert.Equal(t, int64(100000), w.Balance.Value())
}

func TestWallet_Debit(t *testing.T) {
	w := NewWallet(uuid.New(), uuid.New(), time.Now().UTC())
	require.NoError(t, w.SetBalance(500))

	amount, err := NewAmount(500, TransactionTypeTransfer)
	require.NoError(t, err)

	require.NoError(t, w.Debit(amount))
	assert.Equal(t, int64(0), w.Balance.Value())
}

func TestWallet_Debit_Insufficient(t *testing.T) {
	w := NewWallet(uuid.New(), uuid.New(), time.Now().UTC())
	require.NoError(t, w.SetBalance(100))

	amount, err := NewAmount(200, TransactionTypePayment)
	require.NoError(t, err)

	err = w.Debit(amount)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	// Balance unchanged after the failed debit.
	assert.Equal(t, int64(100), w.Balance.Value())
}

func TestWallet_SetBalance(t *testing.T) {
	w := NewWallet(uuid.New(), uuid.New(), time.Now().UTC())

	require.NoError(t, w.SetBalance(75000))
	assert.Equal(t, int64(75000), w.Balance.Value())

	err := w.SetBalance(-1)
	assert.ErrorIs(t, err, ErrNegativeBalance)
	assert.Equal(t, int64(75000), w.Balance.Value())
}

func TestAccountType_Rank(t *testing.T) {
	tests := []struct {
		role AccountType
		rank int
	}{
		{AccountTypeUser, 1},
		{AccountTypeCashier, 1},
		{AccountTypeCashTopUp, 1},
		{AccountTypeAdmin, 2},
		{AccountTypeSuperAdmin, 3},
		{AccountType("UNKNOWN"), 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.rank, tt.role.Rank())
		})
	}
}

func TestAccountType_IsValid(t *testing.T) {
	assert.True(t, AccountTypeCashTopUp.IsValid())
	assert.False(t, AccountType("ROOT").IsValid())
}

func TestTransaction_UpdateStatus(t *testing.T) {
	amount, err := NewAmount(50000, TransactionTypeTransfer)
	require.NoError(t, err)
	txn := NewTransaction(uuid.New(), uuid.New(), uuid.New(), amount, TransactionTypeTransfer, time.Now().UTC())

	assert.Equal(t, TransactionStatusProcessing, txn.Status)

	require.NoError(t, txn.UpdateStatus(TransactionStatusSuccess))
	assert.Equal(t, TransactionStatusSuccess, txn.Status)

	err = txn.UpdateStatus(TransactionStatus("CANCELLED"))
	assert.ErrorIs(t, err, ErrInvalidTransactionStatus)
	assert.Equal(t, TransactionStatusSuccess, txn.Status)
}

func TestTransaction_IsTerminal(t *testing.T) {
	tests := []struct {
		name   string
		status TransactionStatus
		want   bool
	}{
		{"processing", TransactionStatusProcessing, false},
		{"success", TransactionStatusSuccess, true},
		{"failed", TransactionStatusFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := &Transaction{Status: tt.status}
			assert.Equal(t, tt.want, tx.IsTerminal())
		})
	}
}

func TestDiffSnapshots_User(t *testing.T) {
	id := uuid.New()
	oldUser := &User{ID: id, Email: "a@campus.edu", FullName: "old name", AccountType: AccountTypeUser}
	newUser := &User{ID: id, Email: "a@campus.edu", FullName: "new name", AccountType: AccountTypeSuperAdmin}

	changes, err := DiffSnapshots(oldUser, newUser)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, FieldChange{Field: "fullName", From: "old name", To: "new name"}, changes[0])
	assert.Equal(t, FieldChange{Field: "accountType", From: "USER", To: "SUPER_ADMIN"}, changes[1])
}

func TestDiffSnapshots_Wallet_TargetsOwner(t *testing.T) {
	walletID := uuid.New()
	ownerID := uuid.New()
	oldWallet := &Wallet{ID: walletID, UserID: ownerID}
	require.NoError(t, oldWallet.SetBalance(500))
	newWallet := oldWallet.Snapshot()
	require.NoError(t, newWallet.SetBalance(0))

	changes, err := DiffSnapshots(oldWallet, newWallet)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, FieldChange{Field: "balance", From: "500", To: "0"}, changes[0])
	assert.Equal(t, ownerID, newWallet.AuditTargetID())
}

func TestDiffSnapshots_MismatchedIDs(t *testing.T) {
	oldUser := &User{ID: uuid.New()}
	newUser := &User{ID: uuid.New()}

	_, err := DiffSnapshots(oldUser, newUser)
	assert.ErrorIs(t, err, ErrSnapshotMismatch)
}

func TestDiffSnapshots_NoChanges(t *testing.T) {
	id := uuid.New()
	u := &User{ID: id, Email: "same@campus.edu", AccountType: AccountTypeCashier}

	changes, err := DiffSnapshots(u, u)
	require.NoError(t, err)
	assert.Empty(t, changes)
}
