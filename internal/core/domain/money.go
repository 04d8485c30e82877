package domain

import (
	"errors"
	"fmt"
	"strconv"
)

// Validation failures for money value objects. Callers unwrap these at the
// use-case boundary before any side effect occurs.
var (
	ErrNegativeBalance    = errors.New("balance cannot be negative")
	ErrAmountBelowMinimum = errors.New("amount below operation minimum")
)

// All monetary values are int64 in the smallest currency unit (cents).

// Per-operation minimum amounts, in cents.
const (
	MinDepositAmount  int64 = 1000 // top-up
	MinWithdrawAmount int64 = 1000
	MinTransferAmount int64 = 100
	MinPaymentAmount  int64 = 100
)

// Balance is a validated, non-negative wallet balance.
// A Balance can only be obtained through NewBalance, so holding one
// guarantees the non-negativity invariant.
type Balance struct {
	value int64
}

// NewBalance validates and wraps a balance value.
func NewBalance(value int64) (Balance, error) {
	if value < 0 {
		return Balance{}, fmt.Errorf("%w: %d", ErrNegativeBalance, value)
	}
	return Balance{value: value}, nil
}

// Value returns the balance in cents.
func (b Balance) Value() int64 {
	return b.value
}

// String renders the balance in cents, the format used by audit snapshots.
func (b Balance) String() string {
	return strconv.FormatInt(b.value, 10)
}

// Amount is a validated, positive money-movement amount.
// Each transaction type carries its own minimum; the constructor embeds it
// so an Amount below the operation threshold cannot exist.
type Amount struct {
	value int64
}

// MinimumFor returns the minimum amount for a transaction type.
func MinimumFor(txType TransactionType) int64 {
	switch txType {
	case TransactionTypeDeposit:
		return MinDepositAmount
	case TransactionTypeWithdraw:
		return MinWithdrawAmount
	case TransactionTypeTransfer:
		return MinTransferAmount
	case TransactionTypePayment:
		return MinPaymentAmount
	default:
		return 1
	}
}

// NewAmount validates an amount against the minimum for the given operation.
func NewAmount(value int64, txType TransactionType) (Amount, error) {
	if min := MinimumFor(txType); value < min {
		return Amount{}, fmt.Errorf("%w: %s requires at least %d, got %d",
			ErrAmountBelowMinimum, txType, min, value)
	}
	return Amount{value: value}, nil
}

// NewAdjustmentAmount validates an administrative balance-adjustment delta.
// Adjustments are not bound to any operation minimum, only to positivity.
func NewAdjustmentAmount(value int64) (Amount, error) {
	if value < 1 {
		return Amount{}, fmt.Errorf("%w: adjustment must be positive, got %d",
			ErrAmountBelowMinimum, value)
	}
	return Amount{value: value}, nil
}

// Value returns the amount in cents.
func (a Amount) Value() int64 {
	return a.value
}
