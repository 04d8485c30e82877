package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TransactionType represents the kind of money movement.
type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "DEPOSIT"
	TransactionTypeWithdraw TransactionType = "WITHDRAW"
	TransactionTypeTransfer TransactionType = "TRANSFER"
	TransactionTypePayment  TransactionType = "PAYMENT"
)

// IsValid checks if the transaction type is known.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeDeposit, TransactionTypeWithdraw, TransactionTypeTransfer, TransactionTypePayment:
		return true
	default:
		return false
	}
}

// TransactionStatus represents the lifecycle state of a transaction.
// The progression is one-way: PROCESSING -> SUCCESS | FAILED.
type TransactionStatus string

const (
	TransactionStatusProcessing TransactionStatus = "PROCESSING"
	TransactionStatusSuccess    TransactionStatus = "SUCCESS"
	TransactionStatusFailed     TransactionStatus = "FAILED"
)

// ErrInvalidTransactionStatus is returned when a status transition targets an
// unknown status value.
var ErrInvalidTransactionStatus = errors.New("invalid transaction status")

// Transaction is an immutable ledger entry recording a money-movement attempt
// between two parties. Every field except Status is fixed at creation.
type Transaction struct {
	ID          uuid.UUID         `json:"id"`
	SenderID    uuid.UUID         `json:"sender_id"`
	ReceiverID  uuid.UUID         `json:"receiver_id"`
	Amount      int64             `json:"amount"` // In smallest unit (cents)
	Type        TransactionType   `json:"type"`
	Status      TransactionStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	ProcessedAt *time.Time        `json:"processed_at,omitempty"`
}

// NewTransaction creates a transaction in PROCESSING status.
func NewTransaction(id, senderID, receiverID uuid.UUID, amount Amount, txType TransactionType, now time.Time) *Transaction {
	return &Transaction{
		ID:         id,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Amount:     amount.Value(),
		Type:       txType,
		Status:     TransactionStatusProcessing,
		CreatedAt:  now,
	}
}

// UpdateStatus validates the target status is a known value and applies it.
// The one-way PROCESSING -> terminal discipline is enforced by the transaction
// runner, which is the only caller.
func (t *Transaction) UpdateStatus(status TransactionStatus) error {
	switch status {
	case TransactionStatusProcessing, TransactionStatusSuccess, TransactionStatusFailed:
	default:
		return fmt.Errorf("%w: %s", ErrInvalidTransactionStatus, status)
	}
	t.Status = status
	return nil
}

// IsTerminal returns true if the transaction is in a final state.
func (t *Transaction) IsTerminal() bool {
	return t.Status == TransactionStatusSuccess || t.Status == TransactionStatusFailed
}
