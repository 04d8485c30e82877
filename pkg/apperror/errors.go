package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Wallet & Ledger (WAL) ----

func ErrInsufficientBalance() *AppError {
	return New("WAL_001", "insufficient balance", http.StatusUnprocessableEntity)
}

func ErrSelfTransfer() *AppError {
	return New("WAL_002", "You cannot send to yourself", http.StatusBadRequest)
}

func ErrInvalidAmount(err error) *AppError {
	return Wrap("WAL_003", "Invalid amount", http.StatusBadRequest, err)
}

func ErrWalletNotFound(userID string) *AppError {
	return New("WAL_004", fmt.Sprintf("wallet for user %s does not exist", userID), http.StatusNotFound)
}

func ErrInvalidBalance(err error) *AppError {
	return Wrap("WAL_005", "Invalid balance value", http.StatusBadRequest, err)
}

// ---- Users (USR) ----

func ErrUserNotFound(userID string) *AppError {
	return New("USR_001", fmt.Sprintf("user %s does not exist", userID), http.StatusNotFound)
}

func ErrEmailTaken() *AppError {
	return New("USR_002", "Email address is already registered", http.StatusConflict)
}

// ---- Roles & Permissions (ROLE) ----

func ErrPermissionDenied(required string) *AppError {
	return New("ROLE_001", fmt.Sprintf("%s role required for this operation", required), http.StatusForbidden)
}

func ErrModifyHigherRole() *AppError {
	return New("ROLE_002", "Modifying a user with a higher or equal role is restricted", http.StatusForbidden)
}

func ErrAssignHigherRole() *AppError {
	return New("ROLE_003", "Assigning a role that is higher or equal to the current role is restricted", http.StatusForbidden)
}

func ErrInvalidRole(role string) *AppError {
	return New("ROLE_004", fmt.Sprintf("unknown account type: %s", role), http.StatusBadRequest)
}

func ErrCashierRequired() *AppError {
	return New("ROLE_005", "Receiver cannot accept payments", http.StatusForbidden)
}

// ---- Audit (AUD) ----

func ErrAuditSnapshotMismatch(err error) *AppError {
	return Wrap("AUD_001", "Audit snapshots reference different entities", http.StatusInternalServerError, err)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_002", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrAccountDeleted() *AppError {
	return New("AUTH_003", "Account has been deactivated", http.StatusForbidden)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a generic request validation error.
func Validation(message string) *AppError {
	return New("WAL_003", message, http.StatusBadRequest)
}
