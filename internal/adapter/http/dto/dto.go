package dto

// RegisterRequest is the request body for user registration.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	FullName string `json:"full_name" binding:"required,min=1,max=100"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// TransferRequest is the request body for a wallet-to-wallet transfer.
type TransferRequest struct {
	ReceiverID string `json:"receiver_id" binding:"required,uuid"`
	Amount     int64  `json:"amount" binding:"required,gt=0"`
}

// PayRequest is the request body for paying a cashier.
type PayRequest struct {
	CashierID string `json:"cashier_id" binding:"required,uuid"`
	Amount    int64  `json:"amount" binding:"required,gt=0"`
}

// TopUpRequest is the request body for a teller cash top-up.
type TopUpRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	Amount int64  `json:"amount" binding:"required,gt=0"`
}

// WithdrawRequest is the request body for a teller cash withdrawal.
type WithdrawRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	Amount int64  `json:"amount" binding:"required,gt=0"`
}

// SetBalanceRequest is the request body for the administrative balance override.
type SetBalanceRequest struct {
	Balance int64 `json:"balance" binding:"min=0"`
}

// UpdateRoleRequest is the request body for changing a user's role.
type UpdateRoleRequest struct {
	AccountType string `json:"account_type" binding:"required,account_type"`
}

// SetVerifiedRequest is the request body for toggling a user's verified flag.
type SetVerifiedRequest struct {
	Verified *bool `json:"verified" binding:"required"`
}

// UserResponse is the public projection of a user account.
type UserResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	AccountType string `json:"account_type"`
	Verified    bool   `json:"verified"`
	CreatedAt   string `json:"created_at"`
}

// UserListResponse wraps a paginated user list.
type UserListResponse struct {
	Items      []UserResponse `json:"items"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// TransactionResponse is the response body for transaction results.
type TransactionResponse struct {
	ID          string  `json:"id"`
	SenderID    string  `json:"sender_id"`
	ReceiverID  string  `json:"receiver_id"`
	Amount      int64   `json:"amount"`
	Type        string  `json:"type"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	ProcessedAt *string `json:"processed_at,omitempty"`
}

// TransactionListResponse wraps a paginated transaction list.
type TransactionListResponse struct {
	Items      []TransactionResponse `json:"items"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}

// BalanceResponse is the response for a balance query.
type BalanceResponse struct {
	UserID  string `json:"user_id"`
	Balance int64  `json:"balance"`
}

// StatsResponse is the response for ledger statistics.
type StatsResponse struct {
	TotalTransactions int64 `json:"total_transactions"`
	Successful        int64 `json:"successful"`
	Failed            int64 `json:"failed"`
	Processing        int64 `json:"processing"`
	TotalTransferred  int64 `json:"total_transferred"`
	TotalDeposited    int64 `json:"total_deposited"`
	TotalWithdrawn    int64 `json:"total_withdrawn"`
	TotalPaid         int64 `json:"total_paid"`
}

// FieldChangeResponse is one field diff inside an audit entry.
type FieldChangeResponse struct {
	Field string `json:"field"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// AuditLogResponse is the response body for one audit entry.
type AuditLogResponse struct {
	ID         string                `json:"id"`
	ExecutorID string                `json:"executor_id"`
	TargetID   string                `json:"target_id"`
	Action     string                `json:"action"`
	Changes    []FieldChangeResponse `json:"changes"`
	CreatedAt  string                `json:"created_at"`
}

// AuditLogListResponse wraps a paginated audit trail.
type AuditLogListResponse struct {
	Items      []AuditLogResponse `json:"items"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}
