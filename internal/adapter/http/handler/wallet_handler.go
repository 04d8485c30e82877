package handler

import (
	"campus-wallet/internal/adapter/http/dto"
	"campus-wallet/internal/adapter/http/middleware"
	"campus-wallet/internal/core/ports"
	"campus-wallet/pkg/apperror"
	"campus-wallet/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WalletHandler handles the authenticated user's own wallet endpoints.
type WalletHandler struct {
	ledgerSvc ports.LedgerService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(ledgerSvc ports.LedgerService) *WalletHandler {
	return &WalletHandler{ledgerSvc: ledgerSvc}
}

// GetBalance handles GET /api/v1/wallets/balance.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	balance, err := h.ledgerSvc.GetBalance(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BalanceResponse{
		UserID:  userID.String(),
		Balance: balance,
	})
}

// Transfer handles POST /api/v1/wallets/transfer.
func (h *WalletHandler) Transfer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	receiverID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		response.Error(c, apperror.Validation("receiver_id must be a valid UUID"))
		return
	}

	txn, err := h.ledgerSvc.Transfer(c.Request.Context(), ports.TransferRequest{
		SenderID:   userID,
		ReceiverID: receiverID,
		Amount:     req.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(txn))
}

// Pay handles POST /api/v1/wallets/pay.
func (h *WalletHandler) Pay(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	cashierID, err := uuid.Parse(req.CashierID)
	if err != nil {
		response.Error(c, apperror.Validation("cashier_id must be a valid UUID"))
		return
	}

	txn, err := h.ledgerSvc.Pay(c.Request.Context(), ports.PayRequest{
		SenderID:  userID,
		CashierID: cashierID,
		Amount:    req.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(txn))
}

// currentUserID reads the authenticated user's ID set by the JWT middleware.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	val, exists := c.Get(middleware.CtxUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := val.(uuid.UUID)
	return id, ok
}
