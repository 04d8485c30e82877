package handler

import (
	"campus-wallet/internal/adapter/http/dto"
	"campus-wallet/internal/core/ports"
	"campus-wallet/pkg/apperror"
	"campus-wallet/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TellerHandler handles the cash desk endpoints: top-ups performed by
// CASH_TOP_UP operators and withdrawals performed by cashiers.
type TellerHandler struct {
	ledgerSvc ports.LedgerService
}

// NewTellerHandler creates a new TellerHandler.
func NewTellerHandler(ledgerSvc ports.LedgerService) *TellerHandler {
	return &TellerHandler{ledgerSvc: ledgerSvc}
}

// TopUp handles POST /api/v1/teller/topup.
func (h *TellerHandler) TopUp(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		response.Error(c, apperror.Validation("user_id must be a valid UUID"))
		return
	}

	txn, err := h.ledgerSvc.TopUp(c.Request.Context(), ports.TopUpRequest{
		ActorID: actorID,
		UserID:  userID,
		Amount:  req.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(txn))
}

// Withdraw handles POST /api/v1/teller/withdraw.
func (h *TellerHandler) Withdraw(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		response.Error(c, apperror.Validation("user_id must be a valid UUID"))
		return
	}

	txn, err := h.ledgerSvc.Withdraw(c.Request.Context(), ports.WithdrawRequest{
		ActorID: actorID,
		UserID:  userID,
		Amount:  req.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(txn))
}
