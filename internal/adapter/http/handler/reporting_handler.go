package handler

import (
	"strconv"

	"campus-wallet/internal/adapter/http/dto"
	"campus-wallet/internal/adapter/http/middleware"
	"campus-wallet/internal/core/domain"
	"campus-wallet/internal/core/ports"
	"campus-wallet/pkg/apperror"
	"campus-wallet/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReportingHandler handles transaction history and statistics endpoints.
type ReportingHandler struct {
	reportingSvc ports.ReportingService
}

// NewReportingHandler creates a new ReportingHandler.
func NewReportingHandler(reportingSvc ports.ReportingService) *ReportingHandler {
	return &ReportingHandler{reportingSvc: reportingSvc}
}

// GetStats handles GET /api/v1/reports/stats. Regular callers see their own
// statistics; admins may pass ?user_id= to scope to another user, or
// ?scope=all for the whole ledger.
func (h *ReportingHandler) GetStats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	scope := &userID
	if isAdmin(c) {
		if c.Query("scope") == "all" {
			scope = nil
		} else if q := c.Query("user_id"); q != "" {
			id, err := uuid.Parse(q)
			if err != nil {
				response.Error(c, apperror.Validation("user_id must be a valid UUID"))
				return
			}
			scope = &id
		}
	}

	stats, err := h.reportingSvc.GetStats(c.Request.Context(), scope)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.StatsResponse{
		TotalTransactions: stats.TotalTransactions,
		Successful:        stats.Successful,
		Failed:            stats.Failed,
		Processing:        stats.Processing,
		TotalTransferred:  stats.TotalTransferred,
		TotalDeposited:    stats.TotalDeposited,
		TotalWithdrawn:    stats.TotalWithdrawn,
		TotalPaid:         stats.TotalPaid,
	})
}

// ListTransactions handles GET /api/v1/transactions. Regular callers see
// movements where they are sender or receiver; admins see everything and may
// filter by ?user_id=.
func (h *ReportingHandler) ListTransactions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	page, pageSize := pagination(c)
	params := ports.TransactionListParams{
		UserID:   &userID,
		Page:     page,
		PageSize: pageSize,
	}

	if isAdmin(c) {
		params.UserID = nil
		if q := c.Query("user_id"); q != "" {
			id, err := uuid.Parse(q)
			if err != nil {
				response.Error(c, apperror.Validation("user_id must be a valid UUID"))
				return
			}
			params.UserID = &id
		}
	}

	if s := c.Query("status"); s != "" {
		status := domain.TransactionStatus(s)
		params.Status = &status
	}
	if t := c.Query("type"); t != "" {
		txType := domain.TransactionType(t)
		params.Type = &txType
	}
	if f := c.Query("from"); f != "" {
		if v, err := strconv.ParseInt(f, 10, 64); err == nil {
			params.From = &v
		}
	}
	if t := c.Query("to"); t != "" {
		if v, err := strconv.ParseInt(t, 10, 64); err == nil {
			params.To = &v
		}
	}

	txns, total, err := h.reportingSvc.ListTransactions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		items = append(items, toTransactionResponse(&txns[i]))
	}

	response.OK(c, dto.TransactionListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	})
}

// isAdmin reports whether the JWT role claim ranks at ADMIN or above.
func isAdmin(c *gin.Context) bool {
	val, exists := c.Get(middleware.CtxRole)
	if !exists {
		return false
	}
	role, ok := val.(domain.AccountType)
	return ok && role.Rank() >= domain.AccountTypeAdmin.Rank()
}
