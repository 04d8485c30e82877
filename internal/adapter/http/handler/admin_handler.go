package handler

import (
	"math"
	"strconv"

	"campus-wallet/internal/adapter/http/dto"
	"campus-wallet/internal/core/domain"
	"campus-wallet/internal/core/ports"
	"campus-wallet/pkg/apperror"
	"campus-wallet/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminHandler handles privileged user-management endpoints.
type AdminHandler struct {
	userSvc   ports.UserService
	ledgerSvc ports.LedgerService
	auditRec  ports.AuditRecorder
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(userSvc ports.UserService, ledgerSvc ports.LedgerService, auditRec ports.AuditRecorder) *AdminHandler {
	return &AdminHandler{
		userSvc:   userSvc,
		ledgerSvc: ledgerSvc,
		auditRec:  auditRec,
	}
}

// ListUsers handles GET /api/v1/admin/users.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	page, pageSize := pagination(c)
	users, total, err := h.userSvc.ListUsers(c.Request.Context(), actorID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, toUserResponse(&users[i]))
	}

	response.OK(c, dto.UserListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	})
}

// UpdateRole handles PUT /api/v1/admin/users/:id/role.
func (h *AdminHandler) UpdateRole(c *gin.Context) {
	executorID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("id must be a valid UUID"))
		return
	}

	var req dto.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	user, err := h.userSvc.UpdateRole(c.Request.Context(), executorID, targetID, domain.AccountType(req.AccountType))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toUserResponse(user))
}

// SetVerified handles PUT /api/v1/admin/users/:id/verified.
func (h *AdminHandler) SetVerified(c *gin.Context) {
	executorID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("id must be a valid UUID"))
		return
	}

	var req dto.SetVerifiedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	user, err := h.userSvc.SetVerified(c.Request.Context(), executorID, targetID, *req.Verified)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toUserResponse(user))
}

// DeleteUser handles DELETE /api/v1/admin/users/:id.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	executorID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("id must be a valid UUID"))
		return
	}

	if err := h.userSvc.Delete(c.Request.Context(), executorID, targetID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"deleted": true})
}

// SetBalance handles PUT /api/v1/admin/users/:id/balance.
func (h *AdminHandler) SetBalance(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("id must be a valid UUID"))
		return
	}

	var req dto.SetBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	txn, err := h.ledgerSvc.SetBalance(c.Request.Context(), ports.SetBalanceRequest{
		AdminID: adminID,
		UserID:  targetID,
		Value:   req.Balance,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	// A no-op override records no transaction.
	if txn == nil {
		response.OK(c, gin.H{"changed": false})
		return
	}

	response.OK(c, toTransactionResponse(txn))
}

// ListAudits handles GET /api/v1/admin/users/:id/audits.
func (h *AdminHandler) ListAudits(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("id must be a valid UUID"))
		return
	}

	page, pageSize := pagination(c)
	entries, total, err := h.auditRec.ListByTarget(c.Request.Context(), targetID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.AuditLogResponse, 0, len(entries))
	for i := range entries {
		items = append(items, toAuditLogResponse(&entries[i]))
	}

	response.OK(c, dto.AuditLogListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	})
}

// pagination parses the page/page_size query parameters with defaults.
func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func totalPages(total int64, pageSize int) int {
	return int(math.Ceil(float64(total) / float64(pageSize)))
}
