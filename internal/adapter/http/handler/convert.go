package handler

import (
	"time"

	"campus-wallet/internal/adapter/http/dto"
	"campus-wallet/internal/core/domain"
)

func toUserResponse(u *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          u.ID.String(),
		Email:       u.Email,
		FullName:    u.FullName,
		AccountType: string(u.AccountType),
		Verified:    u.Verified,
		CreatedAt:   u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toTransactionResponse(t *domain.Transaction) dto.TransactionResponse {
	resp := dto.TransactionResponse{
		ID:         t.ID.String(),
		SenderID:   t.SenderID.String(),
		ReceiverID: t.ReceiverID.String(),
		Amount:     t.Amount,
		Type:       string(t.Type),
		Status:     string(t.Status),
		CreatedAt:  t.CreatedAt.UTC().Format(time.RFC3339),
	}
	if t.ProcessedAt != nil {
		processed := t.ProcessedAt.UTC().Format(time.RFC3339)
		resp.ProcessedAt = &processed
	}
	return resp
}

func toAuditLogResponse(entry *domain.AuditLog) dto.AuditLogResponse {
	changes := make([]dto.FieldChangeResponse, 0, len(entry.Changes))
	for _, ch := range entry.Changes {
		changes = append(changes, dto.FieldChangeResponse{
			Field: ch.Field,
			From:  ch.From,
			To:    ch.To,
		})
	}
	return dto.AuditLogResponse{
		ID:         entry.ID.String(),
		ExecutorID: entry.ExecutorID.String(),
		TargetID:   entry.TargetID.String(),
		Action:     string(entry.Action),
		Changes:    changes,
		CreatedAt:  entry.CreatedAt.UTC().Format(time.RFC3339),
	}
}
