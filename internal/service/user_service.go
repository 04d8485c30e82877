package service

import (
	"context"
	"fmt"
	"time"

	"campus-wallet/internal/core/domain"
	"campus-wallet/internal/core/ports"
	"campus-wallet/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// UserServiceImpl implements ports.UserService. Every privileged mutation it
// performs is recorded through the audit recorder with before/after snapshots.
type UserServiceImpl struct {
	userRepo   ports.UserRepository
	walletRepo ports.WalletRepository
	roleSvc    ports.RoleService
	auditRec   ports.AuditRecorder
	log        zerolog.Logger
}

// NewUserService creates a new UserServiceImpl.
func NewUserService(
	userRepo ports.UserRepository,
	walletRepo ports.WalletRepository,
	roleSvc ports.RoleService,
	auditRec ports.AuditRecorder,
	log zerolog.Logger,
) *UserServiceImpl {
	return &UserServiceImpl{
		userRepo:   userRepo,
		walletRepo: walletRepo,
		roleSvc:    roleSvc,
		auditRec:   auditRec,
		log:        log,
	}
}

// GetProfile returns a user by id.
func (s *UserServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.resolve(ctx, userID)
}

// ListUsers returns a page of users. Restricted to ADMIN-rank actors.
func (s *UserServiceImpl) ListUsers(ctx context.Context, actorID uuid.UUID, page, pageSize int) ([]domain.User, int64, error) {
	allowed, err := s.roleSvc.HasPermission(ctx, actorID, domain.AccountTypeAdmin)
	if err != nil {
		return nil, 0, err
	}
	if !allowed {
		return nil, 0, apperror.ErrPermissionDenied(string(domain.AccountTypeAdmin))
	}

	users, total, err := s.userRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list users: %w", err))
	}
	return users, total, nil
}

// UpdateRole changes a user's account type. The change is doubly bounded by
// the executor's own rank and recorded in the audit trail.
func (s *UserServiceImpl) UpdateRole(ctx context.Context, executorID, targetID uuid.UUID, newRole domain.AccountType) (*domain.User, error) {
	executor, err := s.resolve(ctx, executorID)
	if err != nil {
		return nil, err
	}
	target, err := s.resolve(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if err := s.roleSvc.EnsureValidRoleChange(executor.AccountType, target.AccountType, newRole); err != nil {
		return nil, err
	}

	oldSnap := *target
	target.AccountType = newRole
	target.UpdatedAt = time.Now().UTC()

	if err := s.userRepo.Update(ctx, target); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update user: %w", err))
	}

	if _, err := s.auditRec.Record(ctx, executorID, domain.AuditActionUserUpdate, &oldSnap, target); err != nil {
		s.log.Warn().Err(err).
			Str("target_id", targetID.String()).
			Msg("role change succeeded but audit record failed")
	}
	return target, nil
}

// SetVerified toggles a user's verification flag. Requires the executor to
// strictly outrank the target; the mutation is audited.
func (s *UserServiceImpl) SetVerified(ctx context.Context, executorID, targetID uuid.UUID, verified bool) (*domain.User, error) {
	outranks, err := s.roleSvc.HasHigherPermission(ctx, executorID, targetID)
	if err != nil {
		return nil, err
	}
	if !outranks {
		return nil, apperror.ErrModifyHigherRole()
	}

	target, err := s.resolve(ctx, targetID)
	if err != nil {
		return nil, err
	}

	oldSnap := *target
	target.Verified = verified
	target.UpdatedAt = time.Now().UTC()

	if err := s.userRepo.Update(ctx, target); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update user: %w", err))
	}

	if _, err := s.auditRec.Record(ctx, executorID, domain.AuditActionUserUpdate, &oldSnap, target); err != nil {
		s.log.Warn().Err(err).
			Str("target_id", targetID.String()).
			Msg("verification change succeeded but audit record failed")
	}
	return target, nil
}

// Delete soft-deletes a user and its wallet. The audit entry carries an empty
// change set: deletion is a state transition, not a field comparison.
func (s *UserServiceImpl) Delete(ctx context.Context, executorID, targetID uuid.UUID) error {
	outranks, err := s.roleSvc.HasHigherPermission(ctx, executorID, targetID)
	if err != nil {
		return err
	}
	if !outranks {
		return apperror.ErrModifyHigherRole()
	}

	target, err := s.resolve(ctx, targetID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	oldSnap := *target
	target.Deleted = true
	target.DeletedAt = &now
	target.UpdatedAt = now

	if err := s.userRepo.Update(ctx, target); err != nil {
		return apperror.InternalError(fmt.Errorf("soft delete user: %w", err))
	}

	wallet, err := s.walletRepo.GetByUserID(ctx, targetID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("load wallet: %w", err))
	}
	if wallet != nil && !wallet.Deleted {
		if err := s.walletRepo.SoftDelete(ctx, wallet.ID); err != nil {
			return apperror.InternalError(fmt.Errorf("soft delete wallet: %w", err))
		}
	}

	if _, err := s.auditRec.Record(ctx, executorID, domain.AuditActionUserDelete, &oldSnap, target); err != nil {
		s.log.Warn().Err(err).
			Str("target_id", targetID.String()).
			Msg("user deletion succeeded but audit record failed")
	}
	return nil
}

func (s *UserServiceImpl) resolve(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find user: %w", err))
	}
	if user == nil || !user.IsActive() {
		return nil, apperror.ErrUserNotFound(id.String())
	}
	return user, nil
}
