package service

import (
	"context"
	"fmt"

	"campus-wallet/internal/core/domain"
	"campus-wallet/internal/core/ports"
	"campus-wallet/pkg/apperror"

	"github.com/google/uuid"
)

// RoleServiceImpl implements ports.RoleService over the fixed account-type
// hierarchy: SUPER_ADMIN > ADMIN > {CASH_TOP_UP, CASHIER, USER}.
type RoleServiceImpl struct {
	userRepo ports.UserRepository
}

// NewRoleService creates a new RoleServiceImpl.
func NewRoleService(userRepo ports.UserRepository) *RoleServiceImpl {
	return &RoleServiceImpl{userRepo: userRepo}
}

// HasPermission reports whether the actor's role satisfies the required one.
// A strictly higher rank always satisfies; at equal rank the role must match
// exactly, so the bottom-tier roles (USER, CASHIER, CASH_TOP_UP) never stand
// in for one another.
func (s *RoleServiceImpl) HasPermission(ctx context.Context, actorID uuid.UUID, required domain.AccountType) (bool, error) {
	actor, err := s.resolve(ctx, actorID)
	if err != nil {
		return false, err
	}
	return actor.AccountType.Rank() > required.Rank() || actor.AccountType == required, nil
}

// HasHigherPermission reports whether the actor strictly outranks the target.
func (s *RoleServiceImpl) HasHigherPermission(ctx context.Context, actorID, targetID uuid.UUID) (bool, error) {
	actor, err := s.resolve(ctx, actorID)
	if err != nil {
		return false, err
	}
	target, err := s.resolve(ctx, targetID)
	if err != nil {
		return false, err
	}
	return actor.AccountType.Rank() > target.AccountType.Rank(), nil
}

// EnsureValidRoleChange enforces that a role change is doubly bounded by the
// updater's own rank: the updater must strictly outrank both the role being
// replaced and the role being assigned.
func (s *RoleServiceImpl) EnsureValidRoleChange(updaterRole, oldRole, newRole domain.AccountType) error {
	if !newRole.IsValid() {
		return apperror.ErrInvalidRole(string(newRole))
	}
	if updaterRole.Rank() <= oldRole.Rank() {
		return apperror.ErrModifyHigherRole()
	}
	if updaterRole.Rank() <= newRole.Rank() {
		return apperror.ErrAssignHigherRole()
	}
	return nil
}

func (s *RoleServiceImpl) resolve(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find user: %w", err))
	}
	if user == nil || !user.IsActive() {
		return nil, apperror.ErrUserNotFound(id.String())
	}
	return user, nil
}
