package service

import (
	"context"
	"errors"
	"testing"

	"campus-wallet/internal/core/domain"
	"campus-wallet/internal/core/ports/mocks"
	"campus-wallet/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type userTestDeps struct {
	svc        *UserServiceImpl
	userRepo   *mocks.MockUserRepository
	walletRepo *mocks.MockWalletRepository
	roleSvc    *mocks.MockRoleService
	auditRec   *mocks.MockAuditRecorder
	ctrl       *gomock.Controller
}

func setupUserService(t *testing.T) *userTestDeps {
	ctrl := gomock.NewController(t)
	d := &userTestDeps{
		userRepo:   mocks.NewMockUserRepository(ctrl),
		walletRepo: mocks.NewMockWalletRepository(ctrl),
		roleSvc:    mocks.NewMockRoleService(ctrl),
		auditRec:   mocks.NewMockAuditRecorder(ctrl),
		ctrl:       ctrl,
	}
	d.svc = NewUserService(d.userRepo, d.walletRepo, d.roleSvc, d.auditRec, zerolog.Nop())
	return d
}

func TestUserService_GetProfile(t *testing.T) {
	d := setupUserService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	user := &domain.User{ID: userID, Email: "me@campus.edu"}

	d.userRepo.EXPECT().GetByID(ctx, userID).Return(user, nil)

	got, err := d.svc.GetProfile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, user, got)
}

func TestUserService_GetProfile_NotFound(t *testing.T) {
	d := setupUserService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()

	d.userRepo.EXPECT().GetByID(ctx, userID).Return(nil, nil)

	_, err := d.svc.GetProfile(ctx, userID)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "USR_001", appErr.Code)
	assert.Contains(t, appErr.Message, userID.String())
}

func TestUserService_ListUsers_RequiresAdmin(t *testing.T) {
	d := setupUserService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	actorID := uuid.New()

	d.roleSvc.EXPECT().HasPermission(ctx, actorID, domain.AccountTypeAdmin).Return(false, nil)

	_, _, err := d.svc.ListUsers(ctx, actorID, 1, 20)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "ROLE_001", appErr.Code)
}

func TestUserService_UpdateRole_Success(t *testing.T) {
	d := setupUserService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	executorID := uuid.New()
	targetID := uuid.New()

	executor := &domain.User{ID: executorID, AccountType: domain.AccountTypeAdmin}
	target := &domain.User{ID: targetID, AccountType: domain.AccountTypeUser}

	d.userRepo.EXPECT().GetByID(ctx, executorID).Return(executor, nil)
	d.userRepo.EXPECT().GetByID(ctx, targetID).Return(target, nil)
	d.roleSvc.EXPECT().EnsureValidRoleChange(domain.AccountTypeAdmin, domain.AccountTypeUser, domain.AccountTypeCashier).Return(nil)
	d.userRepo.EXPECT().Update(ctx, gomock.Any()).Return(nil)
	d.auditRec.EXPECT().Record(ctx, executorID, domain.AuditActionUserUpdate, gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ uuid.UUID, _ domain.AuditAction, oldSnap, newSnap domain.AuditSnapshot) (*domain.AuditLog, error) {
			changes, err := domain.DiffSnapshots(oldSnap, newSnap)
			require.NoError(t, err)
			require.Len(t, changes, 1)
			assert.Equal(t, "accountType", changes[0].Field)
			assert.Equal(t, "USER", changes[0].From)
			assert.Equal(t, "CASHIER", changes[0].To)
			return &domain.AuditLog{}, nil
		},
	)

	updated, err := d.svc.UpdateRole(ctx, executorID, targetID, domain.AccountTypeCashier)
	require.NoError(t, err)
	assert.Equal(t, domain.AccountTypeCashier, updated.AccountType)
}

func TestUserService_UpdateRole_HierarchyViolation(t *testing.T) {
	d := setupUserService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	executorID := uuid.New()
	targetID := uuid.New()

	executor := &domain.User{ID: executorID, AccountType: domain.AccountTypeAdmin}
	target := &domain.User{ID: targetID, AccountType: domain.AccountTypeAdmin}

	d.userRepo.EXPECT().GetByID(ctx, executorID).Return(executor, nil)
	d.userRepo.EXPECT().GetByID(ctx, targetID).Return(target, nil)
	d.roleSvc.EXPECT().EnsureValidRoleChange(domain.AccountTypeAdmin, domain.AccountTypeAdmin, domain.AccountTypeUser).
		Return(apperror.ErrModifyHigherRole())

	_, err := d.svc.UpdateRole(ctx, executorID, targetID, domain.AccountTypeUser)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "ROLE_002", appErr.Code)
}

func TestUserService_UpdateRole_AuditFailureDoesNotFail(t *testing.T) {
	d := setupUserService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	executorID := uuid.New()
	targetID := uuid.New()

	executor := &domain.User{ID: executorID, AccountType: domain.AccountTypeSuperAdmin}
	target := &domain.User{ID: targetID, AccountType: domain.AccountTypeUser}

	d.userRepo.EXPECT().GetByID(ctx, executorID).Return(executor, nil)
	d.userRepo.EXPECT().GetByID(ctx, targetID).Return(target, nil)
	d.roleSvc.EXPECT().EnsureValidRoleChange(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	d.userRepo.EXPECT().Update(ctx, gomock.Any()).Return(nil)
	d.auditRec.EXPECT().Record(ctx, executorID, domain.AuditActionUserUpdate, gomock.Any(), gomock.Any()).
		Return(nil, errors.New("audit store down"))

	updated, err := d.svc.UpdateRole(ctx, executorID, targetID, domain.AccountTypeAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.AccountTypeAdmin, updated.AccountType)
}

func TestUserService_SetVerified_RequiresOutranking(t *testing.T) {
	d := setupUserService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	executorID := uuid.New()
	targetID := uuid.New()

	d.roleSvc.EXPECT().HasHigherPermission(ctx, executorID, targetID).Return(false, nil)

	_, err := d.svc.SetVerified(ctx, executorID, targetID, true)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "ROLE_002", appErr.Code)
}

func TestUserService_SetVerified_Success(t *testing.T) {
	d := setupUserService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	executorID := uuid.New()
	targetID := uuid.New()
	target := &domain.User{ID: targetID, AccountType: domain.AccountTypeUser}

	d.roleSvc.EXPECT().HasHigherPermission(ctx, executorID, targetID).Return(true, nil)
	d.userRepo.EXPECT().GetByID(ctx, targetID).Return(target, nil)
	d.userRepo.EXPECT().Update(ctx, gomock.Any()).Return(nil)
	d.auditRec.EXPECT().Record(ctx, executorID, domain.AuditActionUserUpdate, gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ uuid.UUID, _ domain.AuditAction, oldSnap, newSnap domain.AuditSnapshot) (*domain.AuditLog, error) {
			changes, err := domain.DiffSnapshots(oldSnap, newSnap)
			require.NoError(t, err)
			require.Len(t, changes, 1)
			assert.Equal(t, "verified", changes[0].Field)
			assert.Equal(t, "false", changes[0].From)
			assert.Equal(t, "true", changes[0].To)
			return &domain.AuditLog{}, nil
		},
	)

	updated, err := d.svc.SetVerified(ctx, executorID, targetID, true)
	require.NoError(t, err)
	assert.True(t, updated.Verified)
}

func TestUserService_Delete_SoftDeletesUserAndWallet(t *testing.T) {
	d := setupUserService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	executorID := uuid.New()
	targetID := uuid.New()
	walletID := uuid.New()

	target := &domain.User{ID: targetID, AccountType: domain.AccountTypeUser}
	wallet := &domain.Wallet{ID: walletID, UserID: targetID}

	d.roleSvc.EXPECT().HasHigherPermission(ctx, executorID, targetID).Return(true, nil)
	d.userRepo.EXPECT().GetByID(ctx, targetID).Return(target, nil)
	d.userRepo.EXPECT().Update(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, u *domain.User) error {
			assert.True(t, u.Deleted)
			require.NotNil(t, u.DeletedAt)
			return nil
		},
	)
	d.walletRepo.EXPECT().GetByUserID(ctx, targetID).Return(wallet, nil)
	d.walletRepo.EXPECT().SoftDelete(ctx, walletID).Return(nil)
	d.auditRec.EXPECT().Record(ctx, executorID, domain.AuditActionUserDelete, gomock.Any(), gomock.Any()).
		Return(&domain.AuditLog{}, nil)

	err := d.svc.Delete(ctx, executorID, targetID)
	require.NoError(t, err)
}

func TestUserService_Delete_HierarchyViolation(t *testing.T) {
	d := setupUserService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	executorID := uuid.New()
	targetID := uuid.New()

	d.roleSvc.EXPECT().HasHigherPermission(ctx, executorID, targetID).Return(false, nil)

	err := d.svc.Delete(ctx, executorID, targetID)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "ROLE_002", appErr.Code)
	assert.Equal(t, "Modifying a user with a higher or equal role is restricted", appErr.Message)
}
