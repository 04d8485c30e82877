package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campus-wallet/internal/core/domain"
	"campus-wallet/internal/core/ports"
	"campus-wallet/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error code for unique constraint violations.
const pgUniqueViolation = "23505"

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	userRepo   ports.UserRepository
	walletRepo ports.WalletRepository
	transactor ports.DBTransactor
	hashSvc    ports.HashService
	tokenSvc   ports.TokenService
	idGen      ports.IDGenerator
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	userRepo ports.UserRepository,
	walletRepo ports.WalletRepository,
	transactor ports.DBTransactor,
	hashSvc ports.HashService,
	tokenSvc ports.TokenService,
	idGen ports.IDGenerator,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		userRepo:   userRepo,
		walletRepo: walletRepo,
		transactor: transactor,
		hashSvc:    hashSvc,
		tokenSvc:   tokenSvc,
		idGen:      idGen,
	}
}

// Register creates a new user and its zero-balance wallet in one database
// transaction: an account can never exist without its wallet.
func (s *AuthServiceImpl) Register(ctx context.Context, req ports.RegisterRequest) (*domain.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check email: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrEmailTaken()
	}

	passwordHash, err := s.hashSvc.Hash(req.Password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           s.idGen.NewID(),
		Email:        req.Email,
		PasswordHash: passwordHash,
		FullName:     req.FullName,
		AccountType:  domain.AccountTypeUser,
		Verified:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	wallet := domain.NewWallet(s.idGen.NewID(), user.ID, now)

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.userRepo.Create(ctx, dbTx, user); err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.ErrEmailTaken()
		}
		return nil, apperror.InternalError(fmt.Errorf("create user: %w", err))
	}
	if err := s.walletRepo.Create(ctx, dbTx, wallet); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create wallet: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	return user, nil
}

// Login validates credentials and returns a JWT token.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("find user: %w", err))
	}
	if user == nil {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	valid, err := s.hashSvc.Verify(password, user.PasswordHash)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !valid {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	if !user.IsActive() {
		return "", time.Time{}, apperror.ErrAccountDeleted()
	}

	token, expiry, err := s.tokenSvc.Generate(user.ID, user.AccountType)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	return token, expiry, nil
}

// isUniqueViolation translates a raw Postgres unique-constraint error so it
// never leaks to the caller as a database error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
