package postgres

import (
	"context"
	"testing"
	"time"

	"campus-wallet/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser() *domain.User {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.User{
		ID:           uuid.New(),
		Email:        "student@campus.edu",
		PasswordHash: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		FullName:     "Test Student",
		AccountType:  domain.AccountTypeUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func userTestColumns() []string {
	return []string{"id", "email", "password_hash", "full_name", "account_type", "verified", "deleted", "deleted_at", "created_at", "updated_at"}
}

func userRow(u *domain.User) *pgxmock.Rows {
	return pgxmock.NewRows(userTestColumns()).AddRow(
		u.ID, u.Email, u.PasswordHash, u.FullName,
		u.AccountType, u.Verified, u.Deleted, u.DeletedAt,
		u.CreatedAt, u.UpdatedAt,
	)
}

func TestUserRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)
	u := newTestUser()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WithArgs(u.ID, u.Email, u.PasswordHash, u.FullName,
			u.AccountType, u.Verified, u.Deleted, u.DeletedAt,
			u.CreatedAt, u.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	dbTx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), dbTx, u)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)
	u := newTestUser()

	mock.ExpectQuery("SELECT .+ FROM users WHERE id").
		WithArgs(u.ID).
		WillReturnRows(userRow(u))

	result, err := repo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, u.Email, result.Email)
	assert.Equal(t, domain.AccountTypeUser, result.AccountType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetByEmail_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM users WHERE email").
		WithArgs("nobody@campus.edu").
		WillReturnRows(pgxmock.NewRows(userTestColumns()))

	result, err := repo.GetByEmail(context.Background(), "nobody@campus.edu")
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Update(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)
	u := newTestUser()
	u.AccountType = domain.AccountTypeCashier
	u.Verified = true

	mock.ExpectExec("UPDATE users").
		WithArgs(u.Email, u.FullName, u.AccountType, u.Verified,
			u.Deleted, u.DeletedAt, u.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.Update(context.Background(), u)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)
	u := newTestUser()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE deleted = FALSE`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery("SELECT .+ FROM users WHERE deleted = FALSE ORDER BY created_at DESC").
		WithArgs(10, 0).
		WillReturnRows(userRow(u))

	users, total, err := repo.List(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, users, 1)
	assert.Equal(t, u.ID, users[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
