package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestStaticAdminRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewStaticAdminRepository()

	admin, err := repo.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Nil(t, admin)

	require.NoError(t, repo.CreateAdmin(ctx, "admin", "admin123"))
	assert.ErrorIs(t, repo.CreateAdmin(ctx, "admin", "other"), ErrAdminExists)

	admin, err = repo.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.NotEqual(t, "admin123", admin.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("admin123")))
}

func TestPostgresAdminAuthRepository(t *testing.T) {
	ctx := context.Background()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	repo := NewAdminAuthRepository(conn)
	selectQuery := regexp.QuoteMeta("SELECT id, username, password_hash FROM admins WHERE username = $1")

	mock.ExpectQuery(selectQuery).
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash"}).AddRow(1, "admin", "hash"))
	admin, err := repo.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, 1, admin.ID)
	assert.Equal(t, "hash", admin.PasswordHash)

	mock.ExpectQuery(selectQuery).
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash"}))
	admin, err = repo.GetByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, admin)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO admins")).
		WithArgs("ops", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(2, 1))
	require.NoError(t, repo.CreateAdmin(ctx, "ops", "secret"))

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO admins")).
		WithArgs("ops", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.CreateAdmin(ctx, "ops", "secret"), ErrAdminExists)

	require.NoError(t, mock.ExpectationsWereMet())
}
