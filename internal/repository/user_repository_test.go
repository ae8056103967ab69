package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seckc/community-api/internal/utils"
)

const (
	insertUserQ  = `INSERT INTO users (email, password_hash, role) VALUES (?,?,?)`
	selectUserQ  = `SELECT id,email,password_hash,role,is_active,created_at,updated_at FROM users WHERE email=? LIMIT 1`
	selectTokenQ = `SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=? LIMIT 1`
)

func newUserMock(t *testing.T) (*UserRepo, *TokenRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepo(db), NewTokenRepo(db), mock
}

func accountRow(id uint64, email, hash string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "is_active", "created_at", "updated_at"}).
		AddRow(id, email, hash, "MEMBER", true, now, now)
}

func TestCreateNormalizesEmailAndHashesPassword(t *testing.T) {
	users, _, mock := newUserMock(t)
	mock.ExpectExec(regexp.QuoteMeta(insertUserQ)).
		WithArgs("alice@seckc.org", sqlmock.AnyArg(), "MEMBER").
		WillReturnResult(sqlmock.NewResult(7, 1))

	id, err := users.Create(context.Background(), "  Alice@SecKC.org ", "hunter22", "MEMBER", 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMapsDuplicateEmail(t *testing.T) {
	users, _, mock := newUserMock(t)
	mock.ExpectExec(regexp.QuoteMeta(insertUserQ)).
		WithArgs("alice@seckc.org", sqlmock.AnyArg(), "MEMBER").
		WillReturnError(errors1062())

	_, err := users.Create(context.Background(), "alice@seckc.org", "hunter22", "MEMBER", 4)
	assert.ErrorIs(t, err, ErrEmailExists)
}

// errors1062 mimics the driver's duplicate-key message closely enough
// for the string match in Create.
func errors1062() error {
	return &mysqlLikeError{msg: "Error 1062 (23000): Duplicate entry"}
}

type mysqlLikeError struct{ msg string }

func (e *mysqlLikeError) Error() string { return e.msg }

func TestLoginFlowVerifiesStoredHash(t *testing.T) {
	users, _, mock := newUserMock(t)
	hash, err := utils.HashPassword("hunter22", 4)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(selectUserQ)).
		WithArgs("alice@seckc.org").
		WillReturnRows(accountRow(7, "alice@seckc.org", hash))

	a, err := users.GetByEmail(context.Background(), "Alice@SecKC.org")
	require.NoError(t, err)
	assert.True(t, utils.VerifyPassword(a.PasswordHash, "hunter22"))
	assert.False(t, utils.VerifyPassword(a.PasswordHash, "wrong"))
}

func TestValidateRefreshReturnsOwner(t *testing.T) {
	_, tokens, mock := newUserMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectTokenQ)).
		WithArgs("deadbeef").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(7, time.Now().UTC().Add(time.Hour), nil))

	userID, err := tokens.ValidateRefresh(context.Background(), "deadbeef")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), userID)
}

func TestValidateRefreshRejectsExpiredAndRevoked(t *testing.T) {
	_, tokens, mock := newUserMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectTokenQ)).
		WithArgs("expired").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(7, time.Now().UTC().Add(-time.Minute), nil))
	_, err := tokens.ValidateRefresh(context.Background(), "expired")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	mock.ExpectQuery(regexp.QuoteMeta(selectTokenQ)).
		WithArgs("revoked").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(7, time.Now().UTC().Add(time.Hour), time.Now().UTC()))
	_, err = tokens.ValidateRefresh(context.Background(), "revoked")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
