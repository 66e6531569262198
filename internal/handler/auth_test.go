package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/artgalerie/gallery-api/internal/config"
	"github.com/artgalerie/gallery-api/internal/mailer"
	"github.com/artgalerie/gallery-api/internal/repository"
	"github.com/artgalerie/gallery-api/internal/utils"
)

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	cfg := config.Config{
		JWTSecret:      "unit-test-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 30,
		BcryptCost:     bcrypt.MinCost,
	}
	return NewAuthHandler(
		repository.NewUserRepo(db),
		repository.NewTokenRepo(db),
		repository.NewResetRepo(db),
		mailer.New("", "", "", "", ""),
		cfg,
	), mock
}

func userRow(id int64, email, passwordHash string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "first_name", "last_name", "category", "phone", "created_at", "updated_at",
	}).AddRow(id, email, passwordHash, "Nora", "Berg", "artist", "", now, now)
}

func TestRegisterCreatesVisitorByDefault(t *testing.T) {
	h, mock := newAuthHandler(t)
	e := echo.New()

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("nora@example.com", sqlmock.AnyArg(), "Nora", "Berg", "visitor", "").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectQuery(`SELECT id,email,.* FROM users WHERE id=\?`).WithArgs(42).
		WillReturnRows(userRow(42, "nora@example.com", "hash"))

	req, rec := jsonRequest(http.MethodPost, "/v1/auth/register",
		`{"email":"Nora@Example.com","password":"longenough","first_name":"Nora","last_name":"Berg"}`)
	assert.NoError(t, h.Register(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password_hash")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, mock := newAuthHandler(t)
	e := echo.New()

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'nora@example.com'"))

	req, rec := jsonRequest(http.MethodPost, "/v1/auth/register",
		`{"email":"nora@example.com","password":"longenough"}`)
	assert.NoError(t, h.Register(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	h, _ := newAuthHandler(t)
	e := echo.New()

	req, rec := jsonRequest(http.MethodPost, "/v1/auth/register",
		`{"email":"nora@example.com","password":"short"}`)
	assert.NoError(t, h.Register(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginIssuesTokenPair(t *testing.T) {
	h, mock := newAuthHandler(t)
	e := echo.New()

	hash, err := utils.HashPassword("longenough", bcrypt.MinCost)
	assert.NoError(t, err)

	mock.ExpectQuery(`SELECT id,email,.* FROM users WHERE email=\?`).WithArgs("nora@example.com").
		WillReturnRows(userRow(42, "nora@example.com", hash))
	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WithArgs(42, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	req, rec := jsonRequest(http.MethodPost, "/v1/auth/login",
		`{"email":"nora@example.com","password":"longenough"}`)
	assert.NoError(t, h.Login(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.NotEmpty(t, out.AccessToken)
	assert.Len(t, out.RefreshToken, 96)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginWrongPassword(t *testing.T) {
	h, mock := newAuthHandler(t)
	e := echo.New()

	hash, err := utils.HashPassword("longenough", bcrypt.MinCost)
	assert.NoError(t, err)

	mock.ExpectQuery(`SELECT id,email,.* FROM users WHERE email=\?`).WithArgs("nora@example.com").
		WillReturnRows(userRow(42, "nora@example.com", hash))

	req, rec := jsonRequest(http.MethodPost, "/v1/auth/login",
		`{"email":"nora@example.com","password":"wrong-pass"}`)
	assert.NoError(t, h.Login(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshRotatesToken(t *testing.T) {
	h, mock := newAuthHandler(t)
	e := echo.New()

	raw := "0123456789abcdef"
	hash := utils.HashRefreshRaw(raw)

	mock.ExpectQuery(`SELECT user_id, expires_at, revoked_at FROM refresh_tokens`).WithArgs(hash).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(42, time.Now().UTC().Add(time.Hour), nil))
	mock.ExpectQuery(`SELECT id,email,.* FROM users WHERE id=\?`).WithArgs(42).
		WillReturnRows(userRow(42, "nora@example.com", "x"))
	mock.ExpectExec(`UPDATE refresh_tokens SET revoked_at=NOW\(\)`).WithArgs(hash).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WithArgs(42, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(2, 1))

	req, rec := jsonRequest(http.MethodPost, "/v1/auth/refresh", `{"refresh_token":"`+raw+`"}`)
	assert.NoError(t, h.Refresh(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	h, mock := newAuthHandler(t)
	e := echo.New()

	raw := "expired-token"
	mock.ExpectQuery(`SELECT user_id, expires_at, revoked_at FROM refresh_tokens`).
		WithArgs(utils.HashRefreshRaw(raw)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(42, time.Now().UTC().Add(-time.Hour), nil))

	req, rec := jsonRequest(http.MethodPost, "/v1/auth/refresh", `{"refresh_token":"`+raw+`"}`)
	assert.NoError(t, h.Refresh(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestForgotPasswordHidesUnknownEmail(t *testing.T) {
	h, mock := newAuthHandler(t)
	e := echo.New()

	mock.ExpectQuery(`SELECT id,email,.* FROM users WHERE email=\?`).WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	req, rec := jsonRequest(http.MethodPost, "/v1/auth/forgot-password", `{"email":"ghost@example.com"}`)
	assert.NoError(t, h.ForgotPassword(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "if the email exists")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestForgotPasswordStoresCode(t *testing.T) {
	h, mock := newAuthHandler(t)
	e := echo.New()

	mock.ExpectQuery(`SELECT id,email,.* FROM users WHERE email=\?`).WithArgs("nora@example.com").
		WillReturnRows(userRow(42, "nora@example.com", "x"))
	mock.ExpectExec(`INSERT INTO password_reset_tokens`).
		WithArgs(42, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	req, rec := jsonRequest(http.MethodPost, "/v1/auth/forgot-password", `{"email":"nora@example.com"}`)
	assert.NoError(t, h.ForgotPassword(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	// the response never reveals the code
	assert.NotContains(t, rec.Body.String(), "code\":\"")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetPasswordConsumesCode(t *testing.T) {
	h, mock := newAuthHandler(t)
	e := echo.New()

	mock.ExpectQuery(`SELECT id, user_id, expires_at, used_at FROM password_reset_tokens`).
		WithArgs("12345678").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "expires_at", "used_at"}).
			AddRow(9, 42, time.Now().UTC().Add(10*time.Minute), nil))
	mock.ExpectExec(`UPDATE password_reset_tokens SET used_at=NOW\(\)`).WithArgs(9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE users SET password_hash=\?`).
		WithArgs(sqlmock.AnyArg(), 42).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req, rec := jsonRequest(http.MethodPost, "/v1/auth/reset-password",
		`{"code":"12345678","password":"brandnewpass"}`)
	assert.NoError(t, h.ResetPassword(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetPasswordRejectsUsedCode(t *testing.T) {
	h, mock := newAuthHandler(t)
	e := echo.New()

	mock.ExpectQuery(`SELECT id, user_id, expires_at, used_at FROM password_reset_tokens`).
		WithArgs("12345678").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "expires_at", "used_at"}).
			AddRow(9, 42, time.Now().UTC().Add(10*time.Minute), time.Now().UTC()))

	req, rec := jsonRequest(http.MethodPost, "/v1/auth/reset-password",
		`{"code":"12345678","password":"brandnewpass"}`)
	assert.NoError(t, h.ResetPassword(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
