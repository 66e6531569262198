package handler

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/artgalerie/gallery-api/internal/inventory"
	"github.com/artgalerie/gallery-api/internal/model"
	"github.com/artgalerie/gallery-api/internal/repository"
)

func newReservationHandler(t *testing.T) (*ReservationHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	artworks := repository.NewArtworkRepo(db)
	reservations := repository.NewReservationRepo(db)
	return NewReservationHandler(artworks, reservations, inventory.New(artworks, reservations)), mock
}

func jsonRequest(method, target, body string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req, httptest.NewRecorder()
}

func artworkRow(id int64, initial, available int) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "title", "description", "image_url", "price",
		"quantity_initial", "quantity_available", "color_palette", "created_at", "updated_at",
	}).AddRow(id, "Blue Field", "a piece", nil, 120.0, initial, available, nil, now, now)
}

func reservationRow(id, artworkID int64, quantity int, status string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "artwork_id", "full_name", "email", "phone", "address",
		"quantity", "notes", "status", "created_at", "updated_at",
	}).AddRow(id, artworkID, "Nora Berg", "nora@example.com", "", "", quantity, "", status, now, now)
}

func TestReservationCreateSuccess(t *testing.T) {
	h, mock := newReservationHandler(t)
	e := echo.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE`)).WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"quantity_initial", "quantity_available"}).AddRow(10, 5))
	mock.ExpectExec(`INSERT INTO reservations`).WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery(`SELECT id, artwork_id, .* FROM reservations WHERE id = \?`).WithArgs(7).
		WillReturnRows(reservationRow(7, 3, 2, model.ReservationPending))
	mock.ExpectQuery(regexp.QuoteMeta(`COALESCE(SUM(quantity), 0)`)).WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(7))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE artworks SET quantity_available = ? WHERE id = ?`)).
		WithArgs(3, 3).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	// re-read for the response payload
	mock.ExpectQuery(`SELECT id, title, .* FROM artworks WHERE id = \?`).WithArgs(3).
		WillReturnRows(artworkRow(3, 10, 3))

	req, rec := jsonRequest(http.MethodPost, "/v1/reservations",
		`{"artwork_id":3,"full_name":"Nora Berg","email":"Nora@Example.com","quantity":2}`)
	err := h.Create(e.NewContext(req, rec))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"pending"`)
	assert.Contains(t, rec.Body.String(), `"artwork"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationCreateInsufficientStock(t *testing.T) {
	h, mock := newReservationHandler(t)
	e := echo.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE`)).WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"quantity_initial", "quantity_available"}).AddRow(10, 1))
	mock.ExpectRollback()

	req, rec := jsonRequest(http.MethodPost, "/v1/reservations",
		`{"artwork_id":3,"full_name":"Nora Berg","email":"nora@example.com","quantity":2}`)
	err := h.Create(e.NewContext(req, rec))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "requested 2, available 1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationCreateUnknownArtwork(t *testing.T) {
	h, mock := newReservationHandler(t)
	e := echo.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE`)).WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"quantity_initial", "quantity_available"}))
	mock.ExpectRollback()

	req, rec := jsonRequest(http.MethodPost, "/v1/reservations",
		`{"artwork_id":99,"full_name":"Nora Berg","email":"nora@example.com","quantity":1}`)
	err := h.Create(e.NewContext(req, rec))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationCreateValidation(t *testing.T) {
	h, _ := newReservationHandler(t)
	e := echo.New()

	cases := []struct {
		name string
		body string
	}{
		{"missing artwork", `{"full_name":"n","email":"n@example.com","quantity":1}`},
		{"missing name", `{"artwork_id":3,"email":"n@example.com","quantity":1}`},
		{"missing email", `{"artwork_id":3,"full_name":"n","quantity":1}`},
		{"zero quantity", `{"artwork_id":3,"full_name":"n","email":"n@example.com","quantity":0}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, rec := jsonRequest(http.MethodPost, "/v1/reservations", tc.body)
			assert.NoError(t, h.Create(e.NewContext(req, rec)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestReservationUpdateStatusTriggersRecompute(t *testing.T) {
	h, mock := newReservationHandler(t)
	e := echo.New()

	mock.ExpectQuery(`SELECT id, artwork_id, .* FROM reservations WHERE id = \?`).WithArgs(7).
		WillReturnRows(reservationRow(7, 3, 2, model.ReservationPending))
	mock.ExpectExec(`UPDATE reservations SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	// cancellation frees the claimed units
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE`)).WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"quantity_initial", "quantity_available"}).AddRow(10, 3))
	mock.ExpectQuery(regexp.QuoteMeta(`COALESCE(SUM(quantity), 0)`)).WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(5))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE artworks SET quantity_available = ? WHERE id = ?`)).
		WithArgs(5, 3).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	req, rec := jsonRequest(http.MethodPatch, "/v1/reservations/7", `{"status":"CANCELLED"}`)
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("id")
	ctx.SetParamValues("7")

	assert.NoError(t, h.Update(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"cancelled"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationUpdateRejectsUnknownStatus(t *testing.T) {
	h, mock := newReservationHandler(t)
	e := echo.New()

	mock.ExpectQuery(`SELECT id, artwork_id, .* FROM reservations WHERE id = \?`).WithArgs(7).
		WillReturnRows(reservationRow(7, 3, 2, model.ReservationPending))

	req, rec := jsonRequest(http.MethodPatch, "/v1/reservations/7", `{"status":"archived"}`)
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("id")
	ctx.SetParamValues("7")

	assert.NoError(t, h.Update(ctx))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationDeleteRecomputes(t *testing.T) {
	h, mock := newReservationHandler(t)
	e := echo.New()

	mock.ExpectQuery(`SELECT id, artwork_id, .* FROM reservations WHERE id = \?`).WithArgs(7).
		WillReturnRows(reservationRow(7, 3, 2, model.ReservationConfirmed))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM reservations WHERE id = ?`)).WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE`)).WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"quantity_initial", "quantity_available"}).AddRow(10, 3))
	mock.ExpectQuery(regexp.QuoteMeta(`COALESCE(SUM(quantity), 0)`)).WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(5))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE artworks SET quantity_available = ? WHERE id = ?`)).
		WithArgs(5, 3).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	req, rec := jsonRequest(http.MethodDelete, "/v1/reservations/7", "")
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("id")
	ctx.SetParamValues("7")

	assert.NoError(t, h.Delete(ctx))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationGetNotFound(t *testing.T) {
	h, mock := newReservationHandler(t)
	e := echo.New()

	mock.ExpectQuery(`SELECT id, artwork_id, .* FROM reservations WHERE id = \?`).WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	req, rec := jsonRequest(http.MethodGet, "/v1/reservations/99", "")
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("id")
	ctx.SetParamValues("99")

	assert.NoError(t, h.Get(ctx))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
