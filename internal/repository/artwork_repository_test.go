package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/artgalerie/gallery-api/internal/model"
)

func newMockDB(t *testing.T) (sqlmock.Sqlmock, *ArtworkRepo) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return mock, NewArtworkRepo(db)
}

func artworkRows(id int64, title string, initial, available int) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "title", "description", "image_url", "price",
		"quantity_initial", "quantity_available", "color_palette", "created_at", "updated_at",
	}).AddRow(id, title, "a piece", nil, 120.0, initial, available, nil, now, now)
}

func TestArtworkCreateSeedsAvailability(t *testing.T) {
	mock, repo := newMockDB(t)

	// availability starts equal to the initial quantity
	mock.ExpectExec(`INSERT INTO artworks`).
		WithArgs("Blue Field", "a piece", nil, 120.0, 4, 4).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery(`SELECT id, title, .* FROM artworks WHERE id = \?`).WithArgs(11).
		WillReturnRows(artworkRows(11, "Blue Field", 4, 4))

	a := model.Artwork{Title: "Blue Field", Description: "a piece", Price: 120.0, QuantityInitial: 4}
	err := repo.Create(context.Background(), &a)
	assert.NoError(t, err)
	assert.Equal(t, uint64(11), a.ID)
	assert.Equal(t, int32(4), a.QuantityAvailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArtworkGetByIDNotFound(t *testing.T) {
	mock, repo := newMockDB(t)

	mock.ExpectQuery(`SELECT id, title, .* FROM artworks WHERE id = \?`).WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrArtworkNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArtworkListNewestFirst(t *testing.T) {
	mock, repo := newMockDB(t)

	rows := artworkRows(2, "Second", 3, 3)
	now := time.Now().UTC()
	rows.AddRow(1, "First", "a piece", nil, 80.0, 2, 1, `["#101010","#fafafa"]`, now, now)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM artworks ORDER BY created_at DESC`)).
		WillReturnRows(rows)

	items, err := repo.List(context.Background())
	assert.NoError(t, err)
	if assert.Len(t, items, 2) {
		assert.Equal(t, "Second", items[0].Title)
		assert.Equal(t, []string{"#101010", "#fafafa"}, items[1].ColorPalette)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArtworkUpdateNeverTouchesStock(t *testing.T) {
	mock, repo := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE artworks SET title = ?, description = ?, image_url = ?, price = ? WHERE id = ?`)).
		WithArgs("Renamed", "a piece", nil, 200.0, 11).
		WillReturnResult(sqlmock.NewResult(0, 1))

	a := model.Artwork{ID: 11, Title: "Renamed", Description: "a piece", Price: 200.0}
	assert.NoError(t, repo.Update(context.Background(), &a))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArtworkUpdateUnknownRow(t *testing.T) {
	mock, repo := newMockDB(t)

	mock.ExpectExec(`UPDATE artworks SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM artworks WHERE id = ?`)).WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	a := model.Artwork{ID: 99, Title: "Ghost"}
	assert.ErrorIs(t, repo.Update(context.Background(), &a), ErrArtworkNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArtworkDeleteNotFound(t *testing.T) {
	mock, repo := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM artworks WHERE id = ?`)).WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 99), ErrArtworkNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArtworkSetColorPaletteMarshalsJSON(t *testing.T) {
	mock, repo := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE artworks SET color_palette = ? WHERE id = ?`)).
		WithArgs(`["#aabbcc","#112233"]`, 11).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetColorPalette(context.Background(), 11, []string{"#aabbcc", "#112233"})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
