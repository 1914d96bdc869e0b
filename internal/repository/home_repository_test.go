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

	"github.com/iliyamo/realestate-listing/internal/model"
)

func TestHomeRepoFindOwner(t *testing.T) {
	db, mock := newMock(t)
	repo := NewHomeRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT realtor_id FROM homes WHERE id = ?")).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"realtor_id"}).AddRow(12))

	owner, err := repo.FindOwner(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), owner)
}

func TestHomeRepoFindOwnerNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewHomeRepo(db)

	mock.ExpectQuery("SELECT realtor_id FROM homes").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindOwner(context.Background(), 3)
	assert.ErrorIs(t, err, ErrHomeNotFound)
}

func TestHomeRepoListBuildsFilters(t *testing.T) {
	db, mock := newMock(t)
	repo := NewHomeRepo(db)
	min, max := 100000.0, 200000.0
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	cols := []string{"id", "address", "number_of_bedrooms", "number_of_bathrooms", "city", "listed_date",
		"price", "land_size", "property_type", "realtor_id", "created_at", "updated_at", "image"}
	mock.ExpectQuery(`WHERE h.city = \? AND h.price >= \? AND h.price <= \? AND h.property_type = \?`).
		WithArgs("Tokyo", min, max, "RESIDENTIAL").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, "1-2-3 Setagaya", 3, 2.5, "Tokyo", now, 150000.0, 120.0, "RESIDENTIAL", 7, now, now, "img1"))

	items, err := repo.List(context.Background(), HomeFilter{
		City: "Tokyo", MinPrice: &min, MaxPrice: &max, PropertyType: model.PropertyResidential,
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "img1", items[0].Image)
	assert.Equal(t, uint64(7), items[0].RealtorID)
	assert.Equal(t, model.PropertyResidential, items[0].PropertyType)
}

func TestHomeRepoCreateInsertsImages(t *testing.T) {
	db, mock := newMock(t)
	repo := NewHomeRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO homes").WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO images (url, home_id) VALUES (?, ?)")).
		WithArgs("src1", uint64(5)).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO images (url, home_id) VALUES (?, ?)")).
		WithArgs("src2", uint64(5)).WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	h := &model.Home{Address: "a", NumberOfBedrooms: 1, NumberOfBathrooms: 1, City: "c", Price: 1, LandSize: 1,
		PropertyType: model.PropertyCondo, RealtorID: 7}
	require.NoError(t, repo.Create(context.Background(), h, []string{"src1", "src2"}))
	assert.Equal(t, uint64(5), h.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHomeRepoDeleteMissingRollsBack(t *testing.T) {
	db, mock := newMock(t)
	repo := NewHomeRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM images").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM messages").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM homes").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 9)
	assert.ErrorIs(t, err, ErrHomeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHomeRepoUpdateOnlyTouchesGivenFields(t *testing.T) {
	db, mock := newMock(t)
	repo := NewHomeRepo(db)
	price := 99.5

	mock.ExpectExec(regexp.QuoteMeta("UPDATE homes SET price = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?")).
		WithArgs(price, uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), 4, HomeUpdate{Price: &price}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHomeRepoUpdateWithUnchangedValuesIsNotAnError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewHomeRepo(db)
	price := 500000.0

	// MySQL counts changed rows, so rewriting the current value affects none
	mock.ExpectExec(regexp.QuoteMeta("UPDATE homes SET price = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?")).
		WithArgs(price, uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Update(context.Background(), 4, HomeUpdate{Price: &price}))
	assert.NoError(t, mock.ExpectationsWereMet())
}
