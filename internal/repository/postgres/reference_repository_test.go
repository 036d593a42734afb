package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rudylameme/bvp-planning-sub000/internal/domain"
)

func newMockRepository(t *testing.T) (*ReferenceRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewReferenceRepository(Wrap(sqlx.NewDb(db, "sqlmock"))), mock
}

var columns = []string{"code", "display_label", "shelf_category", "baking_program", "units_per_sale_lot", "units_per_tray"}

func TestReferenceLookup(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM product_reference WHERE code = $1`)).
		WithArgs("AB12").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("AB12", "Baguette", "bakery", "Baguettes", 1, 12))

	ref, err := repo.Lookup(context.Background(), " ab12")
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, domain.Reference{
		Code: "AB12", DisplayLabel: "Baguette", ShelfCategory: domain.ShelfBakery,
		BakingProgram: "Baguettes", UnitsPerSaleLot: 1, UnitsPerTray: 12,
	}, *ref)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReferenceLookupUnknown(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM product_reference WHERE code = $1`)).
		WithArgs("9999").
		WillReturnRows(sqlmock.NewRows(columns))

	ref, err := repo.Lookup(context.Background(), "9999")
	require.NoError(t, err)
	assert.Nil(t, ref)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReferenceLookupError(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM product_reference`)).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.Lookup(context.Background(), "1001")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get product reference")
}

func TestReferenceList(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM product_reference ORDER BY code`)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("1001", "Baguette", "bakery", "Baguettes", 1, 12).
			AddRow("2001", "Croissant", "pastry_bread", "Viennoiseries", 1, 0))

	refs, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, domain.ShelfPastryBread, refs[1].ShelfCategory)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReferenceUpsert(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO product_reference")
	prep.ExpectExec().
		WithArgs("1001", "Baguette", domain.ShelfBakery, "Baguettes", 1, 12).
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().
		WithArgs("X1", "", domain.ShelfOther, "", 1, 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Upsert(context.Background(), []domain.Reference{
		{Code: "1001", DisplayLabel: "Baguette", ShelfCategory: domain.ShelfBakery, BakingProgram: "Baguettes", UnitsPerSaleLot: 1, UnitsPerTray: 12},
		{Code: "  "},
		{Code: "x1", UnitsPerSaleLot: 1},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReferenceUpsertRollsBack(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO product_reference")
	prep.ExpectExec().WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	err := repo.Upsert(context.Background(), []domain.Reference{{Code: "1001"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upsert reference 1001")
	assert.NoError(t, mock.ExpectationsWereMet())
}
