package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rudylameme/bvp-planning-sub000/internal/domain"
	"github.com/rudylameme/bvp-planning-sub000/internal/reference"
)

// Schema creates the reference table when it does not exist yet.
const Schema = `
	CREATE TABLE IF NOT EXISTS product_reference (
		code               TEXT PRIMARY KEY,
		display_label      TEXT NOT NULL DEFAULT '',
		shelf_category     TEXT NOT NULL DEFAULT 'other',
		baking_program     TEXT NOT NULL DEFAULT '',
		units_per_sale_lot INTEGER NOT NULL DEFAULT 1,
		units_per_tray     INTEGER NOT NULL DEFAULT 0,
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

const referenceColumns = `code, display_label, shelf_category, baking_program, units_per_sale_lot, units_per_tray`

// ReferenceRepository reads the product reference table maintained by the
// head office.
type ReferenceRepository struct {
	db *DB
}

var _ reference.Lookup = (*ReferenceRepository)(nil)

func NewReferenceRepository(db *DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

func (r *ReferenceRepository) Lookup(ctx context.Context, code string) (*domain.Reference, error) {
	release, err := r.db.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var ref domain.Reference
	query := `SELECT ` + referenceColumns + ` FROM product_reference WHERE code = $1`
	if err := r.db.GetContext(ctx, &ref, query, reference.NormalizeCode(code)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product reference: %w", err)
	}
	return &ref, nil
}

// List returns every entry ordered by code.
func (r *ReferenceRepository) List(ctx context.Context) ([]domain.Reference, error) {
	release, err := r.db.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var refs []domain.Reference
	query := `SELECT ` + referenceColumns + ` FROM product_reference ORDER BY code`
	if err := r.db.SelectContext(ctx, &refs, query); err != nil {
		return nil, fmt.Errorf("failed to list product references: %w", err)
	}
	return refs, nil
}

// Upsert writes refs in one transaction, replacing entries with the same code.
func (r *ReferenceRepository) Upsert(ctx context.Context, refs []domain.Reference) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO product_reference (` + referenceColumns + `, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, NOW())
			ON CONFLICT (code)
			DO UPDATE SET
				display_label = EXCLUDED.display_label,
				shelf_category = EXCLUDED.shelf_category,
				baking_program = EXCLUDED.baking_program,
				units_per_sale_lot = EXCLUDED.units_per_sale_lot,
				units_per_tray = EXCLUDED.units_per_tray,
				updated_at = NOW()
		`

		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, ref := range refs {
			code := reference.NormalizeCode(ref.Code)
			if code == "" {
				continue
			}
			shelf := ref.ShelfCategory
			if shelf == "" {
				shelf = domain.ShelfOther
			}
			if _, err := stmt.ExecContext(ctx, code, ref.DisplayLabel, shelf, ref.BakingProgram,
				ref.UnitsPerSaleLot, ref.UnitsPerTray); err != nil {
				return fmt.Errorf("failed to upsert reference %s: %w", code, err)
			}
		}
		return nil
	})
}

// EnsureSchema creates the reference table.
func (r *ReferenceRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create product_reference: %w", err)
	}
	return nil
}
