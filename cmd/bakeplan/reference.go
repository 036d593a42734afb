package main

import (
	"database/sql"
	"fmt"
	"io"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/rudylameme/bvp-planning-sub000/internal/domain"
	"github.com/rudylameme/bvp-planning-sub000/internal/importer"
	"github.com/rudylameme/bvp-planning-sub000/internal/repository/postgres"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func referenceCommand() *cli.Command {
	return &cli.Command{
		Name:  "reference",
		Usage: "Manage the product reference table",
		Subcommands: []*cli.Command{
			{
				Name:  "seed",
				Usage: "Load a reference csv or xlsx file into product_reference",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Reference file (code, label, shelf, program, units per lot, units per tray)",
						Required: true,
						EnvVars:  []string{"REFERENCE_FILE"},
					},
				},
				Action: runReferenceSeed,
			},
			{
				Name:  "list",
				Usage: "Print the product reference table",
				Flags: []cli.Flag{newDBURLFlag()},
				Action: func(c *cli.Context) error {
					db, err := openDB(c.String("db-url"))
					if err != nil {
						return err
					}
					defer db.Close()

					refs, err := postgres.NewReferenceRepository(db).List(c.Context)
					if err != nil {
						return err
					}
					printReferences(c.App.Writer, refs)
					return nil
				},
			},
		},
	}
}

// openDB connects through the pgx stdlib driver and wraps the pool like the
// server's own connection.
func openDB(url string) (*postgres.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return postgres.Wrap(sqlx.NewDb(db, "pgx")), nil
}

func runReferenceSeed(c *cli.Context) error {
	var refs []domain.Reference
	err := withFile(c.String("file"), func(name string, r io.Reader) error {
		var err error
		refs, err = importer.ParseReferences(name, r)
		return err
	})
	if err != nil {
		return err
	}

	db, err := openDB(c.String("db-url"))
	if err != nil {
		return err
	}
	defer db.Close()

	repo := postgres.NewReferenceRepository(db)
	if err := repo.EnsureSchema(c.Context); err != nil {
		return err
	}
	if err := repo.Upsert(c.Context, refs); err != nil {
		return err
	}

	log.Info().Int("references", len(refs)).Str("file", c.String("file")).Msg("reference table seeded")
	return nil
}

func printReferences(w io.Writer, refs []domain.Reference) {
	for _, r := range refs {
		fmt.Fprintf(w, "%-12s %-32s %-14s %-16s lot=%d plaque=%d\n",
			r.Code, r.DisplayLabel, r.ShelfCategory, r.BakingProgram, r.UnitsPerSaleLot, r.UnitsPerTray)
	}
}
