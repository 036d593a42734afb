package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/rudylameme/bvp-planning-sub000/internal/config"
)

const salesCSV = `Date;Libellé;Qté vendue
01/01/2024;Baguette;100
02/01/2024;Baguette;80
06/01/2024;Croissant;60
`

const trafficCSV = `Jour;Créneau;Tickets
Lundi;Matin;100
Mardi;Matin;80
Samedi;Matin;200
`

func TestPlanCommand(t *testing.T) {
	dir := t.TempDir()
	sales := filepath.Join(dir, "ventes.csv")
	traffic := filepath.Join(dir, "freq.csv")
	require.NoError(t, os.WriteFile(sales, []byte(salesCSV), 0o644))
	require.NoError(t, os.WriteFile(traffic, []byte(trafficCSV), 0o644))

	cfg := &config.Config{
		Planning:  config.PlanningConfig{DefaultProfile: "standard", DefaultMode: "mathematical"},
		Reference: config.ReferenceConfig{Source: "none"},
	}
	var out bytes.Buffer
	app := &cli.App{Name: "bakeplan", Writer: &out, Commands: []*cli.Command{planCommand(cfg)}}

	xlsx := filepath.Join(dir, "plan.xlsx")
	handoff := filepath.Join(dir, "plan.json")
	err := app.Run([]string{"bakeplan", "plan",
		"--sales", sales,
		"--traffic-w1", traffic,
		"--store", "Centre",
		"--week-start", "04/03/2024",
		"--closed", "sun",
		"--data-dir", filepath.Join(dir, "data"),
		"--xlsx", xlsx,
		"--handoff", handoff,
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), `store="Centre"`)
	assert.Contains(t, out.String(), "Lundi")
	assert.Contains(t, out.String(), "Semaine")

	info, err := os.Stat(xlsx)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())

	data, err := os.ReadFile(handoff)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version": 1`)
}

func TestPlanCommandRejectsUnknownDay(t *testing.T) {
	dir := t.TempDir()
	sales := filepath.Join(dir, "ventes.csv")
	require.NoError(t, os.WriteFile(sales, []byte(salesCSV), 0o644))

	cfg := &config.Config{Reference: config.ReferenceConfig{Source: "none"}}
	app := &cli.App{Name: "bakeplan", Writer: &bytes.Buffer{}, Commands: []*cli.Command{planCommand(cfg)}}

	err := app.Run([]string{"bakeplan", "plan", "--sales", sales, "--closed", "funday", "--data-dir", filepath.Join(dir, "data")})
	assert.Error(t, err)
}
