package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rudylameme/bvp-planning-sub000/internal/config"
	"github.com/rudylameme/bvp-planning-sub000/internal/domain"
	"github.com/rudylameme/bvp-planning-sub000/internal/reference"
	"github.com/rudylameme/bvp-planning-sub000/internal/service"
)

func TestDefaults(t *testing.T) {
	d, err := Defaults(config.PlanningConfig{DefaultProfile: "Seasonal", DefaultMode: "weekly_estimates"})
	require.NoError(t, err)
	assert.Equal(t, service.Defaults{Profile: domain.ProfileSeasonal, Mode: domain.ModeWeeklyEstimates}, d)

	_, err = Defaults(config.PlanningConfig{DefaultProfile: "yearly"})
	assert.Error(t, err)
}

func TestNewReferenceLookup(t *testing.T) {
	lookup, closer, err := NewReferenceLookup(&config.Config{Reference: config.ReferenceConfig{Source: "none"}})
	require.NoError(t, err)
	assert.Nil(t, closer)
	assert.IsType(t, reference.NoopLookup{}, lookup)

	lookup, _, err = NewReferenceLookup(&config.Config{Reference: config.ReferenceConfig{Source: "file", File: filepath.Join(t.TempDir(), "missing.csv")}})
	require.NoError(t, err)
	assert.IsType(t, reference.NoopLookup{}, lookup)

	path := filepath.Join(t.TempDir(), "refs.csv")
	require.NoError(t, os.WriteFile(path, []byte("Code;Libellé;Rayon\n1001;Baguette tradition;Boulangerie\n"), 0o644))
	lookup, _, err = NewReferenceLookup(&config.Config{Reference: config.ReferenceConfig{Source: "file", File: path}})
	require.NoError(t, err)
	ref, err := lookup.Lookup(context.Background(), "1001")
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, domain.ShelfBakery, ref.ShelfCategory)

	_, _, err = NewReferenceLookup(&config.Config{Reference: config.ReferenceConfig{Source: "ldap"}})
	assert.Error(t, err)
}

func TestNewLocalApp(t *testing.T) {
	cfg := &config.Config{
		App:       config.AppConfig{DataDir: t.TempDir()},
		Planning:  config.PlanningConfig{DefaultProfile: "standard", DefaultMode: "mathematical"},
		Reference: config.ReferenceConfig{Source: "none"},
		Storage:   config.StorageConfig{Driver: "local"},
	}

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	sess, err := a.Sessions.CreateSession(context.Background(), service.CreateSessionInput{StoreName: "Centre"})
	require.NoError(t, err)
	assert.Equal(t, domain.ModeMathematical, sess.Week.Mode)
}
