package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectKey(t *testing.T) {
	keys := []string{"baseline", "low", "high"}
	tests := []struct {
		name      string
		available []string
		requested string
		want      string
		wantOK    bool
	}{
		{"known", keys, "high", "high", true},
		{"unknown falls back to first", keys, "extreme", "baseline", false},
		{"empty request falls back", keys, "", "baseline", false},
		{"case sensitive", keys, "HIGH", "baseline", false},
		{"nothing available", nil, "high", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectKey(tt.available, tt.requested)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestSelectScenario(t *testing.T) {
	in := testMatrixInput(t)

	t.Run("exact", func(t *testing.T) {
		got, err := SelectScenario(in, Selection{Population: "high", Headship: "rising", Obsolescence: "low"})
		require.NoError(t, err)
		assert.Empty(t, got.Fallbacks)
		assert.Equal(t, "high-rising-low", got.Scenario.ID)

		all, err := GenerateMatrix(in)
		require.NoError(t, err)
		assert.Equal(t, all[14], got.Scenario)
	})

	t.Run("fallbacks", func(t *testing.T) {
		got, err := SelectScenario(in, Selection{Population: "huge", Headship: "rising", Obsolescence: "none"})
		require.NoError(t, err)
		assert.Equal(t, "low-rising-low", got.Scenario.ID)
		assert.Equal(t, []Fallback{
			{Dimension: DimensionPopulation, Requested: "huge", Used: "low"},
			{Dimension: DimensionObsolescence, Requested: "none", Used: "low"},
		}, got.Fallbacks)
	})

	t.Run("empty set", func(t *testing.T) {
		in := testMatrixInput(t)
		in.Obsolescence = nil
		_, err := SelectScenario(in, Selection{})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestSelectCohortScenario(t *testing.T) {
	opts := DefaultOptions()
	in := testCohortInput()

	got, err := SelectCohortScenario(opts, in, CohortSelection{Migration: "M2", Headship: "gradual"})
	require.NoError(t, err)
	assert.Empty(t, got.Fallbacks)
	assert.Equal(t, "M2-gradual", got.Scenario.ID)

	got, err = SelectCohortScenario(opts, in, CohortSelection{Migration: "M3", Headship: "slow"})
	require.NoError(t, err)
	assert.Equal(t, "M1-current", got.Scenario.ID)
	require.Len(t, got.Fallbacks, 2)
	assert.Equal(t, DimensionMigration, got.Fallbacks[0].Dimension)
	assert.Equal(t, DimensionHeadship, got.Fallbacks[1].Dimension)

	in.Population = nil
	_, err = SelectCohortScenario(opts, in, CohortSelection{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
