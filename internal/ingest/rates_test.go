package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/housingdemand/internal/engine"
)

func TestDefaultRates_CoverEveryCohort(t *testing.T) {
	current := DefaultCurrentRates()
	target := DefaultTargetRates()
	for _, c := range engine.AllCohorts() {
		assert.Contains(t, current, c)
		assert.Contains(t, target, c)
	}
	assert.InDelta(t, 0.263, current[engine.Cohort25To29], 1e-12)
	assert.InDelta(t, 0.38, target[engine.Cohort25To29], 1e-12)
}

func TestParseCohortRates(t *testing.T) {
	tests := []struct {
		name        string
		doc         string
		wantCurrent engine.CohortRates
		wantTarget  engine.CohortRates
		wantErr     error
	}{
		{
			name: "both sections",
			doc: `
current:
  "25-29": 0.3
  65+: 0.6
target:
  "25-29": 0.4
`,
			wantCurrent: engine.CohortRates{engine.Cohort25To29: 0.3, engine.Cohort65Plus: 0.6},
			wantTarget:  engine.CohortRates{engine.Cohort25To29: 0.4},
		},
		{
			name:        "missing target uses defaults",
			doc:         `{"current": {"20-24": 0.1}}`,
			wantCurrent: engine.CohortRates{engine.Cohort20To24: 0.1},
			wantTarget:  DefaultTargetRates(),
		},
		{
			name:        "empty document uses defaults",
			doc:         "",
			wantCurrent: DefaultCurrentRates(),
			wantTarget:  DefaultTargetRates(),
		},
		{
			name:    "unknown cohort",
			doc:     "current:\n  \"10-14\": 0.1\n",
			wantErr: engine.ErrUnknownCohort,
		},
		{
			name:    "rate out of range",
			doc:     "target:\n  \"30-34\": 1.2\n",
			wantErr: ErrInvalidDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current, target, err := ParseCohortRates(strings.NewReader(tt.doc))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCurrent, current)
			assert.Equal(t, tt.wantTarget, target)
		})
	}
}

func TestLoadCohortRates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.yaml")
	require.NoError(t, os.WriteFile(path, []byte("current:\n  \"35-39\": 0.45\n"), 0o600))

	current, target, err := LoadCohortRates(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, engine.CohortRates{engine.Cohort35To39: 0.45}, current)
	assert.Equal(t, DefaultTargetRates(), target)
}
