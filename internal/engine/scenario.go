package engine

import (
	"fmt"
	"strings"
)

// IDSeparator joins component keys into a scenario ID. Component keys
// must not contain it.
const IDSeparator = "-"

// PopulationScenario is a named population trajectory.
type PopulationScenario struct {
	Key         string
	Label       string
	Description string
	Data        PopulationSeries
}

// HeadshipScenario is a named aggregate headship-rate trajectory.
type HeadshipScenario struct {
	Key         string
	Label       string
	Description string
	Data        YearSeries
}

// ObsolescenceScenario is a named annual obsolescence rate.
type ObsolescenceScenario struct {
	Key   string
	Label string
	Rate  float64
}

// ScenarioResult is the projection of one combination of assumptions.
// Labels are copied verbatim from the scenario definitions.
type ScenarioResult struct {
	ID                string            `json:"id"`
	Population        string            `json:"population"`
	Headship          string            `json:"headship"`
	Obsolescence      string            `json:"obsolescence,omitempty"`
	PopulationLabel   string            `json:"populationLabel"`
	HeadshipLabel     string            `json:"headshipLabel"`
	ObsolescenceLabel string            `json:"obsolescenceLabel,omitempty"`
	TimeSeries        []TimeSeriesPoint `json:"timeSeries"`
}

// ScenarioID joins component keys with the fixed separator.
func ScenarioID(keys ...string) string {
	return strings.Join(keys, IDSeparator)
}

// Migration identifies one of the three CSO migration assumptions.
type Migration int

const (
	// MigrationM1 is the low net migration assumption.
	MigrationM1 Migration = iota
	// MigrationM2 is the baseline net migration assumption.
	MigrationM2
	// MigrationM3 is the high net migration assumption.
	MigrationM3
)

//nolint:gochecknoglobals // Fixed lookup tables for the closed migration set.
var (
	migrationKeys   = [...]string{"M1", "M2", "M3"}
	migrationLabels = [...]string{"Low Migration", "Baseline Migration", "High Migration"}
)

// AllMigrations returns M1, M2 and M3 in order.
func AllMigrations() []Migration {
	return []Migration{MigrationM1, MigrationM2, MigrationM3}
}

// String returns the migration key ("M1", "M2", "M3").
func (m Migration) String() string {
	if m < MigrationM1 || m > MigrationM3 {
		return fmt.Sprintf("Migration(%d)", int(m))
	}
	return migrationKeys[m]
}

// DefaultLabel returns the conventional label for m.
func (m Migration) DefaultLabel() string {
	if m < MigrationM1 || m > MigrationM3 {
		return m.String()
	}
	return migrationLabels[m]
}

// ParseMigration parses "M1", "M2" or "M3".
func ParseMigration(key string) (Migration, error) {
	for i, k := range migrationKeys {
		if strings.EqualFold(k, key) {
			return Migration(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMigration, key)
}

// MarshalText implements encoding.TextMarshaler.
func (m Migration) MarshalText() ([]byte, error) {
	if m < MigrationM1 || m > MigrationM3 {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMigration, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Migration) UnmarshalText(text []byte) error {
	parsed, err := ParseMigration(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// HeadshipPath identifies how cohort headship rates evolve.
type HeadshipPath int

const (
	// PathCurrent keeps current rates for every year.
	PathCurrent HeadshipPath = iota
	// PathGradual converges to the target rates over the gradual horizon.
	PathGradual
	// PathFast converges to the target rates over the fast horizon.
	PathFast
)

//nolint:gochecknoglobals // Fixed lookup tables for the closed headship path set.
var (
	headshipPathKeys   = [...]string{"current", "gradual", "fast"}
	headshipPathLabels = [...]string{"Irish Current", "Gradual Convergence", "Fast Convergence"}
)

// AllHeadshipPaths returns current, gradual and fast in order.
func AllHeadshipPaths() []HeadshipPath {
	return []HeadshipPath{PathCurrent, PathGradual, PathFast}
}

// String returns the path key.
func (p HeadshipPath) String() string {
	if p < PathCurrent || p > PathFast {
		return fmt.Sprintf("HeadshipPath(%d)", int(p))
	}
	return headshipPathKeys[p]
}

// Label returns the human-readable path name.
func (p HeadshipPath) Label() string {
	if p < PathCurrent || p > PathFast {
		return p.String()
	}
	return headshipPathLabels[p]
}

// ParseHeadshipPath parses "current", "gradual" or "fast".
func ParseHeadshipPath(key string) (HeadshipPath, error) {
	for i, k := range headshipPathKeys {
		if strings.EqualFold(k, key) {
			return HeadshipPath(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownHeadshipPath, key)
}

// MigrationScenario is a population trajectory with a cohort breakdown
// under one migration assumption.
type MigrationScenario struct {
	Migration   Migration
	Label       string
	Description string
	Data        PopulationSeries
}
