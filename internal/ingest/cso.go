package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/rshade/housingdemand/internal/engine"
	"github.com/rshade/housingdemand/internal/logging"
)

// Column positions in a CSO PxStat population projection export:
// Statistic, Year, Age, Sex, Criteria, Unit, VALUE.
const (
	csoColYear     = 1
	csoColAge      = 2
	csoColSex      = 3
	csoColCriteria = 4
	csoColValue    = 6
	csoMinColumns  = 7
)

const (
	csoAllAges   = "All ages"
	csoUnderOne  = "Under 1 year"
	csoOldest    = "99 years and over"
	csoOldestAge = 99
	csoBothSexes = "Both sexes"
)

//nolint:gochecknoglobals // Compiled once.
var (
	csoAgePattern      = regexp.MustCompile(`^(\d+)\s+years?$`)
	csoCriteriaPattern = regexp.MustCompile(`Method - (M[123])`)
)

//nolint:gochecknoglobals // Descriptions of the closed migration set.
var migrationDescriptions = map[engine.Migration]string{
	engine.MigrationM1: "M1 scenario - lower net migration",
	engine.MigrationM2: "M2 scenario - baseline net migration",
	engine.MigrationM3: "M3 scenario - higher net migration",
}

// LoadCSOPopulation reads a CSO population projection export from path.
func LoadCSOPopulation(ctx context.Context, path string) ([]engine.MigrationScenario, error) {
	log := logging.FromContext(ctx)
	log.Debug().
		Str("component", "ingest").
		Str("operation", "load_population").
		Str("population_path", path).
		Msg("loading CSO population projections")

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening population file: %w", err)
	}
	defer f.Close()

	scenarios, err := ParseCSOPopulation(f)
	if err != nil {
		return nil, fmt.Errorf("parsing population file %s: %w", path, err)
	}

	log.Debug().
		Str("component", "ingest").
		Int("migration_scenarios", len(scenarios)).
		Msg("population projections loaded")

	return scenarios, nil
}

// ParseCSOPopulation aggregates single-year-of-age projections into
// household-forming cohorts per migration assumption.
//
// The first record is the header. "All ages" rows, rows outside the
// M1-M3 criteria and sex-specific rows are skipped; ages under 15 are
// dropped. Each year's Total is the sum of its household-forming
// cohorts. Scenarios are returned in M1, M2, M3 order, omitting any
// assumption with no rows.
func ParseCSOPopulation(r io.Reader) ([]engine.MigrationScenario, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	aggregated := make(map[engine.Migration]map[int]engine.CohortValues)

	line := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRow, line, err)
		}
		if line == 1 {
			continue
		}
		if len(record) < csoMinColumns {
			return nil, fmt.Errorf("%w: line %d: expected %d columns, got %d", ErrMalformedRow, line, csoMinColumns, len(record))
		}

		sex := strings.TrimSpace(record[csoColSex])
		if sex != "" && sex != csoBothSexes {
			continue
		}
		age, ok := parseCSOAge(record[csoColAge])
		if !ok {
			continue
		}
		migration, ok := parseCSOCriteria(record[csoColCriteria])
		if !ok {
			continue
		}
		cohort, ok := engine.CohortForAge(age)
		if !ok {
			continue
		}

		year, err := strconv.Atoi(strings.TrimSpace(record[csoColYear]))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: year %q", ErrMalformedRow, line, record[csoColYear])
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(record[csoColValue]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: value %q", ErrMalformedRow, line, record[csoColValue])
		}

		years, ok := aggregated[migration]
		if !ok {
			years = make(map[int]engine.CohortValues)
			aggregated[migration] = years
		}
		if years[year] == nil {
			years[year] = engine.CohortValues{}
		}
		years[year][cohort] += value
	}

	var out []engine.MigrationScenario
	for _, m := range engine.AllMigrations() {
		years, ok := aggregated[m]
		if !ok {
			continue
		}
		data := make(engine.PopulationSeries, len(years))
		for year, cohorts := range years {
			data[year] = engine.PopulationYear{Total: cohorts.Sum(), Cohorts: cohorts}
		}
		out = append(out, engine.MigrationScenario{
			Migration:   m,
			Label:       m.DefaultLabel(),
			Description: migrationDescriptions[m],
			Data:        data,
		})
	}

	if len(out) == 0 {
		return nil, ErrNoPopulationData
	}
	return out, nil
}

// parseCSOAge converts an age label to a single year of age.
func parseCSOAge(label string) (int, bool) {
	label = strings.TrimSpace(label)
	switch label {
	case csoAllAges:
		return 0, false
	case csoUnderOne:
		return 0, true
	case csoOldest:
		return csoOldestAge, true
	}
	match := csoAgePattern.FindStringSubmatch(label)
	if match == nil {
		return 0, false
	}
	age, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return age, true
}

func parseCSOCriteria(criteria string) (engine.Migration, bool) {
	match := csoCriteriaPattern.FindStringSubmatch(criteria)
	if match == nil {
		return 0, false
	}
	m, err := engine.ParseMigration(match[1])
	if err != nil {
		return 0, false
	}
	return m, true
}
