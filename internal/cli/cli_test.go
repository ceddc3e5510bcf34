package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/housingdemand/internal/cli"
	"github.com/rshade/housingdemand/internal/config"
)

const testScenarios = `
schema_version: "1.0.0"
base_year: 2022
housing_stock:
  2022: 500
population_scenarios:
  baseline:
    label: Baseline
    data:
      2022: 1000
      2024: 1040
  high:
    label: High
    data:
      2022: 1000
      2024: 1080
headship_scenarios:
  current:
    label: Current
    data:
      2022: 0.5
      2024: 0.5
obsolescence_scenarios:
  none:
    label: None
    rate: 0
`

const quietConfig = `
logging:
  level: error
  format: json
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func noEnv(string) (string, bool) { return "", false }

type result struct {
	stdout string
	stderr string
	err    error
}

func executeWith(t *testing.T, configYAML string, lookup config.LookupFunc, args ...string) result {
	t.Helper()
	root := cli.NewRootCmdWithEnv("test", lookup)

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", writeFile(t, "config.yaml", configYAML)}, args...))

	err := root.Execute()
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

func execute(t *testing.T, args ...string) result {
	t.Helper()
	return executeWith(t, quietConfig, noEnv, args...)
}

func TestRootCmd(t *testing.T) {
	root := cli.NewRootCmd("1.2.3")
	assert.Equal(t, "housingdemand", root.Use)
	assert.Equal(t, "1.2.3", root.Version)

	for _, name := range []string{"project", "cohort", "compare", "validate", "browse"} {
		sub, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
	for _, flag := range []string{"debug", "config", "metrics"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestProjectCmd_JSON(t *testing.T) {
	scenarios := writeFile(t, "scenarios.yaml", testScenarios)
	res := execute(t, "project", "--scenarios", scenarios, "--population", "high",
		"--start", "2023", "--end", "2024", "--output", "json")
	require.NoError(t, res.err)

	var summary struct {
		Scenario struct {
			ID         string `json:"id"`
			TimeSeries []struct {
				Year   int     `json:"year"`
				Demand float64 `json:"demand"`
			} `json:"timeSeries"`
		} `json:"scenario"`
		Envelope []struct {
			Year int     `json:"year"`
			Min  float64 `json:"min"`
			Max  float64 `json:"max"`
		} `json:"envelope"`
		Periods []struct {
			Average   float64 `json:"average"`
			Total     float64 `json:"total"`
			RangeMin  float64 `json:"rangeMin"`
			RangeMax  float64 `json:"rangeMax"`
			SupplyGap float64 `json:"supplyGap"`
		} `json:"periods"`
		References struct {
			Need   float64 `json:"need"`
			Supply float64 `json:"supply"`
		} `json:"references"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &summary))

	assert.Equal(t, "high-current-none", summary.Scenario.ID)
	require.Len(t, summary.Scenario.TimeSeries, 2)
	assert.InDelta(t, 20, summary.Scenario.TimeSeries[0].Demand, 1e-9)
	require.Len(t, summary.Envelope, 2)
	assert.InDelta(t, 10, summary.Envelope[0].Min, 1e-9)
	assert.InDelta(t, 20, summary.Envelope[0].Max, 1e-9)
	require.Len(t, summary.Periods, 1)
	assert.InDelta(t, 40, summary.Periods[0].Total, 1e-9)
	assert.InDelta(t, 10, summary.Periods[0].RangeMin, 1e-9)
	assert.InDelta(t, 20, summary.Periods[0].RangeMax, 1e-9)
	assert.InDelta(t, 20-33000, summary.Periods[0].SupplyGap, 1e-9)
	assert.InDelta(t, 52000, summary.References.Need, 0)
	assert.InDelta(t, 33000, summary.References.Supply, 0)
	assert.Empty(t, res.stderr)
}

func TestProjectCmd_FallbackWarning(t *testing.T) {
	scenarios := writeFile(t, "scenarios.yaml", testScenarios)
	res := execute(t, "project", "--scenarios", scenarios, "--population", "missing",
		"--start", "2023", "--end", "2024")
	require.NoError(t, res.err)

	assert.Contains(t, res.stderr, `Warning: unknown population scenario "missing", using "baseline"`)
	assert.Contains(t, res.stdout, "baseline-current-none")
	assert.Contains(t, res.stdout, "Scenario envelope:")
	assert.Contains(t, res.stdout, "Gap vs 2023 Supply")
	assert.Contains(t, res.stdout, "Report estimate")
}

func TestProjectCmd_ConfiguredReferences(t *testing.T) {
	scenarios := writeFile(t, "scenarios.yaml", testScenarios)
	cfg := quietConfig + "engine:\n  reference_supply: 15\n"
	res := executeWith(t, cfg, noEnv, "project", "--scenarios", scenarios,
		"--start", "2023", "--end", "2024", "--output", "json")
	require.NoError(t, res.err)

	var summary struct {
		Periods []struct {
			SupplyGap float64 `json:"supplyGap"`
		} `json:"periods"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &summary))
	require.Len(t, summary.Periods, 1)
	assert.InDelta(t, -5, summary.Periods[0].SupplyGap, 1e-9, "baseline averages 10 against a supply of 15")
}

func TestProjectCmd_Errors(t *testing.T) {
	scenarios := writeFile(t, "scenarios.yaml", testScenarios)

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "missing scenarios flag", args: []string{"project"}},
		{
			name:    "invalid output format",
			args:    []string{"project", "--scenarios", scenarios, "--output", "xml"},
			wantErr: cli.ErrInvalidOutputFormat,
		},
		{
			name:    "missing scenario file",
			args:    []string{"project", "--scenarios", filepath.Join(t.TempDir(), "none.yaml")},
			wantErr: os.ErrNotExist,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, tt.args...)
			require.Error(t, res.err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, res.err, tt.wantErr)
			}
		})
	}
}

func TestCompareCmd(t *testing.T) {
	scenarios := writeFile(t, "scenarios.yaml", testScenarios)
	res := execute(t, "compare", "--scenarios", scenarios, "--no-cache", "--unit", "1000")
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "Avg 2023-2030")
	assert.Contains(t, res.stdout, "baseline-current-none")
	assert.Contains(t, res.stdout, "10,000")
	assert.Contains(t, res.stdout, "20,000")
}

func TestCompareCmd_Cache(t *testing.T) {
	scenarios := writeFile(t, "scenarios.yaml", testScenarios)
	cacheDir := t.TempDir()
	cfg := quietConfig + "cache:\n  enabled: true\n  ttl_seconds: 3600\n  directory: " + cacheDir + "\n"

	first := executeWith(t, cfg, noEnv, "compare", "--scenarios", scenarios, "--output", "json")
	require.NoError(t, first.err)

	entries, err := os.ReadDir(cacheDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	second := executeWith(t, cfg, noEnv, "compare", "--scenarios", scenarios, "--output", "json")
	require.NoError(t, second.err)
	assert.JSONEq(t, first.stdout, second.stdout)
}

func TestValidateCmd(t *testing.T) {
	scenarios := writeFile(t, "scenarios.yaml", testScenarios)

	passing := writeFile(t, "pass.yaml", `
tolerance: 1
windows: [{start: 2023, end: 2024}]
benchmarks:
  - id: baseline-current-none
    expected: [10]
  - id: high-current-none
    expected: [20]
`)
	res := execute(t, "validate", "--scenarios", scenarios, "--benchmarks", passing)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "ALL BENCHMARKS PASSED")

	failing := writeFile(t, "fail.yaml", `
tolerance: 1
windows: [{start: 2023, end: 2024}]
benchmarks:
  - id: baseline-current-none
    expected: [100]
`)
	res = execute(t, "validate", "--scenarios", scenarios, "--benchmarks", failing)
	require.Error(t, res.err)
	var exitErr *cli.ExitError
	require.ErrorAs(t, res.err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode)
	assert.Contains(t, res.stdout, "FAIL")
}

func TestCohortCmd(t *testing.T) {
	csv := strings.Join([]string{
		`"Statistic","Year","Age","Sex","Criteria","UNIT","VALUE"`,
		`"Projected Population","2022","30 years","Both sexes","Method - M2","Number","1000"`,
		`"Projected Population","2023","30 years","Both sexes","Method - M2","Number","1100"`,
	}, "\n")
	population := writeFile(t, "population.csv", csv)

	res := execute(t, "cohort", "--population", population, "--migration", "M2", "--headship", "current",
		"--base-stock", "100", "--obsolescence", "0", "--start", "2023", "--end", "2023", "--output", "json")
	require.NoError(t, res.err)

	var summary struct {
		Scenario struct {
			ID         string `json:"id"`
			TimeSeries []struct {
				Demand          float64 `json:"demand"`
				TotalHouseholds float64 `json:"totalHouseholds"`
			} `json:"timeSeries"`
		} `json:"scenario"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &summary))
	assert.Equal(t, "M2-current", summary.Scenario.ID)
	require.Len(t, summary.Scenario.TimeSeries, 1)
	assert.InDelta(t, 39.7, summary.Scenario.TimeSeries[0].Demand, 1e-9)
	assert.InDelta(t, 436.7, summary.Scenario.TimeSeries[0].TotalHouseholds, 1e-9)

	res = execute(t, "cohort", "--population", population, "--migration", "M7", "--all")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "M2-current")
	assert.Contains(t, res.stdout, "M2-fast")
}

func TestMetricsFlag(t *testing.T) {
	scenarios := writeFile(t, "scenarios.yaml", testScenarios)
	res := execute(t, "--metrics", "compare", "--scenarios", scenarios, "--no-cache")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, `housingdemand_scenarios_total{variant="aggregate"} 2`)
}

func TestMetricsFlag_CommandFails(t *testing.T) {
	scenarios := writeFile(t, "scenarios.yaml", testScenarios)
	failing := writeFile(t, "fail.yaml", `
tolerance: 1
windows: [{start: 2023, end: 2024}]
benchmarks:
  - id: baseline-current-none
    expected: [100]
`)
	logFile := filepath.Join(t.TempDir(), "housingdemand.log")
	cfg := "logging:\n  level: info\n  format: json\n  file: " + logFile + "\n"

	res := executeWith(t, cfg, noEnv, "--metrics", "validate", "--scenarios", scenarios, "--benchmarks", failing)
	var exitErr *cli.ExitError
	require.ErrorAs(t, res.err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode)
	assert.Contains(t, res.stderr, `housingdemand_scenarios_total{variant="aggregate"} 2`)

	logged, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(logged), "command started")
}

func TestConfigErrors(t *testing.T) {
	scenarios := writeFile(t, "scenarios.yaml", testScenarios)

	res := executeWith(t, "output:\n  unit: 0\n", noEnv, "compare", "--scenarios", scenarios)
	assert.ErrorIs(t, res.err, config.ErrInvalidConfig)

	badEnv := func(key string) (string, bool) {
		if key == "HOUSINGDEMAND_CONCURRENCY" {
			return "many", true
		}
		return "", false
	}
	res = executeWith(t, quietConfig, badEnv, "compare", "--scenarios", scenarios)
	assert.ErrorIs(t, res.err, config.ErrInvalidConfig)
}
