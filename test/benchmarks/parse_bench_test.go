package benchmarks_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/rshade/housingdemand/internal/ingest"
)

// generateScenarioYAML builds a scenario document with n population
// scenarios anchored every five years.
func generateScenarioYAML(n int) string {
	var sb strings.Builder
	sb.WriteString("schema_version: \"1.0.0\"\nbase_year: 2022\nhousing_stock:\n  2022: 2100\n")
	sb.WriteString("population_scenarios:\n")
	for i := range n {
		fmt.Fprintf(&sb, "  pop%d:\n    label: Population %d\n    data:\n", i, i)
		for year := 2022; year <= 2057; year += 5 {
			fmt.Fprintf(&sb, "      %d: %d\n", year, 5200+(year-2022)*(40+i))
		}
	}
	sb.WriteString("headship_scenarios:\n  current:\n    label: Current\n    data:\n      2022: 0.36\n      2057: 0.36\n")
	sb.WriteString("obsolescence_scenarios:\n  low:\n    label: Low\n    rate: 0.0025\n")
	return sb.String()
}

// generateCSORows builds a CSO export with every single year of age for
// each migration assumption.
func generateCSORows(years int) string {
	var sb strings.Builder
	sb.WriteString(`"Statistic Label","Year","Age","Sex","Criteria for Projection","UNIT","VALUE"` + "\n")
	for _, m := range []string{"M1", "M2", "M3"} {
		for year := 2022; year < 2022+years; year++ {
			for age := 1; age < 99; age++ {
				fmt.Fprintf(&sb, `"Projected Population","%d","%d years","Both sexes","Method - %s","Number","%d"`+"\n",
					year, age, m, 60000+age)
			}
		}
	}
	return sb.String()
}

// BenchmarkParseScenarioFile benchmarks parsing and resolving a scenario
// document.
func BenchmarkParseScenarioFile(b *testing.B) {
	doc := generateScenarioYAML(50)
	b.ReportAllocs()
	for b.Loop() {
		file, err := ingest.ParseScenarioFile(strings.NewReader(doc))
		if err != nil {
			b.Fatal(err)
		}
		if _, err = file.MatrixInput(0); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkParseCSOPopulation benchmarks cohort aggregation of a full
// 36-year CSO export.
func BenchmarkParseCSOPopulation(b *testing.B) {
	doc := generateCSORows(36)
	b.ReportAllocs()
	for b.Loop() {
		if _, err := ingest.ParseCSOPopulation(strings.NewReader(doc)); err != nil {
			b.Fatal(err)
		}
	}
}
