package engine

import "fmt"

// MatrixInput holds the three scenario sets of the aggregate model and
// the housing stock of the base year. The slices are ordered; their order
// fixes the order of the generated results.
type MatrixInput struct {
	Population   []PopulationScenario
	Headship     []HeadshipScenario
	Obsolescence []ObsolescenceScenario
	BaseStock    float64
}

// Size returns the number of combinations in the cross-product.
func (in MatrixInput) Size() int {
	return len(in.Population) * len(in.Headship) * len(in.Obsolescence)
}

// Validate checks that keys are non-empty and unique within each set and
// that no two combinations share an ID.
func (in MatrixInput) Validate() error {
	popKeys := make([]string, len(in.Population))
	for i, s := range in.Population {
		popKeys[i] = s.Key
	}
	headKeys := make([]string, len(in.Headship))
	for i, s := range in.Headship {
		headKeys[i] = s.Key
	}
	obsKeys := make([]string, len(in.Obsolescence))
	for i, s := range in.Obsolescence {
		obsKeys[i] = s.Key
	}

	for _, set := range []struct {
		name string
		keys []string
	}{
		{"population", popKeys},
		{"headship", headKeys},
		{"obsolescence", obsKeys},
	} {
		if err := checkKeys(set.name, set.keys); err != nil {
			return err
		}
	}

	seen := make(map[string]struct{}, in.Size())
	for _, c := range in.combinations() {
		id := ScenarioID(popKeys[c.population], headKeys[c.headship], obsKeys[c.obsolescence])
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: scenario ID %q is produced by more than one combination", ErrDuplicateScenario, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// combination indexes one element of the cross-product.
type combination struct {
	population, headship, obsolescence int
}

// combinations enumerates the product in nested (population, headship,
// obsolescence) order.
func (in MatrixInput) combinations() []combination {
	out := make([]combination, 0, in.Size())
	for p := range in.Population {
		for h := range in.Headship {
			for o := range in.Obsolescence {
				out = append(out, combination{population: p, headship: h, obsolescence: o})
			}
		}
	}
	return out
}

// project runs the recurrence for one combination.
func (in MatrixInput) project(c combination) ScenarioResult {
	pop := in.Population[c.population]
	head := in.Headship[c.headship]
	obs := in.Obsolescence[c.obsolescence]

	return ScenarioResult{
		ID:                ScenarioID(pop.Key, head.Key, obs.Key),
		Population:        pop.Key,
		Headship:          head.Key,
		Obsolescence:      obs.Key,
		PopulationLabel:   pop.Label,
		HeadshipLabel:     head.Label,
		ObsolescenceLabel: obs.Label,
		TimeSeries:        ProjectAggregate(pop.Data.Totals(), head.Data, obs.Rate, in.BaseStock),
	}
}

// GenerateMatrix projects every combination of population, headship and
// obsolescence scenarios. Results follow the nested iteration order of
// the three sets and each carries a unique ID of the form
// "population-headship-obsolescence".
func GenerateMatrix(in MatrixInput) ([]ScenarioResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	combos := in.combinations()
	results := make([]ScenarioResult, len(combos))
	for i, c := range combos {
		results[i] = in.project(c)
	}
	return results, nil
}

// CohortMatrixInput holds the inputs of the cohort model: migration
// scenarios crossed with headship paths, under a single obsolescence rate
// and base stock.
type CohortMatrixInput struct {
	Population []MigrationScenario

	// Paths lists the headship paths to evaluate. Nil means all three.
	Paths []HeadshipPath

	Current CohortRates
	Target  CohortRates

	ObsolescenceRate float64
	BaseStock        float64
}

func (in CohortMatrixInput) paths() []HeadshipPath {
	if in.Paths == nil {
		return AllHeadshipPaths()
	}
	return in.Paths
}

// Validate checks that migrations and paths are known and not repeated.
func (in CohortMatrixInput) Validate() error {
	migrations := make([]string, len(in.Population))
	for i, s := range in.Population {
		if s.Migration < MigrationM1 || s.Migration > MigrationM3 {
			return fmt.Errorf("%w: %d", ErrUnknownMigration, int(s.Migration))
		}
		migrations[i] = s.Migration.String()
	}
	if err := checkKeys("migration", migrations); err != nil {
		return err
	}

	paths := make([]string, 0, len(in.paths()))
	for _, p := range in.paths() {
		if p < PathCurrent || p > PathFast {
			return fmt.Errorf("%w: %d", ErrUnknownHeadshipPath, int(p))
		}
		paths = append(paths, p.String())
	}
	return checkKeys("headship path", paths)
}

// projectCohort runs the cohort recurrence for one migration and path.
func (in CohortMatrixInput) projectCohort(opts Options, pop MigrationScenario, path HeadshipPath) ScenarioResult {
	model := opts.ModelFor(path, in.Current, in.Target)
	label := pop.Label
	if label == "" {
		label = pop.Migration.DefaultLabel()
	}

	return ScenarioResult{
		ID:              ScenarioID(pop.Migration.String(), path.String()),
		Population:      pop.Migration.String(),
		Headship:        path.String(),
		PopulationLabel: label,
		HeadshipLabel:   path.Label(),
		TimeSeries:      ProjectCohort(pop.Data, model, in.ObsolescenceRate, in.BaseStock),
	}
}

// cohortCombination indexes one migration/path pair.
type cohortCombination struct {
	population int
	path       HeadshipPath
}

func (in CohortMatrixInput) combinations() []cohortCombination {
	paths := in.paths()
	out := make([]cohortCombination, 0, len(in.Population)*len(paths))
	for p := range in.Population {
		for _, path := range paths {
			out = append(out, cohortCombination{population: p, path: path})
		}
	}
	return out
}

// GenerateCohortMatrix projects every migration scenario under every
// headship path. Headship horizons come from opts. IDs have the form
// "M1-gradual".
func GenerateCohortMatrix(opts Options, in CohortMatrixInput) ([]ScenarioResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	combos := in.combinations()
	results := make([]ScenarioResult, len(combos))
	for i, c := range combos {
		results[i] = in.projectCohort(opts, in.Population[c.population], c.path)
	}
	return results, nil
}

// checkKeys rejects empty or repeated keys within one scenario set.
func checkKeys(set string, keys []string) error {
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k == "" {
			return fmt.Errorf("%w: empty %s key", ErrDuplicateScenario, set)
		}
		if _, dup := seen[k]; dup {
			return fmt.Errorf("%w: %s key %q appears more than once", ErrDuplicateScenario, set, k)
		}
		seen[k] = struct{}{}
	}
	return nil
}
