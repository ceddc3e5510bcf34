package engine

import "fmt"

// Selection dimensions reported in a Fallback.
const (
	DimensionPopulation   = "population"
	DimensionHeadship     = "headship"
	DimensionObsolescence = "obsolescence"
	DimensionMigration    = "migration"
)

// SelectKey resolves a caller-supplied key against the available keys.
// An unknown key falls back to the first available key and reports
// ok=false so the caller can surface a warning. With no keys available
// it returns "", false.
func SelectKey(available []string, requested string) (key string, ok bool) {
	for _, k := range available {
		if k == requested {
			return k, true
		}
	}
	if len(available) == 0 {
		return "", false
	}
	return available[0], false
}

// Fallback records a selection key that was replaced by the default.
type Fallback struct {
	Dimension string `json:"dimension"`
	Requested string `json:"requested"`
	Used      string `json:"used"`
}

// Selection names one scenario of the aggregate model.
type Selection struct {
	Population   string
	Headship     string
	Obsolescence string
}

// SelectedProjection is a single projected scenario together with the
// fallbacks applied while resolving its keys.
type SelectedProjection struct {
	Scenario  ScenarioResult
	Fallbacks []Fallback
}

// SelectScenario resolves sel against in and projects that one
// combination. Unknown keys fall back to the first scenario of their set.
// Empty scenario sets fail with ErrInvalidInput since no default exists.
func SelectScenario(in MatrixInput, sel Selection) (SelectedProjection, error) {
	if len(in.Population) == 0 || len(in.Headship) == 0 || len(in.Obsolescence) == 0 {
		return SelectedProjection{}, fmt.Errorf("%w: every scenario set needs at least one entry", ErrInvalidInput)
	}

	var out SelectedProjection
	resolve := func(dimension string, keys []string, requested string) int {
		key, ok := SelectKey(keys, requested)
		if !ok {
			out.Fallbacks = append(out.Fallbacks, Fallback{Dimension: dimension, Requested: requested, Used: key})
		}
		for i, k := range keys {
			if k == key {
				return i
			}
		}
		return 0
	}

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

	c := combination{
		population:   resolve(DimensionPopulation, popKeys, sel.Population),
		headship:     resolve(DimensionHeadship, headKeys, sel.Headship),
		obsolescence: resolve(DimensionObsolescence, obsKeys, sel.Obsolescence),
	}
	out.Scenario = in.project(c)
	return out, nil
}

// CohortSelection names one scenario of the cohort model by its keys,
// e.g. {"M2", "gradual"}.
type CohortSelection struct {
	Migration string
	Headship  string
}

// SelectCohortScenario resolves sel against in and projects that one
// migration/path pair. Unknown keys fall back to the first migration
// scenario and the first configured headship path.
func SelectCohortScenario(opts Options, in CohortMatrixInput, sel CohortSelection) (SelectedProjection, error) {
	paths := in.paths()
	if len(in.Population) == 0 || len(paths) == 0 {
		return SelectedProjection{}, fmt.Errorf("%w: cohort model needs a migration scenario and a headship path", ErrInvalidInput)
	}

	var out SelectedProjection

	migKeys := make([]string, len(in.Population))
	for i, s := range in.Population {
		migKeys[i] = s.Migration.String()
	}
	migKey, ok := SelectKey(migKeys, sel.Migration)
	if !ok {
		out.Fallbacks = append(out.Fallbacks, Fallback{Dimension: DimensionMigration, Requested: sel.Migration, Used: migKey})
	}
	pop := in.Population[0]
	for _, s := range in.Population {
		if s.Migration.String() == migKey {
			pop = s
			break
		}
	}

	pathKeys := make([]string, len(paths))
	for i, p := range paths {
		pathKeys[i] = p.String()
	}
	pathKey, ok := SelectKey(pathKeys, sel.Headship)
	if !ok {
		out.Fallbacks = append(out.Fallbacks, Fallback{Dimension: DimensionHeadship, Requested: sel.Headship, Used: pathKey})
	}
	path, err := ParseHeadshipPath(pathKey)
	if err != nil {
		return SelectedProjection{}, err
	}

	out.Scenario = in.projectCohort(opts, pop, path)
	return out, nil
}
