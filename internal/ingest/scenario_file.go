package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/rshade/housingdemand/internal/engine"
	"github.com/rshade/housingdemand/internal/logging"
)

// DefaultSchemaVersion is assumed when a document has no schema_version.
const DefaultSchemaVersion = "1.0.0"

//nolint:gochecknoglobals // Shared validator instance; validator caches struct metadata.
var fileValidate = validator.New()

//nolint:gochecknoglobals // Parsed once; the constraint string is a constant.
var supportedSchema = func() *semver.Constraints {
	c, err := semver.NewConstraint("^1")
	if err != nil {
		panic(err)
	}
	return c
}()

// SeriesScenario is a named year series: a population trajectory or an
// aggregate headship-rate path.
type SeriesScenario struct {
	Key         string            `json:"key" validate:"required"`
	Label       string            `json:"label" validate:"required"`
	Description string            `json:"description,omitempty"`
	Data        engine.YearSeries `json:"data" validate:"min=1,dive,gte=0"`
}

// RateScenario is a named annual obsolescence rate.
type RateScenario struct {
	Key   string  `json:"key" validate:"required"`
	Label string  `json:"label" validate:"required"`
	Rate  float64 `json:"rate" validate:"gte=0,lte=1"`
}

// ScenarioFile is a parsed scenario document. Scenario slices keep the
// order in which keys appear in the document.
type ScenarioFile struct {
	SchemaVersion string            `json:"schemaVersion"`
	BaseYear      int               `json:"baseYear,omitempty" validate:"gte=0"`
	HousingStock  engine.YearSeries `json:"housingStock" validate:"min=1,dive,gte=0"`
	Population    []SeriesScenario  `json:"populationScenarios" validate:"min=1,dive"`
	Headship      []SeriesScenario  `json:"headshipScenarios" validate:"min=1,dive"`
	Obsolescence  []RateScenario    `json:"obsolescenceScenarios" validate:"min=1,dive"`
}

// Validate checks required fields, value ranges and the schema version.
func (f *ScenarioFile) Validate() error {
	if err := checkSchemaVersion(f.SchemaVersion); err != nil {
		return err
	}
	if err := fileValidate.Struct(f); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return nil
}

// rawSeriesScenario is the on-disk shape of a series scenario. Year keys
// are read as strings because a quoted "2022" (always the case in JSON)
// cannot be decoded into an int key.
type rawSeriesScenario struct {
	Label       string             `yaml:"label"`
	Description string             `yaml:"description"`
	Data        map[string]float64 `yaml:"data"`
}

type rawRateScenario struct {
	Label string  `yaml:"label"`
	Rate  float64 `yaml:"rate"`
}

// LoadScenarioFile reads and validates a scenario document from path.
func LoadScenarioFile(ctx context.Context, path string) (*ScenarioFile, error) {
	log := logging.FromContext(ctx)
	log.Debug().
		Str("component", "ingest").
		Str("operation", "load_scenarios").
		Str("scenario_path", path).
		Msg("loading scenario file")

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scenario file: %w", err)
	}
	defer f.Close()

	file, err := ParseScenarioFile(f)
	if err != nil {
		return nil, fmt.Errorf("parsing scenario file %s: %w", path, err)
	}

	log.Debug().
		Str("component", "ingest").
		Int("population_scenarios", len(file.Population)).
		Int("headship_scenarios", len(file.Headship)).
		Int("obsolescence_scenarios", len(file.Obsolescence)).
		Msg("scenario file loaded")

	return file, nil
}

// ParseScenarioFile parses a scenario document. Top-level keys may be
// written in snake_case or camelCase; JSON input is accepted as YAML.
func ParseScenarioFile(r io.Reader) (*ScenarioFile, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must be a mapping", ErrInvalidDocument)
	}

	file := &ScenarioFile{}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		var err error
		switch normalizeKey(key.Value) {
		case "schemaversion":
			file.SchemaVersion = value.Value
		case "baseyear":
			err = value.Decode(&file.BaseYear)
		case "housingstock":
			file.HousingStock, err = decodeYearMap(value)
		case "populationscenarios":
			file.Population, err = decodeSeriesSet(value)
		case "headshipscenarios":
			file.Headship, err = decodeSeriesSet(value)
		case "obsolescencescenarios":
			file.Obsolescence, err = decodeRateSet(value)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDocument, key.Value, err)
		}
	}

	if file.SchemaVersion == "" {
		file.SchemaVersion = DefaultSchemaVersion
	}
	if err := file.Validate(); err != nil {
		return nil, err
	}
	return file, nil
}

// MatrixInput interpolates every scenario and resolves the housing stock
// at baseYear. A zero baseYear uses the document's base_year, or the
// first housing stock year when the document has none.
func (f *ScenarioFile) MatrixInput(baseYear int) (engine.MatrixInput, error) {
	if baseYear == 0 {
		baseYear = f.BaseYear
	}
	if baseYear == 0 {
		first, _, ok := f.HousingStock.Span()
		if !ok {
			return engine.MatrixInput{}, ErrMissingHousingStock
		}
		baseYear = first
	}

	stock, err := engine.Interpolate(f.HousingStock)
	if err != nil {
		return engine.MatrixInput{}, fmt.Errorf("interpolating housing stock: %w", err)
	}
	baseStock, ok := stock[baseYear]
	if !ok {
		return engine.MatrixInput{}, fmt.Errorf("%w: %d", ErrMissingHousingStock, baseYear)
	}

	in := engine.MatrixInput{
		Population:   make([]engine.PopulationScenario, len(f.Population)),
		Headship:     make([]engine.HeadshipScenario, len(f.Headship)),
		Obsolescence: make([]engine.ObsolescenceScenario, len(f.Obsolescence)),
		BaseStock:    baseStock,
	}
	for i, s := range f.Population {
		data, err := engine.InterpolatePopulation(s.Data)
		if err != nil {
			return engine.MatrixInput{}, fmt.Errorf("population scenario %q: %w", s.Key, err)
		}
		in.Population[i] = engine.PopulationScenario{Key: s.Key, Label: s.Label, Description: s.Description, Data: data}
	}
	for i, s := range f.Headship {
		data, err := engine.Interpolate(s.Data)
		if err != nil {
			return engine.MatrixInput{}, fmt.Errorf("headship scenario %q: %w", s.Key, err)
		}
		in.Headship[i] = engine.HeadshipScenario{Key: s.Key, Label: s.Label, Description: s.Description, Data: data}
	}
	for i, s := range f.Obsolescence {
		in.Obsolescence[i] = engine.ObsolescenceScenario{Key: s.Key, Label: s.Label, Rate: s.Rate}
	}
	return in, nil
}

func checkSchemaVersion(v string) error {
	if v == "" {
		return nil
	}
	version, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrUnsupportedSchema, v, err)
	}
	if !supportedSchema.Check(version) {
		return fmt.Errorf("%w: %s (supported: ^1)", ErrUnsupportedSchema, v)
	}
	return nil
}

// normalizeKey folds snake_case and camelCase spellings together.
func normalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(key), "_", "")
}

// mappingPairs iterates a mapping node in document order, rejecting
// repeated keys.
func mappingPairs(n *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", n.Line)
	}
	seen := make(map[string]struct{}, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: key %q appears more than once", engine.ErrDuplicateScenario, key)
		}
		seen[key] = struct{}{}
		if err := fn(key, n.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

// checkScenarioKey rejects keys that would make joined scenario IDs
// ambiguous, e.g. "a-b"+"c" and "a"+"b-c".
func checkScenarioKey(key string) error {
	if strings.Contains(key, engine.IDSeparator) {
		return fmt.Errorf("scenario key %q must not contain %q", key, engine.IDSeparator)
	}
	return nil
}

func decodeSeriesSet(n *yaml.Node) ([]SeriesScenario, error) {
	var out []SeriesScenario
	err := mappingPairs(n, func(key string, value *yaml.Node) error {
		if err := checkScenarioKey(key); err != nil {
			return err
		}
		var raw rawSeriesScenario
		if err := value.Decode(&raw); err != nil {
			return fmt.Errorf("scenario %q: %w", key, err)
		}
		data, err := parseYearKeys(raw.Data)
		if err != nil {
			return fmt.Errorf("scenario %q: %w", key, err)
		}
		out = append(out, SeriesScenario{Key: key, Label: raw.Label, Description: raw.Description, Data: data})
		return nil
	})
	return out, err
}

func decodeRateSet(n *yaml.Node) ([]RateScenario, error) {
	var out []RateScenario
	err := mappingPairs(n, func(key string, value *yaml.Node) error {
		if err := checkScenarioKey(key); err != nil {
			return err
		}
		var raw rawRateScenario
		if err := value.Decode(&raw); err != nil {
			return fmt.Errorf("scenario %q: %w", key, err)
		}
		out = append(out, RateScenario{Key: key, Label: raw.Label, Rate: raw.Rate})
		return nil
	})
	return out, err
}

func decodeYearMap(n *yaml.Node) (engine.YearSeries, error) {
	var raw map[string]float64
	if err := n.Decode(&raw); err != nil {
		return nil, err
	}
	return parseYearKeys(raw)
}

func parseYearKeys(raw map[string]float64) (engine.YearSeries, error) {
	out := make(engine.YearSeries, len(raw))
	for k, v := range raw {
		year, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			return nil, fmt.Errorf("year %q is not an integer", k)
		}
		out[year] = v
	}
	return out, nil
}
