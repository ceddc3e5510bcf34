// Package engine projects annual housing demand from population and
// headship (household-formation) inputs.
//
// The package is organised around five pieces:
//   - Interpolate turns sparse year series into dense annual series.
//   - ConvergenceModel moves per-cohort headship rates from a current set
//     towards a target set over a fixed horizon.
//   - ProjectAggregate and ProjectCohort run the year-over-year demand
//     recurrence (new households plus replacement of obsolete stock).
//   - GenerateMatrix and GenerateCohortMatrix evaluate every combination
//     of population, headship and obsolescence assumptions.
//   - Envelope, PeriodAverage and PeriodTotal summarise the results.
//
// Everything except the Engine fan-out is a pure function over its
// arguments: no I/O, no shared state, and no rounding. Unit scaling and
// rounding belong to the presentation layer (see internal/report).
package engine
