// Package ingest loads projection inputs from files: ESRI-style scenario
// documents (YAML or JSON), CSO population projection CSV exports and
// cohort headship-rate tables.
//
// Loaders return engine types ready to be fed into engine.GenerateMatrix
// or engine.GenerateCohortMatrix. Scenario order follows document order.
package ingest
