// Package tui provides an interactive Bubble Tea browser over a
// generated scenario matrix: a table of scenarios with their period
// averages and a detail pane with the selected scenario's year series.
package tui
