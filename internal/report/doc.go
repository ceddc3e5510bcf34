// Package report turns scenario results into comparison tables,
// envelopes and benchmark checks, rendered as plain text, lipgloss-styled
// text or JSON.
package report
