package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/housingdemand/internal/report"
)

//nolint:gochecknoglobals // Shared lipgloss styles.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(report.ColorHeader).
			MarginBottom(1)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(report.ColorHeader).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(report.ColorBorder).
				BorderBottom(true)

	TableSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57")).
				Bold(true)

	BoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(report.ColorBorder).
			Padding(0, 1)

	SubtleStyle = lipgloss.NewStyle().Foreground(report.ColorLabel).Italic(true)
)
