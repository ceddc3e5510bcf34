package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/housingdemand/internal/engine"
	"github.com/rshade/housingdemand/internal/report"
)

func testResults() []engine.ScenarioResult {
	series := func(demand float64) []engine.TimeSeriesPoint {
		var points []engine.TimeSeriesPoint
		for year := 2023; year <= 2040; year++ {
			points = append(points, engine.TimeSeriesPoint{Year: year, Demand: demand, NewHouseholds: demand, Stock: 1000})
		}
		return points
	}
	return []engine.ScenarioResult{
		{ID: "baseline-current-low", PopulationLabel: "Baseline", HeadshipLabel: "Current", ObsolescenceLabel: "Low", TimeSeries: series(38)},
		{ID: "high-falling-high", PopulationLabel: "High", HeadshipLabel: "Falling", ObsolescenceLabel: "High", TimeSeries: series(53)},
	}
}

func update(t *testing.T, m BrowserModel, msg tea.Msg) (BrowserModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	bm, ok := next.(BrowserModel)
	require.True(t, ok)
	return bm, cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestNewBrowserModel(t *testing.T) {
	m := NewBrowserModel(testResults(), report.DefaultWindows(), 1000)

	assert.Equal(t, ViewStateList, m.State())
	assert.Nil(t, m.Init())
	_, ok := m.Selected()
	assert.False(t, ok)

	view := m.View()
	assert.Contains(t, view, "Housing demand scenarios (2)")
	assert.Contains(t, view, "baseline-current-low")
	assert.Contains(t, view, "38,000")
}

func TestBrowserModel_EnterTogglesDetail(t *testing.T) {
	m := NewBrowserModel(testResults(), report.DefaultWindows(), 1000)

	m, _ = update(t, m, key("down"))
	m, _ = update(t, m, key("enter"))
	require.Equal(t, ViewStateDetail, m.State())

	selected, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "high-falling-high", selected.ID)
	assert.Contains(t, m.View(), "high-falling-high (High / Falling / High)")

	m, _ = update(t, m, key("enter"))
	assert.Equal(t, ViewStateList, m.State())
}

func TestBrowserModel_EscClosesDetail(t *testing.T) {
	m := NewBrowserModel(testResults(), report.DefaultWindows(), 1)

	m, _ = update(t, m, key("enter"))
	require.Equal(t, ViewStateDetail, m.State())

	m, _ = update(t, m, key("esc"))
	assert.Equal(t, ViewStateList, m.State())
}

func TestBrowserModel_Quit(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		t.Run(k, func(t *testing.T) {
			m := NewBrowserModel(testResults(), report.DefaultWindows(), 1)
			m, cmd := update(t, m, key(k))
			require.NotNil(t, cmd)
			assert.Equal(t, ViewStateQuitting, m.State())
			assert.IsType(t, tea.QuitMsg{}, cmd())
			assert.Empty(t, m.View())
		})
	}
}

func TestBrowserModel_WindowResize(t *testing.T) {
	m := NewBrowserModel(testResults(), report.DefaultWindows(), 1)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40-tableChromeHeight, m.tableHeight())
}

func TestBrowserModel_EmptyResults(t *testing.T) {
	m := NewBrowserModel(nil, report.DefaultWindows(), 1)
	m, _ = update(t, m, key("enter"))
	assert.Equal(t, ViewStateList, m.State())
}
