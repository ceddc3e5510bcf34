package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/housingdemand/internal/engine"
	"github.com/rshade/housingdemand/internal/report"
)

// ViewState is the current screen of the browser.
type ViewState int

const (
	// ViewStateList shows the scenario table.
	ViewStateList ViewState = iota
	// ViewStateDetail shows the table with the selected scenario's series.
	ViewStateDetail
	// ViewStateQuitting indicates the program is exiting.
	ViewStateQuitting
)

const (
	keyQuit  = "q"
	keyCtrlC = "ctrl+c"
	keyEnter = "enter"
	keyEsc   = "esc"
)

// Default dimensions before the first WindowSizeMsg.
const (
	defaultWidth       = 100
	defaultHeight      = 24
	tableChromeHeight  = 8
	minTableHeight     = 3
	idColumnWidth      = 32
	labelColumnWidth   = 22
	averageColumnWidth = 16
)

// BrowserModel is the Bubble Tea model of the scenario browser.
type BrowserModel struct {
	results []engine.ScenarioResult
	rows    []report.ComparisonRow
	windows []report.Window
	unit    float64

	table    table.Model
	state    ViewState
	selected int

	width  int
	height int
}

// NewBrowserModel creates a browser over results. Period averages are
// computed for windows and scaled by unit.
func NewBrowserModel(results []engine.ScenarioResult, windows []report.Window, unit float64) BrowserModel {
	m := BrowserModel{
		results:  results,
		rows:     report.ComparisonRows(results, windows, unit),
		windows:  windows,
		unit:     unit,
		state:    ViewStateList,
		selected: -1,
		width:    defaultWidth,
		height:   defaultHeight,
	}
	m.table = m.buildTable()
	return m
}

// Init implements tea.Model.
func (m BrowserModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if winMsg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = winMsg.Width
		m.height = winMsg.Height
		m.table.SetHeight(m.tableHeight())
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case keyQuit, keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyEnter:
		if m.state == ViewStateDetail {
			m.setState(ViewStateList)
			return m, nil
		}
		if cursor := m.table.Cursor(); cursor >= 0 && cursor < len(m.results) {
			m.selected = cursor
			m.setState(ViewStateDetail)
		}
		return m, nil
	case keyEsc:
		m.setState(ViewStateList)
		return m, nil
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(keyMsg)
		if m.state == ViewStateDetail {
			m.selected = m.table.Cursor()
		}
		return m, cmd
	}
}

// setState switches screens and resizes the table to leave room for the
// detail pane.
func (m *BrowserModel) setState(state ViewState) {
	m.state = state
	m.table.SetHeight(m.tableHeight())
}

// State returns the current view state.
func (m BrowserModel) State() ViewState {
	return m.state
}

// Selected returns the scenario shown in the detail pane.
func (m BrowserModel) Selected() (engine.ScenarioResult, bool) {
	if m.selected < 0 || m.selected >= len(m.results) {
		return engine.ScenarioResult{}, false
	}
	return m.results[m.selected], true
}

func (m BrowserModel) tableHeight() int {
	h := m.height - tableChromeHeight
	if m.state == ViewStateDetail {
		h /= 2
	}
	return max(h, minTableHeight)
}

func (m BrowserModel) buildTable() table.Model {
	columns := []table.Column{
		{Title: "Scenario", Width: idColumnWidth},
		{Title: "Population", Width: labelColumnWidth},
		{Title: "Headship", Width: labelColumnWidth},
	}
	for _, w := range m.windows {
		columns = append(columns, table.Column{Title: "Avg " + w.String(), Width: averageColumnWidth})
	}

	rows := make([]table.Row, len(m.rows))
	for i, r := range m.rows {
		row := table.Row{r.ID, r.PopulationLabel, r.HeadshipLabel}
		for _, avg := range r.Averages {
			row = append(row, report.FormatNumber(avg))
		}
		rows[i] = row
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(m.tableHeight()),
	)

	s := table.DefaultStyles()
	s.Header = TableHeaderStyle
	s.Selected = TableSelectedStyle
	t.SetStyles(s)

	return t
}

// Run starts the browser and blocks until the user quits or ctx is done.
func Run(ctx context.Context, results []engine.ScenarioResult, windows []report.Window, unit float64) error {
	p := tea.NewProgram(
		NewBrowserModel(results, windows, unit),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running scenario browser: %w", err)
	}
	return nil
}
