package tui

import (
	"fmt"
	"strings"

	"github.com/rshade/housingdemand/internal/report"
)

const borderPadding = 2

// View implements tea.Model.
func (m BrowserModel) View() string {
	if m.state == ViewStateQuitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("Housing demand scenarios (%d)", len(m.results))))
	b.WriteString("\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")

	if m.state == ViewStateDetail {
		b.WriteString(m.renderDetail())
		b.WriteString("\n")
	}

	b.WriteString(SubtleStyle.Render("↑/↓ navigate • enter toggle detail • esc close • q quit"))
	return b.String()
}

func (m BrowserModel) renderDetail() string {
	result, ok := m.Selected()
	if !ok {
		return ""
	}

	var content strings.Builder
	if err := report.RenderSeries(&content, result, m.unit, false); err != nil {
		return SubtleStyle.Render(err.Error())
	}
	return BoxStyle.Width(m.width - borderPadding).Render(strings.TrimRight(content.String(), "\n"))
}
