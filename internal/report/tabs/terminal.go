package tabs

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"resume-inspector/internal/report"
)

var (
	navy  = lipgloss.Color("#1A237E")
	muted = lipgloss.Color("#5A6A85")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(navy).
			Padding(0, 1)

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(navy).
			MarginTop(1)

	labelStyle     = lipgloss.NewStyle().Bold(true)
	noteStyle      = lipgloss.NewStyle().Foreground(muted).Italic(true)
	emptyStyle     = lipgloss.NewStyle().Foreground(muted)
	highlightStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#F44336")).
			PaddingLeft(1)

	toneColors = map[report.Tone]lipgloss.Color{
		report.ToneGood: lipgloss.Color("#43A047"),
		report.ToneFair: lipgloss.Color("#FB8C00"),
		report.TonePoor: lipgloss.Color("#E53935"),
	}
)

const barCells = 20

// RenderText formats a view for a terminal.
func RenderText(v View) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(v.Title))
	b.WriteString("\n")
	for _, s := range v.Sections {
		b.WriteString(headingStyle.Render(s.Heading))
		b.WriteString("\n")
		if len(s.Items) == 0 && s.Empty != "" {
			b.WriteString("  " + emptyStyle.Render(s.Empty) + "\n")
		}
		for _, it := range s.Items {
			b.WriteString("  " + renderItem(it) + "\n")
		}
		if s.Note != "" {
			for _, line := range strings.Split(s.Note, "\n") {
				b.WriteString("  " + noteStyle.Render(line) + "\n")
			}
		}
	}
	return b.String()
}

func renderItem(it Item) string {
	value := toned(it.Value, it.Tone)
	line := "• " + value
	if it.Label != "" {
		line = labelStyle.Render(it.Label+":") + " " + value
	}
	if it.Bar != nil {
		line += " " + renderBar(*it.Bar)
	}
	if it.Highlight {
		return highlightStyle.Render(line)
	}
	return line
}

func renderBar(bar Bar) string {
	filled := int(bar.Width / 100 * barCells)
	cells := strings.Repeat("█", filled) + strings.Repeat("░", barCells-filled)
	return fmt.Sprintf("%s %s", toned(cells, bar.Tone), bar.Band)
}

func toned(s string, tone report.Tone) string {
	color, ok := toneColors[tone]
	if !ok {
		return s
	}
	return lipgloss.NewStyle().Foreground(color).Render(s)
}
