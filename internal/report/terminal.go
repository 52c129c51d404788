package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	accent = lipgloss.Color("#0B5FFF")
	muted  = lipgloss.Color("#6B7280")

	titleStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(muted)

	labelStyle = lipgloss.NewStyle().
			Foreground(muted).
			Width(20)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 2)
)

// labelWidth is the display width category and conversation names are cut to.
const labelWidth = 34

// RenderTerminal draws a boxed summary card for CLI output.
func RenderTerminal(s Summary) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s %s", s.Archetype.Emoji, s.Archetype.Title)))
	b.WriteString(dimStyle.Render("  ChatGPT Wrapped " + s.Year))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(s.Archetype.Tagline))
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}
	row(s.Tokenizer, Int(s.Metrics.Tokens))
	row("Messages", Int(s.Metrics.Messages))
	row("Conversations", Int(s.Metrics.Conversations))
	row("Active time", Minutes(s.Metrics.ActiveMinutes))
	row("Assistant", Percent(s.Metrics.AssistantTokenShare))
	if d := s.Highlights.PeakDay; d != nil {
		row("Peak day", fmt.Sprintf("%s (%s tokens)", *d, Int(s.Highlights.PeakDayTokens)))
	}
	row("Busiest hour", Hour(s.Highlights.BusiestHour))
	if tc := s.Highlights.TopConversation; tc != nil {
		row("Top thread", runewidth.Truncate(tc.Title, labelWidth, "…"))
	}

	if len(s.TopCategories) > 0 {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render("Top categories"))
		b.WriteString("\n")
		total := 0
		for _, c := range s.TopCategories {
			total += c.Tokens
		}
		for i, c := range s.TopCategories {
			if i == 5 {
				break
			}
			name := runewidth.FillRight(runewidth.Truncate(c.Category, labelWidth, "…"), labelWidth)
			share := 0.0
			if total > 0 {
				share = float64(c.Tokens) / float64(total)
			}
			fmt.Fprintf(&b, "%s %7s\n", name, Percent(share))
		}
	}

	b.WriteString("\n")
	for _, line := range s.Flair.Lines() {
		b.WriteString(dimStyle.Render(line))
		b.WriteString("\n")
	}
	if s.TokenizerNote != "" {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(s.TokenizerNote))
	}

	return cardStyle.Render(strings.TrimRight(b.String(), "\n"))
}
