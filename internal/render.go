package internal

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	tabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("245"))

	activeTabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Bold(true)

	outgoingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	incomingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	deletedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

// Render draws the dashboard state for a terminal of the given width
func (s DashboardState) Render(width int) string {
	if width < 40 {
		width = 40
	}
	inner := width - panelStyle.GetHorizontalFrameSize()

	var body string
	switch s.ActiveTab {
	case TabAssistant:
		body = s.renderAssistant(inner)
	case TabStats:
		body = s.renderStats()
	case TabInsights:
		body = s.renderInsights()
	default:
		body = s.renderChat(inner)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		s.renderTabs(),
		panelStyle.Width(inner).Render(body),
	)
}

func (s DashboardState) renderTabs() string {
	labels := map[Tab]string{
		TabChat:      "Chat",
		TabAssistant: "Assistant",
		TabStats:     "Stats",
		TabInsights:  "Insights",
	}
	parts := make([]string, 0, len(Tabs))
	for _, tab := range Tabs {
		style := tabStyle
		if tab == s.ActiveTab {
			style = activeTabStyle
		}
		parts = append(parts, style.Render(labels[tab]))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (s DashboardState) renderChat(width int) string {
	if len(s.Chat) == 0 {
		return mutedStyle.Render("No messages found")
	}

	lines := make([]string, 0, len(s.Chat))
	for _, msg := range s.Chat {
		prefix := fmt.Sprintf("[%s] %s", msg.Avatar, msg.Time)
		var text string
		switch {
		case msg.IsDeleted:
			text = deletedStyle.Render("🚫 This message was deleted")
		case msg.IsOutgoing:
			text = outgoingStyle.Render(msg.Text)
		default:
			text = incomingStyle.Render(msg.Text)
		}
		lineStyle := lipgloss.NewStyle().Width(width)
		if msg.IsOutgoing {
			lineStyle = lineStyle.Align(lipgloss.Right)
		}
		lines = append(lines, lineStyle.Render(mutedStyle.Render(prefix)+" "+text))
	}
	return strings.Join(lines, "\n")
}

func (s DashboardState) renderAssistant(width int) string {
	var b strings.Builder
	for _, msg := range s.Assistant.Messages {
		if msg.Role == RoleUser {
			b.WriteString(labelStyle.Render("You: "))
			b.WriteString(msg.Text)
			b.WriteString("\n\n")
			continue
		}
		b.WriteString(renderMarkdown(msg.Text, width))
		for i, suggestion := range msg.Suggestions {
			fmt.Fprintf(&b, "  %s %s\n", labelStyle.Render(fmt.Sprintf("%d.", i+1)), suggestion)
		}
		b.WriteString("\n")
	}
	if s.Assistant.Loading {
		b.WriteString(mutedStyle.Render("Analyzing conversation..."))
		b.WriteString("\n")
	}
	if len(s.Assistant.QuickActions) > 0 {
		b.WriteString(labelStyle.Render("Try asking:"))
		b.WriteString("\n")
		for _, action := range s.Assistant.QuickActions {
			fmt.Fprintf(&b, "  • %s\n", action)
		}
	}
	if b.Len() == 0 {
		return mutedStyle.Render("No analysis yet")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s DashboardState) renderStats() string {
	stats := s.Stats
	if stats.Loading && !stats.Loaded {
		return mutedStyle.Render("Loading statistics...")
	}

	rows := [][2]string{
		{"Energy balance", stats.EnergyBalance},
		{"Engagement", stats.EngagementLevel},
		{"Avg response time", stats.AvgResponseTime},
		{"Words per message", stats.WordsPerMessage},
		{"Question rate", stats.QuestionRate},
		{"Emoji usage", stats.EmojiUsage},
	}

	var b strings.Builder
	for _, row := range rows {
		value := row[1]
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-18s", row[0])), value)
	}
	if len(stats.Topics) > 0 {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Topics"))
		b.WriteString("\n")
		for _, topic := range stats.Topics {
			fmt.Fprintf(&b, "  %-24s %s\n", topic.Topic, topic.Percentage)
		}
	}
	if stats.Summary != "" {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(stats.Summary))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s DashboardState) renderInsights() string {
	insights := s.Insights
	if insights.Loading && !insights.Loaded {
		return mutedStyle.Render("Loading insights...")
	}

	var b strings.Builder
	if len(insights.StylePoints) > 0 {
		b.WriteString(labelStyle.Render("Communication style"))
		b.WriteString("\n")
		for _, point := range insights.StylePoints {
			fmt.Fprintf(&b, "  • %s\n", point)
		}
	}
	if len(insights.Tips) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(labelStyle.Render("Tips"))
		b.WriteString("\n")
		for _, tip := range insights.Tips {
			fmt.Fprintf(&b, "  • %s\n", tip)
		}
	}
	if b.Len() == 0 {
		return mutedStyle.Render("No insights yet")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderMarkdown renders reply text with glamour, falling back to the raw
// text when rendering fails
func renderMarkdown(text string, width int) string {
	style := "dark"
	if !isTerminal(os.Stdout) {
		style = "notty"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		LogDebug("Markdown renderer unavailable: %v", err)
		return text + "\n"
	}
	out, err := r.Render(text)
	if err != nil {
		LogDebug("Markdown render failed: %v", err)
		return text + "\n"
	}
	return strings.TrimLeft(out, "\n")
}
