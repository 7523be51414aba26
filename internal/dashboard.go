package internal

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
)

// Tab identifies a dashboard panel
type Tab string

const (
	TabChat      Tab = "chat"
	TabAssistant Tab = "assistant"
	TabStats     Tab = "stats"
	TabInsights  Tab = "insights"
)

// Tabs lists the dashboard tabs in display order
var Tabs = []Tab{TabChat, TabAssistant, TabStats, TabInsights}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

const (
	InitialQuery = "What are some good responses I could send to continue this conversation?"

	initialReplyPrefix = "Hey! I've had a look at your messages. "
	greetingFallback   = "Hi! I'm here to help you with your conversation. Ask me anything about how to respond or improve your communication!"
	// ApologyFallback is shown when a user question cannot be answered.
	ApologyFallback = "Sorry, I'm having trouble connecting to the analysis server. Please check your internet connection and try again."
	resetSummary    = "New conversation analysis in progress..."
)

// QuickActions are offered after the initial analysis could not be loaded
var QuickActions = []string{
	"What's the best response?",
	"Analyze their mood",
	"Help me be more engaging",
	"What topics should I bring up?",
	"How should I respond to this?",
	"Give me conversation starters",
}

// DisplayMessage is a chat message as shown in the chat panel
type DisplayMessage struct {
	Sender     string `json:"sender"`
	Avatar     string `json:"avatar"`
	Text       string `json:"text"`
	Time       string `json:"time"`
	IsOutgoing bool   `json:"isOutgoing"`
	IsDeleted  bool   `json:"isDeletedMessage"`
}

// AssistantMessage is one bubble in the assistant panel
type AssistantMessage struct {
	Role        string   `json:"role"`
	Text        string   `json:"text"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// AssistantPanel holds the conversation with the reply server
type AssistantPanel struct {
	Loading      bool               `json:"loading"`
	Messages     []AssistantMessage `json:"messages"`
	QuickActions []string           `json:"quick_actions,omitempty"`
}

// StatsPanel holds the statistics tab values
type StatsPanel struct {
	Loading         bool    `json:"loading"`
	Loaded          bool    `json:"loaded"`
	EnergyBalance   string  `json:"energy_balance"`
	EngagementLevel string  `json:"engagement_level"`
	AvgResponseTime string  `json:"avg_response_time"`
	WordsPerMessage string  `json:"words_per_message"`
	QuestionRate    string  `json:"question_rate"`
	EmojiUsage      string  `json:"emoji_usage"`
	Topics          []Topic `json:"topics,omitempty"`
	Summary         string  `json:"summary,omitempty"`
}

// InsightsPanel holds the insights tab values
type InsightsPanel struct {
	Loading     bool     `json:"loading"`
	Loaded      bool     `json:"loaded"`
	StylePoints []string `json:"style_points,omitempty"`
	Tips        []string `json:"tips,omitempty"`
}

// DashboardState is a copy of everything the dashboard shows
type DashboardState struct {
	Open       bool             `json:"open"`
	ActiveTab  Tab              `json:"active_tab"`
	Generation uint64           `json:"generation"`
	Chat       []DisplayMessage `json:"chat"`
	Assistant  AssistantPanel   `json:"assistant"`
	Stats      StatsPanel       `json:"stats"`
	Insights   InsightsPanel    `json:"insights"`
}

// Dashboard is the view state of the overlay. Every mutation that carries a
// generation is dropped when the generation is older than the current one,
// so responses for a previous chat never land on the new one.
type Dashboard struct {
	mu    sync.Mutex
	state DashboardState
}

// NewDashboard creates a closed dashboard on the chat tab
func NewDashboard() *Dashboard {
	return &Dashboard{
		state: DashboardState{ActiveTab: TabChat},
	}
}

func (d *Dashboard) Open() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Open = true
}

func (d *Dashboard) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Open = false
}

func (d *Dashboard) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state.Open
}

// SelectTab switches panels. Opening stats or insights before they are
// loaded shows their loading state.
func (d *Dashboard) SelectTab(tab Tab) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch tab {
	case TabChat, TabAssistant:
	case TabStats:
		if !d.state.Stats.Loaded {
			d.state.Stats.Loading = true
		}
	case TabInsights:
		if !d.state.Insights.Loaded {
			d.state.Insights.Loading = true
		}
	default:
		return fmt.Errorf("unknown tab: %s", tab)
	}
	d.state.ActiveTab = tab
	return nil
}

// Reset clears every panel for a new chat and repopulates the chat panel
func (d *Dashboard) Reset(generation uint64, messages []Message) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.state.Generation = generation
	d.state.Chat = toDisplayMessages(messages)
	d.state.Assistant = AssistantPanel{}
	d.state.Stats = StatsPanel{}
	d.state.Insights = InsightsPanel{}
	d.applyTone(ToneAnalysis{EngagementStyle: "reserved", EmojiUsage: "low"}, resetSummary)
}

// BeginReply records a pending reply request. A non-empty query is shown as
// the user's bubble.
func (d *Dashboard) BeginReply(generation uint64, query string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if generation < d.state.Generation {
		return false
	}
	if query != "" {
		d.state.Assistant.Messages = append(d.state.Assistant.Messages, AssistantMessage{Role: RoleUser, Text: query})
	}
	d.state.Assistant.Loading = true
	return true
}

// ApplyReply shows a reply. initial marks the automatic analysis that runs
// when a chat is opened.
func (d *Dashboard) ApplyReply(generation uint64, reply *ReplyAnalysis, initial, applyTone bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if generation < d.state.Generation {
		return false
	}

	text := strings.TrimSpace(reply.Response)
	if initial {
		text = initialReplyPrefix + text
	}

	d.state.Assistant.Loading = false
	d.state.Assistant.Messages = append(d.state.Assistant.Messages, AssistantMessage{
		Role:        RoleAssistant,
		Text:        text,
		Suggestions: append([]string(nil), reply.Suggestions...),
	})

	if applyTone && !initial {
		d.applyTone(reply.UserToneAnalysis, reply.ConversationSummary)
	}
	return true
}

// ApplyReplyFailure shows the fallback text for a failed reply request
func (d *Dashboard) ApplyReplyFailure(generation uint64, initial bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if generation < d.state.Generation {
		return false
	}

	d.state.Assistant.Loading = false
	if initial {
		d.state.Assistant.Messages = append(d.state.Assistant.Messages, AssistantMessage{Role: RoleAssistant, Text: greetingFallback})
		d.state.Assistant.QuickActions = append([]string(nil), QuickActions...)
		return true
	}
	d.state.Assistant.Messages = append(d.state.Assistant.Messages, AssistantMessage{Role: RoleAssistant, Text: ApologyFallback})
	return true
}

// BeginStats shows the loading state on the stats and insights panels
func (d *Dashboard) BeginStats(generation uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if generation < d.state.Generation {
		return false
	}
	d.state.Stats.Loading = true
	d.state.Insights.Loading = true
	return true
}

// ApplyStats fills the stats and insights panels from a statistics report.
// Missing sections leave the current values in place.
func (d *Dashboard) ApplyStats(generation uint64, report *StatsReport) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if generation < d.state.Generation {
		return false
	}

	stats := &d.state.Stats
	if dyn := report.ConversationDynamics; dyn.EnergyBalance != "" || dyn.EngagementLevel != "" {
		stats.EnergyBalance = dyn.EnergyBalance
		stats.EngagementLevel = dyn.EngagementLevel
	}
	if p := report.ResponsePatterns; p != (ResponsePatterns{}) {
		stats.AvgResponseTime = p.AvgResponseTime
		stats.WordsPerMessage = strconv.Itoa(p.WordsPerMessage)
		stats.QuestionRate = p.QuestionRate
		stats.EmojiUsage = p.EmojiUsage
	}
	if report.ConversationTopics.Topics != nil {
		stats.Topics = append([]Topic(nil), report.ConversationTopics.Topics...)
	}
	stats.Loading = false
	stats.Loaded = true

	insights := &d.state.Insights
	if report.CommunicationStyle.StylePoints != nil {
		insights.StylePoints = append([]string(nil), report.CommunicationStyle.StylePoints...)
	}
	if report.ConversationTips.Tips != nil {
		insights.Tips = append([]string(nil), report.ConversationTips.Tips...)
	}
	insights.Loading = false
	insights.Loaded = true
	return true
}

// ApplyStatsFailure falls back to default statistics derived from an empty
// tone analysis and marks both panels as loaded
func (d *Dashboard) ApplyStatsFailure(generation uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if generation < d.state.Generation {
		return false
	}
	d.applyTone(ToneAnalysis{}, "")
	d.state.Stats.Loading = false
	d.state.Stats.Loaded = true
	d.state.Insights.Loading = false
	d.state.Insights.Loaded = true
	return true
}

// applyTone maps the reply server's tone analysis onto the stats panel.
// Caller holds d.mu.
func (d *Dashboard) applyTone(tone ToneAnalysis, summary string) {
	stats := &d.state.Stats

	switch tone.EngagementStyle {
	case "engaged":
		stats.EngagementLevel = "High"
	case "reserved":
		stats.EngagementLevel = "Low"
	default:
		stats.EngagementLevel = "Medium"
	}

	stats.AvgResponseTime = "5m"

	if tone.AvgMessageLength != 0 {
		stats.WordsPerMessage = strconv.FormatFloat(tone.AvgMessageLength, 'f', -1, 64)
	} else {
		stats.WordsPerMessage = "8"
	}

	questionRate := tone.QuestionRate
	if questionRate == 0 {
		questionRate = 0.2
	}
	stats.QuestionRate = fmt.Sprintf("%d%%", int(math.Round(questionRate*100)))

	switch tone.EmojiUsage {
	case "high":
		stats.EmojiUsage = "High"
	case "low":
		stats.EmojiUsage = "Low"
	default:
		stats.EmojiUsage = "Medium"
	}

	stats.Summary = summary
}

// Snapshot returns a deep copy of the dashboard state
func (d *Dashboard) Snapshot() DashboardState {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := d.state
	s.Chat = append([]DisplayMessage(nil), d.state.Chat...)
	s.Assistant.Messages = make([]AssistantMessage, len(d.state.Assistant.Messages))
	for i, m := range d.state.Assistant.Messages {
		m.Suggestions = append([]string(nil), m.Suggestions...)
		s.Assistant.Messages[i] = m
	}
	s.Assistant.QuickActions = append([]string(nil), d.state.Assistant.QuickActions...)
	s.Stats.Topics = append([]Topic(nil), d.state.Stats.Topics...)
	s.Insights.StylePoints = append([]string(nil), d.state.Insights.StylePoints...)
	s.Insights.Tips = append([]string(nil), d.state.Insights.Tips...)
	return s
}

// LatestSuggestions returns the suggestions of the most recent assistant reply
func (d *Dashboard) LatestSuggestions() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	msgs := d.state.Assistant.Messages
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == RoleAssistant && len(msgs[i].Suggestions) > 0 {
			return append([]string(nil), msgs[i].Suggestions...)
		}
	}
	return nil
}

func toDisplayMessages(messages []Message) []DisplayMessage {
	out := make([]DisplayMessage, 0, len(messages))
	for _, msg := range messages {
		deleted, text := DetectDeleted(msg.Text)
		avatar := "O"
		if msg.Sender == SenderYou {
			avatar = "Y"
		}
		out = append(out, DisplayMessage{
			Sender:     msg.Sender,
			Avatar:     avatar,
			Text:       text,
			Time:       msg.Timestamp,
			IsOutgoing: msg.IsOutgoing,
			IsDeleted:  deleted,
		})
	}
	return out
}
