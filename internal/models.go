package internal

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ChatHistoryEntry is the wire shape of a message sent to the analysis servers
type ChatHistoryEntry struct {
	Text       string `json:"text"`
	Timestamp  string `json:"timestamp"`
	IsOutgoing bool   `json:"isOutgoing"`
	Sender     string `json:"sender"`
}

// AnalyzeChatRequest is the body of POST /analyze_chat and POST /generate_stats.
// UserQuery is omitted for statistics.
type AnalyzeChatRequest struct {
	ChatHistory []ChatHistoryEntry `json:"chat_history"`
	UserQuery   string             `json:"user_query,omitempty"`
	UserID      string             `json:"user_id"`
}

// ReplyAnalysis is the response of POST /analyze_chat
type ReplyAnalysis struct {
	Response            string       `json:"response"`
	Suggestions         []string     `json:"suggestions"`
	UserToneAnalysis    ToneAnalysis `json:"user_tone_analysis"`
	ConversationSummary string       `json:"conversation_summary"`
}

// ToneAnalysis describes the user's writing style as seen by the reply server
type ToneAnalysis struct {
	FormalityLevel   string   `json:"formality_level,omitempty"`
	ResponseLength   string   `json:"response_length,omitempty"`
	EmojiUsage       string   `json:"emoji_usage,omitempty"`
	EngagementStyle  string   `json:"engagement_style,omitempty"`
	AvgMessageLength float64  `json:"avg_message_length,omitempty"`
	QuestionRate     float64  `json:"question_rate,omitempty"`
	ExclamationRate  float64  `json:"exclamation_rate,omitempty"`
	CommonPhrases    []string `json:"common_phrases,omitempty"`
	WritingStyle     string   `json:"writing_style,omitempty"`
	GreetingStyle    string   `json:"greeting_style,omitempty"`
}

// UnmarshalJSON decodes tone fields leniently. The reply server passes model
// output through unchecked, so numbers may arrive as strings such as "20%" or
// "8 words". Values that cannot be read decode to their zero value.
func (t *ToneAnalysis) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		LogDebug("Ignoring malformed tone analysis: %v", err)
		*t = ToneAnalysis{}
		return nil
	}

	*t = ToneAnalysis{
		FormalityLevel:   looseString(raw["formality_level"]),
		ResponseLength:   looseString(raw["response_length"]),
		EmojiUsage:       looseString(raw["emoji_usage"]),
		EngagementStyle:  looseString(raw["engagement_style"]),
		AvgMessageLength: looseNumber(raw["avg_message_length"]),
		QuestionRate:     looseNumber(raw["question_rate"]),
		ExclamationRate:  looseNumber(raw["exclamation_rate"]),
		CommonPhrases:    looseStrings(raw["common_phrases"]),
		WritingStyle:     looseString(raw["writing_style"]),
		GreetingStyle:    looseString(raw["greeting_style"]),
	}
	return nil
}

func looseString(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		return n.String()
	}
	return ""
}

// looseNumber reads a JSON number or the leading number of a string.
// A percentage is returned as a fraction: "20%" is 0.2.
func looseNumber(raw json.RawMessage) float64 {
	var f float64
	if json.Unmarshal(raw, &f) == nil {
		return f
	}
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return 0
	}

	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0
	}
	num := fields[0]
	percent := strings.HasSuffix(num, "%") || (len(fields) > 1 && fields[1] == "%")
	f, err := strconv.ParseFloat(strings.TrimSuffix(num, "%"), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if percent {
		f /= 100
	}
	return f
}

// looseStrings accepts a list or a single string
func looseStrings(raw json.RawMessage) []string {
	var items []json.RawMessage
	if json.Unmarshal(raw, &items) == nil {
		var out []string
		for _, item := range items {
			if s := looseString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if s := looseString(raw); s != "" {
		return []string{s}
	}
	return nil
}

// StatsReport is the response of POST /generate_stats
type StatsReport struct {
	ConversationDynamics ConversationDynamics `json:"conversation_dynamics"`
	ResponsePatterns     ResponsePatterns     `json:"response_patterns"`
	ConversationTopics   ConversationTopics   `json:"conversation_topics"`
	CommunicationStyle   CommunicationStyle   `json:"communication_style"`
	ConversationTips     ConversationTips     `json:"conversation_tips"`
}

type ConversationDynamics struct {
	EnergyBalance   string `json:"energy_balance"`   // Low, Medium, High
	EngagementLevel string `json:"engagement_level"` // Low, Medium, High
}

type ResponsePatterns struct {
	AvgResponseTime string `json:"avg_response_time"`
	WordsPerMessage int    `json:"words_per_message"`
	QuestionRate    string `json:"question_rate"`
	EmojiUsage      string `json:"emoji_usage"`
}

type ConversationTopics struct {
	Topics []Topic `json:"topics"`
}

type Topic struct {
	Topic      string `json:"topic"`
	Percentage string `json:"percentage"`
}

type CommunicationStyle struct {
	StylePoints []string `json:"style_points"`
}

type ConversationTips struct {
	Tips []string `json:"tips"`
}

// ToChatHistory converts messages to the wire shape
func ToChatHistory(messages []Message) []ChatHistoryEntry {
	history := make([]ChatHistoryEntry, 0, len(messages))
	for _, msg := range messages {
		history = append(history, ChatHistoryEntry{
			Text:       msg.Text,
			Timestamp:  msg.Timestamp,
			IsOutgoing: msg.IsOutgoing,
			Sender:     msg.Sender,
		})
	}
	return history
}
