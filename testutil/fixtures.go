package testutil

import (
	"fmt"
	"strings"
	"testing"
)

// SampleReply is a canned /analyze_chat response
var SampleReply = map[string]interface{}{
	"response":    "They sound excited about the trip. Keep the momentum going!",
	"suggestions": []string{"That sounds amazing, when do you leave?", "Send me pictures!"},
	"user_tone_analysis": map[string]interface{}{
		"formality_level":    "casual",
		"response_length":    "short",
		"emoji_usage":        "high",
		"engagement_style":   "engaged",
		"avg_message_length": 12,
		"question_rate":      0.35,
		"exclamation_rate":   0.4,
		"common_phrases":     []string{"sounds good"},
		"writing_style":      "playful",
		"greeting_style":     "hey",
	},
	"conversation_summary": "Planning a weekend trip",
}

// SampleStats is a canned /generate_stats response
var SampleStats = map[string]interface{}{
	"conversation_dynamics": map[string]interface{}{
		"energy_balance":   "High",
		"engagement_level": "High",
	},
	"response_patterns": map[string]interface{}{
		"avg_response_time": "3m",
		"words_per_message": 9,
		"question_rate":     "30%",
		"emoji_usage":       "Medium",
	},
	"conversation_topics": map[string]interface{}{
		"topics": []map[string]interface{}{
			{"topic": "Travel", "percentage": "60%"},
			{"topic": "Food", "percentage": "40%"},
		},
	},
	"communication_style": map[string]interface{}{
		"style_points": []string{"Uses lots of exclamation marks"},
	},
	"conversation_tips": map[string]interface{}{
		"tips": []string{"Ask about their plans for Saturday"},
	},
}

// ChatPage builds a chat page with one first-tier container per line.
// Lines starting with "> " are outgoing.
func ChatPage(t *testing.T, title string, lines ...string) []byte {
	t.Helper()
	var b strings.Builder
	fmt.Fprintf(&b, `<html><body><span data-testid="conversation-title">%s</span><div id="main">`, title)
	for i, line := range lines {
		wrapper := `class="message-in"`
		if strings.HasPrefix(line, "> ") {
			wrapper = `class="message-out" data-testid="msg-out"`
			line = strings.TrimPrefix(line, "> ")
		}
		fmt.Fprintf(&b, `<div %s><div data-testid="msg-container"><span data-testid="msg-text">%s</span><div data-testid="msg-meta">10:%02d</div></div></div>`, wrapper, line, i)
	}
	b.WriteString("</div></body></html>")
	return []byte(b.String())
}
