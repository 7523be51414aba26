package internal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/iksnae/tona/testutil"
)

func testConfig(serverURL string) *Config {
	cfg := DefaultConfig()
	cfg.ServerURL = serverURL
	cfg.StatsServerURL = serverURL
	return cfg
}

func sampleMessages() []Message {
	return []Message{
		NewMessage("Are you coming to the trip?", "10:00", false),
		NewMessage("Yes!", "10:01", true),
	}
}

func TestNewRequestUserID(t *testing.T) {
	a, b := NewRequestUserID(), NewRequestUserID()

	if !strings.HasPrefix(a, "tona_user_") {
		t.Fatalf("NewRequestUserID() = %q, want tona_user_ prefix", a)
	}
	if a == b {
		t.Error("NewRequestUserID() should be fresh per request")
	}
	id, err := uuid.Parse(strings.TrimPrefix(a, "tona_user_"))
	if err != nil {
		t.Fatalf("suffix is not a UUID: %v", err)
	}
	if id.Version() != 7 {
		t.Errorf("UUID version = %d, want 7", id.Version())
	}
}

func TestAnalysisClient_SuggestReplies(t *testing.T) {
	srv := testutil.NewAnalysisServer(t)
	client := NewAnalysisClient(testConfig(srv.URL))

	reply, err := client.SuggestReplies(context.Background(), sampleMessages(), "How should I respond?")
	if err != nil {
		t.Fatalf("SuggestReplies() error = %v", err)
	}
	if len(reply.Suggestions) != 2 || reply.UserToneAnalysis.EngagementStyle != "engaged" {
		t.Errorf("unexpected reply: %+v", reply)
	}
	if reply.UserToneAnalysis.QuestionRate != 0.35 {
		t.Errorf("QuestionRate = %v, want 0.35", reply.UserToneAnalysis.QuestionRate)
	}

	reqs := srv.Requests(EndpointAnalyzeChat)
	if len(reqs) != 1 {
		t.Fatalf("server received %d requests, want 1", len(reqs))
	}
	body := reqs[0]
	if body["user_query"] != "How should I respond?" {
		t.Errorf("user_query = %v", body["user_query"])
	}
	if id, _ := body["user_id"].(string); !strings.HasPrefix(id, "tona_user_") {
		t.Errorf("user_id = %v", body["user_id"])
	}
	history, _ := body["chat_history"].([]interface{})
	if len(history) != 2 {
		t.Fatalf("chat_history has %d entries, want 2", len(history))
	}
	first, _ := history[0].(map[string]interface{})
	for _, key := range []string{"text", "timestamp", "isOutgoing", "sender"} {
		if _, ok := first[key]; !ok {
			t.Errorf("chat_history entry missing %q", key)
		}
	}
	if first["sender"] != SenderOther {
		t.Errorf("sender = %v, want %s", first["sender"], SenderOther)
	}
}

func TestAnalysisClient_GenerateStatsOmitsQuery(t *testing.T) {
	srv := testutil.NewAnalysisServer(t)
	client := NewAnalysisClient(testConfig(srv.URL))

	report, err := client.GenerateStats(context.Background(), sampleMessages())
	if err != nil {
		t.Fatalf("GenerateStats() error = %v", err)
	}
	if report.ConversationDynamics.EnergyBalance != "High" || report.ResponsePatterns.WordsPerMessage != 9 {
		t.Errorf("unexpected report: %+v", report)
	}
	if len(report.ConversationTopics.Topics) != 2 || report.ConversationTopics.Topics[0].Topic != "Travel" {
		t.Errorf("topics = %+v", report.ConversationTopics.Topics)
	}

	body := srv.Requests(EndpointGenerateStats)[0]
	if _, ok := body["user_query"]; ok {
		t.Error("statistics request should not carry user_query")
	}
}

func TestAnalysisClient_SuggestRepliesLooseTone(t *testing.T) {
	srv := testutil.NewAnalysisServer(t, testutil.WithReply(map[string]interface{}{
		"response":    "Keep it light.",
		"suggestions": []string{"Haha yes", "Sounds fun"},
		"user_tone_analysis": map[string]interface{}{
			"emoji_usage":        "low",
			"avg_message_length": "8 words",
			"question_rate":      "20%",
			"exclamation_rate":   nil,
			"common_phrases":     "see you",
		},
	}))
	client := NewAnalysisClient(testConfig(srv.URL))

	reply, err := client.SuggestReplies(context.Background(), sampleMessages(), "What now?")
	if err != nil {
		t.Fatalf("SuggestReplies() error = %v", err)
	}
	if reply.Response != "Keep it light." || len(reply.Suggestions) != 2 {
		t.Errorf("unexpected reply: %+v", reply)
	}

	tone := reply.UserToneAnalysis
	if tone.AvgMessageLength != 8 || tone.QuestionRate != 0.2 || tone.ExclamationRate != 0 {
		t.Errorf("tone numbers = %v/%v/%v, want 8/0.2/0", tone.AvgMessageLength, tone.QuestionRate, tone.ExclamationRate)
	}
	if len(tone.CommonPhrases) != 1 || tone.CommonPhrases[0] != "see you" {
		t.Errorf("CommonPhrases = %v", tone.CommonPhrases)
	}
}

func TestToneAnalysis_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		data string
		want func(ToneAnalysis) bool
	}{
		{
			name: "numbers",
			data: `{"avg_message_length": 11.5, "question_rate": 0.25}`,
			want: func(ta ToneAnalysis) bool { return ta.AvgMessageLength == 11.5 && ta.QuestionRate == 0.25 },
		},
		{
			name: "numeric strings",
			data: `{"avg_message_length": "11.5", "question_rate": "25 %"}`,
			want: func(ta ToneAnalysis) bool { return ta.AvgMessageLength == 11.5 && ta.QuestionRate == 0.25 },
		},
		{
			name: "unreadable numbers",
			data: `{"avg_message_length": "about ten", "question_rate": {"value": 1}}`,
			want: func(ta ToneAnalysis) bool { return ta.AvgMessageLength == 0 && ta.QuestionRate == 0 },
		},
		{
			name: "number as label",
			data: `{"formality_level": 3, "emoji_usage": "high"}`,
			want: func(ta ToneAnalysis) bool { return ta.FormalityLevel == "3" && ta.EmojiUsage == "high" },
		},
		{
			name: "mixed phrase list",
			data: `{"common_phrases": ["lol", 5, "", null]}`,
			want: func(ta ToneAnalysis) bool {
				return len(ta.CommonPhrases) == 2 && ta.CommonPhrases[0] == "lol" && ta.CommonPhrases[1] == "5"
			},
		},
		{
			name: "not an object",
			data: `"casual"`,
			want: func(ta ToneAnalysis) bool { return ta.EngagementStyle == "" && ta.CommonPhrases == nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tone ToneAnalysis
			if err := json.Unmarshal([]byte(tt.data), &tone); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if !tt.want(tone) {
				t.Errorf("Unmarshal(%s) = %+v", tt.data, tone)
			}
		})
	}
}

func TestAnalysisClient_Non2xx(t *testing.T) {
	srv := testutil.NewAnalysisServer(t, testutil.WithReplyStatus(http.StatusInternalServerError))
	client := NewAnalysisClient(testConfig(srv.URL))

	_, err := client.SuggestReplies(context.Background(), sampleMessages(), "")
	var aerr *AnalysisError
	if !errors.As(err, &aerr) {
		t.Fatalf("error = %v, want *AnalysisError", err)
	}
	if aerr.StatusCode != http.StatusInternalServerError || aerr.Endpoint != EndpointAnalyzeChat {
		t.Errorf("AnalysisError = %+v", aerr)
	}
}

func TestAnalysisClient_StatsTimeout(t *testing.T) {
	gate := make(chan struct{})
	srv := testutil.NewAnalysisServer(t, testutil.WithStatsGate(gate))
	cfg := testConfig(srv.URL)
	cfg.StatsTimeout = 50 * time.Millisecond
	client := NewAnalysisClient(cfg)

	_, err := client.GenerateStats(context.Background(), sampleMessages())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("GenerateStats() error = %v, want deadline exceeded", err)
	}
	var aerr *AnalysisError
	if !errors.As(err, &aerr) || aerr.StatusCode != 0 {
		t.Errorf("timeout should be an *AnalysisError without status, got %v", err)
	}
}

func TestAnalysisClient_TransportError(t *testing.T) {
	client := NewAnalysisClient(testConfig("http://127.0.0.1:1"))

	if _, err := client.SuggestReplies(context.Background(), nil, ""); err == nil {
		t.Error("SuggestReplies() should fail when the server is unreachable")
	}
}

func TestAnalysisClient_Health(t *testing.T) {
	srv := testutil.NewAnalysisServer(t)
	client := NewAnalysisClient(testConfig(srv.URL))

	if err := client.Health(context.Background(), srv.URL); err != nil {
		t.Errorf("Health() error = %v", err)
	}
	if err := client.Health(context.Background(), srv.URL+"/missing"); err == nil {
		t.Error("Health() should fail on a 404")
	}
}
