package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// AnalysisServer fakes the reply and statistics servers on one listener
type AnalysisServer struct {
	*httptest.Server

	replyStatus int
	statsStatus int
	reply       interface{}
	stats       interface{}
	statsGate   chan struct{}

	// StatsStarted receives a value when a /generate_stats request arrives.
	StatsStarted chan struct{}

	mu       sync.Mutex
	requests map[string][]map[string]interface{}
}

// ServerOption configures an AnalysisServer
type ServerOption func(*AnalysisServer)

// WithReplyStatus makes /analyze_chat answer with status and no body
func WithReplyStatus(status int) ServerOption {
	return func(s *AnalysisServer) { s.replyStatus = status }
}

// WithStatsStatus makes /generate_stats answer with status and no body
func WithStatsStatus(status int) ServerOption {
	return func(s *AnalysisServer) { s.statsStatus = status }
}

// WithReply replaces the /analyze_chat response body
func WithReply(v interface{}) ServerOption {
	return func(s *AnalysisServer) { s.reply = v }
}

// WithStatsGate blocks /generate_stats until gate is closed
func WithStatsGate(gate chan struct{}) ServerOption {
	return func(s *AnalysisServer) { s.statsGate = gate }
}

// NewAnalysisServer starts a fake analysis server closed at test cleanup
func NewAnalysisServer(t *testing.T, opts ...ServerOption) *AnalysisServer {
	t.Helper()

	s := &AnalysisServer{
		replyStatus:  http.StatusOK,
		statsStatus:  http.StatusOK,
		reply:        SampleReply,
		stats:        SampleStats,
		StatsStarted: make(chan struct{}, 16),
		requests:     make(map[string][]map[string]interface{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/analyze_chat", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		s.respond(w, s.replyStatus, s.reply)
	})
	mux.HandleFunc("/generate_stats", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		select {
		case s.StatsStarted <- struct{}{}:
		default:
		}
		if s.statsGate != nil {
			select {
			case <-s.statsGate:
			case <-r.Context().Done():
				return
			}
		}
		s.respond(w, s.statsStatus, s.stats)
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"status":"healthy"}`)
	})

	s.Server = httptest.NewServer(mux)
	t.Cleanup(func() {
		if s.statsGate != nil {
			select {
			case <-s.statsGate:
			default:
				close(s.statsGate)
			}
		}
		s.Close()
	})
	return s
}

func (s *AnalysisServer) record(r *http.Request) {
	var body map[string]interface{}
	_ = json.NewDecoder(r.Body).Decode(&body)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[r.URL.Path] = append(s.requests[r.URL.Path], body)
}

func (s *AnalysisServer) respond(w http.ResponseWriter, status int, body interface{}) {
	if status != http.StatusOK {
		http.Error(w, "server error", status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

// Requests returns the decoded bodies received on path
func (s *AnalysisServer) Requests(path string) []map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]interface{}(nil), s.requests[path]...)
}

// Count returns how many requests were received on path
func (s *AnalysisServer) Count(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests[path])
}
