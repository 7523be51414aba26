package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	EndpointAnalyzeChat   = "/analyze_chat"
	EndpointGenerateStats = "/generate_stats"
	EndpointHealth        = "/health"

	userIDPrefix = "tona_user_"
)

// AnalysisClient talks to the reply-suggestion and statistics servers
type AnalysisClient struct {
	serverURL      string
	statsServerURL string
	replyTimeout   time.Duration
	statsTimeout   time.Duration
	httpClient     *http.Client
}

// NewAnalysisClient creates a client from the configuration
func NewAnalysisClient(cfg *Config) *AnalysisClient {
	return &AnalysisClient{
		serverURL:      strings.TrimRight(cfg.ServerURL, "/"),
		statsServerURL: strings.TrimRight(cfg.StatsServerURL, "/"),
		replyTimeout:   cfg.ReplyTimeout,
		statsTimeout:   cfg.StatsTimeout,
		// Per-call deadlines come from the context; the reply call has none by default.
		httpClient: &http.Client{},
	}
}

// NewRequestUserID returns a fresh, time-ordered identifier for one request.
// It is not a stable user identity.
func NewRequestUserID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf("%s%d", userIDPrefix, time.Now().UnixMilli())
	}
	return userIDPrefix + id.String()
}

// NewAnalyzeChatRequest builds the wire payload for a set of messages
func NewAnalyzeChatRequest(messages []Message, query string) AnalyzeChatRequest {
	return AnalyzeChatRequest{
		ChatHistory: ToChatHistory(messages),
		UserQuery:   query,
		UserID:      NewRequestUserID(),
	}
}

// SuggestReplies asks the reply server for suggestions on how to continue
// the conversation
func (c *AnalysisClient) SuggestReplies(ctx context.Context, messages []Message, query string) (*ReplyAnalysis, error) {
	if c.replyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.replyTimeout)
		defer cancel()
	}

	var result ReplyAnalysis
	if err := c.post(ctx, c.serverURL, EndpointAnalyzeChat, NewAnalyzeChatRequest(messages, query), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateStats asks the statistics server for conversation statistics and
// insights. The request is abandoned after the configured stats timeout.
func (c *AnalysisClient) GenerateStats(ctx context.Context, messages []Message) (*StatsReport, error) {
	ctx, cancel := context.WithTimeout(ctx, c.statsTimeout)
	defer cancel()

	var result StatsReport
	if err := c.post(ctx, c.statsServerURL, EndpointGenerateStats, NewAnalyzeChatRequest(messages, ""), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Health checks that a server answers GET /health
func (c *AnalysisClient) Health(ctx context.Context, baseURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(baseURL, "/")+EndpointHealth, nil)
	if err != nil {
		return &AnalysisError{Endpoint: EndpointHealth, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &AnalysisError{Endpoint: EndpointHealth, Err: fmt.Errorf("failed to send request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &AnalysisError{Endpoint: EndpointHealth, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}
	}
	return nil
}

// ServerURL returns the reply server base URL
func (c *AnalysisClient) ServerURL() string {
	return c.serverURL
}

// StatsServerURL returns the statistics server base URL
func (c *AnalysisClient) StatsServerURL() string {
	return c.statsServerURL
}

func (c *AnalysisClient) post(ctx context.Context, baseURL, endpoint string, payload AnalyzeChatRequest, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &AnalysisError{Endpoint: endpoint, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	LogDebug("Sending %d message(s) to %s%s as %s", len(payload.ChatHistory), baseURL, endpoint, payload.UserID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return &AnalysisError{Endpoint: endpoint, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &AnalysisError{Endpoint: endpoint, Err: fmt.Errorf("failed to send request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &AnalysisError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, strings.TrimSpace(string(respBody))),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &AnalysisError{Endpoint: endpoint, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	return nil
}
