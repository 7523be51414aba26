package internal

import (
	"sync"
	"time"
)

const (
	SenderYou   = "You"
	SenderOther = "Sender"
)

// Session is a read-only snapshot of the latest extraction
type Session struct {
	ID       string    `json:"id" yaml:"id"` // chat identity at extraction time
	Source   string    `json:"source" yaml:"source"`
	Messages []Message `json:"messages" yaml:"messages"`
	Metadata Metadata  `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Message is one chat line as observed in the page
type Message struct {
	Text       string `json:"text" yaml:"text"`
	Timestamp  string `json:"timestamp" yaml:"timestamp"`
	IsOutgoing bool   `json:"isOutgoing" yaml:"is_outgoing"`
	Sender     string `json:"sender" yaml:"sender"`
}

// Metadata contains additional session information
type Metadata struct {
	Name         string `json:"name,omitempty" yaml:"name,omitempty"`
	ExtractedAt  string `json:"extracted_at,omitempty" yaml:"extracted_at,omitempty"`
	MessageCount int    `json:"message_count" yaml:"message_count"`
}

// NewMessage builds a Message, deriving Sender from the direction
func NewMessage(text, timestamp string, outgoing bool) Message {
	sender := SenderOther
	if outgoing {
		sender = SenderYou
	}
	return Message{
		Text:       text,
		Timestamp:  timestamp,
		IsOutgoing: outgoing,
		Sender:     sender,
	}
}

// SessionState holds the most recent extraction result. It has a single
// writer (the overlay pipeline) and any number of readers.
type SessionState struct {
	mu          sync.RWMutex
	chatID      string
	source      string
	messages    []Message
	extractedAt time.Time
	generation  uint64
}

// NewSessionState creates an empty session state
func NewSessionState() *SessionState {
	return &SessionState{}
}

// Replace overwrites the state with a fresh extraction
func (s *SessionState) Replace(chatID, source string, messages []Message) {
	cp := make([]Message, len(messages))
	copy(cp, messages)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatID = chatID
	s.source = source
	s.messages = cp
	s.extractedAt = time.Now()
	s.generation++
}

// Clear drops the current messages, e.g. when the chat changes
func (s *SessionState) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatID = ""
	s.messages = nil
	s.extractedAt = time.Time{}
	s.generation++
}

// Messages returns a copy of the current messages
func (s *SessionState) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make([]Message, len(s.messages))
	copy(cp, s.messages)
	return cp
}

// Len returns the number of stored messages
func (s *SessionState) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Generation increases on every Replace and Clear
func (s *SessionState) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Snapshot returns a deep copy suitable for rendering and export
func (s *SessionState) Snapshot() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := make([]Message, len(s.messages))
	copy(messages, s.messages)

	extractedAt := ""
	if !s.extractedAt.IsZero() {
		extractedAt = s.extractedAt.Format(time.RFC3339)
	}

	return &Session{
		ID:       s.chatID,
		Source:   s.source,
		Messages: messages,
		Metadata: Metadata{
			Name:         s.chatID,
			ExtractedAt:  extractedAt,
			MessageCount: len(messages),
		},
	}
}
