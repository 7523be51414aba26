package internal

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// FixtureMessage describes one message row of a generated chat page
type FixtureMessage struct {
	Text      string
	Time      string
	Outgoing  bool
	Emoji     string // rendered as an <img data-plain-text> after the text
	BlobImage bool
}

// CreateTestSession creates a test session with sample data
func CreateTestSession(id string) *Session {
	return &Session{
		ID:     id,
		Source: "file",
		Messages: []Message{
			NewMessage("Hey, are we still on for Friday?", "10:02", false),
			NewMessage("Yes! Looking forward to it 😀", "10:05", true),
		},
		Metadata: Metadata{
			Name:         id,
			ExtractedAt:  time.Now().Format(time.RFC3339),
			MessageCount: 2,
		},
	}
}

// CreateTestSessionWithMessages creates a test session with custom messages
func CreateTestSessionWithMessages(id string, messages []Message) *Session {
	return &Session{
		ID:       id,
		Source:   "file",
		Messages: messages,
		Metadata: Metadata{
			Name:         id,
			MessageCount: len(messages),
		},
	}
}

// ChatPageHTML renders a minimal chat page using the first-tier selectors
func ChatPageHTML(title string, messages ...FixtureMessage) string {
	var b strings.Builder
	b.WriteString("<html><body><header>")
	if title != "" {
		fmt.Fprintf(&b, `<span data-testid="conversation-title">%s</span>`, html.EscapeString(title))
	}
	b.WriteString(`</header><div id="main">`)
	for _, msg := range messages {
		b.WriteString(messageRowHTML(msg))
	}
	b.WriteString("</div></body></html>")
	return b.String()
}

func messageRowHTML(msg FixtureMessage) string {
	wrapper := `class="message-in"`
	if msg.Outgoing {
		wrapper = `class="message-out" data-testid="msg-out"`
	}

	var body strings.Builder
	if msg.BlobImage {
		body.WriteString(`<img src="blob:https://web.whatsapp.com/abc">`)
	}
	if msg.Text != "" || msg.Emoji != "" {
		body.WriteString(`<span data-testid="msg-text">`)
		body.WriteString(html.EscapeString(msg.Text))
		if msg.Emoji != "" {
			fmt.Fprintf(&body, `<img alt="%[1]s" data-plain-text="%[1]s">`, html.EscapeString(msg.Emoji))
		}
		body.WriteString(`</span>`)
	}

	meta := ""
	if msg.Time != "" {
		meta = fmt.Sprintf(`<div data-testid="msg-meta">%s</div>`, html.EscapeString(msg.Time))
	}

	return fmt.Sprintf(`<div %s><div data-testid="msg-container">%s%s</div></div>`, wrapper, body.String(), meta)
}
