package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iksnae/tona/internal"
)

func TestJSONExporter_Export(t *testing.T) {
	tests := []struct {
		name    string
		session *internal.Session
	}{
		{
			name:    "basic session",
			session: internal.CreateTestSession("Alice"),
		},
		{
			name:    "empty session",
			session: internal.CreateTestSessionWithMessages("Bob", []internal.Message{}),
		},
		{
			name: "session with all fields",
			session: &internal.Session{
				ID:     "Carol",
				Source: "browser",
				Messages: []internal.Message{
					internal.NewMessage("Hello", "09:15", true),
				},
				Metadata: internal.Metadata{
					Name:         "Carol",
					ExtractedAt:  "2025-01-01T00:00:00Z",
					MessageCount: 1,
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			exporter := &JSONExporter{}

			if err := exporter.Export(tt.session, &buf); err != nil {
				t.Fatalf("JSONExporter.Export() error = %v", err)
			}

			output := buf.String()
			var session internal.Session
			if err := json.Unmarshal([]byte(output), &session); err != nil {
				t.Fatalf("Output is not valid JSON: %v\nOutput: %s", err, output)
			}

			if session.ID != tt.session.ID {
				t.Errorf("ID = %q, want %q", session.ID, tt.session.ID)
			}
			if len(session.Messages) != len(tt.session.Messages) {
				t.Errorf("got %d messages, want %d", len(session.Messages), len(tt.session.Messages))
			}
			if !strings.Contains(output, "\n  ") {
				t.Errorf("Output should be pretty-printed with indentation")
			}
		})
	}
}

func TestJSONExporter_Extension(t *testing.T) {
	exporter := &JSONExporter{}
	if got := exporter.Extension(); got != "json" {
		t.Errorf("JSONExporter.Extension() = %v, want json", got)
	}
}
