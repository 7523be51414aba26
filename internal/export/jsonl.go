package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/iksnae/tona/internal"
)

var errNilSession = errors.New("nil session")

// JSONLExporter writes one chat_history entry per line, in the shape sent to
// the analysis servers
type JSONLExporter struct{}

func (e *JSONLExporter) Export(session *internal.Session, w io.Writer) error {
	if session == nil {
		return errNilSession
	}

	enc := json.NewEncoder(w)
	for i, entry := range internal.ToChatHistory(session.Messages) {
		if err := enc.Encode(entry); err != nil {
			return fmt.Errorf("failed to encode message %d: %w", i, err)
		}
	}
	return nil
}

func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
