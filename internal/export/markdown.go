package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/tona/internal"
)

// MarkdownExporter exports a chat as a readable transcript
type MarkdownExporter struct{}

func (e *MarkdownExporter) Export(session *internal.Session, w io.Writer) error {
	if session == nil {
		return errNilSession
	}

	title := session.ID
	if title == "" {
		title = "Untitled chat"
	}
	_, _ = fmt.Fprintf(w, "# %s\n\n", escapeMarkdown(title))
	_, _ = fmt.Fprintf(w, "**Source:** %s  \n", session.Source)
	if session.Metadata.ExtractedAt != "" {
		_, _ = fmt.Fprintf(w, "**Extracted:** %s  \n", session.Metadata.ExtractedAt)
	}
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(session.Messages))
	_, _ = fmt.Fprintf(w, "---\n\n")

	for _, msg := range session.Messages {
		timestamp := ""
		if msg.Timestamp != "" {
			timestamp = fmt.Sprintf(" (%s)", msg.Timestamp)
		}

		deleted, text := internal.DetectDeleted(msg.Text)
		if deleted {
			text = "_This message was deleted_"
		} else {
			text = escapeMarkdown(text)
		}

		if msg.IsOutgoing {
			_, _ = fmt.Fprintf(w, "> **%s:**%s\n>\n> %s\n\n", msg.Sender, timestamp, strings.ReplaceAll(text, "\n", "\n> "))
			continue
		}
		_, _ = fmt.Fprintf(w, "**%s:**%s\n\n%s\n\n", msg.Sender, timestamp, text)
	}

	return nil
}

// escapeMarkdown escapes emphasis markers outside code blocks
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

func (e *MarkdownExporter) Extension() string {
	return "md"
}
