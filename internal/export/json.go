package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/tona/internal"
)

// JSONExporter exports the whole session snapshot, pretty-printed
type JSONExporter struct{}

func (e *JSONExporter) Export(session *internal.Session, w io.Writer) error {
	if session == nil {
		return errNilSession
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(session)
}

func (e *JSONExporter) Extension() string {
	return "json"
}
