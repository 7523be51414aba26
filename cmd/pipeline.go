package cmd

import (
	"fmt"

	"github.com/iksnae/tona/internal"
)

// openSource builds the configured page source. The returned cleanup closes
// any browser connection.
func openSource() (internal.DocumentSource, func(), error) {
	source, err := internal.NewSource(cfg.Source)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	if bs, ok := source.(*internal.BrowserSource); ok {
		cleanup = func() {
			if err := bs.Close(); err != nil {
				internal.LogWarn("Failed to disconnect from browser: %v", err)
			}
		}
	}
	return source, cleanup, nil
}

// newOverlay wires the configured source and analysis client into an overlay
func newOverlay() (*internal.Overlay, func(), error) {
	source, cleanup, err := openSource()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open page source: %w", err)
	}

	overlay := internal.NewOverlay(cfg, source, internal.NewAnalysisClient(cfg))
	return overlay, func() {
		overlay.Close()
		cleanup()
	}, nil
}
