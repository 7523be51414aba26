package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iksnae/tona/internal"
	"github.com/iksnae/tona/internal/export"
	"github.com/spf13/cobra"
)

var (
	format     string
	outputPath string
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract the visible messages of the open chat",
	Long: `Extract the most recent messages of the chat page and print or export them.

Without --output the messages are written to stdout. Supported formats are
jsonl (the wire shape sent to the analysis servers), md, yaml and json.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		source, cleanup, err := openSource()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		var session *internal.Session
		err = internal.ShowProgress(ctx, fmt.Sprintf("Reading chat from %s source", source.Name()), func() error {
			session, err = extractSession(ctx, source)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to extract messages: %w", err)
		}

		if outputPath == "" {
			return exporter.Export(session, cmd.OutOrStdout())
		}

		path := outputPath
		if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
			path = filepath.Join(path, fmt.Sprintf("chat.%s", exporter.Extension()))
		}
		if err := export.WriteFile(exporter, session, path); err != nil {
			return err
		}
		internal.PrintSuccess(fmt.Sprintf("Exported %d message(s) to %s", len(session.Messages), path))
		return nil
	},
}

// extractSession loads the page once and returns the extracted session
func extractSession(ctx context.Context, source internal.DocumentSource) (*internal.Session, error) {
	doc, err := source.Load(ctx)
	if err != nil {
		return nil, err
	}

	selectors := internal.SelectorsFromConfig(cfg.Selectors)
	extractor := internal.NewExtractor(cfg.MessageLimit, internal.WithSelectors(selectors))

	state := internal.NewSessionState()
	state.Replace(internal.ChatIdentity(doc, selectors.ChatTitle), source.Name(), extractor.ExtractDocument(doc.DOM))
	return state.Snapshot(), nil
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVarP(&format, "format", "f", "jsonl", "Output format (jsonl, md, yaml, json)")
	extractCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write to this file or directory instead of stdout")
}
