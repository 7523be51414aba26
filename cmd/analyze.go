package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/iksnae/tona/internal"
	"github.com/spf13/cobra"
)

var (
	analyzeTabs  []string
	analyzeAsk   string
	analyzeCopy  int
	analyzeJSON  bool
	analyzeWidth int
)

// clipboardWrite is replaced in tests
var clipboardWrite = clipboard.WriteAll

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the open chat and suggest replies",
	Long: `Extract the open chat, send it to the analysis servers and print the
dashboard: suggested replies, conversation statistics and insights.

Use --ask to ask a follow-up question about the conversation and --copy N to
put suggestion N of the latest reply on the clipboard.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tabs, err := parseTabs(analyzeTabs)
		if err != nil {
			return err
		}

		overlay, cleanup, err := newOverlay()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		steps := []internal.ProgressStep{
			{
				Message: "Analyzing conversation",
				Fn: func() error {
					overlay.Analyze(ctx, "command line")
					overlay.Wait()
					return nil
				},
			},
		}
		if analyzeAsk != "" {
			steps = append(steps, internal.ProgressStep{
				Message: "Asking: " + analyzeAsk,
				Fn: func() error {
					// The failure is already shown in the assistant panel.
					_, _ = overlay.Ask(ctx, analyzeAsk)
					return nil
				},
			})
		}
		if err := internal.ShowProgressWithSteps(ctx, steps); err != nil {
			return err
		}

		dashboard := overlay.Dashboard()
		if analyzeJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(dashboard.Snapshot()); err != nil {
				return err
			}
		} else {
			for _, tab := range tabs {
				if err := dashboard.SelectTab(tab); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), dashboard.Snapshot().Render(analyzeWidth))
			}
		}

		if analyzeCopy > 0 {
			return copySuggestion(dashboard.LatestSuggestions(), analyzeCopy)
		}
		return nil
	},
}

func parseTabs(names []string) ([]internal.Tab, error) {
	if len(names) == 0 {
		return []internal.Tab{internal.TabAssistant, internal.TabStats, internal.TabInsights}, nil
	}

	tabs := make([]internal.Tab, 0, len(names))
	for _, name := range names {
		tab := internal.Tab(strings.ToLower(strings.TrimSpace(name)))
		if tab == "all" {
			return append([]internal.Tab(nil), internal.Tabs...), nil
		}
		valid := false
		for _, known := range internal.Tabs {
			if tab == known {
				valid = true
				break
			}
		}
		if !valid {
			return nil, fmt.Errorf("unknown tab: %s (supported: chat, assistant, stats, insights, all)", name)
		}
		tabs = append(tabs, tab)
	}
	return tabs, nil
}

// copySuggestion puts the 1-based suggestion n on the clipboard
func copySuggestion(suggestions []string, n int) error {
	if !cfg.Features.SuggestionCopy {
		return fmt.Errorf("suggestion copy is disabled in the configuration")
	}
	if n > len(suggestions) {
		return fmt.Errorf("suggestion %d not available (%d suggestion(s) returned)", n, len(suggestions))
	}
	if err := clipboardWrite(suggestions[n-1]); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	internal.PrintSuccess(fmt.Sprintf("Copied suggestion %d to clipboard", n))
	return nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringSliceVar(&analyzeTabs, "tab", nil, "Tabs to print (chat, assistant, stats, insights, all)")
	analyzeCmd.Flags().StringVar(&analyzeAsk, "ask", "", "Ask a question about the conversation after the analysis")
	analyzeCmd.Flags().IntVar(&analyzeCopy, "copy", 0, "Copy suggestion N of the latest reply to the clipboard")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the dashboard state as JSON")
	analyzeCmd.Flags().IntVar(&analyzeWidth, "width", 80, "Render width")
}
