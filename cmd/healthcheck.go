package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/tona/internal"
	"github.com/spf13/cobra"
)

var (
	healthcheckVerbose bool
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that tona can reach the analysis servers and read the chat page",
	Long: `Check the health of tona by verifying:
  • Configuration
  • Reply suggestion server (GET /health)
  • Statistics server (GET /health)
  • Chat page source, when one is configured

This command is useful for debugging connection issues.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		fmt.Fprintln(out, sectionStyle.Render("🔍 tona Health Check"))
		fmt.Fprintln(out)

		// Step 1: Configuration
		fmt.Fprintln(out, infoStyle.Render("Step 1: Checking configuration..."))
		fmt.Fprintln(out, successStyle.Render("✅ Configuration valid"))
		if healthcheckVerbose {
			fmt.Fprintf(out, "   Reply server: %s\n", cfg.ServerURL)
			fmt.Fprintf(out, "   Stats server: %s\n", cfg.StatsServerURL)
			fmt.Fprintf(out, "   Message limit: %d\n", cfg.MessageLimit)
			fmt.Fprintf(out, "   Poll interval: %s\n", cfg.PollInterval)
		}
		fmt.Fprintln(out)

		client := internal.NewAnalysisClient(cfg)
		failures := 0

		// Steps 2 and 3: analysis servers
		servers := []struct {
			name string
			url  string
		}{
			{"reply suggestion server", client.ServerURL()},
			{"statistics server", client.StatsServerURL()},
		}
		for i, server := range servers {
			fmt.Fprintln(out, infoStyle.Render(fmt.Sprintf("Step %d: Checking %s...", i+2, server.name)))
			checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := client.Health(checkCtx, server.url)
			cancel()
			if err != nil {
				failures++
				fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("❌ %s unreachable:", server.name)), err)
			} else {
				fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ %s is up", server.name)))
			}
			if healthcheckVerbose {
				fmt.Fprintf(out, "   URL: %s%s\n", server.url, internal.EndpointHealth)
			}
			fmt.Fprintln(out)
		}

		// Step 4: page source
		fmt.Fprintln(out, infoStyle.Render("Step 4: Checking chat page source..."))
		source, cleanup, err := openSource()
		if err != nil {
			fmt.Fprintln(out, warningStyle.Render("⚠️  No page source configured, skipping"))
		} else {
			defer cleanup()
			session, err := extractSession(ctx, source)
			if err != nil {
				failures++
				fmt.Fprintln(out, errorStyle.Render("❌ Failed to read chat page:"), err)
			} else if len(session.Messages) == 0 {
				fmt.Fprintln(out, warningStyle.Render("⚠️  Chat page loaded but no messages found"))
			} else {
				fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Found %d message(s)", len(session.Messages))))
				if healthcheckVerbose && session.ID != "" {
					fmt.Fprintf(out, "   Chat: %s\n", session.ID)
				}
			}
		}
		fmt.Fprintln(out)

		// Summary
		fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
		fmt.Fprintln(out)
		if failures > 0 {
			fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("❌ Health check failed (%d problem(s))", failures)))
			return fmt.Errorf("health check failed: %d problem(s)", failures)
		}
		fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVarP(&healthcheckVerbose, "verbose", "v", false, "Show detailed diagnostic information")
}
