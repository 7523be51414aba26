package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/iksnae/tona/internal"
	"github.com/iksnae/tona/internal/tui"
	"github.com/spf13/cobra"
)

var (
	listenAddr string
	watchTUI   bool
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the open chat and re-analyze when it changes",
	Long: `Poll the chat page and reset the dashboard whenever a different
conversation is opened.

With --listen, a small HTTP server accepts {"action":"analyzeChat"} commands
on POST /command and serves the session and dashboard state. With --tui, the
dashboard is shown interactively in the terminal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
		defer stop()

		overlay, cleanup, err := newOverlay()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := overlay.Refresh(ctx); err != nil {
			internal.LogWarn("Initial extraction failed: %v", err)
		}
		overlay.ResetForNewChat(ctx)

		errCh := make(chan error, 3)

		if listenAddr != "" {
			srv := &http.Server{
				Addr:              listenAddr,
				Handler:           internal.CommandHandler(overlay),
				ReadHeaderTimeout: 5 * time.Second,
			}
			go func() {
				internal.LogInfo("Listening for commands on %s", listenAddr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- fmt.Errorf("command server failed: %w", err)
				}
			}()
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()
		}

		go func() {
			errCh <- overlay.Watch(ctx)
		}()

		if watchTUI {
			// Log lines would tear the alternate screen.
			internal.SetLogOutput(io.Discard)
			defer internal.SetLogOutput(os.Stderr)
			go func() {
				errCh <- tui.Run(ctx, overlay)
				stop()
			}()
		} else {
			internal.PrintInfo(fmt.Sprintf("Watching for chat changes every %s (ctrl+c to stop)", cfg.PollInterval))
		}

		err = <-errCh
		if errors.Is(err, context.Canceled) || errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&listenAddr, "listen", "", "Serve the command endpoint on this address (e.g. 127.0.0.1:8765)")
	watchCmd.Flags().BoolVar(&watchTUI, "tui", false, "Show the interactive terminal dashboard")
}
