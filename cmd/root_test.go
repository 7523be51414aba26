package cmd

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/iksnae/tona/testutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// executeCommand runs the root command with args after resetting every flag
// to its default, since cobra keeps flag state between executions
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags := func(flags *pflag.FlagSet) {
		flags.VisitAll(func(f *pflag.Flag) {
			if f.Value.Type() == "stringSlice" {
				analyzeTabs = nil
			} else {
				_ = f.Value.Set(f.DefValue)
			}
			f.Changed = false
		})
	}
	resetFlags(rootCmd.PersistentFlags())
	resetFlags(rootCmd.Flags())
	for _, c := range rootCmd.Commands() {
		resetFlags(c.Flags())
	}

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), err
}

func findCommand(name string) *cobra.Command {
	for _, c := range rootCmd.Commands() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{
			name: "version flag",
			args: []string{"--version"},
			want: "dev",
		},
		{
			name: "help flag",
			args: []string{"--help"},
			want: "tona reads the chat",
		},
		{
			name:    "unknown command",
			args:    []string{"nonexistent-command"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeCommand(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Errorf("Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.want != "" && !strings.Contains(out, tt.want) {
				t.Errorf("output %q does not contain %q", out, tt.want)
			}
		})
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	for _, name := range []string{"extract", "analyze", "watch", "healthcheck"} {
		if findCommand(name) == nil {
			t.Errorf("%s command not registered", name)
		}
	}
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	_, err := executeCommand(t, "extract", "--server-url", "ftp://example.com", "--file", "chat.html")
	if err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("Execute() error = %v, want invalid configuration", err)
	}
}

func TestRootCommand_MissingEnvFile(t *testing.T) {
	_, err := executeCommand(t, "extract", "--env-file", "does-not-exist.env", "--file", "chat.html")
	if err == nil || !strings.Contains(err.Error(), "env file") {
		t.Errorf("Execute() error = %v, want env file error", err)
	}
}

func TestRootCommand_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := testutil.WriteFile(t, dir, "test.env", []byte("TONA_MESSAGE_LIMIT=1\n"))
	page := testutil.WriteFile(t, dir, "chat.html", testutil.ChatPage(t, "Alice", "first", "> second"))

	// godotenv never overrides variables that are already set.
	t.Setenv("TONA_MESSAGE_LIMIT", "")
	_ = os.Unsetenv("TONA_MESSAGE_LIMIT")

	out, err := executeCommand(t, "extract", "--env-file", envPath, "--file", page)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if lines := strings.Count(strings.TrimSpace(out), "\n") + 1; lines != 1 {
		t.Errorf("got %d lines, want 1 (limit from env file):\n%s", lines, out)
	}
}
