package cmd

import (
	"strings"
	"testing"

	"github.com/iksnae/tona/testutil"
)

func TestHealthcheckCommand(t *testing.T) {
	out, err := executeCommand(t, "healthcheck", "--help")
	if err != nil {
		t.Fatalf("healthcheck command failed: %v", err)
	}
	if out == "" {
		t.Error("healthcheck --help should produce output")
	}
}

func TestHealthcheckCommandExists(t *testing.T) {
	if findCommand("healthcheck") == nil {
		t.Error("healthcheck command not found in root command")
	}
}

func TestHealthcheckVerboseFlag(t *testing.T) {
	healthcheckCmd := findCommand("healthcheck")
	if healthcheckCmd == nil {
		t.Fatal("healthcheck command not found")
	}

	if healthcheckCmd.Flag("verbose") == nil {
		t.Error("healthcheck command should have --verbose flag")
	}
	if healthcheckCmd.Flags().ShorthandLookup("v") == nil {
		t.Error("healthcheck command should have -v flag")
	}
}

func TestHealthcheck_Passes(t *testing.T) {
	srv := testutil.NewAnalysisServer(t)
	page := testutil.WriteFile(t, t.TempDir(), "chat.html", testutil.ChatPage(t, "Alice", "hello", "> hi"))

	out, err := executeCommand(t, "healthcheck", "-v", "--file", page, "--server-url", srv.URL, "--stats-url", srv.URL)
	if err != nil {
		t.Fatalf("healthcheck error = %v\n%s", err, out)
	}
	for _, want := range []string{"reply suggestion server is up", "statistics server is up", "Found 2 message(s)", "Chat: Alice", "Health check passed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestHealthcheck_ServerDown(t *testing.T) {
	srv := testutil.NewAnalysisServer(t)

	out, err := executeCommand(t, "healthcheck", "--server-url", "http://127.0.0.1:1", "--stats-url", srv.URL)
	if err == nil {
		t.Fatal("healthcheck should fail when a server is unreachable")
	}
	if !strings.Contains(out, "reply suggestion server unreachable") {
		t.Errorf("output = %s", out)
	}
	if !strings.Contains(out, "No page source configured") {
		t.Errorf("missing source should only warn:\n%s", out)
	}
}
