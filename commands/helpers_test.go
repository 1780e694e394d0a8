package commands

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// setupCommandTest points HOME at a temp dir and restores flag defaults
func setupCommandTest(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)

	resetFlags()
	t.Cleanup(resetFlags)
	return home
}

func resetFlags() {
	debug = false
	ratesFile = ""
	pricingSource = ""
	pricingOfflineMode = false
	reset = false

	ratesOutput = "table"

	replayFollow = false
	replayOutput = "table"
	replayMetricsAddr = ""
}

func executeCommand(t *testing.T, timeout time.Duration, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// cobra only hands the root context to subcommands that have none yet
	for _, cmd := range rootCmd.Commands() {
		cmd.SetContext(ctx)
	}

	err := rootCmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}
