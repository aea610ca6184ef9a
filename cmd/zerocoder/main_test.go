package main

import (
	"bytes"
	"io"
	"testing"
)

// execute runs the root command with args and returns what it wrote.
func execute(t *testing.T, stdin io.Reader, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// resetGlobalFlags restores flag variables that persist between executions.
func resetGlobalFlags(t *testing.T) {
	t.Helper()
	cfgFile, envFile, verbose = "", ".env", false
	extractFlags.strategy = false
	runFlags.listen, runFlags.logLevel, runFlags.dryRun = "", "", false
	versionFlags.format = "text"
	auditFlags.engine, auditFlags.status, auditFlags.since, auditFlags.until = "", "", "", ""
	auditFlags.limit, auditFlags.offset, auditFlags.format, auditFlags.days = 100, 0, "text", 0
}
