package main

import (
	"bytes"
	"testing"
)

// executeCommand runs the root command with args and returns its stdout.
// Package-level flag values are reset first because cobra binds them once.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfgFile, envFile, verbose = "", "", false
	renderFlags.identity, renderFlags.write = "", false
	identityFlags.output = "text"
	versionFlags.output = "text"

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

// isolateEnv points the engine files at a temp dir and clears the hosting
// variables so the defaults apply.
func isolateEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ENGINEVISOR_ENGINE_BASE_DIR", dir)
	for _, name := range []string{"SERVER_PORT", "PORT", "DOWNLOAD_WEB", "DOWNLOAD_WEB_BACKUP"} {
		t.Setenv(name, "")
	}
	return dir
}
