package main

import (
	"encoding/json"
	"runtime"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, "Enginevisor "+Version+"\n") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, runtime.GOOS+"/"+runtime.GOARCH) {
		t.Errorf("output lacks platform: %q", out)
	}
}

func TestVersionCommand_JSON(t *testing.T) {
	origCommit := GitCommit
	GitCommit = "abc123"
	defer func() { GitCommit = origCommit }()

	out, err := executeCommand(t, "version", "--output", "json")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}

	var info versionInfo
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if info.Version != Version || info.GitCommit != "abc123" || info.GoVersion != runtime.Version() {
		t.Errorf("info = %+v", info)
	}
}

func TestVersionCommand_BadOutput(t *testing.T) {
	if _, err := executeCommand(t, "version", "--output", "yaml"); err == nil {
		t.Error("expected error for unknown output format")
	}
}
