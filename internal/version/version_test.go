package version

import (
	"strings"
	"testing"
)

func TestVersion(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if BuildTime == "" || GitCommit == "" {
		t.Error("build metadata should be initialized")
	}
}

func TestString(t *testing.T) {
	got := String()
	if !strings.HasPrefix(got, "assetbuilder ") {
		t.Fatalf("unexpected version line: %q", got)
	}
	if !strings.Contains(got, Version) || !strings.Contains(got, GitCommit) {
		t.Fatalf("version line missing metadata: %q", got)
	}
}
