package version

import (
	"strings"
	"testing"
)

func TestFullVersion(t *testing.T) {
	oldVersion, oldCommit, oldDate := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = oldVersion, oldCommit, oldDate })

	Version = "dev"
	if got := FullVersion(); got != "rping development build" {
		t.Errorf("FullVersion() = %q, want development build", got)
	}

	Version, GitCommit, BuildDate = "1.2.0", "abc123", "2026-01-02"
	got := FullVersion()
	for _, want := range []string{"rping 1.2.0", "abc123", "2026-01-02"} {
		if !strings.Contains(got, want) {
			t.Errorf("FullVersion() = %q, missing %q", got, want)
		}
	}
}
