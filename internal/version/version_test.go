package version

import (
	"testing"

	"github.com/fatih/color"
)

func withVersion(t *testing.T, v, commit, date string) {
	t.Helper()
	origVersion, origCommit, origDate, origNoColor := Version, GitCommit, BuildDate, color.NoColor
	Version, GitCommit, BuildDate = v, commit, date
	color.NoColor = true
	t.Cleanup(func() {
		Version, GitCommit, BuildDate, color.NoColor = origVersion, origCommit, origDate, origNoColor
	})
}

func TestColoredKeepsText(t *testing.T) {
	tests := []string{"0.1.0-dev", "1.2.3", "1.2.3-rc.1+build.123", "nightly"}
	for _, v := range tests {
		withVersion(t, v, "", "")
		if got := Colored(); got != v {
			t.Errorf("Colored() = %q, want %q", got, v)
		}
	}
}

func TestColoredHighlightsParts(t *testing.T) {
	withVersion(t, "1.2.3", "", "")
	color.NoColor = false
	got := Colored()
	if got == "1.2.3" {
		t.Fatal("expected escape sequences with colors enabled")
	}
}

func TestInfo(t *testing.T) {
	withVersion(t, "1.2.3", "abc123", "2024-01-15")
	if got, want := Info(), "contractc 1.2.3 (abc123) built 2024-01-15"; got != want {
		t.Fatalf("Info() = %q, want %q", got, want)
	}
	withVersion(t, "1.2.3", "", "")
	if got := Info(); got != "contractc 1.2.3" {
		t.Fatalf("Info() = %q", got)
	}
}
