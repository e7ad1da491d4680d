package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func withVersion(t *testing.T, v, commit string) {
	t.Helper()
	origVersion, origCommit := Version, GitCommit
	Version, GitCommit = v, commit
	t.Cleanup(func() { Version, GitCommit = origVersion, origCommit })
}

func TestColored(t *testing.T) {
	origNoColor := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = origNoColor })

	cases := []struct {
		version string
		enabled bool
		plain   bool
	}{
		{"1.2.3", false, true},
		{"1.2.3", true, false},
		{"0.1.0-dev", true, false},
		{"nightly", true, true},
	}
	for _, tc := range cases {
		withVersion(t, tc.version, "")
		got := Colored(tc.enabled)
		if tc.plain && got != tc.version {
			t.Fatalf("Colored(%v) for %q = %q, want plain", tc.enabled, tc.version, got)
		}
		if !tc.plain {
			if !strings.Contains(got, "\x1b[") {
				t.Fatalf("Colored(%v) for %q = %q, want escape codes", tc.enabled, tc.version, got)
			}
			if strings.Contains(tc.version, "-") && !strings.HasSuffix(got, "-dev") {
				t.Fatalf("suffix lost: %q", got)
			}
		}
	}
}

func TestPretty(t *testing.T) {
	withVersion(t, "1.2.3", "abc123")
	out := Pretty(false)
	if !strings.HasPrefix(out, "idlkit 1.2.3\ncommit: abc123\n") {
		t.Fatalf("Pretty =\n%s", out)
	}
	if !strings.Contains(out, "go:     go") {
		t.Fatalf("Pretty missing go line:\n%s", out)
	}
}

func TestCurrent(t *testing.T) {
	withVersion(t, "2.0.0", "")
	info := Current()
	if info.Version != "2.0.0" || info.GitCommit != "" || info.Platform == "" {
		t.Fatalf("Current = %+v", info)
	}
}
