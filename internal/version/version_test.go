package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	origVersion, origCommit, origBuildTime := Version, Commit, BuildTime
	defer func() {
		Version, Commit, BuildTime = origVersion, origCommit, origBuildTime
	}()

	Version = "0.3.0"
	Commit = "abc1234"
	BuildTime = "2025-10-25T10:00:00Z"

	if got, want := String(), "0.3.0 (abc1234) built 2025-10-25T10:00:00Z"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	full := Full()
	if !strings.HasPrefix(full, String()) {
		t.Errorf("Full() = %q, should start with String()", full)
	}
	if !strings.Contains(full, runtime.GOOS+"/"+runtime.GOARCH) {
		t.Errorf("Full() = %q, missing platform", full)
	}
}

func TestDefaults(t *testing.T) {
	if Version == "" || Commit == "" || BuildTime == "" {
		t.Errorf("build variables must not be empty: %q %q %q", Version, Commit, BuildTime)
	}
}
