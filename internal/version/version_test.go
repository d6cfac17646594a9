package version

import "testing"

func TestVersionStringDefaultsToDev(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = ""
	if got := VersionString(); got != "dev" {
		t.Errorf("VersionString() = %q, want %q", got, "dev")
	}

	Version = "1.2.3"
	if got := VersionString(); got != "1.2.3" {
		t.Errorf("VersionString() = %q, want %q", got, "1.2.3")
	}
}
