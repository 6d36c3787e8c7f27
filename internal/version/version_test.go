package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func stub(t *testing.T, version, commit string, info *debug.BuildInfo) {
	t.Helper()
	oldVersion, oldCommit, oldRead := Version, Commit, readBuildInfo
	t.Cleanup(func() {
		Version, Commit, readBuildInfo = oldVersion, oldCommit, oldRead
	})
	Version, Commit = version, commit
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return info, info != nil
	}
}

func TestGetVersion(t *testing.T) {
	installed := &debug.BuildInfo{Main: debug.Module{Version: "v0.4.0"}}
	local := &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}

	tests := []struct {
		name    string
		version string
		info    *debug.BuildInfo
		want    string
	}{
		{"ldflags stamp wins", "v1.2.3", installed, "v1.2.3"},
		{"go install", "dev", installed, "v0.4.0"},
		{"empty stamp", "", installed, "v0.4.0"},
		{"local build", "dev", local, "dev"},
		{"no build info", "dev", nil, "dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub(t, tt.version, "unknown", tt.info)
			assert.Equal(t, tt.want, GetVersion())
		})
	}
}

func TestGetFullVersion(t *testing.T) {
	info := &debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}},
	}

	stub(t, "v1.0.0", "unknown", info)
	assert.Equal(t, "v1.0.0 (commit: abc123, built: unknown, by: source)", GetFullVersion())

	stub(t, "v1.0.0", "deadbeef", info)
	assert.Equal(t, "v1.0.0 (commit: deadbeef, built: unknown, by: source)", GetFullVersion())
}
