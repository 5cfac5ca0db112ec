// Package version tells which build of lanes is running.
package version

import (
	"runtime/debug"
	"strings"
)

// Version is empty unless set at link time:
//
//	go build -ldflags "-X github.com/vsariola/lanes/version.Version=$(git describe --dirty)" ./cmd/lanes
var Version string

// Hash is the short VCS revision the binary was built from, with a -dirty
// suffix for modified trees, or empty if unknown.
var Hash = revision(debug.ReadBuildInfo())

// VersionOrHash is what lanes --version prints.
var VersionOrHash = func() string {
	if Version != "" {
		return Version
	}
	if Hash != "" {
		return Hash
	}
	return "devel"
}()

func revision(info *debug.BuildInfo, ok bool) string {
	if !ok {
		return ""
	}
	var rev string
	dirty := false
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if len(rev) > 7 {
		rev = rev[:7]
	}
	if rev == "" || !dirty {
		return rev
	}
	return strings.Join([]string{rev, "dirty"}, "-")
}
