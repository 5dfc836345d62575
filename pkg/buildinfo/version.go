// Package buildinfo reports which build of bumper is running.
//
// Release builds stamp the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/bumper/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/bumper/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/bumper/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Binaries from "go install" are not stamped; for those the module version
// and VCS revision recorded by the toolchain are used instead.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var readBuildInfo = debug.ReadBuildInfo

// Info is the resolved identity of the running binary.
type Info struct {
	Version string
	Commit  string
	Date    string
}

// Current returns the stamped values, completed from the toolchain's build
// information where the stamp is missing.
func Current() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date}
	bi, ok := readBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && info.Commit == "none":
			info.Commit = s.Value
		case s.Key == "vcs.time" && info.Date == "unknown":
			info.Date = s.Value
		}
	}
	return info
}

// UserAgent returns the User-Agent header sent to Composer repositories.
func UserAgent() string {
	return fmt.Sprintf("bumper/%s (+https://github.com/matzehuels/bumper)", Current().Version)
}

// Template returns the cobra version template.
func Template() string {
	info := Current()
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", info.Version, info.Commit, info.Date)
}
