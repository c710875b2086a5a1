// Package cliversion provides the version of the chronokit binary.
package cliversion

import (
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// ModulePath is the chronokit module path.
const ModulePath = "github.com/go-faster/chronokit"

// Info is the build information.
type Info struct {
	// Version is the version of the module.
	Version string
	// GoVersion is the version of the Go that produced this binary.
	GoVersion string

	// Commit is the current commit hash.
	Commit string
	// Time is the time of the build.
	Time time.Time
}

// Get returns the build information of given module.
func Get(modulePath string) (info Info, ok bool) {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info, false
	}
	return fromBuildInfo(bi, modulePath), true
}

func fromBuildInfo(bi *debug.BuildInfo, modulePath string) (info Info) {
	info.GoVersion = bi.GoVersion
	if bi.Main.Path == modulePath {
		info.Version = bi.Main.Version
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				info.Commit = s.Value
			case "vcs.time":
				if t, err := time.Parse(time.RFC3339Nano, s.Value); err == nil {
					info.Time = t
				}
			}
		}
		return info
	}
	// Module is a dependency, VCS settings belong to the main module.
	for _, m := range bi.Deps {
		if m != nil && m.Path == modulePath {
			info.Version = m.Version
			break
		}
	}
	return info
}

// Short returns version, commit or "unknown".
func (i Info) Short() string {
	switch {
	case i.Version != "" && i.Version != "(devel)":
		return i.Version
	case i.Commit != "":
		return "dev-" + i.Commit
	default:
		return "unknown"
	}
}

// String returns string representation of the build information.
func (i Info) String() string {
	var s strings.Builder
	s.WriteString("version ")
	s.WriteString(i.Short())

	if t, v := i.Time, i.GoVersion; v != "" || !t.IsZero() {
		s.WriteString(" (built")
		if v != "" {
			s.WriteString(" with ")
			s.WriteString(v)
		}
		if !t.IsZero() {
			s.WriteString(" at ")
			s.WriteString(t.Format(time.RFC1123))
		}
		s.WriteByte(')')
	}
	const osArch = " " + runtime.GOOS + "/" + runtime.GOARCH
	s.WriteString(osArch)
	return s.String()
}
