// Package buildinfo provides build-time properties injected via ldflags.
package buildinfo

import "fmt"

// Properties holds build-time properties injected via ldflags.
type Properties struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
}

// Package-level variables for ldflags injection (unexported).
var (
	version   = "dev"
	gitCommit = "unknown"
	buildTime = "unknown"
)

// Get returns the current build properties.
func Get() Properties {
	return Properties{
		Version:   version,
		GitCommit: gitCommit,
		BuildTime: buildTime,
	}
}

// String returns a single-line rendering suitable for startup logs.
func (p Properties) String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", p.Version, p.GitCommit, p.BuildTime)
}
