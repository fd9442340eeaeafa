package config

import (
	"fmt"
	"runtime"
)

// Version information (set via -ldflags during build), e.g.
//
//	-X github.com/bobmcallan/toolbridge/internal/config.Version=1.4.0
var (
	Version   = "dev"
	Build     = "unknown"
	GitCommit = "unknown"
)

// VersionInfo is the serialized build identity.
type VersionInfo struct {
	Version   string `json:"version"`
	Build     string `json:"build"`
	GitCommit string `json:"git_commit"`
	GoVersion string `json:"go_version"`
}

func GetVersion() string   { return Version }
func GetBuild() string     { return Build }
func GetGitCommit() string { return GitCommit }

// GetVersionInfo returns the build identity of the running binary.
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:   Version,
		Build:     Build,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
	}
}

// GetFullVersion returns version with build info.
func GetFullVersion() string {
	return fmt.Sprintf("%s (build: %s, commit: %s)", Version, Build, GitCommit)
}
