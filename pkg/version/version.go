// Package version reports the build version of the command line tool. The
// tag and branch are set with -ldflags at build time; otherwise the module
// build information is used.
package version

import (
	"runtime"
	"runtime/debug"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

var (
	GitTag    string
	GitBranch string
)

const (
	revisionLength = 12
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Version returns the tag, branch or short revision, or "dev" when none
// is known
func Version() string {
	switch {
	case GitTag != "":
		return GitTag
	case GitBranch != "":
		return GitBranch
	}
	if revision := setting("vcs.revision"); revision != "" {
		return revision[:min(len(revision), revisionLength)]
	}
	return "dev"
}

// UserAgent returns the value of the User-Agent header for requests made
// by the named program
func UserAgent(name string) string {
	return name + "/" + Version() + " (" + runtime.GOOS + "/" + runtime.GOARCH + ")"
}

// Metadata returns the build metadata for the named program
func Metadata(name string) map[string]string {
	metadata := map[string]string{
		"name":     name,
		"version":  Version(),
		"compiler": runtime.Version(),
		"platform": runtime.GOOS + "/" + runtime.GOARCH,
	}
	if GitTag != "" {
		metadata["tag"] = GitTag
	}
	if GitBranch != "" {
		metadata["branch"] = GitBranch
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Path != "" {
		metadata["source"] = info.Main.Path
	}
	for key, name := range map[string]string{"hash": "vcs.revision", "build_time": "vcs.time"} {
		if value := setting(name); value != "" {
			metadata[key] = value
		}
	}
	if setting("vcs.modified") == "true" {
		metadata["modified"] = "true"
	}
	return metadata
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func setting(key string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}
