// Package misc carries build identity shared by the logger and the cli.
package misc

import "runtime/debug"

// Set at build time with -ldflags "-X cssval/misc.appVersion=... -X cssval/misc.gitHash=...".
var (
	appVersion = "development"
	gitHash    = ""
)

func GetAppName() string {
	return "cssval"
}

func GetVersion() string {
	return appVersion
}

// GetGitHash returns the vcs revision recorded in the binary unless it was
// overwritten during build.
func GetGitHash() string {
	if len(gitHash) != 0 {
		return gitHash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
