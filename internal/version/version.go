// Where: internal/version/version.go
// What: Version information retrieval.
// Why: Report the release tag or VCS revision the binary was built from.
package version

import (
	"fmt"
	"runtime/debug"
)

// Version is set at link time (-ldflags "-X .../version.Version=v1.2.3").
var Version = ""

// GetVersion returns the link-time version when set. Otherwise it returns the
// VCS revision from build info, with "(dirty)" appended for modified trees,
// or "dev" when neither is available.
func GetVersion() string {
	if Version != "" {
		return Version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "dev"
	}
	return fromSettings(info.Settings)
}

func fromSettings(settings []debug.BuildSetting) string {
	var revision string
	var modified bool

	for _, setting := range settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
			if len(revision) > 7 {
				revision = revision[:7]
			}
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}

	if revision == "" {
		return "dev"
	}
	if modified {
		return fmt.Sprintf("%s (dirty)", revision)
	}
	return revision
}
