// Where: internal/meta/meta.go
// What: CLI-local metadata constants.
// Why: Keep brand names, label prefixes, and file names in one place.
package meta

const (
	// Project Identity
	AppName     = "dklet"
	LabelPrefix = "docklet"

	// Files and Directories
	GlobalConfigFile = ".dklet.yml"
	DefaultAppFile   = "dklet.yml"
	StoreDir         = "dkstore"
	TmpPrefix        = "dklet-tmp"
	RenderPrefix     = "dklet-render"
	LogFile          = "dklet.log"

	// Defaults
	DefaultEnv        = "dev"
	DefaultRelease    = "default"
	DefaultImageTag   = "edge"
	DefaultImageLabel = "maintainer=dailyops built_from=dklet"
	DefaultBaseDomain = "lh"
	DefaultHostDomain = "host.docker.internal"
	DefaultNetDriver  = "bridge"
)
