// Where: internal/constants/env.go
// What: Environment variable naming constants.
// Why: Centralize environment variable names to avoid typos and inconsistencies.
package constants

const (
	// Profile Selection
	EnvAppEnv     = "APP_ENV"
	EnvAppRelease = "APP_RELEASE"

	// Storage
	EnvDkstoreRoot  = "DKSTORE_ROOT"
	EnvLocalEnvFile = "LOCAL_ENV_FILE"

	// Build
	EnvGemMirror = "GEM_MIRROR"

	// Networking
	EnvHostDomainInContainer = "HOST_DOMAIN_IN_CONTAINER"
	EnvProxyBaseDomain       = "PROXY_BASE_DOMAIN"

	// CLI
	EnvConfigPath = "DKLET_CONFIG"
	EnvAppFile    = "DKLET_FILE"
)
