// Where: internal/dsl/keys.go
// What: Enumerated registry keys.
// Why: Replace free-form symbols with a typed key set shared by the registry and defaults table.
package dsl

// Key identifies a registry entry. Any Key value is legal; the constants below
// are the keys the session itself reads.
type Key string

const (
	KeyDockerImage    Key = "docker_image"
	KeyImageTag       Key = "image_tag"
	KeyImageLabels    Key = "image_labels"
	KeyContainerName  Key = "container_name"
	KeyOpsContainer   Key = "ops_container"
	KeyAppStore       Key = "app_store"
	KeyAppVolumes     Key = "app_volumes"
	KeyAppConfig      Key = "app_config"
	KeyAppName        Key = "appname"
	KeyScriptName     Key = "script_name"
	KeyDefaultEnv     Key = "default_env"
	KeyDomains        Key = "domains"
	KeyNetName        Key = "netname"
	KeyBuildRoot      Key = "build_root"
	KeyBuildNet       Key = "build_net"
	KeyApproot        Key = "approot"
	KeyComposeName    Key = "compose_name"
	KeyDockerfile     Key = "dockerfile"
	KeySpecfile       Key = "specfile"
	KeyDockerExecOpts Key = "docker_exec_opts"
)

var reservedKeys = map[Key]bool{
	KeyDockerImage: true, KeyImageTag: true, KeyImageLabels: true, KeyContainerName: true,
	KeyOpsContainer: true, KeyAppStore: true, KeyAppVolumes: true, KeyAppConfig: true,
	KeyAppName: true, KeyScriptName: true, KeyDefaultEnv: true, KeyDomains: true,
	KeyNetName: true, KeyBuildRoot: true, KeyBuildNet: true, KeyApproot: true,
	KeyComposeName: true, KeyDockerfile: true, KeySpecfile: true, KeyDockerExecOpts: true,
}

// Reserved reports whether the session itself reads k, so its value must have
// the shape the session expects.
func (k Key) Reserved() bool {
	return reservedKeys[k]
}

// dslMethods are the keys exposed as accessor sugar over FetchWithDefault.
var dslMethods = []Key{
	KeyDockerImage,
	KeyImageTag,
	KeyImageLabels,
	KeyContainerName,
	KeyOpsContainer,
	KeyAppStore,
	KeyAppVolumes,
	KeyAppConfig,
}

// DSLMethods returns the keys that have dedicated accessors on Session.
func DSLMethods() []Key {
	return append([]Key(nil), dslMethods...)
}
