// Where: internal/dsl/session.go
// What: Per-invocation configuration session and default resolver.
// Why: Own registry, defaults, hooks and collaborators explicitly instead of process globals.
package dsl

import (
	"context"
	"errors"

	"github.com/poruru/dklet/internal/envutil"
	"github.com/rs/zerolog"
)

var (
	// ErrNoEngine is returned by operations that must mutate engine state when no engine is configured.
	ErrNoEngine = errors.New("container engine not configured")
	// ErrNoDockerfile is returned when an operation needs a Dockerfile and none is registered.
	ErrNoDockerfile = errors.New("no dockerfile registered")
)

// Engine is the narrow view of the container engine the session queries.
// Identifiers it returns are opaque.
type Engine interface {
	ContainersByLabels(ctx context.Context, labels map[string]string) ([]string, error)
	ContainersByAncestor(ctx context.Context, image string) ([]string, error)
	ContainersInNetwork(ctx context.Context, network string) ([]string, error)
	NetworkByLabel(ctx context.Context, key, value string) (string, error)
	CreateNetwork(ctx context.Context, name, driver string, labels map[string]string) (string, error)
	// HostBinding returns "ip:port" for a published container port, or "" when unpublished.
	HostBinding(ctx context.Context, container, port string) (string, error)
}

// GlobalConfig is the read-only global user configuration.
type GlobalConfig interface {
	Lookup(keys ...string) any
}

// DefaultProvider computes the fallback value for a key.
type DefaultProvider func(s *Session) any

// Options configures a Session.
type Options struct {
	// ScriptFile is the application file whose name and directory seed name derivation.
	ScriptFile string
	// Lookup resolves environment variables; os.LookupEnv when nil.
	Lookup envutil.LookupFunc
	Global GlobalConfig
	Engine Engine
	Logger zerolog.Logger
	// TempDir receives rendered artifacts; the OS temp dir when empty.
	TempDir string
	// Context bounds engine queries made while resolving defaults.
	Context context.Context
}

// Session is the configuration context for a single command invocation.
type Session struct {
	registry   *Registry
	defaults   map[Key]DefaultProvider
	hooks      *Hooks
	lookup     envutil.LookupFunc
	global     GlobalConfig
	engine     Engine
	logger     zerolog.Logger
	scriptFile string
	tempDir    string
	ctx        context.Context
	hostIP     func() (string, error)

	notes    []string
	tags     []string
	disabled map[string]bool
}

// New constructs a Session with the built-in default providers.
func New(opts Options) *Session {
	lookup := opts.Lookup
	if lookup == nil {
		lookup = envutil.OS()
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	s := &Session{
		registry:   NewRegistry(),
		defaults:   builtinDefaults(),
		hooks:      NewHooks(),
		lookup:     lookup,
		global:     opts.Global,
		engine:     opts.Engine,
		logger:     opts.Logger,
		scriptFile: opts.ScriptFile,
		tempDir:    opts.TempDir,
		ctx:        ctx,
		hostIP:     firstHostIPv4,
		disabled:   map[string]bool{},
	}
	return s
}

func builtinDefaults() map[Key]DefaultProvider {
	return map[Key]DefaultProvider{
		KeyDockerImage:   (*Session).defaultDockerImage,
		KeyImageTag:      (*Session).defaultImageTag,
		KeyImageLabels:   (*Session).defaultImageLabels,
		KeyContainerName: (*Session).defaultContainerName,
		KeyOpsContainer:  (*Session).defaultOpsContainer,
		KeyAppStore:      (*Session).defaultAppStore,
		KeyAppVolumes:    (*Session).defaultAppVolumes,
		KeyAppConfig:     (*Session).defaultAppConfig,
	}
}

// Registry exposes the underlying registry.
func (s *Session) Registry() *Registry { return s.registry }

// Hooks exposes the task hook registry.
func (s *Session) Hooks() *Hooks { return s.hooks }

// Logger returns the session logger.
func (s *Session) Logger() zerolog.Logger { return s.logger }

// Engine returns the configured engine, or nil.
func (s *Session) Engine() Engine { return s.engine }

// Register stores value for key.
func (s *Session) Register(key Key, value Value) { s.registry.Register(key, value) }

// Set stores a literal for key.
func (s *Session) Set(key Key, v any) { s.registry.Set(key, v) }

// Fetch returns the resolved registry value for key, or nil.
func (s *Session) Fetch(key Key) any { return s.registry.Fetch(key) }

// RegisterDefault installs or replaces the default provider for key.
func (s *Session) RegisterDefault(key Key, provider DefaultProvider) {
	if provider == nil {
		delete(s.defaults, key)
		return
	}
	s.defaults[key] = provider
}

// HasDefault reports whether key has a default provider.
func (s *Session) HasDefault(key Key) bool {
	_, ok := s.defaults[key]
	return ok
}

// FetchWithDefault returns the registry value for key when it resolves truthy,
// otherwise the key's default provider result, otherwise nil. A registered
// value that resolves falsy does not suppress the default.
func (s *Session) FetchWithDefault(key Key) any {
	if provided := s.registry.Fetch(key); Truthy(provided) {
		return provided
	}
	if provider, ok := s.defaults[key]; ok {
		return provider(s)
	}
	return nil
}

func (s *Session) fetchString(key Key) string {
	return stringOf(s.registry.Fetch(key))
}

func (s *Session) stringWithDefault(key Key) string {
	return stringOf(s.FetchWithDefault(key))
}

// DockerImage resolves the image reference.
func (s *Session) DockerImage() string { return s.stringWithDefault(KeyDockerImage) }

// ImageTag resolves the image tag.
func (s *Session) ImageTag() string { return s.stringWithDefault(KeyImageTag) }

// ImageLabels resolves the image label string.
func (s *Session) ImageLabels() string { return s.stringWithDefault(KeyImageLabels) }

// ContainerName resolves the container name.
func (s *Session) ContainerName() string { return s.stringWithDefault(KeyContainerName) }

// OpsContainer resolves the container that exec-style commands target.
func (s *Session) OpsContainer() string { return s.stringWithDefault(KeyOpsContainer) }

// AppStore resolves the application storage root.
func (s *Session) AppStore() string { return s.stringWithDefault(KeyAppStore) }

// AppVolumes resolves the application volumes root.
func (s *Session) AppVolumes() string { return s.stringWithDefault(KeyAppVolumes) }

// AppConfig resolves the application config root.
func (s *Session) AppConfig() string { return s.stringWithDefault(KeyAppConfig) }
