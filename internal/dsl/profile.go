// Where: internal/dsl/profile.go
// What: Environment, release and application name derivation.
// Why: Resolve the (env, app, release) profile fresh on every read.
package dsl

import (
	"path/filepath"
	"strings"

	"github.com/poruru/dklet/internal/constants"
	"github.com/poruru/dklet/internal/envutil"
	"github.com/poruru/dklet/internal/meta"
)

// RegisterDefaultEnv sets the environment used when APP_ENV is unset.
func (s *Session) RegisterDefaultEnv(env string) {
	s.Set(KeyDefaultEnv, env)
}

// Env resolves APP_ENV, then the registered default env, then "dev".
func (s *Session) Env() string {
	if env, ok := envutil.Get(s.lookup, constants.EnvAppEnv); ok {
		return env
	}
	if env := s.fetchString(KeyDefaultEnv); env != "" {
		return env
	}
	return meta.DefaultEnv
}

// InDev reports whether the environment starts with "dev".
func (s *Session) InDev() bool {
	return strings.HasPrefix(s.Env(), "dev")
}

// InProd reports whether the environment starts with "prod".
func (s *Session) InProd() bool {
	return strings.HasPrefix(s.Env(), "prod")
}

// Release resolves APP_RELEASE, or "default".
func (s *Session) Release() string {
	return envutil.GetOr(s.lookup, constants.EnvAppRelease, meta.DefaultRelease)
}

// IsDefaultRelease reports whether the release is the literal default.
func (s *Session) IsDefaultRelease() bool {
	return s.Release() == meta.DefaultRelease
}

// ScriptFile returns the application file path the session was built from.
func (s *Session) ScriptFile() string {
	return s.scriptFile
}

// ScriptPath returns the absolute directory of the application file, with
// symlinks resolved when possible. Empty when no file is configured.
func (s *Session) ScriptPath() string {
	if s.scriptFile == "" {
		return ""
	}
	abs, err := filepath.Abs(s.scriptFile)
	if err != nil {
		return filepath.Dir(s.scriptFile)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return filepath.Dir(abs)
}

// ScriptName returns the registered script name, or
// "<parent dir>_<file name without extension>".
func (s *Session) ScriptName() string {
	if name := s.fetchString(KeyScriptName); name != "" {
		return name
	}
	if s.scriptFile == "" {
		return ""
	}
	base := filepath.Base(s.scriptFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	parent := filepath.Base(s.ScriptPath())
	return parent + "_" + name
}

// RegisterAppName sets the application name explicitly.
func (s *Session) RegisterAppName(name string) {
	s.Set(KeyAppName, name)
}

// AppName returns the registered application name, or the script name.
func (s *Session) AppName() string {
	if name := s.fetchString(KeyAppName); name != "" {
		return name
	}
	return s.ScriptName()
}

// FullReleaseName joins env, app and release with "_", skipping empty segments.
func (s *Session) FullReleaseName() string {
	return joinPresent("_", s.Env(), s.AppName(), s.Release())
}

// ReleasePathName is the full release name made path friendly.
func (s *Session) ReleasePathName() string {
	return strings.ReplaceAll(s.FullReleaseName(), "_", "-")
}

// container hostnames cannot carry underscores
func (s *Session) defaultContainerName() any {
	name := s.FullReleaseName()
	if name == "" {
		return nil
	}
	return strings.ReplaceAll(name, "_", "-")
}

func joinPresent(sep string, parts ...string) string {
	present := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			present = append(present, part)
		}
	}
	return strings.Join(present, sep)
}
