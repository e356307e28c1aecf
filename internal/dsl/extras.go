// Where: internal/dsl/extras.go
// What: Notes, app tags, disabled features and local env file helpers.
package dsl

import (
	"github.com/poruru/dklet/internal/constants"
	"github.com/poruru/dklet/internal/envutil"
)

// Disable marks a feature key as disabled.
func (s *Session) Disable(key string) {
	s.disabled[key] = true
}

// Disabled reports whether a feature key was disabled.
func (s *Session) Disabled(key string) bool {
	return s.disabled[key]
}

// AddNote appends a user-facing note shown by the note command.
func (s *Session) AddNote(note string) {
	s.notes = append(s.notes, note)
}

// UserNotes returns the registered notes.
func (s *Session) UserNotes() []string {
	return append([]string(nil), s.notes...)
}

// RegisterAppTag attaches a tag that enables tag-specific commands.
func (s *Session) RegisterAppTag(tag string) {
	for _, existing := range s.tags {
		if existing == tag {
			return
		}
	}
	s.tags = append(s.tags, tag)
}

// AppTags returns the registered tags in registration order.
func (s *Session) AppTags() []string {
	return append([]string(nil), s.tags...)
}

// HasAppTag reports whether tag was registered.
func (s *Session) HasAppTag(tag string) bool {
	for _, existing := range s.tags {
		if existing == tag {
			return true
		}
	}
	return false
}

// LocalEnvFile resolves LOCAL_ENV_FILE, or "env.local" under the app config root.
func (s *Session) LocalEnvFile() (string, error) {
	if path, ok := envutil.Get(s.lookup, constants.EnvLocalEnvFile); ok {
		return path, nil
	}
	return s.AppConfigFor("env.local")
}

// RailsEnv maps the environment onto Rails naming.
func (s *Session) RailsEnv() string {
	switch {
	case s.InDev():
		return "development"
	case s.InProd():
		return "production"
	default:
		return s.Env()
	}
}

// DockerExecOpts returns extra options passed to every "docker exec".
func (s *Session) DockerExecOpts() string {
	return s.fetchString(KeyDockerExecOpts)
}
