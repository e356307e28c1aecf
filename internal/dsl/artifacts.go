// Where: internal/dsl/artifacts.go
// What: Dockerfile/specfile registration, build context and compose composition.
// Why: Materialize templated artifacts and derive how to feed them to the engine.
package dsl

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/poruru/dklet/internal/fileops"
	"github.com/poruru/dklet/internal/meta"
)

var buildContextPattern = regexp.MustCompile(`(?im)^\s*(ADD|COPY)\s`)

// NeedsBuildContext reports whether a Dockerfile body has a line starting with
// ADD or COPY.
func NeedsBuildContext(dockerfile string) bool {
	return buildContextPattern.MatchString(dockerfile)
}

// TmpFileFor writes content to a fresh temp file and returns its path.
func (s *Session) TmpFileFor(content string) (string, error) {
	return fileops.TempFileFor(s.tempDir, meta.TmpPrefix, content)
}

// SetFileFor stores content in a temp file and registers its path under key.
func (s *Session) SetFileFor(key Key, content string) error {
	path, err := s.TmpFileFor(content)
	if err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	s.Set(key, path)
	return nil
}

// FileFor returns the path registered under key, or "".
func (s *Session) FileFor(key Key) string {
	return s.fetchString(key)
}

// FileContentFor reads the file registered under key. ok is false when no
// path is registered.
func (s *Session) FileContentFor(key Key) (content string, ok bool, err error) {
	path := s.FileFor(key)
	if path == "" {
		return "", false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return string(data), true, nil
}

// RenderedFileFor renders the raw template registered under key into a fresh
// temp file. Returns "" when no template is registered.
func (s *Session) RenderedFileFor(key Key, locals map[string]any) (string, error) {
	tmpl, ok, err := s.FileContentFor(key)
	if err != nil || !ok {
		return "", err
	}
	return s.Rendering(tmpl, locals)
}

// WriteDockerfile registers the Dockerfile template and, when buildRoot is not
// empty, the build context directory.
func (s *Session) WriteDockerfile(content, buildRoot string) error {
	if err := s.SetFileFor(KeyDockerfile, content); err != nil {
		return err
	}
	if buildRoot != "" {
		s.RegisterBuildRoot(buildRoot)
	}
	return nil
}

// RawDockerfile returns the path of the unrendered Dockerfile template.
func (s *Session) RawDockerfile() string {
	return s.FileFor(KeyDockerfile)
}

// Dockerfile renders the Dockerfile template and returns the rendered path.
func (s *Session) Dockerfile() (string, error) {
	return s.RenderedFileFor(KeyDockerfile, nil)
}

// WriteSpecfile registers the deployment spec (compose) template.
func (s *Session) WriteSpecfile(content string) error {
	return s.SetFileFor(KeySpecfile, content)
}

// RawSpecfile returns the path of the unrendered spec template.
func (s *Session) RawSpecfile() string {
	return s.FileFor(KeySpecfile)
}

// Specfile renders the spec template and returns the rendered path.
func (s *Session) Specfile() (string, error) {
	return s.RenderedFileFor(KeySpecfile, nil)
}

// RegisterBuildRoot sets the build context directory. Relative paths are
// resolved against the script directory; an empty path registers an explicit
// "no build context".
func (s *Session) RegisterBuildRoot(path string) {
	s.Set(KeyBuildRoot, s.resolvePath(path))
}

// BuildRoot returns the registered build context directory, or "".
func (s *Session) BuildRoot() string {
	return s.fetchString(KeyBuildRoot)
}

// SmartBuildContextPath returns the registered build root when one was
// registered (even empty). Otherwise it returns the script directory when the
// rendered Dockerfile ADDs or COPYs files, else "" to build from stdin.
func (s *Session) SmartBuildContextPath() (string, error) {
	if s.registry.Has(KeyBuildRoot) {
		return s.BuildRoot(), nil
	}
	path, err := s.Dockerfile()
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", ErrNoDockerfile
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read rendered dockerfile: %w", err)
	}
	if NeedsBuildContext(string(body)) {
		return s.ScriptPath(), nil
	}
	return "", nil
}

// RegisterBuildNet sets the network used during image builds.
func (s *Session) RegisterBuildNet(net string) {
	s.Set(KeyBuildNet, net)
}

// BuildNet returns the build network, or "".
func (s *Session) BuildNet() string {
	return s.fetchString(KeyBuildNet)
}

// RegisterApproot sets the compose project directory.
func (s *Session) RegisterApproot(path string) {
	s.Set(KeyApproot, s.resolvePath(path))
}

// Approot returns the registered approot, the build root, or the script directory.
func (s *Session) Approot() string {
	if root := s.fetchString(KeyApproot); root != "" {
		return root
	}
	if root := s.BuildRoot(); root != "" {
		return root
	}
	return s.ScriptPath()
}

// ComposeName is the compose project name "<env>-<compose_name|appname>".
func (s *Session) ComposeName() string {
	name := s.fetchString(KeyComposeName)
	if name == "" {
		name = s.AppName()
	}
	return s.Env() + "-" + name
}

// ComposeCmd composes the compose invocation prefix for the rendered spec.
// Returns "" when no spec template is registered.
func (s *Session) ComposeCmd() (string, error) {
	spec, err := s.Specfile()
	if err != nil || spec == "" {
		return "", err
	}
	return fmt.Sprintf("docker compose -f %s --project-name %s --project-directory %s",
		spec, s.ComposeName(), s.Approot()), nil
}

func (s *Session) resolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "~") {
		if expanded, err := fileops.ExpandHome(path); err == nil {
			return expanded
		}
	}
	if base := s.ScriptPath(); base != "" {
		return filepath.Join(base, path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
