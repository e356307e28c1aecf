// Where: internal/dsl/storage.go
// What: On-disk application storage layout.
// Why: Give each profile a stable volumes/config home under the store root.
package dsl

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/poruru/dklet/internal/constants"
	"github.com/poruru/dklet/internal/envutil"
	"github.com/poruru/dklet/internal/fileops"
	"github.com/poruru/dklet/internal/meta"
)

// DkstoreRoot resolves DKSTORE_ROOT, or ~/dkstore, as an absolute path.
func (s *Session) DkstoreRoot() string {
	root := envutil.GetOr(s.lookup, constants.EnvDkstoreRoot, "~/"+meta.StoreDir)
	expanded, err := fileops.ExpandHome(root)
	if err != nil {
		return root
	}
	return expanded
}

func (s *Session) defaultAppStore() any {
	name := s.ReleasePathName()
	if name == "" {
		return nil
	}
	return filepath.Join(s.DkstoreRoot(), s.Env(), name)
}

func (s *Session) defaultAppVolumes() any {
	store := s.AppStore()
	if store == "" {
		return nil
	}
	return filepath.Join(store, "volumes")
}

func (s *Session) defaultAppConfig() any {
	store := s.AppStore()
	if store == "" {
		return nil
	}
	return filepath.Join(store, "config")
}

// AppVolumeFor returns the path for a named volume, creating the volumes root.
func (s *Session) AppVolumeFor(name string) (string, error) {
	return ensureChild(s.AppVolumes(), name)
}

// AppConfigFor returns the path for a named config entry, creating the config root.
func (s *Session) AppConfigFor(name string) (string, error) {
	return ensureChild(s.AppConfig(), name)
}

// FindAppVolumes returns the volumes root of another profile.
func (s *Session) FindAppVolumes(env, app, release string) string {
	return appVolumesUnder(s.DkstoreRoot(), env, app, release)
}

func appVolumesUnder(root, env, app, release string) string {
	if release == "" {
		release = meta.DefaultRelease
	}
	return filepath.Join(root, env, strings.Join([]string{env, app, release}, "-"), "volumes")
}

func ensureChild(root, name string) (string, error) {
	if root == "" {
		return "", nil
	}
	root, err := fileops.ExpandHome(root)
	if err != nil {
		return "", err
	}
	if !fileops.IsDir(root) {
		if err := fileops.EnsureDir(root); err != nil {
			return "", fmt.Errorf("create %s: %w", root, err)
		}
	}
	return filepath.Join(root, name), nil
}
