// Where: internal/config/global.go
// What: Global user config loading (~/.dklet.yml).
// Why: Provide the lowest-priority fallback values (base domain, SSL proxy, mail).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/poruru/dklet/internal/constants"
	"github.com/poruru/dklet/internal/envutil"
	"github.com/poruru/dklet/internal/meta"
)

// Well-known global config keys.
const (
	KeyBaseDomain      = "base_domain"
	KeySSLNginxProxy   = "ssl_nginx_proxy"
	KeyLetsencryptMail = "letsencrypt_mail"
)

// Global is a read-only view of the global user configuration document.
// A zero Global behaves as an empty configuration.
type Global struct {
	path string
	k    *koanf.Koanf
}

// GlobalConfigPath returns the path to the global config file.
// Respects the DKLET_CONFIG environment variable.
func GlobalConfigPath(lookup envutil.LookupFunc) (string, error) {
	if override, ok := envutil.Get(lookup, constants.EnvConfigPath); ok {
		if filepath.IsAbs(override) {
			return override, nil
		}
		return filepath.Abs(override)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, meta.GlobalConfigFile), nil
}

// LoadGlobal reads and parses the global configuration file at path.
// A missing file yields an empty configuration.
func LoadGlobal(path string) (*Global, error) {
	k := koanf.New(".")
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Global{path: path, k: k}, nil
		}
		return nil, err
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load global config %s: %w", path, err)
	}
	return &Global{path: path, k: k}, nil
}

var (
	defaultOnce   sync.Once
	defaultGlobal *Global
	defaultErr    error
)

// DefaultGlobal loads the global config from GlobalConfigPath at most once per process.
func DefaultGlobal() (*Global, error) {
	defaultOnce.Do(func() {
		path, err := GlobalConfigPath(envutil.OS())
		if err != nil {
			defaultErr = err
			return
		}
		defaultGlobal, defaultErr = LoadGlobal(path)
	})
	return defaultGlobal, defaultErr
}

// Path returns the file the configuration was loaded from.
func (g *Global) Path() string {
	if g == nil {
		return ""
	}
	return g.path
}

// Lookup walks nested keys and returns the value found, or nil.
// Example: Lookup("proxy", "base_domain")
func (g *Global) Lookup(keys ...string) any {
	if g == nil || g.k == nil || len(keys) == 0 {
		return nil
	}
	return g.k.Get(strings.Join(keys, "."))
}

// String returns the string form of a nested value, or "" when absent.
func (g *Global) String(keys ...string) string {
	value := g.Lookup(keys...)
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

// Bool reports whether a nested value is present and truthy.
func (g *Global) Bool(keys ...string) bool {
	switch value := g.Lookup(keys...).(type) {
	case nil:
		return false
	case bool:
		return value
	case string:
		return value != "" && !strings.EqualFold(value, "false")
	default:
		return true
	}
}
