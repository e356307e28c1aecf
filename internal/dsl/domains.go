// Where: internal/dsl/domains.go
// What: Reverse-proxy virtual host derivation and global config access.
// Why: Produce hosts like app.dev.lh, or app.lh in prod.
package dsl

import (
	"strings"

	"github.com/poruru/dklet/internal/config"
	"github.com/poruru/dklet/internal/constants"
	"github.com/poruru/dklet/internal/envutil"
	"github.com/poruru/dklet/internal/meta"
)

// RegisterDomain sets the domain fragments used by ProxyDomains.
func (s *Session) RegisterDomain(doms ...string) {
	s.Set(KeyDomains, append([]string(nil), doms...))
}

// DkletConfigFor looks up a nested global config value.
func (s *Session) DkletConfigFor(keys ...string) any {
	if s.global == nil || len(keys) == 0 {
		return nil
	}
	return s.global.Lookup(keys...)
}

// SSLNginxProxy reports whether the global config enables the SSL proxy companion.
func (s *Session) SSLNginxProxy() bool {
	return Truthy(s.DkletConfigFor(config.KeySSLNginxProxy))
}

// ProxyBaseDomain resolves PROXY_BASE_DOMAIN, the global base_domain, or "lh",
// with leading whitespace and dots removed.
func (s *Session) ProxyBaseDomain() string {
	base, ok := envutil.Get(s.lookup, constants.EnvProxyBaseDomain)
	if !ok {
		base = stringOf(s.DkletConfigFor(config.KeyBaseDomain))
	}
	if base == "" {
		base = meta.DefaultBaseDomain
	}
	return strings.TrimLeft(base, " \t\r\n.")
}

// ProxyDomains returns the comma-joined virtual hosts for doms, falling back to
// the registered domains and then the application name. Empty when no fragment
// is resolvable.
func (s *Session) ProxyDomains(doms ...string) string {
	doms = s.domainFragments(doms)
	release := s.Release()
	if release == meta.DefaultRelease {
		release = ""
	}
	env := s.Env()
	if s.InProd() {
		env = ""
	}
	return JoinProxyDomains(doms, release, env, s.ProxyBaseDomain())
}

func (s *Session) domainFragments(doms []string) []string {
	if len(doms) == 0 {
		doms = stringsOf(s.Fetch(KeyDomains))
	}
	if len(doms) == 0 {
		if app := s.AppName(); app != "" {
			doms = []string{app}
		}
	}
	return doms
}

// JoinProxyDomains builds "<dom>.<release>.<env>.<base>" per fragment, skipping
// empty segments, and joins fragments with ",".
func JoinProxyDomains(doms []string, release, env, base string) string {
	hosts := make([]string, 0, len(doms))
	for _, dom := range doms {
		if dom == "" {
			continue
		}
		hosts = append(hosts, joinPresent(".", dom, release, env, base))
	}
	return strings.Join(hosts, ",")
}

// ProxyDomainEnvItems returns the KEY=value environment entries a proxy
// companion container reads.
func (s *Session) ProxyDomainEnvItems(doms ...string) []string {
	return proxyEnvItems(s.ProxyDomains(doms...), s.SSLNginxProxy(), stringOf(s.DkletConfigFor(config.KeyLetsencryptMail)))
}

func proxyEnvItems(hosts string, ssl bool, mail string) []string {
	items := []string{"VIRTUAL_HOST=" + hosts}
	if ssl {
		items = append(items, "LETSENCRYPT_HOST="+hosts, "LETSENCRYPT_EMAIL="+mail)
	}
	return items
}

// ProxyDomainEnvFor joins ProxyDomainEnvItems for use after a "-e" flag.
func (s *Session) ProxyDomainEnvFor(doms ...string) string {
	return strings.Join(s.ProxyDomainEnvItems(doms...), " -e ")
}

// SmartProxyDomain returns the base domain itself when it already starts with
// the application name, otherwise ProxyDomains().
func (s *Session) SmartProxyDomain() string {
	base := s.ProxyBaseDomain()
	if app := s.AppName(); app != "" && strings.HasPrefix(base, app) {
		return base
	}
	return s.ProxyDomains()
}

// HostDomainInContainer resolves how containers reach the host.
func (s *Session) HostDomainInContainer() string {
	return envutil.GetOr(s.lookup, constants.EnvHostDomainInContainer, meta.DefaultHostDomain)
}
