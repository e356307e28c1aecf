// Where: internal/dsl/render.go
// What: Template rendering of artifacts against a resolved snapshot.
// Why: Templates read resolved values only and cannot drive the live session.
package dsl

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/poruru/dklet/internal/config"
	"github.com/poruru/dklet/internal/fileops"
	"github.com/poruru/dklet/internal/meta"
)

// Snapshot is the read-only view of resolved profile values a template sees.
type Snapshot struct {
	Env             string
	Release         string
	AppName         string
	ScriptName      string
	ScriptPath      string
	FullReleaseName string
	ReleasePathName string

	DockerImage   string
	ImageTag      string
	ImageLabels   string
	ContainerName string

	NetName     string
	BuildNet    string
	Approot     string
	ComposeName string

	DkstoreRoot string
	AppStore    string
	AppVolumes  string
	AppConfig   string

	ProxyDomains          string
	ProxyBaseDomain       string
	HostDomainInContainer string

	InDev          bool
	InProd         bool
	DefaultRelease bool

	Labels map[string]string
	// Vars holds every registered key with deferred values resolved.
	Vars   map[string]any
	Locals map[string]any

	releaseLabels []Label
	smartDomain   string
	railsEnv      string
	domainRelease string
	domainEnv     string
	domainDefault []string
	sslProxy      bool
	sslMail       string
	global        GlobalConfig
	// hostBinding is the only call back into the session; it queries the engine.
	hostBinding   func(port string, opts HostPortOptions) (string, error)
}

// Snapshot resolves the current profile into a template context.
func (s *Session) Snapshot(locals map[string]any) Snapshot {
	if locals == nil {
		locals = map[string]any{}
	}
	snap := Snapshot{
		Env:                   s.Env(),
		Release:               s.Release(),
		AppName:               s.AppName(),
		ScriptName:            s.ScriptName(),
		ScriptPath:            s.ScriptPath(),
		FullReleaseName:       s.FullReleaseName(),
		ReleasePathName:       s.ReleasePathName(),
		DockerImage:           s.DockerImage(),
		ImageTag:              s.ImageTag(),
		ImageLabels:           s.ImageLabels(),
		ContainerName:         s.ContainerName(),
		NetName:               s.NetName(),
		BuildNet:              s.BuildNet(),
		Approot:               s.Approot(),
		ComposeName:           s.ComposeName(),
		DkstoreRoot:           s.DkstoreRoot(),
		AppStore:              s.AppStore(),
		AppVolumes:            s.AppVolumes(),
		AppConfig:             s.AppConfig(),
		ProxyDomains:          s.ProxyDomains(),
		ProxyBaseDomain:       s.ProxyBaseDomain(),
		HostDomainInContainer: s.HostDomainInContainer(),
		InDev:                 s.InDev(),
		InProd:                s.InProd(),
		DefaultRelease:        s.IsDefaultRelease(),
		Labels:                s.ReleaseLabelMap(),
		Vars:                  s.Registry().Resolved(),
		Locals:                locals,
		releaseLabels:         s.ReleaseLabels(),
		smartDomain:           s.SmartProxyDomain(),
		railsEnv:              s.RailsEnv(),
		domainDefault:         s.domainFragments(nil),
		sslProxy:              s.SSLNginxProxy(),
		sslMail:               stringOf(s.DkletConfigFor(config.KeyLetsencryptMail)),
		global:                s.global,
		hostBinding: func(port string, opts HostPortOptions) (string, error) {
			return s.HostWithPortFor(s.ctx, port, opts)
		},
	}
	if !snap.DefaultRelease {
		snap.domainRelease = snap.Release
	}
	if !snap.InProd {
		snap.domainEnv = snap.Env
	}
	return snap
}

func (snap Snapshot) funcs() template.FuncMap {
	domains := func(doms ...string) string {
		if len(doms) == 0 {
			doms = snap.domainDefault
		}
		return JoinProxyDomains(doms, snap.domainRelease, snap.domainEnv, snap.ProxyBaseDomain)
	}
	return template.FuncMap{
		"volume": func(name string) string {
			if snap.AppVolumes == "" {
				return ""
			}
			return filepath.Join(snap.AppVolumes, name)
		},
		"configPath": func(name string) string {
			if snap.AppConfig == "" {
				return ""
			}
			return filepath.Join(snap.AppConfig, name)
		},
		"proxyDomains": domains,
		"proxyEnv": func(doms ...string) string {
			return strings.Join(proxyEnvItems(domains(doms...), snap.sslProxy, snap.sslMail), " -e ")
		},
		"label": LabelPair,
		"dkletConfig": func(keys ...string) any {
			if snap.global == nil || len(keys) == 0 {
				return nil
			}
			return snap.global.Lookup(keys...)
		},
		"fetch": func(key string) any {
			return snap.Vars[key]
		},
		// dockerRun takes "named" and "unlabeled" flags; other arguments are options.
		"dockerRun": func(args ...string) string {
			var opts RunCmdOptions
			var extra []string
			for _, arg := range args {
				switch arg {
				case "named":
					opts.Named = true
				case "unlabeled":
					opts.Unlabeled = true
				default:
					extra = append(extra, arg)
				}
			}
			opts.Opts = strings.Join(extra, " ")
			return composeRunCmd(snap.releaseLabels, snap.NetName, snap.ContainerName, opts)
		},
		"tmpRun": func(opts ...string) string {
			return composeTmpRunCmd(snap.NetName, snap.DockerImage, strings.Join(opts, " "))
		},
		"containerFilters": func() string {
			return labelFilters(snap.releaseLabels)
		},
		"smartProxyDomain": func() string { return snap.smartDomain },
		"railsEnv":         func() string { return snap.railsEnv },
		"findAppVolumes": func(env, app string, release ...string) string {
			rel := ""
			if len(release) > 0 {
				rel = release[0]
			}
			return appVolumesUnder(snap.DkstoreRoot, env, app, rel)
		},
		"hostWithPort": func(port string) (string, error) {
			return snap.hostBinding(port, HostPortOptions{})
		},
		"hostPort": func(port string) (string, error) {
			return snap.hostBinding(port, HostPortOptions{OnlyPort: true})
		},
	}
}

// RenderString evaluates tmpl against a snapshot of the session plus locals.
func (s *Session) RenderString(tmpl string, locals map[string]any) (string, error) {
	snap := s.Snapshot(locals)
	parsed, err := template.New("render").
		Funcs(sprig.TxtFuncMap()).
		Funcs(snap.funcs()).
		Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}
	var buf bytes.Buffer
	if err := parsed.Execute(&buf, snap); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

// Rendering renders tmpl into a newly allocated temp file and returns its
// path. An empty template renders nothing and returns "".
func (s *Session) Rendering(tmpl string, locals map[string]any) (string, error) {
	if tmpl == "" {
		return "", nil
	}
	rendered, err := s.RenderString(tmpl, locals)
	if err != nil {
		return "", err
	}
	return fileops.TempFileFor(s.tempDir, meta.RenderPrefix, rendered)
}

// RenderingTo renders tmpl into path, creating parent directories.
func (s *Session) RenderingTo(path, tmpl string, locals map[string]any) (string, error) {
	if tmpl == "" {
		return "", nil
	}
	rendered, err := s.RenderString(tmpl, locals)
	if err != nil {
		return "", err
	}
	if err := fileops.WriteFile(path, rendered); err != nil {
		return "", fmt.Errorf("write rendered file: %w", err)
	}
	return path, nil
}
