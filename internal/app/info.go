// Where: internal/app/info.go
// What: Read-only commands: note, spec, image-name, image, ps and inspect.
// Why: Show what a profile resolves to without changing anything.
package app

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/poruru/dklet/internal/dsl"
	"gopkg.in/yaml.v3"
	sigsyaml "sigs.k8s.io/yaml"
)

type NoteCmd struct{}

type SpecCmd struct {
	Spec       bool `default:"true" negatable:"" help:"Show rendered specfile"`
	Dockerfile bool `default:"true" negatable:"" help:"Show rendered Dockerfile"`
	JSON       bool `name:"json" help:"Print the rendered specfile as JSON"`
}

type ImageNameCmd struct{}

type ImageCmd struct{}

type PsCmd struct {
	Image bool `help:"Containers from the same image digest"`
	All   bool `short:"a" help:"All container names"`
}

type InspectCmd struct {
	Image     bool   `short:"i" help:"Inspect image"`
	Container bool   `short:"c" help:"Inspect container"`
	Format    string `enum:"yaml,json" default:"yaml" help:"Profile output format (yaml|json)"`
}

func runNote(rt *runtime) error {
	notes := rt.session.UserNotes()
	if len(notes) > 0 {
		rt.console.Line(strings.Join(notes, "\n"))
	}
	return nil
}

func runSpec(rt *runtime) error {
	s := rt.session
	cmd := rt.cli.Spec
	if cmd.Spec && s.RawSpecfile() != "" {
		path, err := s.Specfile()
		if err != nil {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read specfile: %w", err)
		}
		if cmd.JSON {
			converted, err := sigsyaml.YAMLToJSON(content)
			if err != nil {
				return fmt.Errorf("convert specfile: %w", err)
			}
			content = append(converted, '\n')
		}
		fmt.Fprint(rt.deps.Out, string(content))
		if rt.cli.Debug {
			rt.console.Line("# rendered at " + path)
		}
	}
	if cmd.Dockerfile && !cmd.JSON && s.RawDockerfile() != "" {
		path, err := s.Dockerfile()
		if err != nil {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read dockerfile: %w", err)
		}
		fmt.Fprint(rt.deps.Out, string(content))
		if rt.cli.Debug {
			rt.console.Line("# Dockerfile at " + path)
		}
	}
	return nil
}

func runImageName(rt *runtime) error {
	rt.console.Line(rt.session.DockerImage())
	return nil
}

func runImage(rt *runtime) error {
	return rt.system("docker images " + rt.session.DockerImage())
}

func runPs(rt *runtime) error {
	s := rt.session
	switch {
	case rt.cli.Ps.Image:
		return rt.system(fmt.Sprintf("docker ps -f ancestor=%s -a", s.DockerImage()))
	case rt.cli.Ps.All:
		return rt.system("docker ps --format '{{.Names}}' -a | sort")
	default:
		return rt.system(fmt.Sprintf("docker ps %s -a", s.ContainerFilters()))
	}
}

// profileInfo is the resolved profile printed by inspect.
type profileInfo struct {
	Script          string            `yaml:"script" json:"script"`
	ScriptPath      string            `yaml:"script_path" json:"script_path"`
	ScriptName      string            `yaml:"script_name" json:"script_name"`
	AppName         string            `yaml:"appname" json:"appname"`
	Env             string            `yaml:"env" json:"env"`
	Release         string            `yaml:"release" json:"release"`
	FullReleaseName string            `yaml:"full_release_name" json:"full_release_name"`
	ContainerName   string            `yaml:"container_name" json:"container_name"`
	OpsContainer    string            `yaml:"ops_container" json:"ops_container"`
	Image           string            `yaml:"image" json:"image"`
	Approot         string            `yaml:"approot" json:"approot"`
	BuildRoot       string            `yaml:"build_root" json:"build_root"`
	BuildNet        string            `yaml:"build_net" json:"build_net"`
	ReleaseLabels   map[string]string `yaml:"release_labels" json:"release_labels"`
	Network         string            `yaml:"network" json:"network"`
	Domains         string            `yaml:"domains" json:"domains"`
	AppStore        string            `yaml:"app_store" json:"app_store"`
	AppConfig       string            `yaml:"app_config" json:"app_config"`
	AppVolumes      string            `yaml:"app_volumes" json:"app_volumes"`
	Tags            []string          `yaml:"tags" json:"tags"`
	DSLMethods      []dsl.Key         `yaml:"dsl_methods" json:"dsl_methods"`
	Registry        map[string]any    `yaml:"registry" json:"registry"`
}

func collectInfo(s *dsl.Session) profileInfo {
	return profileInfo{
		Script:          s.ScriptFile(),
		ScriptPath:      s.ScriptPath(),
		ScriptName:      s.ScriptName(),
		AppName:         s.AppName(),
		Env:             s.Env(),
		Release:         s.Release(),
		FullReleaseName: s.FullReleaseName(),
		ContainerName:   s.ContainerName(),
		OpsContainer:    s.OpsContainer(),
		Image:           s.DockerImage(),
		Approot:         s.Approot(),
		BuildRoot:       s.BuildRoot(),
		BuildNet:        s.BuildNet(),
		ReleaseLabels:   s.ReleaseLabelMap(),
		Network:         s.NetName(),
		Domains:         s.ProxyDomains(),
		AppStore:        s.AppStore(),
		AppConfig:       s.AppConfig(),
		AppVolumes:      s.AppVolumes(),
		Tags:            s.AppTags(),
		DSLMethods:      dsl.DSLMethods(),
		Registry:        s.Registry().Resolved(),
	}
}

func runInspect(rt *runtime) error {
	s := rt.session
	cmd := rt.cli.Inspect
	switch {
	case cmd.Image:
		return rt.system("docker inspect " + s.DockerImage())
	case cmd.Container:
		cid := ""
		cids, err := s.ContainersForRelease(rt.ctx)
		if err != nil {
			return fmt.Errorf("list release containers: %w", err)
		}
		if len(cids) > 0 {
			cid = cids[0]
		}
		if cid == "" {
			cid = s.ContainerName()
		}
		if cid == "" {
			cid = s.OpsContainer()
		}
		if cid == "" {
			return ErrNoContainer
		}
		return rt.system("docker inspect " + cid)
	}

	info := collectInfo(s)
	if cmd.Format == "json" {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("encode info: %w", err)
		}
		fmt.Fprintln(rt.deps.Out, string(data))
		return nil
	}
	data, err := yaml.Marshal(info)
	if err != nil {
		return fmt.Errorf("encode info: %w", err)
	}
	fmt.Fprint(rt.deps.Out, string(data))
	return nil
}
