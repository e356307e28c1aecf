// Where: internal/dsl/images.go
// What: Image naming, release labels and docker run composition.
// Why: Scope containers to a profile by labels rather than by name matching.
package dsl

import (
	"context"
	"fmt"
	"strings"

	"github.com/poruru/dklet/internal/meta"
)

// Release label keys attached to every labelled container.
const (
	LabelEnv     = "dklet_env"
	LabelApp     = "dklet_app"
	LabelRelease = "dklet_release"
)

// Label is a single key=value container label.
type Label struct {
	Key   string
	Value string
}

func (l Label) String() string {
	return l.Key + "=" + l.Value
}

// RegisterDockerImage sets the image reference explicitly.
func (s *Session) RegisterDockerImage(name string) {
	s.Set(KeyDockerImage, name)
}

// release is not part of the image name
func (s *Session) defaultDockerImage() any {
	app := s.AppName()
	if app == "" {
		return nil
	}
	return fmt.Sprintf("%s/%s:%s", s.Env(), app, s.ImageTag())
}

func (s *Session) defaultImageTag() any {
	return meta.DefaultImageTag
}

func (s *Session) defaultImageLabels() any {
	return meta.DefaultImageLabel
}

// ReleaseLabels returns the env/app/release labels in a fixed order.
func (s *Session) ReleaseLabels() []Label {
	return []Label{
		{Key: LabelEnv, Value: s.Env()},
		{Key: LabelApp, Value: s.AppName()},
		{Key: LabelRelease, Value: s.Release()},
	}
}

// ReleaseLabelMap returns ReleaseLabels as a map.
func (s *Session) ReleaseLabelMap() map[string]string {
	out := map[string]string{}
	for _, label := range s.ReleaseLabels() {
		out[label.Key] = label.Value
	}
	return out
}

// RunCmdOptions adjusts DockerRunCmd output.
type RunCmdOptions struct {
	// Unlabeled omits the release labels.
	Unlabeled bool
	// Named adds --name with the container name.
	Named bool
	// Opts is appended verbatim.
	Opts string
}

// DockerRunCmd composes a "docker run" prefix for this profile. The image and
// command are left to the caller.
func (s *Session) DockerRunCmd(opts RunCmdOptions) string {
	return composeRunCmd(s.ReleaseLabels(), s.NetName(), s.ContainerName(), opts)
}

// TmpRunCmd composes an interactive, auto-removed run of the profile image.
func (s *Session) TmpRunCmd(opts string) string {
	return composeTmpRunCmd(s.NetName(), s.DockerImage(), opts)
}

// ContainerFilters renders the release labels as docker CLI filters.
func (s *Session) ContainerFilters() string {
	return labelFilters(s.ReleaseLabels())
}

func composeRunCmd(labels []Label, net, name string, opts RunCmdOptions) string {
	parts := []string{"docker run"}
	if !opts.Unlabeled {
		for _, label := range labels {
			parts = append(parts, "--label="+label.String())
		}
	}
	if net != "" {
		parts = append(parts, "--net "+net)
	}
	if opts.Named {
		parts = append(parts, "--name "+name)
	}
	if extra := strings.TrimSpace(opts.Opts); extra != "" {
		parts = append(parts, extra)
	}
	return strings.Join(parts, " ")
}

func composeTmpRunCmd(net, image, opts string) string {
	runOpts := strings.TrimSpace("--rm -i " + opts)
	return composeRunCmd(nil, net, "", RunCmdOptions{Unlabeled: true, Opts: runOpts}) + " " + image
}

func labelFilters(labels []Label) string {
	parts := make([]string, 0, len(labels))
	for _, label := range labels {
		parts = append(parts, "--filter label="+label.String())
	}
	return strings.Join(parts, " ")
}

// ContainersForRelease lists containers labelled for this profile.
func (s *Session) ContainersForRelease(ctx context.Context) ([]string, error) {
	if s.engine == nil {
		return nil, nil
	}
	return s.engine.ContainersByLabels(ctx, s.ReleaseLabelMap())
}

// ContainersForImage lists containers created from image (the profile image
// when empty). Tags pointing at the same image digest match each other.
func (s *Session) ContainersForImage(ctx context.Context, image string) ([]string, error) {
	if image == "" {
		image = s.DockerImage()
	}
	if s.engine == nil || image == "" {
		return nil, nil
	}
	return s.engine.ContainersByAncestor(ctx, image)
}

// RegisterOps pins the container that exec-style commands target.
func (s *Session) RegisterOps(cid string) {
	s.Set(KeyOpsContainer, cid)
}

func (s *Session) defaultOpsContainer() any {
	ids, err := s.ContainersForRelease(s.ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("list release containers")
	}
	if len(ids) > 0 {
		return ids[0]
	}
	if s.RawSpecfile() == "" {
		return nil
	}
	ids, err = s.ContainersForImage(s.ctx, "")
	if err != nil {
		s.logger.Warn().Err(err).Msg("list image containers")
	}
	if len(ids) > 0 {
		return ids[0]
	}
	return nil
}
