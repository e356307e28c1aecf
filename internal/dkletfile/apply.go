// Where: internal/dkletfile/apply.go
// What: Register a decoded profile onto a session.
// Why: Keep the mapping from file fields to registry keys and hooks in one place.
package dkletfile

import (
	"context"
	"fmt"
	"sort"

	"github.com/poruru/dklet/internal/dsl"
)

// Actions runs rendered hook steps.
type Actions interface {
	// Sh runs script with the host shell.
	Sh(ctx context.Context, s *dsl.Session, script string) error
	// Exec runs script inside the ops container.
	Exec(ctx context.Context, s *dsl.Session, script string) error
}

// Apply registers every field of file onto s. Hook steps are rendered against
// the session when they run and dispatched to actions.
func Apply(s *dsl.Session, file *File, actions Actions) error {
	if file == nil {
		return nil
	}
	if err := applyVars(s, file.Vars); err != nil {
		return err
	}
	setString(s, dsl.KeyAppName, file.App)
	setString(s, dsl.KeyScriptName, file.ScriptName)
	setString(s, dsl.KeyDefaultEnv, file.DefaultEnv)
	setString(s, dsl.KeyDockerImage, file.Image)
	setString(s, dsl.KeyImageTag, file.ImageTag)
	setString(s, dsl.KeyImageLabels, file.ImageLabels)
	setString(s, dsl.KeyContainerName, file.ContainerName)
	setString(s, dsl.KeyOpsContainer, file.OpsContainer)
	setString(s, dsl.KeyNetName, file.Net)
	setString(s, dsl.KeyBuildNet, file.BuildNet)
	setString(s, dsl.KeyComposeName, file.ComposeName)
	setString(s, dsl.KeyDockerExecOpts, file.ExecOpts)

	if file.Approot != "" {
		s.RegisterApproot(file.Approot)
	}
	switch {
	case file.NoBuildContext:
		s.RegisterBuildRoot("")
	case file.BuildRoot != nil:
		s.RegisterBuildRoot(*file.BuildRoot)
	}
	if len(file.Domains) > 0 {
		s.RegisterDomain(file.Domains...)
	}
	for _, tag := range file.Tags {
		s.RegisterAppTag(tag)
	}
	for _, note := range file.Notes {
		s.AddNote(note)
	}
	for _, key := range file.Disable {
		s.Disable(key)
	}

	if file.Dockerfile != "" {
		if err := s.WriteDockerfile(file.Dockerfile, ""); err != nil {
			return err
		}
	}
	if file.Specfile != "" {
		if err := s.WriteSpecfile(file.Specfile); err != nil {
			return err
		}
	}

	names := make([]string, 0, len(file.Tasks))
	for name := range file.Tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		task := file.Tasks[name]
		if len(task.Options) > 0 {
			s.Task(name, nil, dsl.WithOptions(dsl.TaskOptions(task.Options)))
		}
		for _, step := range task.Before {
			s.Task(name, stepHook(step, actions), dsl.WithPhase(dsl.PhaseBefore))
		}
		for _, step := range task.After {
			s.Task(name, stepHook(step, actions))
		}
	}
	return nil
}

// applyVars registers free-form vars. Keys the session reads itself are
// rejected; they have dedicated fields.
func applyVars(s *dsl.Session, vars map[string]string) error {
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if dsl.Key(key).Reserved() {
			return fmt.Errorf("%w: vars.%s", ErrReservedVar, key)
		}
		s.Set(dsl.Key(key), vars[key])
	}
	return nil
}

func setString(s *dsl.Session, key dsl.Key, value string) {
	if value != "" {
		s.Set(key, value)
	}
}

func stepHook(step Step, actions Actions) dsl.Hook {
	return func(ctx context.Context, s *dsl.Session) error {
		if actions == nil {
			return fmt.Errorf("no runner for hook step")
		}
		if step.Exec != "" {
			script, err := s.RenderString(step.Exec, nil)
			if err != nil {
				return err
			}
			return actions.Exec(ctx, s, script)
		}
		script, err := s.RenderString(step.Sh, nil)
		if err != nil {
			return err
		}
		return actions.Sh(ctx, s, script)
	}
}
