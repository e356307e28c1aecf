package dsl

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poruru/dklet/internal/envutil"
)

type fakeGlobal map[string]any

func (g fakeGlobal) Lookup(keys ...string) any {
	return g[strings.Join(keys, ".")]
}

type fakeEngine struct {
	byLabels    []string
	byAncestor  []string
	inNetwork   []string
	networkID   string
	createdID   string
	binding     string
	err         error
	labelsSeen  []map[string]string
	ancestors   []string
	created     []string
	createdWith map[string]string
}

func (f *fakeEngine) ContainersByLabels(_ context.Context, labels map[string]string) ([]string, error) {
	f.labelsSeen = append(f.labelsSeen, labels)
	return f.byLabels, f.err
}

func (f *fakeEngine) ContainersByAncestor(_ context.Context, image string) ([]string, error) {
	f.ancestors = append(f.ancestors, image)
	return f.byAncestor, f.err
}

func (f *fakeEngine) ContainersInNetwork(_ context.Context, _ string) ([]string, error) {
	return f.inNetwork, f.err
}

func (f *fakeEngine) NetworkByLabel(_ context.Context, _, _ string) (string, error) {
	return f.networkID, f.err
}

func (f *fakeEngine) CreateNetwork(_ context.Context, name, _ string, labels map[string]string) (string, error) {
	f.created = append(f.created, name)
	f.createdWith = labels
	return f.createdID, f.err
}

func (f *fakeEngine) HostBinding(_ context.Context, _, _ string) (string, error) {
	return f.binding, f.err
}

type sessionFixture struct {
	env    map[string]string
	global GlobalConfig
	engine Engine
}

// newTestSession builds a session whose script lives at <tmp>/demo/app.yml.
func newTestSession(t *testing.T, fx sessionFixture) *Session {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "demo")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	script := filepath.Join(dir, "app.yml")
	if err := os.WriteFile(script, []byte("app: demo\n"), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	env := map[string]string{"DKSTORE_ROOT": filepath.Join(root, "store")}
	for k, v := range fx.env {
		env[k] = v
	}
	opts := Options{
		ScriptFile: script,
		Lookup:     envutil.FromMap(env),
		Engine:     fx.engine,
		TempDir:    filepath.Join(root, "tmp"),
	}
	if fx.global != nil {
		opts.Global = fx.global
	}
	return New(opts)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
