package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/poruru/dklet/internal/config"
)

type fakeRunner struct {
	scripts  []string
	captured []string
	output   string
	err      error
}

func (f *fakeRunner) Run(_ context.Context, _ string, name string, args ...string) error {
	f.scripts = append(f.scripts, scriptOf(name, args))
	return f.err
}

func (f *fakeRunner) RunOutput(_ context.Context, _ string, name string, args ...string) ([]byte, error) {
	f.captured = append(f.captured, scriptOf(name, args))
	return []byte(f.output), f.err
}

func (f *fakeRunner) RunQuiet(ctx context.Context, dir, name string, args ...string) error {
	return f.Run(ctx, dir, name, args...)
}

func scriptOf(name string, args []string) string {
	if name == "sh" && len(args) == 2 && args[0] == "-c" {
		return args[1]
	}
	return strings.Join(append([]string{name}, args...), " ")
}

type fakeEngine struct {
	byLabels  []string
	inNetwork []string
	networkID string
	createdID string
	created   []string
}

func (f *fakeEngine) ContainersByLabels(context.Context, map[string]string) ([]string, error) {
	return f.byLabels, nil
}

func (f *fakeEngine) ContainersByAncestor(context.Context, string) ([]string, error) {
	return nil, nil
}

func (f *fakeEngine) ContainersInNetwork(context.Context, string) ([]string, error) {
	return f.inNetwork, nil
}

func (f *fakeEngine) NetworkByLabel(context.Context, string, string) (string, error) {
	return f.networkID, nil
}

func (f *fakeEngine) CreateNetwork(_ context.Context, name, _ string, _ map[string]string) (string, error) {
	f.created = append(f.created, name)
	return f.createdID, nil
}

func (f *fakeEngine) HostBinding(context.Context, string, string) (string, error) {
	return "", nil
}

type harness struct {
	dir    string
	store  string
	runner *fakeRunner
	out    bytes.Buffer
	errOut bytes.Buffer
	in     string
	engine *fakeEngine
}

// newHarness isolates the profile environment and, when profile is not
// empty, writes it as dklet.yml in a fresh working directory.
func newHarness(t *testing.T, profile string) *harness {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "APP_RELEASE", "DKLET_FILE", "GEM_MIRROR",
		"LOCAL_ENV_FILE", "PROXY_BASE_DOMAIN", "HOST_DOMAIN_IN_CONTAINER",
	} {
		t.Setenv(key, "")
	}
	dir := t.TempDir()
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}
	h := &harness{dir: dir, store: filepath.Join(dir, "store"), runner: &fakeRunner{}}
	t.Setenv("DKSTORE_ROOT", h.store)
	if profile != "" {
		if err := os.WriteFile(filepath.Join(dir, "dklet.yml"), []byte(profile), 0o644); err != nil {
			t.Fatalf("write profile: %v", err)
		}
	}
	return h
}

func (h *harness) deps(t *testing.T) Dependencies {
	deps := Dependencies{
		Out:    &h.out,
		Err:    &h.errOut,
		In:     strings.NewReader(h.in),
		Runner: h.runner,
		Global: func() (*config.Global, error) {
			return config.LoadGlobal(filepath.Join(h.dir, "missing-global.yml"))
		},
		Getwd:   func() (string, error) { return h.dir, nil },
		Now:     func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) },
		TempDir: t.TempDir(),
	}
	if h.engine != nil {
		deps.Engine = h.engine
	}
	return deps
}

func (h *harness) run(t *testing.T, args ...string) int {
	t.Helper()
	return Run(args, h.deps(t))
}

const webProfile = `
app: web
ops_container: c9
`

var errFake = errors.New("exit status 1")
