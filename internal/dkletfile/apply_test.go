package dkletfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/poruru/dklet/internal/dsl"
	"github.com/poruru/dklet/internal/envutil"
)

type fakeActions struct {
	calls []string
	err   error
}

func (f *fakeActions) Sh(_ context.Context, _ *dsl.Session, script string) error {
	f.calls = append(f.calls, "sh:"+script)
	return f.err
}

func (f *fakeActions) Exec(_ context.Context, _ *dsl.Session, script string) error {
	f.calls = append(f.calls, "exec:"+script)
	return f.err
}

func newSession(t *testing.T) *dsl.Session {
	t.Helper()
	root := t.TempDir()
	script := filepath.Join(root, "dklet.yml")
	if err := os.WriteFile(script, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return dsl.New(dsl.Options{
		ScriptFile: script,
		Lookup:     envutil.FromMap(map[string]string{"DKSTORE_ROOT": filepath.Join(root, "store")}),
		TempDir:    filepath.Join(root, "tmp"),
	})
}

func TestApplyRegistersFields(t *testing.T) {
	file, err := Parse([]byte(sampleFile))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	s := newSession(t)
	if err := Apply(s, file, &fakeActions{}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if s.AppName() != "web" || s.Env() != "staging" || s.ImageTag() != "v1" || s.NetName() != "ops" {
		t.Fatalf("unexpected profile %s %s %s %s", s.AppName(), s.Env(), s.ImageTag(), s.NetName())
	}
	if s.DockerImage() != "staging/web:v1" {
		t.Fatalf("DockerImage = %q", s.DockerImage())
	}
	if s.ProxyDomains() != "www.staging.lh,api.staging.lh" {
		t.Fatalf("ProxyDomains = %q", s.ProxyDomains())
	}
	if !s.HasAppTag("rails_web") || !reflect.DeepEqual(s.UserNotes(), []string{"run migrations after deploy"}) {
		t.Fatalf("tags/notes not registered")
	}
	ctxPath, err := s.SmartBuildContextPath()
	if err != nil || ctxPath != "" {
		t.Fatalf("null build_root should disable the context, got %q, %v", ctxPath, err)
	}
	if !s.TaskOpts("main").Disabled("preclean") {
		t.Fatalf("task options not merged")
	}
}

func TestApplyHooksRenderSteps(t *testing.T) {
	file, err := Parse([]byte(sampleFile))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	s := newSession(t)
	actions := &fakeActions{}
	if err := Apply(s, file, actions); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	ctx := context.Background()
	if err := s.InvokeHooksFor(ctx, "main", dsl.PhaseBefore); err != nil {
		t.Fatalf("before: %v", err)
	}
	if err := s.InvokeHooksFor(ctx, "main", dsl.PhaseAfter); err != nil {
		t.Fatalf("after: %v", err)
	}
	want := []string{"sh:echo staging-web-default", "exec:rails db:migrate"}
	if !reflect.DeepEqual(actions.calls, want) {
		t.Fatalf("calls = %v", actions.calls)
	}
}

func TestApplyHookErrorPropagates(t *testing.T) {
	file, err := Parse([]byte("tasks:\n  build:\n    after:\n      - sh: exit 1\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	boom := errors.New("exit 1")
	s := newSession(t)
	if err := Apply(s, file, &fakeActions{err: boom}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if err := s.InvokeHooksFor(context.Background(), "build", dsl.PhaseAfter); !errors.Is(err, boom) {
		t.Fatalf("expected hook failure, got %v", err)
	}
}

func TestApplyNilFile(t *testing.T) {
	if err := Apply(newSession(t), nil, nil); err != nil {
		t.Fatalf("Apply(nil): %v", err)
	}
}

func TestApplyRegistersVars(t *testing.T) {
	file, err := Parse([]byte("app: web\nvars:\n  web_domain: shop.example.com\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	s := newSession(t)
	if err := Apply(s, file, nil); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := s.Fetch(dsl.Key("web_domain")); got != "shop.example.com" {
		t.Fatalf("web_domain = %v", got)
	}
}

func TestApplyRejectsReservedVars(t *testing.T) {
	file := &File{App: "web", Vars: map[string]string{"dockerfile": "FROM x"}}
	err := Apply(newSession(t), file, nil)
	if !errors.Is(err, ErrReservedVar) {
		t.Fatalf("expected ErrReservedVar, got %v", err)
	}
}
