package dsl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poruru/dklet/internal/config"
)

func TestRenderStringResolvesSnapshot(t *testing.T) {
	s := newTestSession(t, sessionFixture{})
	got, err := s.RenderString(`{{ .AppName }} {{ upper .Env }} {{ .Locals.port }} {{ .Labels.dklet_release }}`, map[string]any{"port": 8080})
	if err != nil {
		t.Fatalf("RenderString: %v", err)
	}
	if got != "demo_app DEV 8080 default" {
		t.Fatalf("rendered %q", got)
	}
}

func TestRenderStringHelpers(t *testing.T) {
	s := newTestSession(t, sessionFixture{global: fakeGlobal{"db.host": "pg.local"}})
	s.RegisterAppName("web")

	tmpl := `{{ volume "data" }}|{{ configPath "nginx.conf" }}|{{ proxyDomains "api" }}|{{ proxyEnv }}|{{ label "name" "x" }}|{{ dkletConfig "db" "host" }}`
	got, err := s.RenderString(tmpl, nil)
	if err != nil {
		t.Fatalf("RenderString: %v", err)
	}
	want := strings.Join([]string{
		filepath.Join(s.AppVolumes(), "data"),
		filepath.Join(s.AppConfig(), "nginx.conf"),
		"api.dev.lh",
		"VIRTUAL_HOST=web.dev.lh",
		"docklet.name=x",
		"pg.local",
	}, "|")
	if got != want {
		t.Fatalf("rendered\n got %q\nwant %q", got, want)
	}
}

func TestRenderStringReadsRegistryVars(t *testing.T) {
	s := newTestSession(t, sessionFixture{})
	s.Set(Key("web_port"), "8080")
	s.Register(Key("workers"), Deferred(func() any { return 4 }))

	got, err := s.RenderString(`{{ .Vars.web_port }}|{{ fetch "web_port" }}|{{ .Vars.workers }}`, nil)
	if err != nil {
		t.Fatalf("RenderString: %v", err)
	}
	if got != "8080|8080|4" {
		t.Fatalf("rendered %q", got)
	}
}

func TestRenderStringRunHelpers(t *testing.T) {
	engine := &fakeEngine{binding: "0.0.0.0:32879"}
	s := newTestSession(t, sessionFixture{engine: engine})
	s.RegisterAppName("web")
	s.RegisterOps("c1")
	s.hostIP = func() (string, error) { return "10.0.0.5", nil }

	cases := []struct {
		tmpl string
		want string
	}{
		{`{{ dockerRun }}`, "docker run --label=dklet_env=dev --label=dklet_app=web --label=dklet_release=default"},
		{`{{ dockerRun "named" "unlabeled" "-d" }}`, "docker run --name dev-web-default -d"},
		{`{{ tmpRun "-t" }}`, "docker run --rm -i -t dev/web:edge"},
		{`{{ containerFilters }}`, "--filter label=dklet_env=dev --filter label=dklet_app=web --filter label=dklet_release=default"},
		{`{{ smartProxyDomain }}`, "web.dev.lh"},
		{`{{ railsEnv }}`, "development"},
		{`{{ findAppVolumes "prod" "shop" }}`, filepath.Join(s.DkstoreRoot(), "prod", "prod-shop-default", "volumes")},
		{`{{ findAppVolumes "prod" "shop" "v2" }}`, filepath.Join(s.DkstoreRoot(), "prod", "prod-shop-v2", "volumes")},
		{`{{ hostPort "80" }}`, "32879"},
		{`{{ hostWithPort "80" }}`, "10.0.0.5:32879"},
	}
	for _, tc := range cases {
		got, err := s.RenderString(tc.tmpl, nil)
		if err != nil {
			t.Fatalf("RenderString(%s): %v", tc.tmpl, err)
		}
		if got != tc.want {
			t.Fatalf("RenderString(%s)\n got %q\nwant %q", tc.tmpl, got, tc.want)
		}
	}
}

func TestRenderStringDkletConfigNestedTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".dklet.yml")
	if err := os.WriteFile(path, []byte("proxy:\n  base_domain: example.test\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	global, err := config.LoadGlobal(path)
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	s := newTestSession(t, sessionFixture{global: global})

	got, err := s.RenderString(`{{ (dkletConfig "proxy").base_domain }}|{{ dkletConfig "proxy" "base_domain" }}`, nil)
	if err != nil {
		t.Fatalf("RenderString: %v", err)
	}
	if got != "example.test|example.test" {
		t.Fatalf("rendered %q", got)
	}
}

func TestRenderStringParseError(t *testing.T) {
	s := newTestSession(t, sessionFixture{})
	if _, err := s.RenderString("{{ .AppName", nil); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestRenderingAllocatesFreshFiles(t *testing.T) {
	s := newTestSession(t, sessionFixture{})
	first, err := s.Rendering("FROM {{ .Env }}\n", nil)
	if err != nil {
		t.Fatalf("Rendering: %v", err)
	}
	second, err := s.Rendering("FROM {{ .Env }}\n", nil)
	if err != nil {
		t.Fatalf("Rendering: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct paths, got %s twice", first)
	}
	if readFile(t, first) != "FROM dev\n" || readFile(t, second) != "FROM dev\n" {
		t.Fatalf("unexpected rendered content")
	}
}

func TestRenderingEmptyTemplate(t *testing.T) {
	s := newTestSession(t, sessionFixture{})
	path, err := s.Rendering("", nil)
	if err != nil || path != "" {
		t.Fatalf("Rendering(\"\") = %q, %v", path, err)
	}
}

func TestRenderingTo(t *testing.T) {
	s := newTestSession(t, sessionFixture{})
	dst := filepath.Join(t.TempDir(), "nested", "out.conf")
	path, err := s.RenderingTo(dst, "server {{ .ContainerName }}", nil)
	if err != nil {
		t.Fatalf("RenderingTo: %v", err)
	}
	if path != dst || readFile(t, dst) != "server dev-demo-app-default" {
		t.Fatalf("unexpected output at %s", path)
	}
}

func TestRenderedFileForMissingKey(t *testing.T) {
	s := newTestSession(t, sessionFixture{})
	path, err := s.RenderedFileFor(KeySpecfile, nil)
	if err != nil || path != "" {
		t.Fatalf("RenderedFileFor = %q, %v", path, err)
	}
}
