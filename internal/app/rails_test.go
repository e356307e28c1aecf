package app

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const railsProfile = webProfile + "tags: rails_web\nvars:\n  web_domain: shop.example.com,admin.example.com\n"

func TestRailsRequiresTag(t *testing.T) {
	h := newHarness(t, webProfile)
	if code := h.run(t, "rails", "console"); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(h.errOut.String(), "rails_web") {
		t.Fatalf("error output = %q", h.errOut.String())
	}
}

func TestRailsConsole(t *testing.T) {
	h := newHarness(t, railsProfile)
	if code := h.run(t, "rails", "console"); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, h.errOut.String())
	}
	if !reflect.DeepEqual(h.runner.scripts, []string{"docker exec -i c9 rails console"}) {
		t.Fatalf("scripts = %v", h.runner.scripts)
	}
}

func TestRailsBootMigrates(t *testing.T) {
	h := newHarness(t, railsProfile)
	if code := h.run(t, "rails", "boot"); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, h.errOut.String())
	}
	want := []string{
		"docker exec -i c9 rails db:create 2>/dev/null",
		"docker exec -i c9 rails db:migrate",
	}
	if !reflect.DeepEqual(h.runner.scripts, want) {
		t.Fatalf("scripts = %v", h.runner.scripts)
	}
}

func TestBrowseOpensFirstDomain(t *testing.T) {
	h := newHarness(t, railsProfile)
	if code := h.run(t, "open"); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, h.errOut.String())
	}
	want := browserOpener() + " http://shop.example.com"
	if !reflect.DeepEqual(h.runner.scripts, []string{want}) {
		t.Fatalf("scripts = %v", h.runner.scripts)
	}
}

func TestConfigShowsMissingFile(t *testing.T) {
	h := newHarness(t, railsProfile)
	if code := h.run(t, "config"); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, h.errOut.String())
	}
	envFile := filepath.Join(h.store, "dev", "dev-web-default", "config", "env.local")
	if !strings.Contains(h.out.String(), "# "+envFile+"\n") || !strings.Contains(h.out.String(), "# (missing)") {
		t.Fatalf("output = %q", h.out.String())
	}
}

func TestConfigBackupAndLink(t *testing.T) {
	h := newHarness(t, railsProfile)
	envFile := filepath.Join(h.dir, "env.local")
	if err := os.WriteFile(envFile, []byte("SECRET=1\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("LOCAL_ENV_FILE", envFile)
	if code := h.run(t, "config", "-b", "-l"); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, h.errOut.String())
	}
	if !strings.Contains(h.out.String(), "SECRET=1\n") {
		t.Fatalf("output = %q", h.out.String())
	}
	backup := filepath.Join(h.dir, "local", "backup", "dev", "env.local-20240506070809")
	link := filepath.Join(h.dir, "local", "dev-env.local")
	want := []string{"cp " + envFile + " " + backup, "ln -sf " + envFile + " " + link}
	if !reflect.DeepEqual(h.runner.scripts, want) {
		t.Fatalf("scripts = %v", h.runner.scripts)
	}
}

func TestEditUsesEditor(t *testing.T) {
	h := newHarness(t, railsProfile)
	t.Setenv("EDITOR", "nano")
	t.Setenv("LOCAL_ENV_FILE", "/tmp/env.local")
	if code := h.run(t, "edit"); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, h.errOut.String())
	}
	if !reflect.DeepEqual(h.runner.scripts, []string{"nano /tmp/env.local\necho /tmp/env.local"}) {
		t.Fatalf("scripts = %v", h.runner.scripts)
	}
}
