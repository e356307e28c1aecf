package dsl

import (
	"path/filepath"
	"testing"
)

func TestEnvPrecedence(t *testing.T) {
	s := newTestSession(t, sessionFixture{})
	if got := s.Env(); got != "dev" {
		t.Fatalf("default env = %q", got)
	}

	s.RegisterDefaultEnv("staging")
	if got := s.Env(); got != "staging" {
		t.Fatalf("registered default env = %q", got)
	}

	s = newTestSession(t, sessionFixture{env: map[string]string{"APP_ENV": "production"}})
	s.RegisterDefaultEnv("staging")
	if got := s.Env(); got != "production" {
		t.Fatalf("APP_ENV env = %q", got)
	}
	if !s.InProd() || s.InDev() {
		t.Fatalf("expected prod mode")
	}
}

func TestReleaseDefaults(t *testing.T) {
	s := newTestSession(t, sessionFixture{})
	if got := s.Release(); got != "default" || !s.IsDefaultRelease() {
		t.Fatalf("release = %q", got)
	}

	s = newTestSession(t, sessionFixture{env: map[string]string{"APP_RELEASE": "v2"}})
	if got := s.Release(); got != "v2" || s.IsDefaultRelease() {
		t.Fatalf("release = %q", got)
	}
}

func TestScriptNameCombinesParentAndFile(t *testing.T) {
	s := newTestSession(t, sessionFixture{})
	if got := s.ScriptName(); got != "demo_app" {
		t.Fatalf("ScriptName = %q", got)
	}
	if got := filepath.Base(s.ScriptPath()); got != "demo" {
		t.Fatalf("ScriptPath = %q", s.ScriptPath())
	}
	if got := s.AppName(); got != "demo_app" {
		t.Fatalf("AppName = %q", got)
	}

	s.Set(KeyScriptName, "custom")
	if got := s.AppName(); got != "custom" {
		t.Fatalf("AppName with script_name = %q", got)
	}
}

func TestFullReleaseNameKeepsDefaultRelease(t *testing.T) {
	s := newTestSession(t, sessionFixture{})
	s.RegisterAppName("foo")

	if got := s.FullReleaseName(); got != "dev_foo_default" {
		t.Fatalf("FullReleaseName = %q", got)
	}
	if got := s.ContainerName(); got != "dev-foo-default" {
		t.Fatalf("ContainerName = %q", got)
	}
	if got := s.ReleasePathName(); got != "dev-foo-default" {
		t.Fatalf("ReleasePathName = %q", got)
	}
}

func TestFullReleaseNameSkipsMissingApp(t *testing.T) {
	s := New(Options{Lookup: func(string) (string, bool) { return "", false }})
	if got := s.FullReleaseName(); got != "dev_default" {
		t.Fatalf("FullReleaseName = %q", got)
	}
}

func TestContainerNameReplacesEveryUnderscore(t *testing.T) {
	s := newTestSession(t, sessionFixture{env: map[string]string{"APP_ENV": "dev_x", "APP_RELEASE": "r_1"}})
	s.RegisterAppName("my_app")
	if got := s.ContainerName(); got != "dev-x-my-app-r-1" {
		t.Fatalf("ContainerName = %q", got)
	}
}
