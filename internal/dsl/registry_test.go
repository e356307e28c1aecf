package dsl

import (
	"reflect"
	"testing"
)

func TestRegistryFetchMissingReturnsNil(t *testing.T) {
	r := NewRegistry()
	if got := r.Fetch("nothing"); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	if r.Has("nothing") {
		t.Fatalf("expected missing key")
	}
}

func TestRegistryLastWriteWins(t *testing.T) {
	r := NewRegistry()
	r.Set(KeyNetName, "first")
	r.Set(KeyNetName, "second")
	if got := r.Fetch(KeyNetName); got != "second" {
		t.Fatalf("expected second, got %v", got)
	}
	if len(r.Keys()) != 1 {
		t.Fatalf("expected one entry, got %v", r.Keys())
	}
}

func TestRegistryDeferredRunsOnEveryFetch(t *testing.T) {
	r := NewRegistry()
	calls := 0
	r.Register(KeyImageTag, Deferred(func() any {
		calls++
		return calls
	}))

	if got := r.Fetch(KeyImageTag); got != 1 {
		t.Fatalf("first fetch = %v", got)
	}
	if got := r.Fetch(KeyImageTag); got != 2 {
		t.Fatalf("second fetch = %v", got)
	}
	entry, ok := r.Entry(KeyImageTag)
	if !ok || !IsDeferred(entry) {
		t.Fatalf("stored entry should stay deferred")
	}
}

func TestRegistryHasNilValue(t *testing.T) {
	r := NewRegistry()
	r.Register(KeyBuildRoot, nil)
	if !r.Has(KeyBuildRoot) {
		t.Fatalf("expected nil entry to be present")
	}
	if r.Fetch(KeyBuildRoot) != nil {
		t.Fatalf("expected nil value")
	}
}

func TestRegistryKeysSortedAndResolved(t *testing.T) {
	r := NewRegistry()
	r.Set(KeyNetName, "net")
	r.Register(KeyAppName, Deferred(func() any { return "app" }))

	if got := r.Keys(); !reflect.DeepEqual(got, []Key{KeyAppName, KeyNetName}) {
		t.Fatalf("unexpected keys %v", got)
	}
	want := map[string]any{"appname": "app", "netname": "net"}
	if got := r.Resolved(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected resolved %v", got)
	}
}

func TestTruthy(t *testing.T) {
	var nilSlice []string
	var nilMap map[string]string
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"nil", nil, false},
		{"false", false, false},
		{"true", true, true},
		{"empty string", "", false},
		{"string", "x", true},
		{"zero int", 0, true},
		{"nil slice", nilSlice, false},
		{"empty slice", []string{}, true},
		{"nil map", nilMap, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truthy(tt.value); got != tt.want {
				t.Fatalf("Truthy(%#v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
