package envutil

import "testing"

func TestGetTrimsAndIgnoresBlank(t *testing.T) {
	lookup := FromMap(map[string]string{
		"A": "  value ",
		"B": "   ",
	})

	if got, ok := Get(lookup, "A"); !ok || got != "value" {
		t.Fatalf("Get(A) = %q, %v", got, ok)
	}
	if _, ok := Get(lookup, "B"); ok {
		t.Fatalf("expected blank value to be unset")
	}
	if _, ok := Get(lookup, "C"); ok {
		t.Fatalf("expected missing value to be unset")
	}
}

func TestGetOrFallsBack(t *testing.T) {
	lookup := FromMap(map[string]string{"A": "x"})
	if got := GetOr(lookup, "A", "y"); got != "x" {
		t.Fatalf("GetOr(A) = %q", got)
	}
	if got := GetOr(lookup, "B", "y"); got != "y" {
		t.Fatalf("GetOr(B) = %q", got)
	}
}

func TestSetSkipsBlank(t *testing.T) {
	t.Setenv("DKLET_ENVUTIL_TEST", "keep")
	Set("DKLET_ENVUTIL_TEST", " ")
	if got, _ := Get(OS(), "DKLET_ENVUTIL_TEST"); got != "keep" {
		t.Fatalf("blank Set should not overwrite, got %q", got)
	}
	Set("DKLET_ENVUTIL_TEST", "next")
	if got, _ := Get(OS(), "DKLET_ENVUTIL_TEST"); got != "next" {
		t.Fatalf("Set should overwrite, got %q", got)
	}
}
