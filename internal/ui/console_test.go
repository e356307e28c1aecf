package ui

import (
	"bytes"
	"testing"
)

func TestConsoleFormatting(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf)
	c.Line("docker ps")
	c.Success("network ops working")
	c.Info("no network registered")
	c.Warn("ops has binded resources, skipped")
	c.Error("boom")

	want := "docker ps\n" +
		"✅ network ops working\n" +
		"➜ no network registered\n" +
		"⚠️  ops has binded resources, skipped\n" +
		"✗ boom\n"
	if buf.String() != want {
		t.Fatalf("output mismatch\n got %q\nwant %q", buf.String(), want)
	}
}
