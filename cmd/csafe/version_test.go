package main

import (
	"testing"

	"csafe/internal/version"
)

func TestCollectVersionInfoDefaultsToDevWhenUnset(t *testing.T) {
	orig := version.Version
	version.Version = ""
	defer func() { version.Version = orig }()

	got := collectVersionInfo()
	if got.Version != "dev" {
		t.Fatalf("Version = %q, want %q", got.Version, "dev")
	}
}

func TestCollectVersionInfoTrimsWhitespace(t *testing.T) {
	origV, origC := version.Version, version.GitCommit
	version.Version = " 1.2.3 \n"
	version.GitCommit = " abc123 "
	defer func() { version.Version, version.GitCommit = origV, origC }()

	got := collectVersionInfo()
	if got.Version != "1.2.3" {
		t.Fatalf("Version = %q, want %q", got.Version, "1.2.3")
	}
	if got.GitCommit != "abc123" {
		t.Fatalf("GitCommit = %q, want %q", got.GitCommit, "abc123")
	}
}
