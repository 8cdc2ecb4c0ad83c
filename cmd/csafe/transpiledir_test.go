package main

import (
	"os"
	"path/filepath"
	"testing"

	"csafe/internal/driver"
)

func TestWriteUnitOutputBesideInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.ast.json")
	res := &driver.UnitResult{Path: path, Output: "pub fn a() {}\n"}

	if err := writeUnitOutput(res, dir, ""); err != nil {
		t.Fatalf("writeUnitOutput: %v", err)
	}
	got, err := os.ReadFile(path + ".rs")
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(got) != res.Output {
		t.Fatalf("output = %q, want %q", got, res.Output)
	}
}

func TestWriteUnitOutputToOutDir(t *testing.T) {
	dir := t.TempDir()
	outDir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(sub, "b.ast.json")
	res := &driver.UnitResult{Path: path, Output: "pub fn b() {}\n"}

	if err := writeUnitOutput(res, dir, outDir); err != nil {
		t.Fatalf("writeUnitOutput: %v", err)
	}
	want := filepath.Join(outDir, "nested", "b.ast.json.rs")
	got, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read output at %s: %v", want, err)
	}
	if string(got) != res.Output {
		t.Fatalf("output = %q, want %q", got, res.Output)
	}
}
