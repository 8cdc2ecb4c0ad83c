package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultRecognizesStdlibFamily(t *testing.T) {
	c := Default()

	if fr, ok := c.IsAllocator("malloc"); !ok || fr.SizeArg != 0 {
		t.Fatalf("malloc: got %+v, %v", fr, ok)
	}
	if fr, ok := c.IsAllocator("calloc"); !ok || fr.SizeArg != 1 {
		t.Fatalf("calloc: got %+v, %v", fr, ok)
	}
	if fr, ok := c.IsReallocator("realloc"); !ok || fr.PointerArg != 0 {
		t.Fatalf("realloc: got %+v, %v", fr, ok)
	}
	if fr, ok := c.IsReleaser("free"); !ok || fr.PointerArg != 0 {
		t.Fatalf("free: got %+v, %v", fr, ok)
	}
	if _, ok := c.IsAllocator("strdup"); ok {
		t.Fatalf("strdup should not be a recognized allocator in the default catalog")
	}
}

func TestFuncsSortedByName(t *testing.T) {
	got := Default().Funcs()
	for i := 1; i < len(got); i++ {
		if got[i].Name < got[i-1].Name {
			t.Fatalf("Funcs() not sorted: %q before %q", got[i-1].Name, got[i].Name)
		}
	}
	want := map[string]bool{"malloc": true, "calloc": true, "realloc": true, "free": true}
	if len(got) != len(want) {
		t.Fatalf("got %d funcs, want %d", len(got), len(want))
	}
	for _, fr := range got {
		if !want[fr.Name] {
			t.Fatalf("unexpected func %q in default catalog", fr.Name)
		}
	}
}

func TestUnionsEmptyByDefault(t *testing.T) {
	if got := Default().Unions(); len(got) != 0 {
		t.Fatalf("Default().Unions() = %+v, want empty", got)
	}
}

func TestLoadMergesOverDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.toml")
	doc := `
[[funcs]]
name = "xmalloc"
role = "alloc"
pointer_arg = -1
size_arg = 0

[[funcs]]
name = "xfree"
role = "release"
pointer_arg = 0
size_arg = -1

[[unions]]
union = "Value"
tag_field = "kind"
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if _, ok := c.IsAllocator("malloc"); !ok {
		t.Fatalf("Load should merge over Default(), malloc missing")
	}
	if _, ok := c.IsAllocator("xmalloc"); !ok {
		t.Fatalf("xmalloc not registered by Load")
	}
	if _, ok := c.IsReleaser("xfree"); !ok {
		t.Fatalf("xfree not registered by Load")
	}
	tag, ok := c.TagField("Value")
	if !ok || tag != "kind" {
		t.Fatalf("TagField(Value) = %q, %v, want %q, true", tag, ok, "kind")
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected an error loading a nonexistent catalog")
	}
}
