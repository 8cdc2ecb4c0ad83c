// Package catalog loads the allocator/releaser/reallocator and
// tagged-union-hint configuration the ownership stage needs but cannot
// recover from C source alone: which function names actually own an
// allocation versus merely borrow one, and which union field in a
// hand-rolled tagged union names the active member.
//
// Grounded on the teacher's internal/project/modules.go (TOML manifest
// loading via BurntSushi/toml, meta.IsDefined guarding optional sections).
package catalog

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
)

// FuncRole describes one function's memory-management role.
type FuncRole struct {
	Name string `toml:"name"`
	// Role is "alloc", "release" or "realloc".
	Role string `toml:"role"`
	// PointerArg is the 0-based index of the pointer argument a call takes
	// ownership of: the argument freed by a "release" call, or the old
	// buffer handed to a "realloc" call. An alloc call returns ownership
	// through its return value, so this is not consulted for "alloc".
	PointerArg int `toml:"pointer_arg"`
	// SizeArg is the 0-based argument index carrying the allocation's
	// byte size, when the adapter or verify stage wants to reason about
	// it (e.g. realloc's second argument). -1 if not applicable.
	SizeArg int `toml:"size_arg"`
}

// UnionHint names the discriminator field a hand-rolled tagged union uses,
// since plain C unions carry no such metadata themselves (spec §4.3 step
// 6: "a union with no catalog entry is treated as untagged and its
// members are never refined past raw-escape").
type UnionHint struct {
	Union    string `toml:"union"`
	TagField string `toml:"tag_field"`
}

type fileFormat struct {
	Funcs  []FuncRole  `toml:"funcs"`
	Unions []UnionHint `toml:"unions"`
}

// Catalog is the resolved, queryable form of a loaded configuration.
type Catalog struct {
	allocators   map[string]FuncRole
	releasers    map[string]FuncRole
	reallocators map[string]FuncRole
	unionTags    map[string]string
}

// Default returns the catalog recognizing the C standard library's own
// allocator family, the baseline every translation unit gets even with
// no catalog file supplied.
func Default() *Catalog {
	c := empty()
	c.add(FuncRole{Name: "malloc", Role: "alloc", PointerArg: -1, SizeArg: 0})
	c.add(FuncRole{Name: "calloc", Role: "alloc", PointerArg: -1, SizeArg: 1})
	c.add(FuncRole{Name: "realloc", Role: "realloc", PointerArg: 0, SizeArg: 1})
	c.add(FuncRole{Name: "free", Role: "release", PointerArg: 0, SizeArg: -1})
	return c
}

func empty() *Catalog {
	return &Catalog{
		allocators:   make(map[string]FuncRole),
		releasers:    make(map[string]FuncRole),
		reallocators: make(map[string]FuncRole),
		unionTags:    make(map[string]string),
	}
}

// Load reads a TOML catalog file and merges it over Default(), so a
// project catalog only needs to declare its own allocator family rather
// than re-list malloc/free.
func Load(path string) (*Catalog, error) {
	c := Default()
	var doc fileFormat
	meta, err := toml.DecodeFile(path, &doc)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	if meta.IsDefined("funcs") {
		for _, fr := range doc.Funcs {
			c.add(fr)
		}
	}
	if meta.IsDefined("unions") {
		for _, u := range doc.Unions {
			c.unionTags[u.Union] = u.TagField
		}
	}
	return c, nil
}

func (c *Catalog) add(fr FuncRole) {
	switch fr.Role {
	case "alloc":
		c.allocators[fr.Name] = fr
	case "release":
		c.releasers[fr.Name] = fr
	case "realloc":
		c.reallocators[fr.Name] = fr
	}
}

// IsAllocator reports whether name is a recognized allocator, and its role.
func (c *Catalog) IsAllocator(name string) (FuncRole, bool) {
	fr, ok := c.allocators[name]
	return fr, ok
}

// IsReleaser reports whether name is a recognized releaser, and its role.
func (c *Catalog) IsReleaser(name string) (FuncRole, bool) {
	fr, ok := c.releasers[name]
	return fr, ok
}

// IsReallocator reports whether name is a recognized reallocator.
func (c *Catalog) IsReallocator(name string) (FuncRole, bool) {
	fr, ok := c.reallocators[name]
	return fr, ok
}

// TagField returns the discriminator field name for a tagged union, if
// the catalog has a hint for it.
func (c *Catalog) TagField(unionName string) (string, bool) {
	f, ok := c.unionTags[unionName]
	return f, ok
}

// Funcs returns every recognized allocator/releaser/reallocator, sorted by
// name, for display (catalog show) rather than lookup.
func (c *Catalog) Funcs() []FuncRole {
	out := make([]FuncRole, 0, len(c.allocators)+len(c.releasers)+len(c.reallocators))
	for _, m := range []map[string]FuncRole{c.allocators, c.releasers, c.reallocators} {
		for _, fr := range m {
			out = append(out, fr)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Unions returns every tagged-union hint, sorted by union name.
func (c *Catalog) Unions() []UnionHint {
	out := make([]UnionHint, 0, len(c.unionTags))
	for union, tag := range c.unionTags {
		out = append(out, UnionHint{Union: union, TagField: tag})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Union < out[j].Union })
	return out
}
