package types //nolint:revive

import (
	"fmt"

	"fortio.org/safecast"
)

// AliasInfo stores metadata for a typedef. Aliases are transparent to
// IsScalar and to ownership inference (they forward to Underlying) but keep
// their own name for diagnostics and codegen, matching how C typedefs name
// a shape without introducing a new one.
type AliasInfo struct {
	Name       string
	Underlying TypeID
}

// RegisterAlias creates or finds a named typedef over underlying.
func (in *Interner) RegisterAlias(name string, underlying TypeID) TypeID {
	if in != nil && name != "" {
		for id := TypeID(1); int(id) < len(in.types); id++ {
			tt := in.types[id]
			if tt.Kind != KindAlias || int(tt.Payload) >= len(in.aliases) {
				continue
			}
			info := in.aliases[tt.Payload]
			if info.Name == name && info.Underlying == underlying {
				return id
			}
		}
	}
	slot := in.appendAliasInfo(AliasInfo{Name: name, Underlying: underlying})
	return in.internRaw(Type{Kind: KindAlias, Elem: underlying, Payload: slot})
}

// AliasInfo retrieves typedef metadata by TypeID.
func (in *Interner) AliasInfo(id TypeID) (*AliasInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindAlias || int(tt.Payload) >= len(in.aliases) {
		return nil, false
	}
	return &in.aliases[tt.Payload], true
}

func (in *Interner) appendAliasInfo(info AliasInfo) uint32 {
	in.aliases = append(in.aliases, info)
	slot, err := safecast.Conv[uint32](len(in.aliases) - 1)
	if err != nil {
		panic(fmt.Errorf("types: alias info overflow: %w", err))
	}
	return slot
}

// Resolve follows Alias chains down to the first non-alias TypeID.
func (in *Interner) Resolve(id TypeID) TypeID {
	for {
		t, ok := in.Lookup(id)
		if !ok || t.Kind != KindAlias {
			return id
		}
		id = t.Elem
	}
}
