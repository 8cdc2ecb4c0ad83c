package types //nolint:revive

import (
	"fmt"

	"fortio.org/safecast"
)

// Enumerator names one constant of an enum type.
type Enumerator struct {
	Name  string
	Value int64
}

// EnumInfo stores metadata for enum types. Underlying records the
// compiler-chosen integer representation (plain C leaves this
// implementation-defined; an adapter that knows the target ABI reports it
// here rather than forcing ownership/codegen to guess).
type EnumInfo struct {
	Name       string
	Underlying Width
	Signed     bool
	Members    []Enumerator
}

// RegisterEnum creates or finds a named enum type.
func (in *Interner) RegisterEnum(info EnumInfo) TypeID {
	if in != nil && info.Name != "" {
		for id := TypeID(1); int(id) < len(in.types); id++ {
			tt := in.types[id]
			if tt.Kind != KindEnum || int(tt.Payload) >= len(in.enums) {
				continue
			}
			if in.enums[tt.Payload].Name == info.Name {
				return id
			}
		}
	}
	slot := in.appendEnumInfo(info)
	return in.internRaw(Type{Kind: KindEnum, Width: info.Underlying, Payload: slot})
}

// EnumInfo retrieves enum metadata by TypeID.
func (in *Interner) EnumInfo(id TypeID) (*EnumInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindEnum || int(tt.Payload) >= len(in.enums) {
		return nil, false
	}
	return &in.enums[tt.Payload], true
}

func (in *Interner) appendEnumInfo(info EnumInfo) uint32 {
	in.enums = append(in.enums, EnumInfo{
		Name:       info.Name,
		Underlying: info.Underlying,
		Signed:     info.Signed,
		Members:    append([]Enumerator(nil), info.Members...),
	})
	slot, err := safecast.Conv[uint32](len(in.enums) - 1)
	if err != nil {
		panic(fmt.Errorf("types: enum info overflow: %w", err))
	}
	return slot
}
