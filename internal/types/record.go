package types //nolint:revive

import (
	"fmt"

	"fortio.org/safecast"
)

// Field describes one member of a record or union.
type Field struct {
	Name   string
	Type   TypeID
	Bits   uint8 // bit-field width; 0 means "not a bit-field"
	Offset uint32
}

// RecordInfo stores metadata for struct types (spec §3:
// "record reference (struct)"). Packed mirrors a source-level
// `__attribute__((packed))`/`#pragma pack` and feeds layout-sensitive
// diagnostics when a borrowed view would need re-aligning data.
type RecordInfo struct {
	Name   string
	Fields []Field
	Packed bool
}

// UnionInfo stores metadata for union types. Ownership inference treats
// every union as RawEscape unless the catalog names it as a tagged union
// (spec §4.3 step 6), since the active member cannot be determined
// statically without a discriminant.
type UnionInfo struct {
	Name   string
	Fields []Field
}

// RegisterRecord creates or finds a named struct type. Two records with the
// same name and field layout are deduplicated; an anonymous record (empty
// name) always gets a fresh TypeID since C permits distinct anonymous
// structs with identical shapes.
func (in *Interner) RegisterRecord(info RecordInfo) TypeID {
	if in != nil && info.Name != "" {
		for id := TypeID(1); int(id) < len(in.types); id++ {
			tt := in.types[id]
			if tt.Kind != KindRecord || int(tt.Payload) >= len(in.records) {
				continue
			}
			if in.records[tt.Payload].Name == info.Name {
				return id
			}
		}
	}
	slot := in.appendRecordInfo(info)
	return in.internRaw(Type{Kind: KindRecord, Payload: slot})
}

// RecordInfo retrieves struct metadata by TypeID.
func (in *Interner) RecordInfo(id TypeID) (*RecordInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindRecord || int(tt.Payload) >= len(in.records) {
		return nil, false
	}
	return &in.records[tt.Payload], true
}

func (in *Interner) appendRecordInfo(info RecordInfo) uint32 {
	in.records = append(in.records, RecordInfo{
		Name:   info.Name,
		Fields: append([]Field(nil), info.Fields...),
		Packed: info.Packed,
	})
	slot, err := safecast.Conv[uint32](len(in.records) - 1)
	if err != nil {
		panic(fmt.Errorf("types: record info overflow: %w", err))
	}
	return slot
}

// RegisterUnion creates or finds a named union type.
func (in *Interner) RegisterUnion(info UnionInfo) TypeID {
	if in != nil && info.Name != "" {
		for id := TypeID(1); int(id) < len(in.types); id++ {
			tt := in.types[id]
			if tt.Kind != KindUnion || int(tt.Payload) >= len(in.unions) {
				continue
			}
			if in.unions[tt.Payload].Name == info.Name {
				return id
			}
		}
	}
	slot := in.appendUnionInfo(info)
	return in.internRaw(Type{Kind: KindUnion, Payload: slot})
}

// UnionInfo retrieves union metadata by TypeID.
func (in *Interner) UnionInfo(id TypeID) (*UnionInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindUnion || int(tt.Payload) >= len(in.unions) {
		return nil, false
	}
	return &in.unions[tt.Payload], true
}

func (in *Interner) appendUnionInfo(info UnionInfo) uint32 {
	in.unions = append(in.unions, UnionInfo{
		Name:   info.Name,
		Fields: append([]Field(nil), info.Fields...),
	})
	slot, err := safecast.Conv[uint32](len(in.unions) - 1)
	if err != nil {
		panic(fmt.Errorf("types: union info overflow: %w", err))
	}
	return slot
}
