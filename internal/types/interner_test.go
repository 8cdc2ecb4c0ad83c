package types

import "testing"

func TestInternerBuiltins(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if b.Void == NoTypeID || b.Bool == NoTypeID || b.Int == NoTypeID {
		t.Fatalf("builtins not initialized")
	}
	void, ok := in.Lookup(b.Void)
	if !ok || void.Kind != KindVoid {
		t.Fatalf("expected void kind, got %v", void.Kind)
	}
	i32, ok := in.Lookup(b.Int32)
	if !ok || i32.Kind != KindInt || i32.Width != Width32 {
		t.Fatalf("expected int32, got %+v", i32)
	}
}

func TestInternerDeduplicatesDescriptors(t *testing.T) {
	in := NewInterner()
	elem := in.Builtins().Char
	arr1 := in.Intern(MakeArray(elem, ArrayDynamicLength))
	arr2 := in.Intern(MakeArray(elem, ArrayDynamicLength))
	if arr1 != arr2 {
		t.Fatalf("array types should be deduplicated")
	}
	arr3 := in.Intern(MakeArray(elem, 16))
	if arr1 == arr3 {
		t.Fatalf("arrays with different extents must differ")
	}
}

func TestPointerQualsAffectIdentity(t *testing.T) {
	in := NewInterner()
	elem := in.Builtins().Int
	mut := in.Intern(MakePointer(elem, Quals{}))
	constPtr := in.Intern(MakePointer(elem, Quals{Const: true}))
	if mut == constPtr {
		t.Fatalf("const and non-const pointers must differ")
	}
}

func TestRegisterFnDeduplicates(t *testing.T) {
	in := NewInterner()
	i32 := in.Builtins().Int32
	void := in.Builtins().Void
	f1 := in.RegisterFn([]TypeID{i32, i32}, void, false)
	f2 := in.RegisterFn([]TypeID{i32, i32}, void, false)
	if f1 != f2 {
		t.Fatalf("identical function signatures should be deduplicated")
	}
	variadic := in.RegisterFn([]TypeID{i32, i32}, void, true)
	if f1 == variadic {
		t.Fatalf("variadic must affect function type identity")
	}
	info, ok := in.FnInfo(f1)
	if !ok || len(info.Params) != 2 || info.Result != void {
		t.Fatalf("unexpected fn info: %+v", info)
	}
}

func TestRegisterRecordAndAlias(t *testing.T) {
	in := NewInterner()
	i32 := in.Builtins().Int32
	rec := in.RegisterRecord(RecordInfo{
		Name:   "point",
		Fields: []Field{{Name: "x", Type: i32}, {Name: "y", Type: i32}},
	})
	rec2 := in.RegisterRecord(RecordInfo{Name: "point"})
	if rec != rec2 {
		t.Fatalf("named records with same name should be deduplicated")
	}
	info, ok := in.RecordInfo(rec)
	if !ok || len(info.Fields) != 2 {
		t.Fatalf("unexpected record info: %+v", info)
	}

	alias := in.RegisterAlias("int32_t", i32)
	if in.Resolve(alias) != i32 {
		t.Fatalf("alias should resolve to its underlying type")
	}
	if !in.IsScalar(alias) {
		t.Fatalf("alias of a scalar type should itself be scalar")
	}
}

func TestIsScalar(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	rec := in.RegisterRecord(RecordInfo{Name: "s", Fields: []Field{{Name: "n", Type: b.Int}}})
	if !in.IsScalar(b.Int) || !in.IsScalar(b.Bool) || !in.IsScalar(b.Char) {
		t.Fatalf("primitive types should be scalar")
	}
	if in.IsScalar(rec) {
		t.Fatalf("record types should not be scalar")
	}
}
