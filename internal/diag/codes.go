package diag

import "fmt"

// Code identifies a diagnostic. Ranges group diagnostics by pipeline stage
// so a reader can tell a code's origin at a glance, mirroring the
// teacher's range-per-phase layout (lexer 1000s, parser 2000s, sema 3000s,
// ...) retargeted to this pipeline's stages.
type Code uint16

const (
	UnknownCode Code = 0

	// Parse-level (1000s): surfaced verbatim from the external C adapter
	// (spec §6's cast.Tree contract) -- this pipeline never parses C
	// itself, so these only wrap adapter-reported positions/messages.
	ParseInfo       Code = 1000
	ParseAdapterErr Code = 1001
	ParseBadSpan    Code = 1002

	// Unsupported construct / name resolution (2000s): a C construct
	// recognized by the adapter but outside this pipeline's supported
	// subset, or a symbol-table error surfaced while building the
	// resolved-name view HIR lowering depends on.
	UnsupportedInfo           Code = 2000
	UnsupportedConstruct      Code = 2001
	UnsupportedVarargsBuiltin Code = 2002
	UnsupportedSetjmp         Code = 2003
	UnsupportedInlineAsm      Code = 2004
	UnsupportedBitfieldLayout Code = 2005
	UnsupportedVLA            Code = 2006
	SymDuplicate              Code = 2010
	SymShadow                 Code = 2011
	SymUnresolved             Code = 2012
	SymScopeMismatch          Code = 2013
	SymLabelUndefined         Code = 2014
	SymLabelDuplicate         Code = 2015

	// Ownership demotion (3000s, spec §4.3/§4.4): the inference engine
	// could not assign the precise marker it attempted and fell back to a
	// safer, less expressive one (e.g. Owning -> RawEscape).
	OwnInfo                Code = 3000
	OwnMultipleOwnersFound Code = 3001
	OwnDemotedToRawEscape  Code = 3002
	OwnAmbiguousFreeSite   Code = 3003
	OwnArrayShapeConflict  Code = 3004
	OwnInterproceduralTie  Code = 3005
	OwnUnionNotTagged      Code = 3006

	// Lifetime demotion (4000s, spec §4.4): a region's outlives
	// constraints formed a cycle or could not be solved precisely and
	// were widened to a coarser (typically enclosing-function) region.
	LifeInfo              Code = 4000
	LifeCycleWidened      Code = 4001
	LifeRegionOutlivesFn  Code = 4002
	LifeDisagreeAcrossUse Code = 4003

	// Verification failure (5000s, spec §5): a refinement the ownership/
	// lifetime passes assigned does not actually hold under the
	// uniqueness/exclusivity/scope/initialization/leak checks.
	VerifyInfo            Code = 5000
	VerifyDoubleOwner     Code = 5001
	VerifyBorrowConflict  Code = 5002
	VerifyUseAfterFree    Code = 5003
	VerifyUninitUse       Code = 5004
	VerifyLeakOnPath      Code = 5005
	VerifyEscapesScope    Code = 5006
	VerifyRetryExhausted  Code = 5007

	// Codegen (6000s, spec §6): deterministic-emission placeholders and
	// target-limitation notices (e.g. variadic signature substitution).
	CodegenInfo             Code = 6000
	CodegenVariadicRewrite  Code = 6001
	CodegenRawBlockEmitted  Code = 6002

	// Pipeline observability (7000s): non-diagnostic informational notes
	// about the run itself (stage timings), not about the input program.
	ObsInfo    Code = 7000
	ObsTimings Code = 7001

	// Internal invariant violations (9000s): defects in this pipeline
	// itself, never a property of the input program.
	InternalInvariant Code = 9000
)

var codeDescription = map[Code]string{
	UnknownCode:               "unknown error",
	ParseInfo:                 "parse information",
	ParseAdapterErr:           "C adapter reported an error",
	ParseBadSpan:              "adapter reported a malformed source span",
	UnsupportedInfo:           "unsupported construct information",
	UnsupportedConstruct:      "C construct outside the supported subset",
	UnsupportedVarargsBuiltin: "unsupported use of a varargs builtin",
	UnsupportedSetjmp:         "setjmp/longjmp is not supported",
	UnsupportedInlineAsm:      "inline assembly is not supported",
	UnsupportedBitfieldLayout: "bit-field layout cannot be reproduced safely",
	UnsupportedVLA:            "variable-length array is not supported",
	SymDuplicate:              "duplicate declaration",
	SymShadow:                 "declaration shadows an outer binding",
	SymUnresolved:             "unresolved identifier",
	SymScopeMismatch:          "scope stack mismatch",
	SymLabelUndefined:         "goto target label is undefined",
	SymLabelDuplicate:         "duplicate label in function",
	OwnInfo:                   "ownership inference information",
	OwnMultipleOwnersFound:    "multiple owners found for one allocation",
	OwnDemotedToRawEscape:     "ownership demoted to raw escape",
	OwnAmbiguousFreeSite:      "ambiguous free site for this allocation",
	OwnArrayShapeConflict:     "single-value and array ownership both observed",
	OwnInterproceduralTie:     "interprocedural ownership fixed point did not converge cleanly",
	OwnUnionNotTagged:         "union has no catalog entry identifying its active member",
	LifeInfo:                  "lifetime inference information",
	LifeCycleWidened:          "outlives cycle resolved by widening the region",
	LifeRegionOutlivesFn:      "region widened to the enclosing function body",
	LifeDisagreeAcrossUse:     "lifetime requirement disagrees across uses",
	VerifyInfo:                "verification information",
	VerifyDoubleOwner:         "value has more than one owner",
	VerifyBorrowConflict:      "conflicting borrows of the same value",
	VerifyUseAfterFree:        "use after the owner released this value",
	VerifyUninitUse:           "use of a possibly uninitialized value",
	VerifyLeakOnPath:          "owned value not released on some path",
	VerifyEscapesScope:        "borrow escapes the scope it was taken in",
	VerifyRetryExhausted:      "verification retry for this region did not resolve the conflict",
	CodegenInfo:               "codegen information",
	CodegenVariadicRewrite:    "variadic signature rewritten to an explicit container parameter",
	CodegenRawBlockEmitted:    "construct emitted inside an explicit unsafe/raw block",
	ObsInfo:                   "observability information",
	ObsTimings:                "pipeline stage timings",
	InternalInvariant:         "internal invariant violation",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("PARSE%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("UNSUP%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("OWN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("LIFE%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("VERIFY%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("CODEGEN%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("OBS%04d", ic)
	case ic >= 9000:
		return fmt.Sprintf("INTERNAL%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
