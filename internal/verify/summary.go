package verify

import "csafe/internal/hir"

// FuncSummary is what one function's verification pass learns that a
// caller forwarding its return value needs, mirroring
// ownership.FuncSummary's cross-function shape.
type FuncSummary struct {
	Func hir.FuncID

	// ReturnsRiskyBorrow is true when some return path hands back a
	// borrow whose storage does not provably outlive the call -- set
	// either directly (checkEscapesScope) or by forwarding a callee's
	// own ReturnsRiskyBorrow (propagateRisky).
	ReturnsRiskyBorrow bool
}

// Summary is the verify stage's output: a clean/unclean verdict per
// function plus the cross-function escape facts propagateRisky resolved.
type Summary struct {
	Funcs map[hir.FuncID]*FuncSummary
}

func newSummary() *Summary {
	return &Summary{Funcs: make(map[hir.FuncID]*FuncSummary, 8)}
}

// Clean reports whether no function summary was ever marked with a
// return-escaping borrow -- a coarse "is it safe to hand this to codegen"
// signal; per-diagnostic severity in the Bag the caller passed as
// diag.Reporter is the authoritative source of what actually went wrong.
func (s *Summary) Clean() bool {
	for _, fsum := range s.Funcs {
		if fsum.ReturnsRiskyBorrow {
			return false
		}
	}
	return true
}
