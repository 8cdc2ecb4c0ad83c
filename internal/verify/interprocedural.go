package verify

import (
	"csafe/internal/analyzer"
	"csafe/internal/hir"
)

// propagateRisky lets a ReturnsRiskyBorrow fact flow from a callee's
// summary into fsum when fn's own return statement simply forwards the
// callee's call (`return g(...)`), the same shape
// ownership.consumeFromCallees chases for ParamConsumed.
func (fs *funcState) propagateRisky(fsum *FuncSummary) bool {
	if fsum.ReturnsRiskyBorrow {
		return false
	}
	for i := range fs.res.CFG.Blocks {
		blk := &fs.res.CFG.Blocks[i]
		if blk.Term.Kind != analyzer.TermReturn || blk.Term.Return == nil {
			continue
		}
		ret := blk.Term.Return
		if ret.Kind != hir.ExprCall {
			continue
		}
		call := ret.Data.(hir.CallData)
		name, ok := fs.calleeName(call.Callee)
		if !ok {
			continue
		}
		callee, ok := fs.callee(name)
		if !ok || !callee.ReturnsRiskyBorrow {
			continue
		}
		fsum.ReturnsRiskyBorrow = true
		return true
	}
	return false
}
