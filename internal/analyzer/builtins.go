package analyzer

import (
	"github.com/tigerlang/tigerc/internal/context"
	"github.com/tigerlang/tigerc/internal/types"
)

// RegisterBuiltins installs the user-callable runtime externs into vc:
// print, flush, getchar, ord, chr, size, substring, concat, not, exit.
// The runtime's malloc and init_array are deliberately absent — they have
// no expressible source-level signature and are only ever emitted by the
// translator for record and array construction.
func RegisterBuiltins(vc *context.VarContext) {
	fn := func(args []types.Ty, ret types.Ty) types.FunBinding {
		return types.FunBinding{Args: args, Ret: ret}
	}
	vc.Define("print", fn([]types.Ty{types.TStr{}}, types.TUnit{}))
	vc.Define("flush", fn(nil, types.TUnit{}))
	vc.Define("getchar", fn(nil, types.TStr{}))
	vc.Define("ord", fn([]types.Ty{types.TStr{}}, types.TInt{}))
	vc.Define("chr", fn([]types.Ty{types.TInt{}}, types.TStr{}))
	vc.Define("size", fn([]types.Ty{types.TStr{}}, types.TInt{}))
	vc.Define("substring", fn([]types.Ty{types.TStr{}, types.TInt{}, types.TInt{}}, types.TStr{}))
	vc.Define("concat", fn([]types.Ty{types.TStr{}, types.TStr{}}, types.TStr{}))
	vc.Define("not", fn([]types.Ty{types.TInt{}}, types.TInt{}))
	vc.Define("exit", fn([]types.Ty{types.TInt{}}, types.TUnit{}))
}
