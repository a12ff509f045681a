package dump

import (
	"irgraph/internal/ir"
	"irgraph/internal/typectx"
)

// MaxModule builds the `fn max(a: i32, b: i32) -> i32` scenario spec
// §8's first worked example walks through: entry computes
// `icmp sgt %a, %b`, branches to a then-block returning %a and an
// else-block returning %b. Shared by cmd/irgraph-cli and
// cmd/irgraph-dump so both demonstrations exercise the identical module.
func MaxModule() *ir.Module {
	m := ir.NewModule("max")
	i32 := m.Types.Int(32)
	fn := m.Allocs.NewFunction("max", i32, []typectx.ID{i32, i32}, false)

	entry := m.Allocs.NewBlock()
	m.Allocs.AppendBlock(fn, entry)
	thenBB := m.Allocs.NewBlock()
	m.Allocs.AppendBlock(fn, thenBB)
	elseBB := m.Allocs.NewBlock()
	m.Allocs.AppendBlock(fn, elseBB)

	a := ir.FuncArgValue(i32, fn, 0)
	b := ir.FuncArgValue(i32, fn, 1)

	bld := ir.NewBuilder(m)
	must(bld.SetFocusBlock(entry))
	cmp, err := bld.BuildInst(func(allocs *ir.Allocs) (ir.InstID, error) {
		return allocs.NewICmp("sgt", i32, a, b)
	})
	must(err)
	must(bld.FocusSetBranchTo(ir.InstValue(i32, cmp), thenBB, elseBB))

	must(bld.SetFocusBlock(thenBB))
	must(bld.FocusSetRetTo(a, true))

	must(bld.SetFocusBlock(elseBB))
	must(bld.FocusSetRetTo(b, true))

	if _, err := m.DefineGlobal("max", fn); err != nil {
		panic(err)
	}
	return m
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
