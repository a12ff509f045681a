package ir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irgraph/internal/ir"
	"irgraph/internal/typectx"
)

// TestScenarioMaxConstruction builds the i32 max(a,b) function: entry
// computes `icmp sgt %0, %1`, branches to a then-block returning %0
// and an else-block returning %1.
func TestScenarioMaxConstruction(t *testing.T) {
	m := ir.NewModule("max")
	i32 := m.Types.Int(32)
	fn := m.Allocs.NewFunction("max", i32, []typectx.ID{i32, i32}, false)

	entry := m.Allocs.NewBlock()
	m.Allocs.AppendBlock(fn, entry)
	thenBB := m.Allocs.NewBlock()
	m.Allocs.AppendBlock(fn, thenBB)
	elseBB := m.Allocs.NewBlock()
	m.Allocs.AppendBlock(fn, elseBB)

	arg0 := ir.FuncArgValue(i32, fn, 0)
	arg1 := ir.FuncArgValue(i32, fn, 1)

	b := ir.NewBuilder(m)
	require.NoError(t, b.SetFocusBlock(entry))
	cmp, err := b.BuildInst(func(a *ir.Allocs) (ir.InstID, error) {
		return a.NewICmp("sgt", i32, arg0, arg1)
	})
	require.NoError(t, err)
	require.NoError(t, b.FocusSetBranchTo(ir.InstValue(i32, cmp), thenBB, elseBB))

	require.NoError(t, b.SetFocusBlock(thenBB))
	require.NoError(t, b.FocusSetRetTo(arg0, true))

	require.NoError(t, b.SetFocusBlock(elseBB))
	require.NoError(t, b.FocusSetRetTo(arg1, true))

	_, err = m.DefineGlobal("max", fn)
	require.NoError(t, err)

	assert.Equal(t, 3, len(m.Allocs.GlobalBlocks(fn)))

	assert.Equal(t, 1, m.Allocs.PredCount(m.Allocs.BlockPreds(thenBB)))
	assert.Equal(t, 1, m.Allocs.PredCount(m.Allocs.BlockPreds(elseBB)))

	args := m.Allocs.GlobalArgs(fn)
	require.Len(t, args, 2)
	assert.Equal(t, 2, m.Allocs.UserCount(args[0].Users)) // the icmp and the then-ret
	assert.Equal(t, 2, m.Allocs.UserCount(args[1].Users)) // the icmp and the else-ret

	r := ir.BasicSanityCheck(m)
	assert.True(t, r.OK(), "want a sane module, got findings: %v", r.Findings)
}

// TestScenarioReplaceAllUsesWithLocally covers spec §8 scenario 2:
// within max's then-block, a freshly computed %c = a + 1 replaces %a
// as the operand of that block's ret (rewritten directly with
// SetOperand on the ret's one Use), leaving the entry block's icmp
// operand untouched.
func TestScenarioReplaceAllUsesWithLocally(t *testing.T) {
	m := ir.NewModule("max")
	i32 := m.Types.Int(32)
	fn := m.Allocs.NewFunction("max", i32, []typectx.ID{i32, i32}, false)

	entry := m.Allocs.NewBlock()
	m.Allocs.AppendBlock(fn, entry)
	thenBB := m.Allocs.NewBlock()
	m.Allocs.AppendBlock(fn, thenBB)
	elseBB := m.Allocs.NewBlock()
	m.Allocs.AppendBlock(fn, elseBB)

	arg0 := ir.FuncArgValue(i32, fn, 0)
	arg1 := ir.FuncArgValue(i32, fn, 1)

	b := ir.NewBuilder(m)
	require.NoError(t, b.SetFocusBlock(entry))
	cmp, err := b.BuildInst(func(a *ir.Allocs) (ir.InstID, error) {
		return a.NewICmp("sgt", i32, arg0, arg1)
	})
	require.NoError(t, err)
	require.NoError(t, b.FocusSetBranchTo(ir.InstValue(i32, cmp), thenBB, elseBB))

	require.NoError(t, b.SetFocusBlock(thenBB))
	inc, err := b.BuildInst(func(a *ir.Allocs) (ir.InstID, error) {
		return a.NewBinOp("add", i32, arg0, ir.ConstIntValue(i32, 1))
	})
	require.NoError(t, err)
	require.NoError(t, b.FocusSetRetTo(arg0, true))

	require.NoError(t, b.SetFocusBlock(elseBB))
	require.NoError(t, b.FocusSetRetTo(arg1, true))

	// Rewrite only the ret operand in then-block, not the icmp's.
	retInThen, ok := m.Allocs.Terminator(thenBB)
	require.True(t, ok)
	retOperands := m.Allocs.InstOperands(retInThen)
	require.Len(t, retOperands, 1)
	require.NoError(t, m.Allocs.SetOperand(retOperands[0], ir.InstValue(i32, inc)))

	assert.Equal(t, ir.InstValue(i32, inc), m.Allocs.UseOperand(retOperands[0]))

	cmpOperands := m.Allocs.InstOperands(cmp)
	require.Len(t, cmpOperands, 2)
	assert.Equal(t, arg0, m.Allocs.UseOperand(cmpOperands[0]))

	r := ir.BasicSanityCheck(m)
	assert.True(t, r.OK(), "want a sane module, got findings: %v", r.Findings)
}

// TestScenarioDisposeDeadBlockViaGC covers spec §8 scenario 3: a block
// built but never attached to any function and never the destination
// of any JumpTarget is unreachable from the symbol table's pinned
// roots, so a GC cycle frees it along with its instructions and any
// Uses they owned.
func TestScenarioDisposeDeadBlockViaGC(t *testing.T) {
	m := ir.NewModule("m")
	i32 := m.Types.Int(32)

	fn := m.Allocs.NewFunction("f", 0, nil, false)
	entry := m.Allocs.NewBlock()
	m.Allocs.AppendBlock(fn, entry)
	b := ir.NewBuilder(m)
	require.NoError(t, b.SetFocusBlock(entry))
	require.NoError(t, b.FocusSetRetTo(ir.NoneValue(), false))
	_, err := m.DefineGlobal("f", fn)
	require.NoError(t, err)

	dead := m.Allocs.NewBlock()
	deadInst, err := m.Allocs.NewBinOp("add", i32, ir.ConstIntValue(i32, 1), ir.ConstIntValue(i32, 1))
	require.NoError(t, err)
	deadTerm, err := m.Allocs.NewRet(ir.InstValue(i32, deadInst), true)
	require.NoError(t, err)
	tail := m.Allocs.Instructions(dead)[2]
	m.Allocs.InsertInstBefore(dead, deadInst, tail)
	m.Allocs.InsertInstBefore(dead, deadTerm, tail)

	freed, err := ir.BeginGC(m)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, freed.Block, 1)
	assert.False(t, m.Allocs.IsLive(ir.AnyID{Class: ir.ClassBlock, Index: int32(dead)}))
	assert.False(t, m.Allocs.IsLive(ir.AnyID{Class: ir.ClassInst, Index: int32(deadInst)}))

	r := ir.BasicSanityCheck(m)
	assert.True(t, r.OK(), "want a sane module after GC, got findings: %v", r.Findings)
}

// TestScenarioIdempotentDispose covers spec §8 scenario 4: disposing
// the same instruction twice returns AlreadyDisposed the second time,
// and the module still passes a sanity check afterward.
func TestScenarioIdempotentDispose(t *testing.T) {
	m := ir.NewModule("m")
	i32 := m.Types.Int(32)

	add, err := m.Allocs.NewBinOp("add", i32, ir.ConstIntValue(i32, 1), ir.ConstIntValue(i32, 2))
	require.NoError(t, err)

	any := ir.AnyID{Class: ir.ClassInst, Index: int32(add)}
	require.NoError(t, m.Allocs.DisposeID(any))
	assert.ErrorIs(t, m.Allocs.DisposeID(any), ir.ErrAlreadyDisposed)

	m.Allocs.FreeDisposed()
	r := ir.BasicSanityCheck(m)
	assert.True(t, r.OK(), "want a sane module, got findings: %v", r.Findings)
}

// TestScenarioSplitBlockPreservesUseDef covers spec §8 scenario 5:
// splitting `%x = add ...; %y = mul %x, 2; ret %y` at the mul leaves
// the old block with just the add plus a fresh jump, and the new
// block with the mul and ret in order, with %x's use-def link intact.
func TestScenarioSplitBlockPreservesUseDef(t *testing.T) {
	m := ir.NewModule("m")
	i32 := m.Types.Int(32)

	fn := m.Allocs.NewFunction("f", i32, nil, false)
	entry := m.Allocs.NewBlock()
	m.Allocs.AppendBlock(fn, entry)

	tail := m.Allocs.Instructions(entry)[2]
	x, err := m.Allocs.NewBinOp("add", i32, ir.ConstIntValue(i32, 1), ir.ConstIntValue(i32, 1))
	require.NoError(t, err)
	m.Allocs.InsertInstBefore(entry, x, tail)
	y, err := m.Allocs.NewBinOp("mul", i32, ir.InstValue(i32, x), ir.ConstIntValue(i32, 2))
	require.NoError(t, err)
	m.Allocs.InsertInstBefore(entry, y, tail)
	ret, err := m.Allocs.NewRet(ir.InstValue(i32, y), true)
	require.NoError(t, err)
	m.Allocs.InsertInstBefore(entry, ret, tail)

	b := ir.NewBuilder(m)
	require.NoError(t, b.SetFocusInst(y))
	succ, err := b.SplitBlock()
	require.NoError(t, err)

	term, ok := m.Allocs.Terminator(entry)
	require.True(t, ok)
	assert.Equal(t, "br", m.Allocs.InstOpcode(term))

	succInsts := m.Allocs.Instructions(succ)
	require.Len(t, succInsts, 5)
	assert.Equal(t, y, succInsts[2])
	assert.Equal(t, ret, succInsts[3])

	xUsers := m.Allocs.Users(m.Allocs.InstUsers(x))
	assert.Len(t, xUsers, 1, "x should still have exactly the mul as its sole user")

	_, err = m.DefineGlobal("f", fn)
	require.NoError(t, err)
	r := ir.BasicSanityCheck(m)
	assert.True(t, r.OK(), "want a sane module after split, got findings: %v", r.Findings)
}

// TestScenarioSymbolTablePinSurvivesGC covers spec §8 scenario 6:
// a pinned function survives a GC cycle intact (entry block, args,
// instructions), while an unpinned, unreferenced function is freed.
func TestScenarioSymbolTablePinSurvivesGC(t *testing.T) {
	m := ir.NewModule("m")

	keep := m.Allocs.NewFunction("keep", 0, nil, false)
	keepEntry := m.Allocs.NewBlock()
	m.Allocs.AppendBlock(keep, keepEntry)
	bKeep := ir.NewBuilder(m)
	require.NoError(t, bKeep.SetFocusBlock(keepEntry))
	require.NoError(t, bKeep.FocusSetRetTo(ir.NoneValue(), false))
	_, err := m.DefineGlobal("keep", keep)
	require.NoError(t, err)

	drop := m.Allocs.NewFunction("drop", 0, nil, false)
	dropEntry := m.Allocs.NewBlock()
	m.Allocs.AppendBlock(drop, dropEntry)
	bDrop := ir.NewBuilder(m)
	require.NoError(t, bDrop.SetFocusBlock(dropEntry))
	require.NoError(t, bDrop.FocusSetRetTo(ir.NoneValue(), false))
	// drop is never registered/pinned.

	_, err = ir.BeginGC(m)
	require.NoError(t, err)

	_, stillKept := m.Symbols.Lookup("keep")
	assert.True(t, stillKept)
	assert.Equal(t, 1, len(m.Allocs.GlobalBlocks(keep)))
	assert.False(t, m.Allocs.IsLive(ir.AnyID{Class: ir.ClassGlobal, Index: int32(drop)}))

	r := ir.BasicSanityCheck(m)
	assert.True(t, r.OK(), "want a sane module after GC, got findings: %v", r.Findings)
}
