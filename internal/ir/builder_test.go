package ir

import (
	"errors"
	"testing"

	"irgraph/internal/typectx"
)

func newTestModule(name string) *Module {
	return NewModule(name)
}

func TestBuilderInsertNormalInstBeforeTerminator(t *testing.T) {
	m := newTestModule("m")
	types := m.Types
	i32 := types.Int(32)
	fn := m.Allocs.NewFunction("f", i32, nil, false)
	entry := m.Allocs.NewBlock()
	m.Allocs.AppendBlock(fn, entry)

	b := NewBuilder(m)
	if err := b.SetFocusBlock(entry); err != nil {
		t.Fatal(err)
	}
	if err := b.FocusSetRetTo(NoneValue(), false); err != nil {
		t.Fatal(err)
	}

	b.focusInst = InvalidInstID // drop instruction focus, re-derive natural position
	add, err := b.BuildInst(func(a *Allocs) (InstID, error) {
		return a.NewBinOp("add", i32, ConstIntValue(i32, 1), ConstIntValue(i32, 2))
	})
	if err != nil {
		t.Fatal(err)
	}

	insts := m.Allocs.Instructions(entry)
	// head, phi-end, add, ret, tail
	if len(insts) != 5 {
		t.Fatalf("want 5 instructions, got %d: %v", len(insts), insts)
	}
	if insts[2] != add {
		t.Fatalf("add should land right before the terminator, got order %v", insts)
	}
}

func TestBuilderForbidsSecondTerminator(t *testing.T) {
	m := newTestModule("m")
	fn := m.Allocs.NewFunction("f", 0, nil, false)
	entry := m.Allocs.NewBlock()
	m.Allocs.AppendBlock(fn, entry)

	b := NewBuilder(m)
	if err := b.SetFocusBlock(entry); err != nil {
		t.Fatal(err)
	}
	if err := b.FocusSetJumpTo(entry); err != nil {
		t.Fatal(err)
	}

	// A second *fresh* terminator inserted via InsertInst (not through
	// a Focus-Set-*-To replacement) should be rejected.
	jmp, err := m.Allocs.NewJump(entry)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.InsertInst(jmp); !errors.Is(err, ErrCannotSplitHere) {
		t.Fatalf("want ErrCannotSplitHere, got %v", err)
	}
}

func TestBuilderPhiDegradeToBlock(t *testing.T) {
	m := newTestModule("m")
	types := m.Types
	i32 := types.Int(32)
	fn := m.Allocs.NewFunction("f", i32, nil, false)
	entry := m.Allocs.NewBlock()
	m.Allocs.AppendBlock(fn, entry)

	b := NewBuilder(m)
	if err := b.SetFocusBlock(entry); err != nil {
		t.Fatal(err)
	}
	if err := b.FocusSetRetTo(NoneValue(), false); err != nil {
		t.Fatal(err)
	}
	// Focus currently sits on the ret (body region). Inserting a phi
	// here should degrade to the natural phi-end position rather than
	// literally splicing a phi into the body region right before the ret.
	phi := m.Allocs.NewPhi(i32)
	if err := b.InsertInst(phi); err != nil {
		t.Fatal(err)
	}
	bl := m.Allocs.blocks.Deref(int32(entry))
	if !b.positionInPhiRegion(bl, phi) {
		t.Fatal("degraded phi insertion should land within the phi region")
	}
}

func TestSplitBlockAtTailAddsJumpToEmptySuccessor(t *testing.T) {
	m := newTestModule("m")
	fn := m.Allocs.NewFunction("f", 0, nil, false)
	entry := m.Allocs.NewBlock()
	m.Allocs.AppendBlock(fn, entry)

	b := NewBuilder(m)
	if err := b.SetFocusBlock(entry); err != nil {
		t.Fatal(err)
	}
	succ, err := b.SplitBlock()
	if err != nil {
		t.Fatal(err)
	}

	term, ok := m.Allocs.Terminator(entry)
	if !ok || m.Allocs.insts.Deref(int32(term)).Opcode != "br" {
		t.Fatal("old block should end in an unconditional jump")
	}
	g := m.Allocs.globals.Deref(int32(fn))
	if len(g.Blocks) != 2 || g.Blocks[1] != succ {
		t.Fatalf("successor should be appended right after entry, got %v", g.Blocks)
	}
	if len(m.Allocs.Instructions(succ)) != 3 {
		t.Fatal("fresh successor should be empty (just sentinels)")
	}
}

func TestSplitBlockMidBlockMigratesSuffixAndTerminator(t *testing.T) {
	m := newTestModule("m")
	types := m.Types
	i32 := types.Int(32)
	fn := m.Allocs.NewFunction("f", i32, nil, false)
	entry := m.Allocs.NewBlock()
	m.Allocs.AppendBlock(fn, entry)
	bl := m.Allocs.blocks.Deref(int32(entry))

	x, err := m.Allocs.NewBinOp("add", i32, ConstIntValue(i32, 1), ConstIntValue(i32, 1))
	if err != nil {
		t.Fatal(err)
	}
	m.Allocs.InsertInstBefore(entry, x, bl.Tail)
	y, err := m.Allocs.NewBinOp("mul", i32, InstValue(i32, x), ConstIntValue(i32, 2))
	if err != nil {
		t.Fatal(err)
	}
	m.Allocs.InsertInstBefore(entry, y, bl.Tail)
	ret, err := m.Allocs.NewRet(InstValue(i32, y), true)
	if err != nil {
		t.Fatal(err)
	}
	m.Allocs.InsertInstBefore(entry, ret, bl.Tail)

	b := NewBuilder(m)
	if err := b.SetFocusInst(y); err != nil {
		t.Fatal(err)
	}
	succ, err := b.SplitBlock()
	if err != nil {
		t.Fatal(err)
	}

	entryInsts := m.Allocs.Instructions(entry)
	// head, phi-end, add(x), br, tail
	if len(entryInsts) != 5 {
		t.Fatalf("old block should keep only the add and gain a jump, got %d: %v", len(entryInsts), entryInsts)
	}
	succInsts := m.Allocs.Instructions(succ)
	// head, phi-end, mul(y), ret, tail
	if len(succInsts) != 5 || succInsts[2] != y || succInsts[3] != ret {
		t.Fatalf("new block should carry mul and ret in order, got %v", succInsts)
	}
	if xUsers := m.Allocs.Users(m.Allocs.insts.Deref(int32(x)).Users); len(xUsers) != 1 {
		t.Fatalf("x should still have exactly 1 user (the mul), got %d", len(xUsers))
	}
}
