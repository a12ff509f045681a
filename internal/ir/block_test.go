package ir

import (
	"errors"
	"testing"
)

func TestNewBlockShape(t *testing.T) {
	a := newTestAllocs()
	b := a.NewBlock()
	insts := a.Instructions(b)
	if len(insts) != 3 {
		t.Fatalf("empty block should have 3 sentinels, got %d", len(insts))
	}
	bl := a.blocks.Deref(int32(b))
	if insts[0] != bl.Head || insts[1] != bl.PhiEnd || insts[2] != bl.Tail {
		t.Fatalf("unexpected sentinel order: %v", insts)
	}
	if _, ok := a.Terminator(b); ok {
		t.Fatal("empty block should have no terminator")
	}
}

func TestInsertInstBeforeAndTerminator(t *testing.T) {
	a := newTestAllocs()
	b := a.NewBlock()
	bl := a.blocks.Deref(int32(b))

	normal, err := a.NewInst("add", 0, nil, true)
	if err != nil {
		t.Fatal(err)
	}
	a.InsertInstBefore(b, normal, bl.Tail)

	term, err := a.NewJump(b)
	if err != nil {
		t.Fatal(err)
	}
	a.InsertInstBefore(b, term, bl.Tail)

	got, ok := a.Terminator(b)
	if !ok || got != term {
		t.Fatalf("want terminator %d, got %d ok=%v", term, got, ok)
	}
	if a.insts.Deref(int32(normal)).Parent != b {
		t.Fatal("InsertInstBefore should set parent before splicing")
	}
}

func TestRemoveInstClearsParent(t *testing.T) {
	a := newTestAllocs()
	b := a.NewBlock()
	bl := a.blocks.Deref(int32(b))
	inst, err := a.NewInst("add", 0, nil, true)
	if err != nil {
		t.Fatal(err)
	}
	a.InsertInstBefore(b, inst, bl.Tail)
	a.RemoveInst(inst)

	if a.insts.Deref(int32(inst)).Parent != InvalidBlockID {
		t.Fatal("RemoveInst should clear parent")
	}
	if len(a.Instructions(b)) != 3 {
		t.Fatalf("block should be back to just its 3 sentinels, got %d", len(a.Instructions(b)))
	}
}

func TestDisposeBlockIsIdempotentAndFreesChildren(t *testing.T) {
	a := newTestAllocs()
	b := a.NewBlock()
	bl := a.blocks.Deref(int32(b))
	inst, err := a.NewInst("add", 0, nil, true)
	if err != nil {
		t.Fatal(err)
	}
	a.InsertInstBefore(b, inst, bl.Tail)

	if err := a.DisposeID(anyOfBlock(b)); err != nil {
		t.Fatalf("first dispose: %v", err)
	}
	if err := a.DisposeID(anyOfBlock(b)); !errors.Is(err, ErrAlreadyDisposed) {
		t.Fatalf("want ErrAlreadyDisposed, got %v", err)
	}
	// Child instruction was disposed too, and is itself idempotent now.
	if err := a.DisposeID(anyOfInst(inst)); !errors.Is(err, ErrAlreadyDisposed) {
		t.Fatalf("child instruction should already be disposed, got %v", err)
	}
}
