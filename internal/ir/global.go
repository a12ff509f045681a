package ir

import "irgraph/internal/typectx"

// GlobalKind discriminates the two concrete global entities spec §3.7
// describes: a function and a global variable.
type GlobalKind uint8

const (
	GlobalVariable GlobalKind = iota
	GlobalFunction
)

// FuncArg is a function-argument traceable value (spec §3.7): it owns
// a user-ring but no operand list of its own — it is not a user, only
// a value.
type FuncArg struct {
	Function GlobalID
	Index    int
	Type     typectx.ID
	Users    UserRing
}

// Global is a function or a global variable, interned exactly once
// under its name in the module's symbol table (spec §3.7).
type Global struct {
	Kind GlobalKind
	Name string
	Type typectx.ID

	// GlobalVariable fields.
	Initializer UseID
	Readonly    bool

	// GlobalFunction fields.
	Args     []FuncArg
	Blocks   []BlockID
	External bool

	Users UserRing

	disposed bool
}

func (g *Global) removeBlock(id BlockID) {
	for i, b := range g.Blocks {
		if b == id {
			g.Blocks = append(g.Blocks[:i], g.Blocks[i+1:]...)
			return
		}
	}
}

// EntryBlock returns the function's entry block — position 0 of its
// block list (spec §3.7, invariant 6).
func (g *Global) EntryBlock() (BlockID, bool) {
	if len(g.Blocks) == 0 {
		return InvalidBlockID, false
	}
	return g.Blocks[0], true
}

// NewGlobalVariable allocates a global variable with one initializer
// Use (spec §3.7). The initializer value may be NoneValue() for an
// external/declared variable with no definition.
func (a *Allocs) NewGlobalVariable(name string, ty typectx.ID, init Value, readonly bool) (GlobalID, error) {
	u := a.NewUse(fixedUseKind("global-initializer"), UserRef{})
	if err := a.SetOperand(u, init); err != nil {
		return InvalidGlobalID, err
	}
	ring := a.NewUserRing()
	idx := a.globals.Allocate(Global{
		Kind:        GlobalVariable,
		Name:        name,
		Type:        ty,
		Initializer: u,
		Readonly:    readonly,
		Users:       ring,
	})
	id := GlobalID(idx)
	a.uses.Deref(int32(u)).user = userOfGlobal(id)
	a.FillUserRingSelf(ring, GlobalValue(ty, id))
	return id, nil
}

// NewFunction allocates a function global with one FuncArg value per
// entry of argTypes, of that type (spec §3.7). The function starts with no
// blocks; AppendBlock attaches them.
func (a *Allocs) NewFunction(name string, ty typectx.ID, argTypes []typectx.ID, external bool) GlobalID {
	ring := a.NewUserRing()
	idx := a.globals.Allocate(Global{
		Kind:     GlobalFunction,
		Name:     name,
		Type:     ty,
		External: external,
		Users:    ring,
	})
	id := GlobalID(idx)

	args := make([]FuncArg, len(argTypes))
	for i, at := range argTypes {
		args[i] = FuncArg{Function: id, Index: i, Type: at, Users: a.NewUserRing()}
	}
	g := a.globals.Deref(int32(id))
	g.Args = args
	for i := range args {
		a.FillUserRingSelf(args[i].Users, FuncArgValue(args[i].Type, id, i))
	}
	a.FillUserRingSelf(ring, GlobalValue(ty, id))
	return id
}

// AppendBlock attaches block to the end of fn's block list, binding
// block's parent-function pointer. The first block ever appended is
// the function's entry block (position 0).
func (a *Allocs) AppendBlock(fn GlobalID, block BlockID) {
	g := a.globals.Deref(int32(fn))
	g.Blocks = append(g.Blocks, block)
	b := a.blocks.Deref(int32(block))
	b.Function = fn
	b.HasFunction = true
}

// insertBlockAfter splices block into fn's block list immediately
// after after, used by split_block to place a new successor right
// next to the block it was split from rather than at the list's end.
func (a *Allocs) insertBlockAfter(fn GlobalID, after, block BlockID) {
	g := a.globals.Deref(int32(fn))
	b := a.blocks.Deref(int32(block))
	b.Function = fn
	b.HasFunction = true

	pos := -1
	for i, id := range g.Blocks {
		if id == after {
			pos = i
			break
		}
	}
	if pos < 0 {
		g.Blocks = append(g.Blocks, block)
		return
	}
	g.Blocks = append(g.Blocks, InvalidBlockID)
	copy(g.Blocks[pos+2:], g.Blocks[pos+1:])
	g.Blocks[pos+1] = block
}

// disposeGlobal implements Global's dispose_obj (spec §4.7): the name
// is unregistered from the symbol table by the caller (Module.DisposeNamedGlobal
// does this before calling DisposeID, per spec §4.7 "global disposal
// unregisters the name before releasing operands or body") — this
// method itself disposes the operand/body structures: the
// initializer Use for a variable, every argument's user-ring and
// every block for a function, and the global's own user-ring sentinel.
func (a *Allocs) disposeGlobal(id GlobalID) error {
	g := a.globals.Deref(int32(id))
	if g.disposed {
		return ErrAlreadyDisposed
	}
	g.disposed = true
	switch g.Kind {
	case GlobalVariable:
		if a.uses.IsLive(int32(g.Initializer)) {
			_ = a.disposeUse(g.Initializer)
		}
	case GlobalFunction:
		for _, arg := range g.Args {
			if a.uses.IsLive(int32(arg.Users.Sentinel)) {
				_ = a.disposeUse(arg.Users.Sentinel)
			}
		}
		blocks := append([]BlockID(nil), g.Blocks...)
		for _, b := range blocks {
			if a.blocks.IsLive(int32(b)) {
				_ = a.disposeBlock(b)
			}
		}
	}
	if a.uses.IsLive(int32(g.Users.Sentinel)) {
		_ = a.disposeUse(g.Users.Sentinel)
	}
	a.PushDisposed(anyOfGlobal(id))
	return nil
}
