package ir

import "irgraph/internal/typectx"

// This file is the read-only view external packages (tests, the dump
// and CLI commands) get onto pool-held entities, without handing out
// the pools themselves. Everything here is a plain accessor — no
// mutation, no invariant enforcement beyond what the getters already
// imply (e.g. a dead id's fields are whatever the zeroed pool slot
// holds, matching Pool.Deref's own documented contract).

// GlobalKindOf reports whether id names a function or a variable.
func (a *Allocs) GlobalKindOf(id GlobalID) GlobalKind {
	return a.globals.Deref(int32(id)).Kind
}

// GlobalName returns id's interned name.
func (a *Allocs) GlobalName(id GlobalID) string {
	return a.globals.Deref(int32(id)).Name
}

// GlobalType returns id's type (return type for a function, storage
// type for a variable).
func (a *Allocs) GlobalType(id GlobalID) typectx.ID {
	return a.globals.Deref(int32(id)).Type
}

// GlobalArgs returns a function's argument list. Empty for a variable.
func (a *Allocs) GlobalArgs(id GlobalID) []FuncArg {
	return a.globals.Deref(int32(id)).Args
}

// GlobalBlocks returns a function's block order. Empty for a variable.
func (a *Allocs) GlobalBlocks(id GlobalID) []BlockID {
	return a.globals.Deref(int32(id)).Blocks
}

// GlobalUsers returns id's own user-ring (the value of the global
// itself, e.g. a function pointer or a variable's address).
func (a *Allocs) GlobalUsers(id GlobalID) UserRing {
	return a.globals.Deref(int32(id)).Users
}

// GlobalInitializer returns a variable's initializer Use. Invalid for
// a function.
func (a *Allocs) GlobalInitializer(id GlobalID) UseID {
	return a.globals.Deref(int32(id)).Initializer
}

// BlockFunction returns the function a block belongs to, if any.
func (a *Allocs) BlockFunction(id BlockID) (GlobalID, bool) {
	b := a.blocks.Deref(int32(id))
	return b.Function, b.HasFunction
}

// BlockUsers returns a block's own user-ring (uses of the block as a
// branch target's labeled value, distinct from its predecessor ring).
func (a *Allocs) BlockUsers(id BlockID) UserRing {
	return a.blocks.Deref(int32(id)).Users
}

// BlockPreds returns a block's predecessor ring.
func (a *Allocs) BlockPreds(id BlockID) PredList {
	return a.blocks.Deref(int32(id)).Preds
}

// InstParent returns the block an instruction currently sits in, or
// InvalidBlockID if it has not been spliced into one.
func (a *Allocs) InstParent(id InstID) BlockID {
	return a.insts.Deref(int32(id)).Parent
}

// InstOpcode returns an instruction's opcode string.
func (a *Allocs) InstOpcode(id InstID) string {
	return a.insts.Deref(int32(id)).Opcode
}

// InstType returns an instruction's result type (meaningless if
// !HasResult).
func (a *Allocs) InstType(id InstID) typectx.ID {
	return a.insts.Deref(int32(id)).Type
}

// InstCategoryOf returns an instruction's structural category.
func (a *Allocs) InstCategoryOf(id InstID) InstCategory {
	return a.insts.Deref(int32(id)).Category
}

// InstHasResult reports whether id produces a traceable value.
func (a *Allocs) InstHasResult(id InstID) bool {
	return a.insts.Deref(int32(id)).HasResult
}

// InstUsers returns an instruction's user-ring (meaningless if !HasResult).
func (a *Allocs) InstUsers(id InstID) UserRing {
	return a.insts.Deref(int32(id)).Users
}

// InstOperands returns an instruction's fixed operand Uses.
func (a *Allocs) InstOperands(id InstID) []UseID {
	return a.insts.Deref(int32(id)).Operands
}

// InstPhiIncoming returns a phi's dynamic incoming pairs.
func (a *Allocs) InstPhiIncoming(id InstID) []PhiPair {
	return a.insts.Deref(int32(id)).PhiIncoming
}

// InstJumpTargets returns a terminator's owned JumpTargets.
func (a *Allocs) InstJumpTargets(id InstID) []JumpTargetID {
	return a.insts.Deref(int32(id)).JumpTargets
}

// UseOperand returns the Value a Use currently points at.
func (a *Allocs) UseOperand(id UseID) Value {
	return a.uses.Deref(int32(id)).operand
}

// UseUser returns the entity that owns a Use's operand slot.
func (a *Allocs) UseUser(id UseID) UserRef {
	return a.uses.Deref(int32(id)).user
}

// JumpTargetDestination returns a JumpTarget's destination block, if any.
func (a *Allocs) JumpTargetDestination(id JumpTargetID) (BlockID, bool) {
	jt := a.jts.Deref(int32(id))
	return jt.destination, jt.hasDest
}

// JumpTargetTerminator returns a JumpTarget's owning terminator, if any.
func (a *Allocs) JumpTargetTerminator(id JumpTargetID) (InstID, bool) {
	jt := a.jts.Deref(int32(id))
	return jt.terminator, jt.hasTerm
}

// ExprOp returns a constant expression's opcode.
func (a *Allocs) ExprOp(id ExprID) string {
	return a.exprs.Deref(int32(id)).Op
}

// ExprOperands returns a constant expression's operand Uses.
func (a *Allocs) ExprOperands(id ExprID) []UseID {
	return a.exprs.Deref(int32(id)).Operands
}

// ExprUsers returns a constant expression's user-ring.
func (a *Allocs) ExprUsers(id ExprID) UserRing {
	return a.exprs.Deref(int32(id)).Users
}
