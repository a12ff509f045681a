package ir

import "irgraph/internal/typectx"

// This file holds the generic constructors for the handful of
// terminator shapes the builder needs to close off a block (spec
// §4.6, §4.9): return, unconditional jump, conditional branch, and
// switch. Like NewInst, these are opcode-generic — validating a
// concrete calling convention or a switch's case typing is left to a
// caller built on top of this package (spec §1).

// NewRet allocates a return terminator, optionally carrying one
// return value.
func (a *Allocs) NewRet(value Value, hasValue bool) (InstID, error) {
	var uses []UseID
	if hasValue {
		u := a.NewUse(fixedUseKind("ret-value"), UserRef{})
		if err := a.SetOperand(u, value); err != nil {
			return InvalidInstID, err
		}
		uses = []UseID{u}
	}
	idx := a.insts.Allocate(Inst{Category: CategoryTerminator, Opcode: "ret", Parent: InvalidBlockID, Operands: uses})
	id := InstID(idx)
	for _, u := range uses {
		a.uses.Deref(int32(u)).user = userOfInst(id)
	}
	return id, nil
}

// NewJump allocates an unconditional branch to target.
func (a *Allocs) NewJump(target BlockID) (InstID, error) {
	jt := a.NewJumpTarget(fixedJTKind("jump"))
	idx := a.insts.Allocate(Inst{Category: CategoryTerminator, Opcode: "br", Parent: InvalidBlockID, JumpTargets: []JumpTargetID{jt}})
	id := InstID(idx)
	a.SetTerminator(jt, id)
	if err := a.SetBlock(jt, target, true); err != nil {
		return InvalidInstID, err
	}
	return id, nil
}

// NewCondBranch allocates a two-way conditional branch.
func (a *Allocs) NewCondBranch(cond Value, thenBB, elseBB BlockID) (InstID, error) {
	condUse := a.NewUse(fixedUseKind("branch-condition"), UserRef{})
	if err := a.SetOperand(condUse, cond); err != nil {
		return InvalidInstID, err
	}
	thenJT := a.NewJumpTarget(fixedJTKind("branch-then"))
	elseJT := a.NewJumpTarget(fixedJTKind("branch-else"))

	idx := a.insts.Allocate(Inst{
		Category:    CategoryTerminator,
		Opcode:      "condbr",
		Parent:      InvalidBlockID,
		Operands:    []UseID{condUse},
		JumpTargets: []JumpTargetID{thenJT, elseJT},
	})
	id := InstID(idx)
	a.uses.Deref(int32(condUse)).user = userOfInst(id)

	a.SetTerminator(thenJT, id)
	a.SetTerminator(elseJT, id)
	if err := a.SetBlock(thenJT, thenBB, true); err != nil {
		return InvalidInstID, err
	}
	if err := a.SetBlock(elseJT, elseBB, true); err != nil {
		return InvalidInstID, err
	}
	return id, nil
}

// NewSwitch allocates a switch terminator with a discriminant, a
// default target, and an initial set of case targets. Every owned
// JumpTarget's terminator is bound in one final pass after allocation
// — init_self_id runs last and is authoritative regardless of the
// order the JumpTargets were created in (spec §9's open question;
// see also Allocs.SetTerminator and PushCase below).
func (a *Allocs) NewSwitch(discrim Value, defaultBB BlockID, caseBBs []BlockID) (InstID, error) {
	discrimUse := a.NewUse(fixedUseKind("switch-discriminant"), UserRef{})
	if err := a.SetOperand(discrimUse, discrim); err != nil {
		return InvalidInstID, err
	}

	defaultJT := a.NewJumpTarget(fixedJTKind("switch-default"))
	jts := make([]JumpTargetID, 0, 1+len(caseBBs))
	jts = append(jts, defaultJT)
	for i := range caseBBs {
		jts = append(jts, a.NewJumpTarget(indexedJTKind("switch-case", i)))
	}

	idx := a.insts.Allocate(Inst{
		Category:    CategoryTerminator,
		Opcode:      "switch",
		Parent:      InvalidBlockID,
		Operands:    []UseID{discrimUse},
		JumpTargets: jts,
	})
	id := InstID(idx)
	a.uses.Deref(int32(discrimUse)).user = userOfInst(id)

	for _, jt := range jts {
		a.SetTerminator(jt, id)
	}
	if err := a.SetBlock(defaultJT, defaultBB, true); err != nil {
		return InvalidInstID, err
	}
	for i, bb := range caseBBs {
		if err := a.SetBlock(jts[i+1], bb, true); err != nil {
			return InvalidInstID, err
		}
	}
	return id, nil
}

// PushCase appends a new case target to an already-constructed
// switch. Unlike NewSwitch's initial cases, the owning instruction id
// is already known here, so SetTerminator runs immediately rather
// than in a final back-filling pass (spec §4.6, the other branch of
// spec §9's open question).
func (a *Allocs) PushCase(sw InstID, target BlockID) (JumpTargetID, error) {
	s := a.insts.Deref(int32(sw))
	caseIndex := len(s.JumpTargets) - 1 // slot 0 is the default
	jt := a.NewJumpTarget(indexedJTKind("switch-case", caseIndex))
	a.SetTerminator(jt, sw)
	if err := a.SetBlock(jt, target, true); err != nil {
		return InvalidJumpTargetID, err
	}
	s.JumpTargets = append(s.JumpTargets, jt)
	return jt, nil
}

// NewICmp and NewBinOp are thin, opcode-generic conveniences over
// NewInst for the handful of scenarios this package's own tests
// exercise end-to-end (spec §8); they carry no per-opcode validation,
// consistent with NewInst's scope note.
func (a *Allocs) NewICmp(pred string, ty typectx.ID, lhs, rhs Value) (InstID, error) {
	return a.NewInst("icmp."+pred, ty, []Value{lhs, rhs}, true)
}

func (a *Allocs) NewBinOp(op string, ty typectx.ID, lhs, rhs Value) (InstID, error) {
	return a.NewInst(op, ty, []Value{lhs, rhs}, true)
}

func (a *Allocs) NewCall(ty typectx.ID, args []Value, hasResult bool) (InstID, error) {
	return a.NewInst("call", ty, args, hasResult)
}
