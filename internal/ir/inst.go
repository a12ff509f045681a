package ir

import "irgraph/internal/typectx"

// InstCategory is the structural classification spec §3.6/§4.6 need
// to police block shape: which instructions are phis, which is the
// lone terminator, and which are ordinary. Anything opcode-specific
// beyond that (arithmetic semantics, comparison predicates, call
// argument typing) is deliberately out of this package's scope —
// spec §1 treats "concrete instruction encodings and their per-opcode
// validation" as an external collaborator.
type InstCategory uint8

const (
	CategoryNormal InstCategory = iota
	CategoryPhi
	CategoryTerminator
	// CategorySentinel marks the three structural markers every block
	// body carries: the head sentinel, the phi-end boundary, and the
	// tail sentinel (spec §3.6). They live in the same instruction
	// chain as real instructions but carry no opcode.
	CategorySentinel
)

// PhiPair is one (value, incoming-block) pair of a PhiInst's dynamic
// incoming list (spec §4.6).
type PhiPair struct {
	Value         UseID
	IncomingBlock UseID
}

// Inst is a single instruction entity. It is a node in its parent
// block's instruction chain (next/prev), a user of its generic
// Operands (plus, for phis, the dynamic PhiIncoming pairs), and,
// when it produces a value, itself traceable via Users.
type Inst struct {
	Category InstCategory
	Opcode   string
	Type     typectx.ID

	Parent  BlockID
	next    InstID
	prev    InstID

	Operands    []UseID
	PhiIncoming []PhiPair
	JumpTargets []JumpTargetID

	HasResult bool
	Users     UserRing
	disposed  bool
}

func (a *Allocs) instChainOps() chainOps[InstID] {
	return chainOps[InstID]{
		getNext: func(id InstID) InstID { return a.insts.Deref(int32(id)).next },
		setNext: func(id, v InstID) { a.insts.Deref(int32(id)).next = v },
		getPrev: func(id InstID) InstID { return a.insts.Deref(int32(id)).prev },
		setPrev: func(id, v InstID) { a.insts.Deref(int32(id)).prev = v },
	}
}

// IsTerminator reports whether id is a block's terminator instruction.
func (a *Allocs) IsTerminator(id InstID) bool {
	return a.insts.Deref(int32(id)).Category == CategoryTerminator
}

// IsPhi reports whether id is a phi instruction.
func (a *Allocs) IsPhi(id InstID) bool {
	return a.insts.Deref(int32(id)).Category == CategoryPhi
}

// NewInst allocates a non-phi, non-terminator instruction (icmp,
// binary arithmetic, call, and similar opcodes the builder treats
// generically) with fixed operands bound to the given values. If
// hasResult, a user-ring is created so the instruction is itself
// traceable. The instruction is NOT yet inserted into any block's
// chain; callers use the builder's insert_inst for that (spec §4.9).
func (a *Allocs) NewInst(opcode string, ty typectx.ID, operandValues []Value, hasResult bool) (InstID, error) {
	uses := make([]UseID, len(operandValues))
	for i, v := range operandValues {
		u := a.NewUse(indexedUseKind(opcode+"-operand", i), UserRef{})
		if err := a.SetOperand(u, v); err != nil {
			return InvalidInstID, err
		}
		uses[i] = u
	}
	var ring UserRing
	if hasResult {
		ring = a.NewUserRing()
	}
	idx := a.insts.Allocate(Inst{
		Category:  CategoryNormal,
		Opcode:    opcode,
		Type:      ty,
		Parent:    InvalidBlockID,
		Operands:  uses,
		HasResult: hasResult,
		Users:     ring,
	})
	id := InstID(idx)
	for _, u := range uses {
		a.uses.Deref(int32(u)).user = userOfInst(id)
	}
	if hasResult {
		a.FillUserRingSelf(ring, InstValue(ty, id))
	}
	return id, nil
}

// NewPhi allocates an empty phi instruction with the given result
// type. Incoming pairs are added afterward with AddIncoming (spec §4.6).
func (a *Allocs) NewPhi(ty typectx.ID) InstID {
	ring := a.NewUserRing()
	idx := a.insts.Allocate(Inst{
		Category:  CategoryPhi,
		Opcode:    "phi",
		Type:      ty,
		Parent:    InvalidBlockID,
		HasResult: true,
		Users:     ring,
	})
	id := InstID(idx)
	a.FillUserRingSelf(ring, InstValue(ty, id))
	return id
}

// AddIncoming appends an (value, incoming-block) pair at the next
// free index k, with both Uses' kinds set to incoming-value-k /
// incoming-block-k and bound to this phi (spec §4.6).
func (a *Allocs) AddIncoming(phi InstID, value Value, block BlockID) error {
	p := a.insts.Deref(int32(phi))
	k := len(p.PhiIncoming)
	valUse := a.NewUse(indexedUseKind("phi-incoming-value", k), userOfInst(phi))
	blkUse := a.NewUse(indexedUseKind("phi-incoming-block", k), userOfInst(phi))
	if err := a.SetOperand(valUse, value); err != nil {
		return err
	}
	if err := a.SetOperand(blkUse, BlockValue(0, block)); err != nil {
		return err
	}
	p.PhiIncoming = append(p.PhiIncoming, PhiPair{Value: valUse, IncomingBlock: blkUse})
	return nil
}

// RemoveIncoming removes the pair at index k using swap-then-pop; if
// the swap moved the last element into k's slot, that element's Use
// kinds are renumbered to k (spec §4.6).
func (a *Allocs) RemoveIncoming(phi InstID, k int) error {
	p := a.insts.Deref(int32(phi))
	if k < 0 || k >= len(p.PhiIncoming) {
		return ErrInvariantBroken
	}
	removed := p.PhiIncoming[k]
	if err := a.disposeUse(removed.Value); err != nil {
		return err
	}
	if err := a.disposeUse(removed.IncomingBlock); err != nil {
		return err
	}
	last := len(p.PhiIncoming) - 1
	if k != last {
		moved := p.PhiIncoming[last]
		a.uses.Deref(int32(moved.Value)).kind = indexedUseKind("phi-incoming-value", k)
		a.uses.Deref(int32(moved.IncomingBlock)).kind = indexedUseKind("phi-incoming-block", k)
		p.PhiIncoming[k] = moved
	}
	p.PhiIncoming = p.PhiIncoming[:last]
	return nil
}

// disposeInst implements Inst's dispose_obj: dispose owned operand
// Uses, phi-incoming Uses, owned JumpTargets (if a terminator), and
// the user-ring sentinel if traceable.
func (a *Allocs) disposeInst(id InstID) error {
	inst := a.insts.Deref(int32(id))
	if inst.disposed {
		return ErrAlreadyDisposed
	}
	inst.disposed = true
	for _, u := range inst.Operands {
		if a.uses.IsLive(int32(u)) {
			_ = a.disposeUse(u)
		}
	}
	for _, pair := range inst.PhiIncoming {
		if a.uses.IsLive(int32(pair.Value)) {
			_ = a.disposeUse(pair.Value)
		}
		if a.uses.IsLive(int32(pair.IncomingBlock)) {
			_ = a.disposeUse(pair.IncomingBlock)
		}
	}
	for _, jt := range inst.JumpTargets {
		if a.jts.IsLive(int32(jt)) {
			_ = a.disposeJumpTarget(jt)
		}
	}
	if inst.HasResult && a.uses.IsLive(int32(inst.Users.Sentinel)) {
		_ = a.disposeUse(inst.Users.Sentinel)
	}
	a.PushDisposed(anyOfInst(id))
	return nil
}
