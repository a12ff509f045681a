package ir

import (
	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
)

// DegradePolicy selects how Builder.InsertInst behaves when an
// instruction's category doesn't match where the builder's focus
// instruction currently sits (spec §4.9): a phi aimed past the
// phi-end boundary, a non-phi aimed before it, or a terminator aimed
// anywhere but the block's tail.
type DegradePolicy uint8

const (
	// PolicyStrictFail rejects the insertion with ErrFocusDegraded.
	PolicyStrictFail DegradePolicy = iota
	// PolicyDegradeToBlock ignores the focus instruction and falls
	// back to the category's natural position in the block.
	PolicyDegradeToBlock
	// PolicyIgnore inserts at the literal focus position anyway.
	PolicyIgnore
)

// FocusDegradeConfig holds one DegradePolicy per mismatch situation
// spec §4.9 names. A Builder returned by NewBuilder uses
// DefaultFocusDegradeConfig.
type FocusDegradeConfig struct {
	PhiIntoBody         DegradePolicy
	NonPhiBeforePhiEnd  DegradePolicy
	TerminatorPlacement DegradePolicy
}

// DefaultFocusDegradeConfig degrades silently for phi/non-phi
// placement (the common case when a caller hasn't bothered to
// reposition focus between phi and body instructions) but fails
// strictly for a misplaced terminator, since that almost always
// indicates the caller meant to call SplitBlock first.
func DefaultFocusDegradeConfig() FocusDegradeConfig {
	return FocusDegradeConfig{
		PhiIntoBody:         PolicyDegradeToBlock,
		NonPhiBeforePhiEnd:  PolicyDegradeToBlock,
		TerminatorPlacement: PolicyStrictFail,
	}
}

// Builder wraps a Module with a (function, block, instruction) focus
// triple (spec §4.9) — the cursor a caller repositions with SetFocus*
// and inserts new instructions relative to.
type Builder struct {
	module *Module

	focusFunc  GlobalID
	focusBlock BlockID
	focusInst  InstID

	degrade FocusDegradeConfig
	log     commonlog.Logger
}

// NewBuilder returns a Builder over m with no focus set and the
// default degrade policy.
func NewBuilder(m *Module) *Builder {
	return &Builder{
		module:     m,
		focusFunc:  InvalidGlobalID,
		focusBlock: InvalidBlockID,
		focusInst:  InvalidInstID,
		degrade:    DefaultFocusDegradeConfig(),
		log:        commonlog.GetLogger("irgraph.builder"),
	}
}

// WithDegradeConfig replaces the degrade policy and returns b for chaining.
func (b *Builder) WithDegradeConfig(cfg FocusDegradeConfig) *Builder {
	b.degrade = cfg
	return b
}

// Module returns the module b builds into.
func (b *Builder) Module() *Module { return b.module }

// Focus returns the current (function, block, instruction) triple.
// A component is InvalidXID if unset.
func (b *Builder) Focus() (GlobalID, BlockID, InstID) {
	return b.focusFunc, b.focusBlock, b.focusInst
}

// SetFocusFunction points the builder at fn with no block or
// instruction focus.
func (b *Builder) SetFocusFunction(fn GlobalID) error {
	if !b.module.Allocs.globals.IsLive(int32(fn)) {
		return errors.Wrapf(ErrFocusInvalid, "set focus function %d", fn)
	}
	b.focusFunc = fn
	b.focusBlock = InvalidBlockID
	b.focusInst = InvalidInstID
	return nil
}

// SetFocusBlock points the builder at block, deriving its owning
// function, with no instruction focus.
func (b *Builder) SetFocusBlock(block BlockID) error {
	a := b.module.Allocs
	if !a.blocks.IsLive(int32(block)) {
		return errors.Wrapf(ErrFocusInvalid, "set focus block %d", block)
	}
	bl := a.blocks.Deref(int32(block))
	if !bl.HasFunction {
		return errors.Wrapf(ErrFocusInvalid, "set focus block %d: block has no owning function", block)
	}
	b.focusFunc = bl.Function
	b.focusBlock = block
	b.focusInst = InvalidInstID
	return nil
}

// SetFocusInst points the builder at inst, deriving its owning block
// and function.
func (b *Builder) SetFocusInst(inst InstID) error {
	a := b.module.Allocs
	if !a.insts.IsLive(int32(inst)) {
		return errors.Wrapf(ErrFocusInvalid, "set focus inst %d", inst)
	}
	in := a.insts.Deref(int32(inst))
	if in.Parent == InvalidBlockID {
		return errors.Wrapf(ErrFocusInvalid, "set focus inst %d: detached from any block", inst)
	}
	bl := a.blocks.Deref(int32(in.Parent))
	if !bl.HasFunction {
		return errors.Wrapf(ErrFocusInvalid, "set focus inst %d: owning block %d has no function", inst, in.Parent)
	}
	b.focusFunc = bl.Function
	b.focusBlock = in.Parent
	b.focusInst = inst
	return nil
}

// positionInPhiRegion reports whether id sits at or before bl's
// phi-end boundary — i.e. whether inserting a new node immediately
// before id keeps it within the phi region.
func (b *Builder) positionInPhiRegion(bl *Block, id InstID) bool {
	ops := b.module.Allocs.instChainOps()
	for cur := bl.Head; ; cur = ops.getNext(cur) {
		if cur == id {
			return true
		}
		if cur == bl.PhiEnd {
			return false
		}
	}
}

func (b *Builder) applyDegrade(policy DegradePolicy, natural, literal InstID, hasLiteral bool) (InstID, error) {
	switch policy {
	case PolicyDegradeToBlock:
		return natural, nil
	case PolicyIgnore:
		if hasLiteral {
			return literal, nil
		}
		return natural, nil
	case PolicyStrictFail:
		fallthrough
	default:
		return InvalidInstID, ErrFocusDegraded
	}
}

// resolvePivot decides which existing instruction a new one of
// category cat should be spliced in front of, given the current
// instruction focus (spec §4.9).
func (b *Builder) resolvePivot(blockID BlockID, cat InstCategory) (InstID, error) {
	a := b.module.Allocs
	bl := a.blocks.Deref(int32(blockID))
	hasLiteral := b.focusInst != InvalidInstID
	literal := b.focusInst

	switch cat {
	case CategoryPhi:
		if hasLiteral && b.positionInPhiRegion(bl, literal) {
			return literal, nil
		}
		id, err := b.applyDegrade(b.degrade.PhiIntoBody, bl.PhiEnd, literal, hasLiteral)
		return id, errors.Wrapf(err, "insert phi into block %d at inst %d", blockID, literal)

	case CategoryTerminator:
		if _, ok := a.Terminator(blockID); ok {
			return InvalidInstID, errors.Wrapf(ErrCannotSplitHere, "insert terminator into block %d: already terminated", blockID)
		}
		if hasLiteral && literal == bl.Tail {
			return literal, nil
		}
		id, err := b.applyDegrade(b.degrade.TerminatorPlacement, bl.Tail, literal, hasLiteral)
		return id, errors.Wrapf(err, "insert terminator into block %d at inst %d", blockID, literal)

	default: // CategoryNormal
		if hasLiteral && !b.positionInPhiRegion(bl, literal) {
			return literal, nil
		}
		natural := bl.Tail
		if t, ok := a.Terminator(blockID); ok {
			natural = t
		}
		id, err := b.applyDegrade(b.degrade.NonPhiBeforePhiEnd, natural, literal, hasLiteral)
		return id, errors.Wrapf(err, "insert inst into block %d at inst %d", blockID, literal)
	}
}

// InsertInst splices an already-allocated instruction into the
// focused block at the position its category and the current focus
// dictate, then moves instruction focus onto it (spec §4.9).
func (b *Builder) InsertInst(inst InstID) error {
	if b.focusBlock == InvalidBlockID {
		return errors.Wrapf(ErrFocusInvalid, "insert inst %d: no block focus", inst)
	}
	in := b.module.Allocs.insts.Deref(int32(inst))
	pivot, err := b.resolvePivot(b.focusBlock, in.Category)
	if err != nil {
		return err
	}
	b.module.Allocs.InsertInstBefore(b.focusBlock, inst, pivot)
	b.focusInst = inst
	return nil
}

// BuildInst runs construct — typically one of the Allocs.New*
// constructors — and inserts its result via InsertInst, so callers get
// allocation and splicing in one call (spec §4.9).
func (b *Builder) BuildInst(construct func(*Allocs) (InstID, error)) (InstID, error) {
	id, err := construct(b.module.Allocs)
	if err != nil {
		return InvalidInstID, err
	}
	if err := b.InsertInst(id); err != nil {
		return id, err
	}
	return id, nil
}

// replaceTerminator disposes the focused block's existing terminator
// (if it still has one) and splices newTerm in immediately before the
// tail sentinel, then moves instruction focus onto it.
func (b *Builder) replaceTerminator(newTerm InstID) error {
	if b.focusBlock == InvalidBlockID {
		return errors.Wrapf(ErrFocusInvalid, "replace terminator with %d: no block focus", newTerm)
	}
	a := b.module.Allocs
	bl := a.blocks.Deref(int32(b.focusBlock))
	if old, ok := a.Terminator(b.focusBlock); ok {
		if err := a.DisposeID(anyOfInst(old)); err != nil {
			return err
		}
	}
	a.InsertInstBefore(b.focusBlock, newTerm, bl.Tail)
	b.focusInst = newTerm
	return nil
}

// FocusSetJumpTo replaces the focused block's terminator with an
// unconditional branch to target (spec §4.9).
func (b *Builder) FocusSetJumpTo(target BlockID) error {
	id, err := b.module.Allocs.NewJump(target)
	if err != nil {
		return err
	}
	return b.replaceTerminator(id)
}

// FocusSetBranchTo replaces the focused block's terminator with a
// two-way conditional branch.
func (b *Builder) FocusSetBranchTo(cond Value, thenBB, elseBB BlockID) error {
	id, err := b.module.Allocs.NewCondBranch(cond, thenBB, elseBB)
	if err != nil {
		return err
	}
	return b.replaceTerminator(id)
}

// FocusSetSwitchTo replaces the focused block's terminator with a switch.
func (b *Builder) FocusSetSwitchTo(discrim Value, defaultBB BlockID, cases []BlockID) error {
	id, err := b.module.Allocs.NewSwitch(discrim, defaultBB, cases)
	if err != nil {
		return err
	}
	return b.replaceTerminator(id)
}

// FocusSetRetTo replaces the focused block's terminator with a return.
func (b *Builder) FocusSetRetTo(value Value, hasValue bool) error {
	id, err := b.module.Allocs.NewRet(value, hasValue)
	if err != nil {
		return err
	}
	return b.replaceTerminator(id)
}

// SplitBlock splits the focused block in two (spec §4.9): if
// instruction focus sits at the block's tail (or is unset — the
// common case of a block still under construction with no terminator
// yet), nothing moves and the block simply gets a fresh, empty
// successor joined by an unconditional jump. Otherwise every
// instruction from the focused instruction up to (and including,
// since it sits immediately before tail) the old terminator migrates
// to the new successor, and the original block is closed off with its
// own unconditional jump to it. Phi incoming-block operands already
// naming the split block are not rewritten — spec §4.9 leaves that to
// the caller, since only the caller knows which successors' phis, if
// any, need updating for the new split point.
func (b *Builder) SplitBlock() (BlockID, error) {
	if b.focusBlock == InvalidBlockID {
		return InvalidBlockID, errors.Wrapf(ErrFocusInvalid, "split block: no block focus")
	}
	a := b.module.Allocs
	oldBlock := b.focusBlock
	bl := a.blocks.Deref(int32(oldBlock))
	fn := bl.Function

	newBlock := a.NewBlock()
	a.insertBlockAfter(fn, oldBlock, newBlock)
	newBl := a.blocks.Deref(int32(newBlock))

	atTail := b.focusInst == InvalidInstID || b.focusInst == bl.Tail
	if !atTail {
		ops := a.instChainOps()
		var moving []InstID
		for cur := b.focusInst; cur != bl.Tail; cur = ops.getNext(cur) {
			moving = append(moving, cur)
		}
		for _, id := range moving {
			chainUnplug(ops, id)
		}
		for _, id := range moving {
			a.InsertInstBefore(newBlock, id, newBl.Tail)
		}
	}

	if err := b.SetFocusBlock(oldBlock); err != nil {
		return InvalidBlockID, err
	}
	if err := b.FocusSetJumpTo(newBlock); err != nil {
		return InvalidBlockID, err
	}

	b.focusFunc = fn
	b.focusBlock = newBlock
	b.focusInst = InvalidInstID
	return newBlock, nil
}
