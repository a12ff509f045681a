package ir

// JumpTargetKind tags which outgoing edge slot of a terminator this
// is — e.g. "branch-then", "switch-case-k" (spec §3.5).
type JumpTargetKind struct {
	Name  string
	Index int
}

func fixedJTKind(name string) JumpTargetKind { return JumpTargetKind{Name: name, Index: -1} }
func indexedJTKind(name string, index int) JumpTargetKind {
	return JumpTargetKind{Name: name, Index: index}
}

var jtKindDisposed = fixedJTKind("disposed")

func (k JumpTargetKind) isDisposed() bool { return k == jtKindDisposed }

// JumpTarget is a directed edge from a terminator instruction to a
// destination block (spec §3.5). Like Use, it is pool-allocated so it
// can be a node in the destination block's intrusive predecessor ring.
type JumpTarget struct {
	kind        JumpTargetKind
	terminator  InstID
	hasTerm     bool
	destination BlockID
	hasDest     bool
	next        JumpTargetID
	prev        JumpTargetID
}

// PredList anchors the intrusive circular list of JumpTargets arriving
// at a single block (spec §3.6, §4.4).
type PredList struct {
	Sentinel JumpTargetID
}

func (a *Allocs) jtRingOps() ringOps[JumpTargetID] {
	return ringOps[JumpTargetID]{
		getNext: func(id JumpTargetID) JumpTargetID { return a.jts.Deref(int32(id)).next },
		setNext: func(id, v JumpTargetID) { a.jts.Deref(int32(id)).next = v },
		getPrev: func(id JumpTargetID) JumpTargetID { return a.jts.Deref(int32(id)).prev },
		setPrev: func(id, v JumpTargetID) { a.jts.Deref(int32(id)).prev = v },
	}
}

// NewPredList allocates a fresh, empty predecessor ring.
func (a *Allocs) NewPredList() PredList {
	idx := a.jts.Allocate(JumpTarget{kind: fixedJTKind("sentinel")})
	id := JumpTargetID(idx)
	ringInit(a.jtRingOps(), id)
	return PredList{Sentinel: id}
}

// Preds iterates pl's members (excluding the sentinel) in ring order.
func (a *Allocs) Preds(pl PredList) []JumpTargetID {
	var out []JumpTargetID
	ringForEach(a.jtRingOps(), pl.Sentinel, func(j JumpTargetID) { out = append(out, j) })
	return out
}

// PredCount returns the number of predecessor edges currently
// targeting pl's block.
func (a *Allocs) PredCount(pl PredList) int {
	return ringCount(a.jtRingOps(), pl.Sentinel)
}

// NewJumpTarget allocates a bare JumpTarget at the given slot kind,
// with no terminator and no destination bound yet.
func (a *Allocs) NewJumpTarget(kind JumpTargetKind) JumpTargetID {
	idx := a.jts.Allocate(JumpTarget{kind: kind})
	id := JumpTargetID(idx)
	ringInit(a.jtRingOps(), id)
	return id
}

// SetTerminator binds j's owning terminator. Per spec §4.4 this is
// only ever called during the owning terminator's initialization and
// must never be rewritten while j is live; init_self_id always runs
// last and is therefore authoritative regardless of whether an
// earlier construction step (e.g. SwitchInst.push_case) already set
// it — this resolves spec §9's open question in favor of the
// invariant-preserving, deterministic-on-any-construction-order
// behavior.
func (a *Allocs) SetTerminator(j JumpTargetID, t InstID) {
	jt := a.jts.Deref(int32(j))
	jt.terminator = t
	jt.hasTerm = true
}

// SetBlock rebinds j's destination (spec §4.4): detach from whatever
// predecessor ring j currently sits in, assign the new destination,
// and if it is Some, attach to that block's predecessor ring.
func (a *Allocs) SetBlock(j JumpTargetID, b BlockID, hasBlock bool) error {
	jt := a.jts.Deref(int32(j))
	if jt.kind.isDisposed() {
		return ErrUseDisposed
	}
	ops := a.jtRingOps()
	ringDetach(ops, j)
	jt = a.jts.Deref(int32(j))
	jt.destination = b
	jt.hasDest = hasBlock
	if hasBlock {
		if !a.blocks.IsLive(int32(b)) {
			return ErrInvariantBroken
		}
		pl := a.blocks.Deref(int32(b)).Preds
		ringAttachBack(ops, pl.Sentinel, j)
	}
	return nil
}

// disposeJumpTarget implements JumpTarget's dispose_obj: detach from
// the predecessor ring, clear destination and terminator, mark disposed.
func (a *Allocs) disposeJumpTarget(id JumpTargetID) error {
	jt := a.jts.Deref(int32(id))
	if jt.kind.isDisposed() {
		return ErrAlreadyDisposed
	}
	ringDetach(a.jtRingOps(), id)
	jt.kind = jtKindDisposed
	jt.hasDest = false
	jt.hasTerm = false
	jt.destination = InvalidBlockID
	jt.terminator = InvalidInstID
	a.PushDisposed(anyOfJT(id))
	return nil
}
