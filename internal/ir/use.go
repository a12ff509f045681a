package ir

// UseKind tags what operand slot a Use occupies — spec §3.3 gives
// examples like "binop-lhs" or "phi-incoming-value-k". Index carries
// the "-k" suffix for dynamically-numbered slots (phi incoming pairs,
// switch cases); it is -1 for fixed, unindexed slots.
type UseKind struct {
	Name  string
	Index int
}

func fixedUseKind(name string) UseKind { return UseKind{Name: name, Index: -1} }
func indexedUseKind(name string, index int) UseKind {
	return UseKind{Name: name, Index: index}
}

var (
	useKindSentinel = fixedUseKind("sentinel")
	useKindDisposed = fixedUseKind("disposed")
)

func (k UseKind) isDisposed() bool { return k == useKindDisposed }

// Use is a directed edge from a user's operand slot to a referenced
// Value (spec §3.3). It is itself pool-allocated so it can sit as a
// node in the intrusive user-ring of whatever traceable value it
// currently points at.
type Use struct {
	kind    UseKind
	user    UserRef
	operand Value
	next    UseID
	prev    UseID
}

// UserRing anchors the intrusive circular list of Uses referencing a
// single traceable value (spec §3.4, §4.5). Its Sentinel is itself a
// live Use entity whose own Operand field is the owning value, set by
// that value's init_self_id.
type UserRing struct {
	Sentinel UseID
}

func (a *Allocs) useRingOps() ringOps[UseID] {
	return ringOps[UseID]{
		getNext: func(id UseID) UseID { return a.uses.Deref(int32(id)).next },
		setNext: func(id, v UseID) { a.uses.Deref(int32(id)).next = v },
		getPrev: func(id UseID) UseID { return a.uses.Deref(int32(id)).prev },
		setPrev: func(id, v UseID) { a.uses.Deref(int32(id)).prev = v },
	}
}

// NewUserRing allocates a fresh, empty user-ring: a sentinel Use with
// no operand yet (the owner backfills it during init_self_id via
// FillUserRingSelf) and no user (it is not bound to any operand slot).
func (a *Allocs) NewUserRing() UserRing {
	idx := a.uses.Allocate(Use{kind: useKindSentinel, operand: NoneValue()})
	id := UseID(idx)
	ringInit(a.useRingOps(), id)
	return UserRing{Sentinel: id}
}

// FillUserRingSelf backfills every Use on ring (including the
// sentinel) to point its operand back at self — spec §4.5's "(a)"
// fill, run once from the owning entity's init_self_id.
func (a *Allocs) FillUserRingSelf(ring UserRing, self Value) {
	ringForEachWithSentinel(a.useRingOps(), ring.Sentinel, func(u UseID) {
		a.uses.Deref(int32(u)).operand = self
	})
}

// Users iterates ring's members (excluding the sentinel) in ring order.
func (a *Allocs) Users(ring UserRing) []UseID {
	var out []UseID
	ringForEach(a.useRingOps(), ring.Sentinel, func(u UseID) { out = append(out, u) })
	return out
}

// UserCount returns the number of Uses currently referencing ring's value.
func (a *Allocs) UserCount(ring UserRing) int {
	return ringCount(a.useRingOps(), ring.Sentinel)
}

// NewUse allocates a bare, unbound Use owned by user at the given
// slot kind, with no operand. Callers typically follow this
// immediately with SetOperand.
func (a *Allocs) NewUse(kind UseKind, user UserRef) UseID {
	idx := a.uses.Allocate(Use{kind: kind, user: user, operand: NoneValue()})
	id := UseID(idx)
	ops := a.useRingOps()
	ringInit(ops, id)
	return id
}

// userRingOf resolves the UserRing sentinel for a traceable Value's
// defining entity. Returns InvalidUseID if v does not (or no longer)
// own a ring, which the caller treats as ErrInvariantBroken.
func (a *Allocs) userRingOf(v Value) UseID {
	switch v.Kind {
	case ValConstExpr:
		if !a.exprs.IsLive(int32(v.Expr)) {
			return InvalidUseID
		}
		return a.exprs.Deref(int32(v.Expr)).Users.Sentinel
	case ValFuncArg:
		if !a.globals.IsLive(int32(v.Func)) {
			return InvalidUseID
		}
		g := a.globals.Deref(int32(v.Func))
		if v.ArgIndex < 0 || v.ArgIndex >= len(g.Args) {
			return InvalidUseID
		}
		return g.Args[v.ArgIndex].Users.Sentinel
	case ValBlock:
		if !a.blocks.IsLive(int32(v.Block)) {
			return InvalidUseID
		}
		return a.blocks.Deref(int32(v.Block)).Users.Sentinel
	case ValInst:
		if !a.insts.IsLive(int32(v.Inst)) {
			return InvalidUseID
		}
		inst := a.insts.Deref(int32(v.Inst))
		if !inst.HasResult || inst.Users.Sentinel == InvalidUseID {
			return InvalidUseID
		}
		return inst.Users.Sentinel
	case ValGlobal:
		if !a.globals.IsLive(int32(v.Global)) {
			return InvalidUseID
		}
		return a.globals.Deref(int32(v.Global)).Users.Sentinel
	default:
		return InvalidUseID
	}
}

// SetOperand rebinds u to point at v (spec §4.3): if u is currently in
// a ring, it is detached first; if v is traceable, u is attached at
// the back of v's user-ring. set_operand(v); set_operand(v) leaves
// ring membership as set_operand(v) alone does: the second call
// detaches and reattaches u, so u is still in the ring exactly once,
// now at its back.
func (a *Allocs) SetOperand(u UseID, v Value) error {
	use := a.uses.Deref(int32(u))
	if use.kind.isDisposed() {
		return ErrUseDisposed
	}
	ops := a.useRingOps()
	ringDetach(ops, u) // no-op if u wasn't linked into any ring
	use = a.uses.Deref(int32(u))
	use.operand = v
	if v.IsTraceable() {
		sentinel := a.userRingOf(v)
		if sentinel == InvalidUseID {
			return ErrInvariantBroken
		}
		if !a.uses.IsLive(int32(sentinel)) || a.uses.Deref(int32(sentinel)).kind.isDisposed() {
			return ErrInvariantBroken
		}
		ringAttachBack(ops, sentinel, u)
	}
	return nil
}

// CleanOperand is equivalent to SetOperand(u, NoneValue()).
func (a *Allocs) CleanOperand(u UseID) error {
	return a.SetOperand(u, NoneValue())
}

// ReplaceAllUsesWith rebinds every Use currently referencing v to
// reference w instead (spec §4.3). Iteration captures the member list
// up front (via ringForEach) so it is robust to the ring reshaping
// that each SetOperand call causes mid-iteration.
func (a *Allocs) ReplaceAllUsesWith(v, w Value) error {
	if !v.IsTraceable() {
		return nil
	}
	sentinel := a.userRingOf(v)
	if sentinel == InvalidUseID {
		return ErrInvariantBroken
	}
	var err error
	ringForEach(a.useRingOps(), sentinel, func(u UseID) {
		if e := a.SetOperand(u, w); e != nil && err == nil {
			err = e
		}
	})
	return err
}

// disposeUse implements Use's dispose_obj (spec §4.3, §4.1): detach
// from any ring, clear user and operand, mark the disposed kind.
// Idempotent — DisposeID's pool-liveness check still passes until the
// queue is drained, so a second call is stopped here instead: it sees
// the disposed kind and returns ErrAlreadyDisposed, so the body only
// ever runs once per Use.
func (a *Allocs) disposeUse(id UseID) error {
	use := a.uses.Deref(int32(id))
	if use.kind.isDisposed() {
		return ErrAlreadyDisposed
	}
	ringDetach(a.useRingOps(), id)
	use.kind = useKindDisposed
	use.user = UserRef{}
	use.operand = NoneValue()
	a.PushDisposed(anyOfUse(id))
	return nil
}
