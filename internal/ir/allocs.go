package ir

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
)

// Allocs is the module-wide allocator: one pool per entity class plus
// the shared disposal queue (spec §3.1, §4.1). A Module embeds an
// Allocs together with the symbol table and type context.
type Allocs struct {
	exprs   *Pool[Expr]
	insts   *Pool[Inst]
	globals *Pool[Global]
	blocks  *Pool[Block]
	uses    *Pool[Use]
	jts     *Pool[JumpTarget]

	disposal disposalQueue
	log      commonlog.Logger
}

// NewAllocs returns an empty allocator set.
func NewAllocs(log commonlog.Logger) *Allocs {
	if log == nil {
		log = commonlog.GetLogger("irgraph.allocs")
	}
	return &Allocs{
		exprs:   NewPool[Expr](),
		insts:   NewPool[Inst](),
		globals: NewPool[Global](),
		blocks:  NewPool[Block](),
		uses:    NewPool[Use](),
		jts:     NewPool[JumpTarget](),
		log:     log,
	}
}

// Cap returns the current capacity of the pool for class c, used by
// the collector to size its mark bitsets (spec §4.8).
func (a *Allocs) Cap(c EntityClass) int32 {
	switch c {
	case ClassExpr:
		return a.exprs.Cap()
	case ClassInst:
		return a.insts.Cap()
	case ClassGlobal:
		return a.globals.Cap()
	case ClassBlock:
		return a.blocks.Cap()
	case ClassUse:
		return a.uses.Cap()
	case ClassJumpTarget:
		return a.jts.Cap()
	default:
		panic(fmt.Sprintf("ir: unknown entity class %d", c))
	}
}

// IsLive reports whether id currently names a live entity in its class.
func (a *Allocs) IsLive(id AnyID) bool {
	switch id.Class {
	case ClassExpr:
		return a.exprs.IsLive(id.Index)
	case ClassInst:
		return a.insts.IsLive(id.Index)
	case ClassGlobal:
		return a.globals.IsLive(id.Index)
	case ClassBlock:
		return a.blocks.IsLive(id.Index)
	case ClassUse:
		return a.uses.IsLive(id.Index)
	case ClassJumpTarget:
		return a.jts.IsLive(id.Index)
	default:
		panic(fmt.Sprintf("ir: unknown entity class %d", id.Class))
	}
}

// PushDisposed enqueues id to be freed on the next FreeDisposed call
// (spec §4.1). Used by entities that detach themselves from external
// structures immediately but defer the actual slot reclamation.
func (a *Allocs) PushDisposed(id AnyID) {
	a.disposal.push(id)
}

// FreeDisposed drains the disposal queue, dispatching each id to its
// pool's Free (spec §4.1). Returns the number of ids freed, which is
// not broken down per class here — callers that need per-class counts
// (the collector) drain the queue themselves and free each id with
// freeOne instead of going through this convenience.
func (a *Allocs) FreeDisposed() int {
	items := a.disposal.drain()
	for _, id := range items {
		a.freeOne(id)
	}
	if len(items) > 0 {
		a.log.Debugf("freed %d disposed entities", len(items))
	}
	return len(items)
}

func (a *Allocs) freeOne(id AnyID) {
	switch id.Class {
	case ClassExpr:
		a.exprs.Free(id.Index)
	case ClassInst:
		a.insts.Free(id.Index)
	case ClassGlobal:
		a.globals.Free(id.Index)
	case ClassBlock:
		a.blocks.Free(id.Index)
	case ClassUse:
		a.uses.Free(id.Index)
	case ClassJumpTarget:
		a.jts.Free(id.Index)
	default:
		panic(fmt.Sprintf("ir: unknown entity class %d", id.Class))
	}
}

// DisposeID runs the disposal protocol (spec §4.1) for an arbitrary
// entity: validate liveness, detach external memberships via the
// class's own dispose_obj, then enqueue. Disposal is idempotent:
// disposing an already-disposed id returns ErrAlreadyDisposed.
func (a *Allocs) DisposeID(id AnyID) error {
	if !a.IsLive(id) {
		return errors.Wrapf(ErrAlreadyDisposed, "dispose %s", id)
	}
	switch id.Class {
	case ClassExpr:
		return errors.Wrapf(a.disposeExpr(ExprID(id.Index)), "dispose %s", id)
	case ClassInst:
		return errors.Wrapf(a.disposeInst(InstID(id.Index)), "dispose %s", id)
	case ClassGlobal:
		return errors.Wrapf(a.disposeGlobal(GlobalID(id.Index)), "dispose %s", id)
	case ClassBlock:
		return errors.Wrapf(a.disposeBlock(BlockID(id.Index)), "dispose %s", id)
	case ClassUse:
		return errors.Wrapf(a.disposeUse(UseID(id.Index)), "dispose %s", id)
	case ClassJumpTarget:
		return errors.Wrapf(a.disposeJumpTarget(JumpTargetID(id.Index)), "dispose %s", id)
	default:
		panic(fmt.Sprintf("ir: unknown entity class %d", id.Class))
	}
}
