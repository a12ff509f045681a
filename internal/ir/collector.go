package ir

import (
	"github.com/bits-and-blooms/bitset"
)

// FreedCounts reports how many entities of each class a collection
// cycle freed (spec §4.8 "return value"), for logging and tests.
type FreedCounts struct {
	Expr       int
	Inst       int
	Global     int
	Block      int
	Use        int
	JumpTarget int
}

func (f FreedCounts) Total() int {
	return f.Expr + f.Inst + f.Global + f.Block + f.Use + f.JumpTarget
}

// traceableEntityID maps a traceable Value to the AnyID of the
// entity that owns its user-ring — the id the marker should push to
// continue the traversal. Only meaningful when v.IsTraceable().
func traceableEntityID(v Value) AnyID {
	switch v.Kind {
	case ValConstExpr:
		return anyOfExpr(v.Expr)
	case ValFuncArg:
		// FuncArg is not itself pool-allocated (spec §3.7): it lives
		// inline on its owning function. Reachability of the arg is
		// reachability of the function.
		return anyOfGlobal(v.Func)
	case ValBlock:
		return anyOfBlock(v.Block)
	case ValInst:
		return anyOfInst(v.Inst)
	case ValGlobal:
		return anyOfGlobal(v.Global)
	default:
		return AnyID{Index: -1}
	}
}

type marker struct {
	a     *Allocs
	live  [numClasses]*bitset.BitSet
	queue []AnyID
}

func newMarker(a *Allocs) *marker {
	m := &marker{a: a}
	for c := EntityClass(0); c < numClasses; c++ {
		n := a.Cap(c)
		if n < 1 {
			n = 1
		}
		m.live[c] = bitset.New(uint(n))
	}
	return m
}

func (m *marker) push(id AnyID) {
	if id.Index < 0 {
		return
	}
	bs := m.live[id.Class]
	if bs.Test(uint(id.Index)) {
		return
	}
	bs.Set(uint(id.Index))
	m.queue = append(m.queue, id)
}

func (m *marker) isLive(id AnyID) bool {
	return m.live[id.Class].Test(uint(id.Index))
}

// run drains the mark queue, visiting each popped id's outgoing
// references per the table in spec §4.8.
func (m *marker) run() {
	a := m.a
	for len(m.queue) > 0 {
		id := m.queue[0]
		m.queue = m.queue[1:]

		switch id.Class {
		case ClassGlobal:
			g := a.globals.Deref(id.Index)
			if DebugAssertions {
				for _, b := range g.Blocks {
					bl := a.blocks.Deref(int32(b))
					if bl.HasFunction && bl.Function != GlobalID(id.Index) {
						panic("ir: block parent-function mismatch during mark")
					}
				}
			}
			switch g.Kind {
			case GlobalVariable:
				m.push(anyOfUse(g.Initializer))
				m.push(anyOfUse(g.Users.Sentinel))
			case GlobalFunction:
				for _, arg := range g.Args {
					m.push(anyOfUse(arg.Users.Sentinel))
				}
				m.push(anyOfUse(g.Users.Sentinel))
				for _, b := range g.Blocks {
					m.push(anyOfBlock(b))
				}
			}

		case ClassBlock:
			b := a.blocks.Deref(id.Index)
			if DebugAssertions {
				for _, iid := range a.Instructions(BlockID(id.Index)) {
					if a.insts.Deref(int32(iid)).Parent != BlockID(id.Index) {
						panic("ir: instruction parent mismatch during mark")
					}
				}
			}
			for _, iid := range a.Instructions(BlockID(id.Index)) {
				m.push(anyOfInst(iid))
			}
			m.push(anyOfJT(b.Preds.Sentinel))
			m.push(anyOfUse(b.Users.Sentinel))

		case ClassInst:
			inst := a.insts.Deref(id.Index)
			for _, u := range inst.Operands {
				m.push(anyOfUse(u))
			}
			for _, pair := range inst.PhiIncoming {
				m.push(anyOfUse(pair.Value))
				m.push(anyOfUse(pair.IncomingBlock))
			}
			if inst.HasResult {
				m.push(anyOfUse(inst.Users.Sentinel))
			}
			if inst.Category == CategoryTerminator {
				for _, jt := range inst.JumpTargets {
					m.push(anyOfJT(jt))
				}
			}

		case ClassExpr:
			e := a.exprs.Deref(id.Index)
			for _, u := range e.Operands {
				m.push(anyOfUse(u))
			}
			m.push(anyOfUse(e.Users.Sentinel))

		case ClassUse:
			u := a.uses.Deref(id.Index)
			if u.operand.IsTraceable() {
				m.push(traceableEntityID(u.operand))
			}

		case ClassJumpTarget:
			j := a.jts.Deref(id.Index)
			if j.hasDest {
				m.push(anyOfBlock(j.destination))
			}
		}
	}
}

// BeginGC runs one mark-sweep collection cycle over m (spec §4.8):
//
//   - Phase 0 drains the pending disposal queue so the live set is
//     computed against current allocator state.
//   - Phase 1 marks everything reachable from pinned symbol-table
//     roots via BFS.
//   - Phase 2 sweeps Use and JumpTarget first (edge-first: disposing
//     them detaches them from any ring, restoring invariants), then
//     frees whatever Inst/Block/Expr/Global slot is left unmarked —
//     safe unconditionally because by then no live edge points at it.
//
// gcGuard enforces the quiescence requirement: BeginGC must not be
// re-entered (directly, or from a second goroutine) while a cycle is
// in progress.
func BeginGC(m *Module) (FreedCounts, error) {
	m.gcGuard.Lock()
	defer m.gcGuard.Unlock()

	m.log.Debugf("gc[%s]: begin", m.ID)

	predrained := m.Allocs.FreeDisposed()
	m.log.Debugf("gc[%s]: phase0 pre-drain freed %d queued entities", m.ID, predrained)

	mk := newMarker(m.Allocs)
	if err := m.Symbols.IterPinned(func(_ string, id GlobalID) {
		mk.push(anyOfGlobal(id))
	}); err != nil {
		return FreedCounts{}, err
	}
	mk.run()
	for c := EntityClass(0); c < numClasses; c++ {
		m.log.Debugf("gc[%s]: phase1 marked %d/%d in %s", m.ID, mk.live[c].Count(), m.Allocs.Cap(c), c)
	}

	var freed FreedCounts

	var edgeIDs []AnyID
	m.Allocs.uses.ForEachLive(func(idx int32) {
		if !mk.isLive(AnyID{ClassUse, idx}) {
			edgeIDs = append(edgeIDs, AnyID{ClassUse, idx})
		}
	})
	m.Allocs.jts.ForEachLive(func(idx int32) {
		if !mk.isLive(AnyID{ClassJumpTarget, idx}) {
			edgeIDs = append(edgeIDs, AnyID{ClassJumpTarget, idx})
		}
	})
	for _, id := range edgeIDs {
		switch id.Class {
		case ClassUse:
			_ = m.Allocs.disposeUse(UseID(id.Index))
		case ClassJumpTarget:
			_ = m.Allocs.disposeJumpTarget(JumpTargetID(id.Index))
		}
	}
	for _, id := range m.Allocs.disposal.drain() {
		m.Allocs.freeOne(id)
		switch id.Class {
		case ClassUse:
			freed.Use++
		case ClassJumpTarget:
			freed.JumpTarget++
		}
	}

	freed.Inst = m.Allocs.insts.FullyFreeIf(func(idx int32) bool {
		return !mk.isLive(AnyID{ClassInst, idx})
	})
	freed.Block = m.Allocs.blocks.FullyFreeIf(func(idx int32) bool {
		return !mk.isLive(AnyID{ClassBlock, idx})
	})
	freed.Expr = m.Allocs.exprs.FullyFreeIf(func(idx int32) bool {
		return !mk.isLive(AnyID{ClassExpr, idx})
	})
	freed.Global = m.Allocs.globals.FullyFreeIf(func(idx int32) bool {
		return !mk.isLive(AnyID{ClassGlobal, idx})
	})

	m.log.Debugf("gc[%s]: phase2 swept expr=%d inst=%d global=%d block=%d use=%d jt=%d",
		m.ID, freed.Expr, freed.Inst, freed.Global, freed.Block, freed.Use, freed.JumpTarget)

	return freed, nil
}
