package ir

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Finding is one invariant violation basic_sanity_check turned up
// (spec §6). Invariant names match spec §3's U1/U2/U3, J1/J2, B1/B2
// labels plus the structural checks the sanity API also promises:
// symbol-table consistency, one-terminator-per-block, and
// phi-incoming cardinality.
type Finding struct {
	Invariant string
	Subject   string
	Message   string
}

func (f Finding) String() string {
	return fmt.Sprintf("[%s] %s: %s", f.Invariant, f.Subject, f.Message)
}

// Report is basic_sanity_check's structured result: the invariants it
// checked and whatever Findings it turned up. A Report with no
// Findings means the module passed every check.
type Report struct {
	ModuleName string
	Checked    []string
	Findings   []Finding
}

// OK reports whether the module passed — no Findings.
func (r Report) OK() bool { return len(r.Findings) == 0 }

// String renders r with fatih/color: green "OK" when clean, each
// Finding on its own red line otherwise.
func (r Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "sanity report for %q (checked: %s)\n", r.ModuleName, strings.Join(r.Checked, ", "))
	if r.OK() {
		sb.WriteString(color.GreenString("  OK — no invariant violations\n"))
		return sb.String()
	}
	for _, f := range r.Findings {
		sb.WriteString(color.RedString("  VIOLATION ") + f.String() + "\n")
	}
	return sb.String()
}

var sanityInvariants = []string{
	"U1", "U2", "U3", "J1", "J2", "B1", "B2",
	"symtab", "one-terminator", "phi-incoming-cardinality",
}

// BasicSanityCheck walks every live entity in m and checks the
// invariant laws spec §3/§6 state, returning a Report rather than
// failing fast — the structured-reporting half of the sanity API.
func BasicSanityCheck(m *Module) Report {
	r := Report{ModuleName: m.Name, Checked: sanityInvariants}
	a := m.Allocs

	a.uses.ForEachLive(func(idx int32) {
		checkUse(a, UseID(idx), &r)
	})
	a.jts.ForEachLive(func(idx int32) {
		checkJumpTarget(a, JumpTargetID(idx), &r)
	})
	a.blocks.ForEachLive(func(idx int32) {
		checkBlock(a, BlockID(idx), &r)
	})
	a.insts.ForEachLive(func(idx int32) {
		checkPhiCardinality(a, InstID(idx), &r)
	})
	checkSymtab(m, &r)

	return r
}

// checkUse verifies U1 (ring membership) and U3 (disposed shape). U2
// (back-pointer) is enforced structurally by this package's own
// construction code — every Use is created with its user slot fixed
// at allocation — so there is no separate user-side list to cross-check.
func checkUse(a *Allocs, id UseID, r *Report) {
	u := a.uses.Deref(int32(id))
	subject := fmt.Sprintf("use#%d", id)

	if u.kind.isDisposed() {
		if u.operand.Kind != ValNone || !u.user.IsNone() {
			r.Findings = append(r.Findings, Finding{"U3", subject, "disposed use carries a non-None operand or user"})
		}
		return
	}

	if !u.operand.IsTraceable() {
		// A detached (or freshly initialized) use's next/prev point at
		// itself; anything else means it is still linked into a ring
		// it has no business being in.
		if u.next != id || u.prev != id {
			r.Findings = append(r.Findings, Finding{"U1", subject, "non-traceable operand but use is linked into a ring"})
		}
		return
	}

	sentinel := a.userRingOf(u.operand)
	if sentinel == InvalidUseID || !a.uses.IsLive(int32(sentinel)) {
		r.Findings = append(r.Findings, Finding{"U1", subject, "operand's user-ring sentinel is missing or dead"})
		return
	}
	if id == sentinel {
		// The sentinel itself anchors the ring rather than being a
		// member of it (spec §4.5's "(a)" self-fill) — nothing to check.
		return
	}
	if !ringContains(a.useRingOps(), sentinel, id) {
		r.Findings = append(r.Findings, Finding{"U1", subject, "use not found in its operand's user-ring"})
	}
}

func checkJumpTarget(a *Allocs, id JumpTargetID, r *Report) {
	jt := a.jts.Deref(int32(id))
	subject := fmt.Sprintf("jumptarget#%d", id)

	if jt.kind.isDisposed() {
		if jt.hasDest || jt.hasTerm {
			r.Findings = append(r.Findings, Finding{"J1", subject, "disposed jump target still carries a destination or terminator"})
		}
		return
	}

	if !jt.hasDest {
		return
	}
	if !a.blocks.IsLive(int32(jt.destination)) {
		r.Findings = append(r.Findings, Finding{"J1", subject, "destination block is dead"})
		return
	}
	preds := a.blocks.Deref(int32(jt.destination)).Preds
	if !ringContains(a.jtRingOps(), preds.Sentinel, id) {
		r.Findings = append(r.Findings, Finding{"J1", subject, "jump target not found in destination's predecessor ring"})
	}
	if jt.hasTerm && !a.insts.IsLive(int32(jt.terminator)) {
		r.Findings = append(r.Findings, Finding{"J2", subject, "owning terminator is dead"})
	}
}

// checkBlock verifies B1 (shape: head, phi*, phi-end, non-phi*,
// exactly one terminator immediately before tail) and B2 (parent).
func checkBlock(a *Allocs, id BlockID, r *Report) {
	b := a.blocks.Deref(int32(id))
	subject := fmt.Sprintf("block#%d", id)
	ops := a.instChainOps()

	seenPhiEnd := false
	terminators := 0
	chainForEach(ops, b.Head, b.Tail, func(iid InstID) {
		inst := a.insts.Deref(int32(iid))
		if inst.Parent != id {
			r.Findings = append(r.Findings, Finding{"B2", subject, fmt.Sprintf("inst#%d parent mismatch", iid)})
		}
		switch {
		case iid == b.Head, iid == b.PhiEnd, iid == b.Tail:
			if iid == b.PhiEnd {
				seenPhiEnd = true
			}
		case inst.Category == CategoryPhi:
			if seenPhiEnd {
				r.Findings = append(r.Findings, Finding{"B1", subject, fmt.Sprintf("phi inst#%d appears after phi-end", iid)})
			}
		case inst.Category == CategoryTerminator:
			terminators++
			if ops.getNext(iid) != b.Tail {
				r.Findings = append(r.Findings, Finding{"B1", subject, fmt.Sprintf("terminator inst#%d is not immediately before tail", iid)})
			}
		default:
			if !seenPhiEnd {
				r.Findings = append(r.Findings, Finding{"B1", subject, fmt.Sprintf("non-phi inst#%d appears before phi-end", iid)})
			}
		}
	})
	if terminators != 1 {
		r.Findings = append(r.Findings, Finding{"one-terminator", subject, fmt.Sprintf("block has %d terminators, want exactly 1", terminators)})
	}
}

// checkPhiCardinality verifies that a phi's incoming-pair count
// matches its parent block's live predecessor count.
func checkPhiCardinality(a *Allocs, id InstID, r *Report) {
	inst := a.insts.Deref(int32(id))
	if inst.Category != CategoryPhi || inst.Parent == InvalidBlockID {
		return
	}
	preds := a.blocks.Deref(int32(inst.Parent)).Preds
	want := a.PredCount(preds)
	got := len(inst.PhiIncoming)
	if got != want {
		r.Findings = append(r.Findings, Finding{
			"phi-incoming-cardinality",
			fmt.Sprintf("inst#%d", id),
			fmt.Sprintf("phi has %d incoming pairs, block has %d predecessors", got, want),
		})
	}
}

// checkSymtab verifies every registered name resolves to a live,
// not-yet-disposed global and every pinned name is registered.
func checkSymtab(m *Module, r *Report) {
	for name, id := range m.Symbols.names {
		if !m.Allocs.globals.IsLive(int32(id)) || m.Allocs.globals.Deref(int32(id)).disposed {
			r.Findings = append(r.Findings, Finding{"symtab", name, "registered name resolves to a dead global"})
		}
	}
	for name := range m.Symbols.pinned {
		if _, ok := m.Symbols.names[name]; !ok {
			r.Findings = append(r.Findings, Finding{"symtab", name, "pinned name is not registered"})
		}
	}
}

// AssertModuleSane runs BasicSanityCheck and panics on the first
// Finding when DebugAssertions is enabled; it is a no-op in release
// builds (spec §6: "debug-only panic-on-violation").
func AssertModuleSane(m *Module) {
	if !DebugAssertions {
		return
	}
	r := BasicSanityCheck(m)
	if !r.OK() {
		panic("ir: module failed sanity check:\n" + r.String())
	}
}
