package ir

import "testing"

func TestBasicSanityCheckCleanModule(t *testing.T) {
	m := newTestModule("clean")
	fn := m.Allocs.NewFunction("f", 0, nil, false)
	entry := m.Allocs.NewBlock()
	m.Allocs.AppendBlock(fn, entry)
	b := NewBuilder(m)
	if err := b.SetFocusBlock(entry); err != nil {
		t.Fatal(err)
	}
	if err := b.FocusSetRetTo(NoneValue(), false); err != nil {
		t.Fatal(err)
	}
	if _, err := m.DefineGlobal("f", fn); err != nil {
		t.Fatal(err)
	}

	r := BasicSanityCheck(m)
	if !r.OK() {
		t.Fatalf("want clean report, got findings: %v", r.Findings)
	}
}

func TestBasicSanityCheckCatchesMissingTerminator(t *testing.T) {
	m := newTestModule("broken")
	fn := m.Allocs.NewFunction("f", 0, nil, false)
	entry := m.Allocs.NewBlock()
	m.Allocs.AppendBlock(fn, entry)
	// No terminator ever added: B1 / one-terminator should both flag this.

	r := BasicSanityCheck(m)
	if r.OK() {
		t.Fatal("want findings for a block with no terminator")
	}
	foundOneTerm := false
	for _, f := range r.Findings {
		if f.Invariant == "one-terminator" {
			foundOneTerm = true
		}
	}
	if !foundOneTerm {
		t.Fatalf("want a one-terminator finding, got %v", r.Findings)
	}
}

func TestBasicSanityCheckCatchesDanglingSymbol(t *testing.T) {
	m := newTestModule("dangling")
	fn := m.Allocs.NewFunction("f", 0, nil, false)
	if _, err := m.DefineGlobal("f", fn); err != nil {
		t.Fatal(err)
	}
	// Bypass the usual name-then-dispose ordering to simulate a stale
	// symbol table entry left behind by caller error.
	_ = m.Allocs.DisposeID(anyOfGlobal(fn))

	r := BasicSanityCheck(m)
	foundSymtab := false
	for _, f := range r.Findings {
		if f.Invariant == "symtab" {
			foundSymtab = true
		}
	}
	if !foundSymtab {
		t.Fatalf("want a symtab finding, got %v", r.Findings)
	}
}

func TestAssertModuleSaneNoopWhenDebugAssertionsOff(t *testing.T) {
	DebugAssertions = false
	m := newTestModule("m")
	fn := m.Allocs.NewFunction("f", 0, nil, false)
	m.Allocs.NewBlock() // detached, unterminated — would fail a sanity check
	_ = fn
	AssertModuleSane(m) // must not panic
}

func TestAssertModuleSanePanicsWhenDebugAssertionsOn(t *testing.T) {
	DebugAssertions = true
	defer func() { DebugAssertions = false }()
	defer func() {
		if recover() == nil {
			t.Fatal("want a panic for a module that fails sanity check")
		}
	}()

	m := newTestModule("m")
	fn := m.Allocs.NewFunction("f", 0, nil, false)
	entry := m.Allocs.NewBlock()
	m.Allocs.AppendBlock(fn, entry) // no terminator ever added
	AssertModuleSane(m)
}
