package ir

import (
	"github.com/sasha-s/go-deadlock"
	"github.com/segmentio/ksuid"
	"github.com/tliron/commonlog"

	"irgraph/internal/typectx"
)

// DebugAssertions gates the collector's parent-consistency checks
// (spec §4.8: "the marker asserts parent-consistency on block and
// global traversal (debug builds only)"). Off by default; tests that
// want the stricter pass flip it on.
var DebugAssertions = false

// Module owns one allocator set, one symbol table, and one type
// context — the whole of a compilation unit's IR state (spec §3.7,
// §5). Pool lifetime equals module lifetime; there is no separate
// "close" step beyond letting a Module go out of scope.
type Module struct {
	ID   ksuid.KSUID
	Name string

	Allocs  *Allocs
	Symbols *SymbolTable
	Types   *typectx.Context

	// gcGuard is held for the duration of a collection cycle. It is a
	// deadlock-detecting mutex, not a concurrency primitive: spec §5
	// requires the collector to observe a quiescent module, and a
	// re-entrant or concurrent call here is a caller bug that this
	// mutex surfaces as a deadlock report instead of silent graph
	// corruption or an infinite hang.
	gcGuard deadlock.Mutex

	log commonlog.Logger
}

// NewModule creates an empty module named name, with a fresh
// allocator set, symbol table, and type context.
func NewModule(name string) *Module {
	log := commonlog.GetLogger("irgraph.module")
	return &Module{
		ID:      ksuid.New(),
		Name:    name,
		Allocs:  NewAllocs(log),
		Symbols: NewSymbolTable(),
		Types:   typectx.NewContext(),
		log:     log,
	}
}

// DefineGlobal registers id under name as a GC root (pinned) — the
// common case for top-level functions and global variables that must
// survive collection because the outside world (a linker, a caller)
// holds the name.
func (m *Module) DefineGlobal(name string, id GlobalID) (GlobalID, error) {
	got, err := m.Symbols.Register(name, id)
	if err != nil {
		return got, err
	}
	m.Symbols.Pin(name)
	return id, nil
}

// DisposeNamedGlobal unregisters name before disposing the global it
// named, so the symbol table never holds a freed id (spec §4.7).
func (m *Module) DisposeNamedGlobal(name string) error {
	id, ok := m.Symbols.Lookup(name)
	if !ok {
		return ErrAlreadyDisposed
	}
	if err := m.Symbols.Unregister(name); err != nil {
		return err
	}
	return m.Allocs.DisposeID(anyOfGlobal(id))
}
