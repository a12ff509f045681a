package ir

// SymbolTable maps interned names to at most one global id each, with
// pin semantics marking GC roots (spec §3.7, §4.7). It is guarded by
// a single re-entrancy flag rather than a mutex: spec §5 is explicit
// that the core has no internal synchronization, so this is a
// single-threaded "don't call back into me while I'm iterating"
// guard, not a concurrency primitive — exactly the distinction spec
// §5 draws between interior mutability for convenient signatures and
// an actual lock.
type SymbolTable struct {
	names    map[string]GlobalID
	pinned   map[string]bool
	borrowed bool
}

// NewSymbolTable returns an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		names:  make(map[string]GlobalID),
		pinned: make(map[string]bool),
	}
}

func (s *SymbolTable) borrow() error {
	if s.borrowed {
		return ErrSymtabBorrow
	}
	s.borrowed = true
	return nil
}

func (s *SymbolTable) release() {
	s.borrowed = false
}

// Register binds name to id. If name is already bound, it fails and
// returns the existing id (spec §4.7) rather than overwriting it.
func (s *SymbolTable) Register(name string, id GlobalID) (GlobalID, error) {
	if err := s.borrow(); err != nil {
		return InvalidGlobalID, err
	}
	defer s.release()
	if existing, ok := s.names[name]; ok {
		return existing, ErrSymbolExists
	}
	s.names[name] = id
	return id, nil
}

// Unregister removes name (and any pin on it) from the table.
func (s *SymbolTable) Unregister(name string) error {
	if err := s.borrow(); err != nil {
		return err
	}
	defer s.release()
	delete(s.names, name)
	delete(s.pinned, name)
	return nil
}

// Lookup returns the global bound to name, if any.
func (s *SymbolTable) Lookup(name string) (GlobalID, bool) {
	id, ok := s.names[name]
	return id, ok
}

// Pin marks name as a GC root. name must already be registered.
func (s *SymbolTable) Pin(name string) {
	s.pinned[name] = true
}

// Unpin removes name's GC-root status without unregistering it.
func (s *SymbolTable) Unpin(name string) {
	delete(s.pinned, name)
}

// Names returns every currently registered name, in no particular
// order — callers that want a stable listing (e.g. a textual dump)
// sort it themselves.
func (s *SymbolTable) Names() []string {
	out := make([]string, 0, len(s.names))
	for name := range s.names {
		out = append(out, name)
	}
	return out
}

// IterPinned borrows the table for the duration of fn and calls it
// once per pinned, still-registered name. Returns ErrSymtabBorrow if
// the table is already borrowed — e.g. by a disposal in progress
// elsewhere on the call stack (spec §4.7, §5: "callers must not
// dispose a global while iterating the symbol table").
func (s *SymbolTable) IterPinned(fn func(name string, id GlobalID)) error {
	if err := s.borrow(); err != nil {
		return err
	}
	defer s.release()
	for name := range s.pinned {
		if id, ok := s.names[name]; ok {
			fn(name, id)
		}
	}
	return nil
}
