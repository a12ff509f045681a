package ir

import "errors"

// Disposal-taxon errors (spec §6, §7). Callers are expected to
// recover from these — e.g. a redundant dispose is not fatal to the
// caller, just reported.
var (
	ErrAlreadyDisposed      = errors.New("ir: entity already disposed")
	ErrSymtabBorrow         = errors.New("ir: symbol table already borrowed")
	ErrParentMismatch       = errors.New("ir: parent pointer mismatch")
	ErrRingMembershipBroken = errors.New("ir: ring membership invariant broken")
	ErrInvariantBroken      = errors.New("ir: invariant broken")
)

// Use-edge errors (spec §4.3).
var (
	ErrUseDisposed = errors.New("ir: use is disposed")
)

// Builder/structural errors (spec §4.9, §6).
var (
	ErrFocusInvalid    = errors.New("ir: focus is invalid for this operation")
	ErrFocusDegraded   = errors.New("ir: focus degraded past what the policy allows")
	ErrCannotSplitHere = errors.New("ir: block cannot be split at this position")
)

// Symbol table errors (spec §4.7).
var (
	ErrSymbolExists = errors.New("ir: name already registered")
)
