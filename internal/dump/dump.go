// Package dump renders an ir.Module as an LLVM-flavored textual
// listing. It is a read-only consumer of the core package's stable
// iteration orders (a function's Blocks slice, a block's instruction
// chain) — not a parser, and not part of the core's own scope (the
// core never serializes itself).
package dump

import (
	"fmt"
	"io"
	"sort"

	"irgraph/internal/ir"
)

// WriteModule writes every registered global in m, in sorted name
// order (the symbol table has no inherent iteration order of its
// own), to w.
func WriteModule(w io.Writer, m *ir.Module) error {
	fmt.Fprintf(w, "; module %q (id %s)\n", m.Name, m.ID)

	names := m.Symbols.Names()
	sort.Strings(names)
	for _, name := range names {
		id, ok := m.Symbols.Lookup(name)
		if !ok {
			continue
		}
		writeGlobal(w, m, id)
	}
	return nil
}

func writeGlobal(w io.Writer, m *ir.Module, id ir.GlobalID) {
	a := m.Allocs
	switch a.GlobalKindOf(id) {
	case ir.GlobalVariable:
		init := a.UseOperand(a.GlobalInitializer(id))
		fmt.Fprintf(w, "@%s = global %s %s\n", a.GlobalName(id), m.Types.String(a.GlobalType(id)), init.String())
	case ir.GlobalFunction:
		writeFunction(w, m, id)
	}
}

func writeFunction(w io.Writer, m *ir.Module, id ir.GlobalID) {
	a := m.Allocs
	args := a.GlobalArgs(id)
	argStrs := make([]string, len(args))
	for i, arg := range args {
		argStrs[i] = fmt.Sprintf("%%%d: %s", arg.Index, m.Types.String(arg.Type))
	}
	fmt.Fprintf(w, "define %s @%s(%s) {\n", m.Types.String(a.GlobalType(id)), a.GlobalName(id), joinArgs(argStrs))
	for _, blockID := range a.GlobalBlocks(id) {
		writeBlock(w, m, blockID)
	}
	fmt.Fprintln(w, "}")
}

func writeBlock(w io.Writer, m *ir.Module, id ir.BlockID) {
	a := m.Allocs
	fmt.Fprintf(w, "bb%d:\n", id)
	for _, inst := range a.Instructions(id) {
		if a.InstCategoryOf(inst) == ir.CategorySentinel {
			continue
		}
		writeInst(w, m, inst)
	}
}

func writeInst(w io.Writer, m *ir.Module, id ir.InstID) {
	a := m.Allocs
	operandStrs := make([]string, 0, len(a.InstOperands(id))+len(a.InstJumpTargets(id)))
	for _, u := range a.InstOperands(id) {
		operandStrs = append(operandStrs, a.UseOperand(u).String())
	}
	for _, jt := range a.InstJumpTargets(id) {
		if dest, ok := a.JumpTargetDestination(jt); ok {
			operandStrs = append(operandStrs, fmt.Sprintf("label bb%d", dest))
		}
	}
	prefix := ""
	if a.InstHasResult(id) {
		prefix = fmt.Sprintf("%%i%d = ", id)
	}
	fmt.Fprintf(w, "  %s%s %s\n", prefix, a.InstOpcode(id), joinArgs(operandStrs))
}

func joinArgs(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}
