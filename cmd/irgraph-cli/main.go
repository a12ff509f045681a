// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"irgraph/internal/dump"
	"irgraph/internal/ir"
)

// main builds the max(a,b) scenario from spec §8, prints it via
// internal/dump, runs a GC cycle, and prints the freed-per-class
// counts and a sanity report — a runnable demonstration of the whole
// pipeline (builder → collector → report), in the teacher's
// cmd/kanso-cli tradition of a thin main wiring real packages together.
func main() {
	m := dump.MaxModule()

	if err := dump.WriteModule(os.Stdout, m); err != nil {
		color.Red("dump failed: %s", err)
		os.Exit(1)
	}

	freed, err := ir.BeginGC(m)
	if err != nil {
		color.Red("gc failed: %s", err)
		os.Exit(1)
	}
	fmt.Printf("freed: globals=%d blocks=%d insts=%d exprs=%d uses=%d jumptargets=%d\n",
		freed.Global, freed.Block, freed.Inst, freed.Expr, freed.Use, freed.JumpTarget)

	r := ir.BasicSanityCheck(m)
	fmt.Print(r.String())
	if !r.OK() {
		os.Exit(1)
	}
	color.Green("module %q (id %s) is sane", m.Name, m.ID)
}
