// SPDX-License-Identifier: Apache-2.0
package main

import (
	"os"

	"github.com/fatih/color"

	"irgraph/internal/dump"
)

// main builds the max(a,b) scenario from spec §8 and writes its
// LLVM-flavored textual dump to stdout, with no GC/sanity step — a
// standalone demonstration of internal/dump in isolation from the
// rest of the pipeline cmd/irgraph-cli exercises together.
func main() {
	m := dump.MaxModule()
	if err := dump.WriteModule(os.Stdout, m); err != nil {
		color.Red("dump failed: %s", err)
		os.Exit(1)
	}
}
