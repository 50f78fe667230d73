package main

import (
	"os"

	"shimbox/cmd"
)

// shimbox is a config-driven companion for shell profiles. It keeps a
// catalog of external developer tools, answers "is this tool runnable"
// through a memoized availability cache, forwards wrapper invocations to
// the real binaries, and can install what is missing.
//
// Wrapper exit codes pass through untouched so scripts behave as if they
// had called the wrapped tool directly; a missing tool exits 127, the
// shell's own convention for command-not-found.
func main() {
	os.Exit(cmd.Execute())
}
