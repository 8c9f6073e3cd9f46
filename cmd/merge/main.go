/*
PURPOSE:
  Entry point for the merge tool: fast-forwards the primary branch to the
  branch currently checked out and pushes it.

ARCHITECTURE INTEGRATION:
  - Calls: internal/cli.ExecuteMerge()

ERROR HANDLING:
  - Exit 1 on a detached HEAD or interrupt, 0 when already on the primary.

IMPLEMENTATION RULES:
  - Keep main() minimal. All logic belongs in internal/ packages.

USAGE:
  go build -o merge ./cmd/merge
  ./merge --primary main
*/

package main

import (
	"fmt"
	"os"

	"github.com/daryltucker/monorepo-release/internal/cli"
	"github.com/daryltucker/monorepo-release/internal/flow"
)

func main() {
	err := cli.ExecuteMerge()
	if !flow.Silent(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(flow.Code(err))
}
