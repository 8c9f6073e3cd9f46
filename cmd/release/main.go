/*
PURPOSE:
  Entry point for the release tool.

ARCHITECTURE INTEGRATION:
  - Calls: internal/cli.ExecuteRelease()

ERROR HANDLING:
  - Procedures print their own diagnostics; anything else is printed here.
  - Exit status comes from flow.Code: 0 success or benign stop, 1 failure.

IMPLEMENTATION RULES:
  - Keep main() minimal. All logic belongs in internal/ packages.

USAGE:
  go build -o release ./cmd/release
  ./release --increment=minor
*/

package main

import (
	"fmt"
	"os"

	"github.com/daryltucker/monorepo-release/internal/cli"
	"github.com/daryltucker/monorepo-release/internal/flow"
)

func main() {
	err := cli.ExecuteRelease()
	if !flow.Silent(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(flow.Code(err))
}
