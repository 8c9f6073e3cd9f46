/*
PURPOSE:
  Defines the 'release tools' subcommand.
  Helps debug the toolchain before a release run.

REQUIREMENTS:
  - Show the resolved tools dir and the node/npm/lerna versions it yields.
  - Show the lerna version lerna.json expects and whether the token is set.

ERROR HANDLING:
  - Prints problems instead of failing; exit 1 only on a lerna mismatch.

RELATED FILES:
  - internal/lerna/lerna.go
*/

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/daryltucker/monorepo-release/internal/flow"
	"github.com/daryltucker/monorepo-release/internal/lerna"
	"github.com/daryltucker/monorepo-release/internal/manifest"
)

func toolsCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:           "tools",
		Short:         "Show the toolchain the release would use",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.setup(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			v := lerna.New(e.runner).Versions(cmd.Context())

			fmt.Fprintf(w, "Root       %s\n", e.cfg.RootDir)
			fmt.Fprintf(w, "Tools dir  %s\n", e.runner.ToolsDir())
			fmt.Fprintf(w, "node       %s\n", orUnknown(v.Node))
			fmt.Fprintf(w, "npm        %s\n", orUnknown(v.NPM))
			fmt.Fprintf(w, "lerna      %s\n", orUnknown(v.Lerna))

			token := "set"
			if os.Getenv(e.cfg.TokenEnv) == "" {
				token = "missing"
			}
			fmt.Fprintf(w, "%-10s %s\n", e.cfg.TokenEnv, token)

			mono, err := manifest.LoadMonorepo(e.cfg.Path(e.cfg.MonorepoManifest))
			if err != nil {
				fmt.Fprintf(w, "lerna.json %v\n", err)
				return nil
			}
			fmt.Fprintf(w, "expected   lerna %s, version %s\n", mono.Lerna, mono.Version)
			if mono.Lerna != v.Lerna {
				fmt.Fprintln(w, "Mismatched Lerna version; run \"npm install\".")
				return flow.Fail()
			}
			return nil
		},
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "(not found)"
	}
	return s
}
