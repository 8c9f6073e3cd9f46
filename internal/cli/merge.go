/*
PURPOSE:
  Defines the `merge` command.

REQUIREMENTS:
  User-specified:
  - Merge the current branch into the primary branch with --ff-only and
    push the primary branch.

  Implementation-discovered:
  - --primary and --remote override the config (defaults master, origin).
  - Only branch and remote are validated; merge has no increment.

ARCHITECTURE INTEGRATION:
  - Calls: internal/merge
  - Uses: internal/config, internal/gitx

USAGE:
  merge
  merge --primary main --remote upstream
*/

package cli

import (
	"github.com/spf13/cobra"

	"github.com/daryltucker/monorepo-release/internal/gitx"
	"github.com/daryltucker/monorepo-release/internal/merge"
	"github.com/daryltucker/monorepo-release/internal/output"
)

type mergeFlags struct {
	globalFlags

	primary string
	remote  string
}

// ExecuteMerge runs the merge binary.
func ExecuteMerge() error {
	return execute(newMergeCmd())
}

func newMergeCmd() *cobra.Command {
	f := &mergeFlags{}
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Fast-forward the primary branch to the current branch and push it",
		Example: `  # On feature/login: checkout master, merge --ff-only, push origin master
  merge`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := f.setup(cmd.Context())
			if err != nil {
				return err
			}
			if f.primary != "" {
				e.cfg.PrimaryBranch = f.primary
			}
			if f.remote != "" {
				e.cfg.Remote = f.remote
			}
			if err := e.cfg.ValidateGit(); err != nil {
				return err
			}
			p := &merge.Procedure{
				Git:     gitx.New(e.runner),
				Out:     output.NewPrinter(cmd.OutOrStdout()),
				Primary: e.cfg.PrimaryBranch,
				Remote:  e.cfg.Remote,
			}
			return p.Run(cmd.Context())
		},
	}

	addGlobalFlags(cmd, &f.globalFlags)
	cmd.Flags().StringVar(&f.primary, "primary", "", "branch to merge into (default from config, master)")
	cmd.Flags().StringVar(&f.remote, "remote", "", "remote to push to (default from config, origin)")
	return cmd
}
