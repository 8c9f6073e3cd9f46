/*
PURPOSE:
  Defines the `release` command.

REQUIREMENTS:
  User-specified:
  - Flags: --yes/-y --diff --ls --pull-request --next --latest --branch
    --remote --increment --skip-update --skip-push --push --ignore-git.

  Implementation-discovered:
  - Logic: Load Config -> Override -> release.Procedure.Run.
  - --pull-request may be passed with an empty value by CI; that is a
    failure, not an absent flag, so Changed() is recorded.

ARCHITECTURE INTEGRATION:
  - Calls: internal/release
  - Uses: internal/config, internal/prompt

USAGE:
  release --increment=minor
  release --next --yes
*/

package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/daryltucker/monorepo-release/internal/config"
	"github.com/daryltucker/monorepo-release/internal/gitx"
	"github.com/daryltucker/monorepo-release/internal/lerna"
	"github.com/daryltucker/monorepo-release/internal/output"
	"github.com/daryltucker/monorepo-release/internal/prompt"
	"github.com/daryltucker/monorepo-release/internal/release"
	"github.com/daryltucker/monorepo-release/internal/version"
)

type releaseFlags struct {
	globalFlags

	yes, diff, ls  bool
	pullRequest    string
	next, latest   bool
	branch, remote string
	increment      string
	skipUpdate     bool
	skipPush, push bool
	ignoreGit      bool
	dryRun         bool
	summaryFile    string
}

// ExecuteRelease runs the release binary.
func ExecuteRelease() error {
	return execute(newReleaseCmd())
}

func newReleaseCmd() *cobra.Command {
	return releaseCommand(&releaseFlags{})
}

func releaseCommand(f *releaseFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "release",
		Short: "Version, tag and publish the lerna monorepo",
		Long: `Checks the installed toolchain against lerna.json, then runs one release flow.

Flags select the flow, first match wins:
  --diff, --ls       show changes / package versions and ask before continuing
  --pull-request=ID  publish a canary tagged ID
  --next             publish a canary on the "next" dist-tag
  --latest           publish every package on the "latest" dist-tag

Without a flow flag the default workflow cuts release/v<next> from --branch,
lets lerna bump versions and tag, and offers to push branch and tag.`,
		Example: `  # Patch release from master, asking at each step
  release

  # Minor release from main pushed to upstream without prompts
  release --branch main --remote upstream --increment minor --yes --push

  # CI: canary for a pull request
  release --pull-request=$PR_NUMBER --yes`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := f.setup(cmd.Context())
			if err != nil {
				return err
			}
			opts, err := f.options(cmd, e.cfg)
			if err != nil {
				return err
			}

			var confirm prompt.Confirmer = prompt.NewTea()
			if opts.Yes {
				confirm = prompt.Auto{}
			}
			summary := e.cfg.SummaryFile
			if f.summaryFile != "" {
				summary = f.summaryFile
			}

			p := &release.Procedure{
				Opts:                opts,
				Git:                 gitx.New(e.runner),
				Lerna:               lerna.New(e.runner),
				Confirm:             confirm,
				Out:                 output.NewPrinter(cmd.OutOrStdout()),
				ProjectManifest:     e.cfg.Path(e.cfg.ProjectManifest),
				MonorepoManifest:    e.cfg.Path(e.cfg.MonorepoManifest),
				ReleaseBranchPrefix: e.cfg.ReleaseBranchPrefix,
				TagPrefix:           e.cfg.TagPrefix,
				TokenEnv:            e.cfg.TokenEnv,
				SummaryFile:         e.cfg.Path(summary),
				Getenv:              os.Getenv,
			}
			return p.Run(cmd.Context())
		},
	}

	addGlobalFlags(cmd, &f.globalFlags)
	cmd.AddCommand(toolsCommand(&f.globalFlags))
	fl := cmd.Flags()
	fl.BoolVarP(&f.yes, "yes", "y", false, "skip all confirmations")
	fl.BoolVar(&f.diff, "diff", false, "show changes since the last release")
	fl.BoolVar(&f.ls, "ls", false, "show current package versions")
	fl.StringVar(&f.pullRequest, "pull-request", "", "publish a canary for this pull request id")
	fl.BoolVar(&f.next, "next", false, `publish a canary on the "next" dist-tag`)
	fl.BoolVar(&f.latest, "latest", false, `publish every package on the "latest" dist-tag`)
	fl.StringVar(&f.branch, "branch", "", "base branch to release from (default from config, master)")
	fl.StringVar(&f.remote, "remote", "", "remote to pull from and push to (default from config, origin)")
	fl.StringVar(&f.increment, "increment", "", "version component to bump: major, minor or patch (default from config, patch)")
	fl.BoolVar(&f.skipUpdate, "skip-update", false, "do not checkout and pull the base branch")
	fl.BoolVar(&f.skipPush, "skip-push", false, "never push the release branch and tag")
	fl.BoolVar(&f.push, "push", false, "push the release branch and tag without asking")
	fl.BoolVar(&f.ignoreGit, "ignore-git", false, "release even with uncommitted or untracked files")
	fl.BoolVar(&f.dryRun, "dry-run", false, "stop after showing the version summary")
	fl.StringVar(&f.summaryFile, "summary-file", "", "write the release plan as JSON to this path")
	return cmd
}

// options merges flags over the loaded config.
func (f *releaseFlags) options(cmd *cobra.Command, cfg *config.Config) (release.Options, error) {
	if f.branch != "" {
		cfg.PrimaryBranch = f.branch
	}
	if f.remote != "" {
		cfg.Remote = f.remote
	}
	if f.increment != "" {
		cfg.Increment = f.increment
	}
	if err := cfg.Validate(); err != nil {
		return release.Options{}, err
	}
	inc, err := version.ParseIncrement(cfg.Increment)
	if err != nil {
		return release.Options{}, err
	}
	return release.Options{
		Yes:            f.yes,
		Diff:           f.diff,
		List:           f.ls,
		PullRequest:    strings.TrimSpace(f.pullRequest),
		PullRequestSet: cmd.Flags().Changed("pull-request"),
		Next:           f.next,
		Latest:         f.latest,
		Branch:         cfg.PrimaryBranch,
		Remote:         cfg.Remote,
		Increment:      inc,
		SkipUpdate:     f.skipUpdate,
		SkipPush:       f.skipPush,
		Push:           f.push,
		IgnoreGit:      f.ignoreGit,
		DryRun:         f.dryRun,
	}, nil
}
