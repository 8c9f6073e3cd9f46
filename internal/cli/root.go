/*
PURPOSE:
  Shared plumbing for the `release` and `merge` root commands: global flags,
  config loading and construction of the command runner.

REQUIREMENTS:
  User-specified:
  - Provide a CLI interface for both binaries.
  - Support global flags like --config.

  Implementation-discovered:
  - Each binary needs its own Execute function for its main.go.
  - Ctrl-C cancels the running subprocess through the command context;
    an interrupted run exits 1 even when the procedure returned cleanly.

ARCHITECTURE INTEGRATION:
  - Called by: cmd/release/main.go, cmd/merge/main.go
  - Builds: config.Config, execx.Runner

ERROR HANDLING:
  - Returns error to main.go; flow.Code maps it to the exit status.

SELF-HEALING INSTRUCTIONS:
  - If adding new global flags, add them to addGlobalFlags().

RELATED FILES:
  - internal/cli/release.go
  - internal/cli/merge.go
*/

package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/daryltucker/monorepo-release/internal/config"
	"github.com/daryltucker/monorepo-release/internal/execx"
	"github.com/daryltucker/monorepo-release/internal/flow"
	"github.com/daryltucker/monorepo-release/internal/output"
)

// globalFlags are available on both binaries.
type globalFlags struct {
	cfgFile string
	dir     string
	verbose bool
}

func addGlobalFlags(cmd *cobra.Command, g *globalFlags) {
	cmd.PersistentFlags().StringVar(&g.cfgFile, "config", "", "config file (default is release.yaml in --dir or the working directory)")
	cmd.PersistentFlags().StringVar(&g.dir, "dir", "", "repository root (default is the config's root_dir)")
	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log every subprocess to stderr")
}

// env is what both procedures need at start-up.
type env struct {
	cfg    *config.Config
	runner *execx.Runner
}

// setup loads config, applies global overrides and builds the runner.
func (g *globalFlags) setup(ctx context.Context) (*env, error) {
	output.SetVerbose(g.verbose)

	cfg, err := config.Load(g.cfgFile, g.dir)
	if err != nil {
		return nil, err
	}
	if g.dir != "" {
		cfg.RootDir = g.dir
	}
	if abs, err := filepath.Abs(cfg.RootDir); err == nil {
		cfg.RootDir = abs
	}

	toolsDir := execx.ResolveToolsDir(ctx, cfg.RootDir, cfg.ToolsDir)
	output.Logger.Debug("tools dir resolved", "dir", toolsDir, "root", cfg.RootDir)
	return &env{cfg: cfg, runner: execx.New(toolsDir, cfg.RootDir)}, nil
}

func execute(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return executeContext(ctx, cmd)
}

// executeContext runs cmd under ctx. A cancelled run that would otherwise
// report success exits 1.
func executeContext(ctx context.Context, cmd *cobra.Command) error {
	err := cmd.ExecuteContext(ctx)
	if cause := ctx.Err(); cause != nil && flow.Code(err) == 0 {
		return flow.Interrupted(cause)
	}
	return err
}
