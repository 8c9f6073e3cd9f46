/*
PURPOSE:
  Orchestrates a lerna monorepo release: pre-flight tool checks, optional
  inspection (diff/ls), canary and dist-tag publishes, and the default
  version-bump workflow that cuts a release/v<version> branch and tag.

REQUIREMENTS:
  User-specified:
  - Installed lerna must match lerna.json's "lerna" field.
  - Mode precedence: diff, ls, pull-request, next, latest, default.
  - --yes answers every prompt with "continue".
  - Exit 0 on success or benign early exit, 1 on any failure.

  Implementation-discovered:
  - Manifests are re-read after pulling so the recorded version is current.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli/release.go
  - Uses: internal/gitx, internal/lerna, internal/prompt, internal/version

ERROR HANDLING:
  - Validation failures print a diagnostic and return flow.Fail().
  - Failed mutating commands return wrapped errors; no retries, no rollback.
  - An empty probe read after Ctrl-C is an interruption, not "nothing to do".

RELATED FILES:
  - internal/release/modes.go
  - internal/release/bump.go
*/

package release

import (
	"context"
	"fmt"
	"time"

	"github.com/daryltucker/monorepo-release/internal/flow"
	"github.com/daryltucker/monorepo-release/internal/gitx"
	"github.com/daryltucker/monorepo-release/internal/lerna"
	"github.com/daryltucker/monorepo-release/internal/manifest"
	"github.com/daryltucker/monorepo-release/internal/model"
	"github.com/daryltucker/monorepo-release/internal/output"
	"github.com/daryltucker/monorepo-release/internal/prompt"
)

// Options are the parsed command line switches.
type Options struct {
	Yes  bool
	Diff bool
	List bool

	// PullRequest is the PR identifier; PullRequestSet records that the
	// flag was given at all, even with an empty value.
	PullRequest    string
	PullRequestSet bool
	Next           bool
	Latest         bool
	Branch         string
	Remote         string
	Increment      model.Increment
	SkipUpdate     bool
	SkipPush       bool
	Push           bool
	IgnoreGit      bool
	DryRun         bool
}

// Procedure holds everything a release run needs. Build it once at start-up.
type Procedure struct {
	Opts    Options
	Git     *gitx.Git
	Lerna   *lerna.Tool
	Confirm prompt.Confirmer
	Out     *output.Printer

	ProjectManifest  string
	MonorepoManifest string

	ReleaseBranchPrefix string
	TagPrefix           string
	TokenEnv            string
	SummaryFile         string

	Getenv func(string) string
	Now    func() time.Time
}

// Run executes pre-flight and then the first matching mode.
func (p *Procedure) Run(ctx context.Context) error {
	mono, err := manifest.LoadMonorepo(p.MonorepoManifest)
	if err != nil {
		return err
	}
	if err := p.preflight(ctx, mono); err != nil {
		return err
	}
	for _, m := range modes {
		if !m.selected(p.Opts) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return flow.Interrupted(err)
		}
		output.Logger.Debug("release mode", "mode", m.name)
		if err := m.run(p, ctx); err != nil {
			return err
		}
		if m.terminal {
			return nil
		}
	}
	if err := ctx.Err(); err != nil {
		return flow.Interrupted(err)
	}
	return p.bump(ctx)
}

func (p *Procedure) preflight(ctx context.Context, mono *manifest.Monorepo) error {
	p.Out.Step(output.Yellow("Checking installed versions..."))
	v := p.Lerna.Versions(ctx)
	p.Out.Printf("Node version   %s\n", output.Green(v.Node))
	p.Out.Printf("NPM version    %s\n", output.Green("v"+v.NPM))
	p.Out.Printf("Lerna version  v%s\n", output.Green(v.Lerna))

	if v.Lerna != mono.Lerna {
		p.Out.Printf("\nERROR: %s\n => found: %s\n => expected: %s\n\n Looks like you may not have run \"npm install\" in this directory.\n\n",
			output.Red("Mismatched Lerna version."), v.Lerna, mono.Lerna)
		return flow.Fail()
	}
	return nil
}

// confirm asks question unless --yes was given.
func (p *Procedure) confirm(ctx context.Context, question string) (bool, error) {
	if p.Opts.Yes {
		return true, nil
	}
	return p.Confirm.Confirm(ctx, question, true)
}

// continueWithRelease stops the run with status 1 when the operator declines.
func (p *Procedure) continueWithRelease(ctx context.Context) error {
	ok, err := p.confirm(ctx, "Continue with release?")
	if err != nil {
		return err
	}
	if !ok {
		p.Out.Println(output.Red("Aborting release..."))
		return flow.Fail()
	}
	return nil
}

// warnMissingToken flags publishes that will likely fail to authenticate.
func (p *Procedure) warnMissingToken() {
	if p.TokenEnv == "" || p.getenv(p.TokenEnv) != "" {
		return
	}
	p.Out.Printf("%s %s is not set; publishing relies on your local npm login.\n",
		output.Yellow("WARNING:"), p.TokenEnv)
}

func (p *Procedure) getenv(k string) string {
	if p.Getenv == nil {
		return ""
	}
	return p.Getenv(k)
}

func (p *Procedure) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

// Targets derives the release branch and tag names for version.
func (p *Procedure) Targets(version string) (branch, tag string) {
	return p.ReleaseBranchPrefix + version, p.TagPrefix + version
}

func fatal(step string, err error) error {
	return &flow.ExitError{Code: 1, Err: fmt.Errorf("%s: %w", step, err)}
}
