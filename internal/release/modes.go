package release

import (
	"context"
	"strings"

	"github.com/daryltucker/monorepo-release/internal/flow"
	"github.com/daryltucker/monorepo-release/internal/lerna"
	"github.com/daryltucker/monorepo-release/internal/output"
)

// mode is one row of the dispatch table. Non-terminal modes fall through to
// the next selected mode and finally to the default workflow.
type mode struct {
	name     string
	selected func(Options) bool
	terminal bool
	run      func(*Procedure, context.Context) error
}

var modes = []mode{
	{"diff", func(o Options) bool { return o.Diff }, false, (*Procedure).showDiff},
	{"ls", func(o Options) bool { return o.List }, false, (*Procedure).showList},
	{"pull-request", func(o Options) bool { return o.PullRequestSet && o.PullRequest != "false" }, true, (*Procedure).releasePullRequest},
	{"next", func(o Options) bool { return o.Next }, true, (*Procedure).releaseNext},
	{"latest", func(o Options) bool { return o.Latest }, true, (*Procedure).releaseLatest},
}

func (p *Procedure) showDiff(ctx context.Context) error {
	p.Out.Step(output.Green("Showing changes since last release:"))
	p.Out.Echo(p.Lerna.Diff(ctx))
	return p.continueWithRelease(ctx)
}

func (p *Procedure) showList(ctx context.Context) error {
	p.Out.Step(output.Green("Current package versions:"))
	p.Out.Echo(p.Lerna.List(ctx))
	return p.continueWithRelease(ctx)
}

func (p *Procedure) releasePullRequest(ctx context.Context) error {
	id := strings.TrimSpace(p.Opts.PullRequest)
	if id == "" {
		p.Out.Step(output.Red("No PR number found."))
		return flow.Fail()
	}
	p.Out.Step(output.Green("Found a Pull request build."))
	p.warnMissingToken()
	out, err := p.Lerna.Publish(ctx, append(lerna.CanaryArgs(id, "pr"), "--yes")...).Strict()
	if err != nil {
		return fatal("publish pull request canary", err)
	}
	p.Out.Echo(out)
	return nil
}

func (p *Procedure) releaseNext(ctx context.Context) error {
	args := lerna.CanaryArgs("next", "next")
	p.Out.Step(output.Green(`Preparing to release new "next" tag`))
	p.warnMissingToken()
	if !p.Opts.Yes {
		// Without --yes lerna stops at its own question; show what it planned.
		p.Out.Echo(lerna.StripConfirmation(p.Lerna.Publish(ctx, args...).Text()))
		if err := p.continueWithRelease(ctx); err != nil {
			return err
		}
	}
	out, err := p.Lerna.Publish(ctx, append(args, "--yes")...).Strict()
	if err != nil {
		return fatal(`publish "next"`, err)
	}
	p.Out.Echo(out)
	return nil
}

func (p *Procedure) releaseLatest(ctx context.Context) error {
	p.Out.Step(output.Green(`Preparing to release new "latest" tag`))
	p.warnMissingToken()
	// --ls already listed the packages and asked.
	if !p.Opts.Yes && !p.Opts.List {
		p.Out.Echo(p.Lerna.List(ctx))
		if err := p.continueWithRelease(ctx); err != nil {
			return err
		}
	}
	out, err := p.Lerna.Exec(ctx, "npm", "publish").Strict()
	if err != nil {
		return fatal(`publish "latest"`, err)
	}
	p.Out.Echo(out)
	return nil
}
