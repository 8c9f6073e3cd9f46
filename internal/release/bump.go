package release

import (
	"context"
	"errors"

	"github.com/daryltucker/monorepo-release/internal/flow"
	"github.com/daryltucker/monorepo-release/internal/lerna"
	"github.com/daryltucker/monorepo-release/internal/manifest"
	"github.com/daryltucker/monorepo-release/internal/model"
	"github.com/daryltucker/monorepo-release/internal/output"
	"github.com/daryltucker/monorepo-release/internal/version"
)

// bump is the default workflow: cut release/v<next> from the base branch,
// let lerna bump/commit/tag, then optionally push branch and tag.
func (p *Procedure) bump(ctx context.Context) error {
	o := p.Opts

	diff := p.Lerna.Diff(ctx)
	if err := ctx.Err(); err != nil {
		return flow.Interrupted(err)
	}
	if diff == "" {
		p.Out.Println(output.Yellow("No updated packages to publish."))
		return flow.Done()
	}

	status := p.Git.Status(ctx)
	if err := ctx.Err(); err != nil {
		return flow.Interrupted(err)
	}
	if status != "" && !o.IgnoreGit {
		p.Out.Printf("\n=> ERROR: %s\n\n", output.Red("You have unstaged or untracked files, please commit or stash these."))
		p.Out.Println(status)
		return flow.Fail()
	}

	branch, remote, inc := o.Branch, o.Remote, o.Increment
	if branch == "" {
		branch = "master"
	}
	if remote == "" {
		remote = "origin"
	}
	if inc == "" {
		inc = model.Patch
	}

	if !p.Git.RefExists(ctx, branch) {
		p.Out.Step(output.Red(`ERROR: Branch "` + branch + `" doesn't exist.`))
		return flow.Fail()
	}

	if !o.SkipUpdate && !o.DryRun {
		p.Out.Step(output.Blue("Checking out " + branch + ", pulling down latest changes."))
		if err := p.Git.Checkout(ctx, branch).Check(); err != nil {
			return fatal("checkout "+branch, err)
		}
		if err := p.Git.Pull(ctx, remote, branch).Check(); err != nil {
			return fatal("pull "+remote+" "+branch, err)
		}
	}

	mono, err := manifest.LoadMonorepo(p.MonorepoManifest)
	if err != nil {
		return err
	}

	p.Out.Step(output.Green("Checking version branch and tag doesn't already exist."))
	target, err := version.Next(mono.Version, inc)
	if err != nil {
		output.Logger.Debug("version increment rejected", "current", mono.Version, "increment", inc, "error", err)
		if errors.Is(err, version.ErrInvalidVersion) {
			p.Out.Printf("ERROR: Invalid version recorded in %s: %q\n", p.MonorepoManifest, mono.Version)
		} else {
			p.Out.Printf("ERROR: Invalid increment passed: %q\n", string(inc))
		}
		return flow.Fail()
	}
	targetBranch, targetTag := p.Targets(target)
	exists := p.Git.RefExists(ctx, targetBranch) || p.Git.RefExists(ctx, targetTag)
	if err := ctx.Err(); err != nil {
		return flow.Interrupted(err)
	}
	if exists {
		p.Out.Printf("ERROR: %s\n", output.Red(`The version "`+targetTag+`" already exists, please delete `+targetBranch+` and tag `+targetTag+` to continue`))
		return flow.Fail()
	}

	plan := model.Plan{
		Current:   mono.Version,
		Increment: inc,
		Target:    target,
		Branch:    targetBranch,
		Tag:       targetTag,
		Base:      branch,
		Remote:    remote,
	}
	p.Out.Printf("  | Current Version: %s\n", output.Blue(plan.Current))
	p.Out.Printf("  | Increment:       %s\n", output.Yellow(string(plan.Increment)))
	p.Out.Printf("  | New version:     %s\n\n", output.Green(plan.Target))

	if o.DryRun {
		p.Out.Println(output.Yellow("Dry run, stopping before any change."))
		return nil
	}

	if err := p.continueWithRelease(ctx); err != nil {
		return err
	}

	p.Out.Step(output.Green(`Checking out new branch "` + targetBranch + `"`))
	if err := p.Git.CheckoutNew(ctx, targetBranch).Check(); err != nil {
		return fatal("create "+targetBranch, err)
	}

	p.Out.Step(output.Green("Running Lerna publish"))
	res := p.Lerna.Publish(ctx, lerna.BumpArgs(inc)...)
	if err := res.Check(); err != nil {
		return fatal("lerna publish", err)
	}
	p.Out.Echo(res.Stdout)
	p.Out.Println(output.Green("Success! You are now on the branch ready to go."))

	if err := p.push(ctx, &plan); err != nil {
		return err
	}
	p.Out.Println("Success!")

	if p.SummaryFile != "" {
		plan.Timestamp = p.now()
		if err := output.WriteSummary(p.SummaryFile, plan); err != nil {
			return err
		}
	}
	return nil
}

func (p *Procedure) push(ctx context.Context, plan *model.Plan) error {
	if p.Opts.SkipPush {
		p.Out.Println(output.Green(`Your branch ` + plan.Branch + ` and tag "` + plan.Tag + `" are available to push.`))
		return nil
	}

	ok := p.Opts.Push
	if !ok {
		var err error
		ok, err = p.confirm(ctx, "Do you want to push the branch to your remote? ("+plan.Remote+")")
		if err != nil {
			return err
		}
	}
	if !ok {
		return nil
	}

	p.Out.Println(output.Yellow(`Pushing branch "` + plan.Branch + `" and tag "` + plan.Tag + `" to remote "` + plan.Remote + `"`))
	if err := p.Git.Push(ctx, plan.Remote, plan.Branch).Check(); err != nil {
		return fatal("push "+plan.Branch, err)
	}
	if err := p.Git.Push(ctx, plan.Remote, plan.Tag).Check(); err != nil {
		return fatal("push "+plan.Tag, err)
	}
	plan.Pushed = true

	project, err := manifest.LoadProject(p.ProjectManifest)
	if err != nil {
		output.Logger.Warn("project manifest unavailable, skipping compare link", "error", err)
		return nil
	}
	if repo := project.Repository.WebURL(); repo != "" {
		plan.CompareURL = repo + "/compare/" + plan.Branch + "?expand=1"
		p.Out.Printf("%s\n click here to open a PR: %s\n", output.Green("Your branch has been pushed"), plan.CompareURL)
	}
	return nil
}
