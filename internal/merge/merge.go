/*
PURPOSE:
  Fast-forwards the primary branch to the branch currently checked out and
  pushes it.

REQUIREMENTS:
  - Detached HEAD: refuse, exit 1.
  - Already on the primary branch: nothing to merge, exit 0.
  - Otherwise checkout primary, merge --ff-only, push, echoing git output.

ERROR HANDLING:
  - Ctrl-C stops before the next step and exits 1.
  - No rollback. git's own output is echoed; a rejected fast-forward is
    not reported separately.

RELATED FILES:
  - internal/gitx/git.go
  - internal/cli/merge.go
*/

package merge

import (
	"context"

	"github.com/daryltucker/monorepo-release/internal/flow"
	"github.com/daryltucker/monorepo-release/internal/gitx"
	"github.com/daryltucker/monorepo-release/internal/output"
)

// Procedure merges the current branch into Primary and pushes to Remote.
type Procedure struct {
	Git     *gitx.Git
	Out     *output.Printer
	Primary string
	Remote  string
}

// Run executes the merge. The returned error carries the exit status.
func (p *Procedure) Run(ctx context.Context) error {
	branch := p.Git.CurrentBranch(ctx)
	switch branch {
	case gitx.Detached:
		p.Out.Println("Can't merge detached head")
		return flow.Fail()
	case p.Primary:
		p.Out.Printf("You're on the %s branch, checkout branch to merge.\n", p.Primary)
		return flow.Done()
	case "":
		p.Out.Println(output.Red("Could not determine the current branch."))
		return flow.Fail()
	}

	if err := ctx.Err(); err != nil {
		return flow.Interrupted(err)
	}

	p.Out.Printf("=> Found branch %s, checking out %s\n", branch, p.Primary)
	p.Out.Echo(p.Git.Checkout(ctx, p.Primary).Text())
	if err := ctx.Err(); err != nil {
		return flow.Interrupted(err)
	}

	p.Out.Println("=> Attempting to merge")
	p.Out.Echo(p.Git.MergeFastForward(ctx, branch).Text())
	if err := ctx.Err(); err != nil {
		return flow.Interrupted(err)
	}

	p.Out.Println("=> Attempting to push")
	p.Out.Echo(p.Git.Push(ctx, p.Remote, p.Primary).Text())
	if err := ctx.Err(); err != nil {
		return flow.Interrupted(err)
	}

	output.Logger.Debug("merge finished", "branch", branch, "primary", p.Primary, "remote", p.Remote)
	return nil
}
