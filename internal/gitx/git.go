/*
PURPOSE:
  Wraps the git commands the release and merge tools issue.

REQUIREMENTS:
  User-specified:
  - Current branch, ref existence and working-tree status probes.
  - checkout, checkout -b, pull, merge --ff-only and push.

  Implementation-discovered:
  - git reports progress on stderr even on success.

ARCHITECTURE INTEGRATION:
  - Used by: internal/merge, internal/release
  - Runs through: internal/execx

ERROR HANDLING:
  - Probes return text read leniently ("" on failure).
  - Mutations return the raw Result so each call site decides whether a
    failure matters.
*/

package gitx

import (
	"context"

	"github.com/daryltucker/monorepo-release/internal/execx"
)

// Detached is what `git rev-parse --abbrev-ref HEAD` prints without a branch.
const Detached = "HEAD"

// Git issues git commands through an Executor.
type Git struct {
	x execx.Executor
}

func New(x execx.Executor) *Git { return &Git{x: x} }

func (g *Git) run(ctx context.Context, args ...string) execx.Result {
	return g.x.Run(ctx, "git", args...)
}

// CurrentBranch returns the checked out branch, Detached, or "" if unknown.
func (g *Git) CurrentBranch(ctx context.Context) string {
	return g.run(ctx, "rev-parse", "--abbrev-ref", "HEAD").Text()
}

// RefExists reports whether ref resolves to an object.
func (g *Git) RefExists(ctx context.Context, ref string) bool {
	return g.run(ctx, "rev-parse", "--verify", ref).Text() != ""
}

// Status returns the short status report; "" means a clean tree.
func (g *Git) Status(ctx context.Context) string {
	return g.run(ctx, "status", "-s").Text()
}

// Checkout switches branches. git reports the switch on stderr, so callers
// that care check Result.Err rather than reading strictly.
func (g *Git) Checkout(ctx context.Context, branch string) execx.Result {
	return g.run(ctx, "checkout", branch)
}

// CheckoutNew creates branch from the current HEAD and switches to it.
func (g *Git) CheckoutNew(ctx context.Context, branch string) execx.Result {
	return g.run(ctx, "checkout", "-b", branch)
}

// Pull fetches and merges branch from remote.
func (g *Git) Pull(ctx context.Context, remote, branch string) execx.Result {
	return g.run(ctx, "pull", remote, branch)
}

// MergeFastForward merges branch only when no merge commit is needed.
func (g *Git) MergeFastForward(ctx context.Context, branch string) execx.Result {
	return g.run(ctx, "merge", "--ff-only", branch)
}

// Push pushes ref to remote.
func (g *Git) Push(ctx context.Context, remote, ref string) execx.Result {
	return g.run(ctx, "push", remote, ref)
}
