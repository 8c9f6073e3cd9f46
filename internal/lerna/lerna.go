/*
PURPOSE:
  Wraps the node toolchain queries and lerna invocations used by the
  release procedure.

REQUIREMENTS:
  User-specified:
  - Versions via `node -v`, `npm -v`, `lerna -v`.
  - Canary publishes: --skip-git --npm-tag=<tag> --canary=<name>.
  - Version bump: --skip-npm --cd-version=<increment> --yes.
  - A dry-run's trailing confirmation line is dropped before display.

ARCHITECTURE INTEGRATION:
  - Used by: internal/release, internal/cli (tools)
  - Runs through: internal/execx

ERROR HANDLING:
  - Probes read leniently; publishes return the Result so the caller
    decides between Strict and Check.
*/

package lerna

import (
	"context"
	"regexp"

	"github.com/daryltucker/monorepo-release/internal/execx"
	"github.com/daryltucker/monorepo-release/internal/model"
)

// Tool issues node/npm/lerna commands through an Executor.
type Tool struct {
	x execx.Executor
}

func New(x execx.Executor) *Tool { return &Tool{x: x} }

// Versions probes the installed node, npm and lerna versions. Unknown
// versions read as "".
func (t *Tool) Versions(ctx context.Context) model.Versions {
	return model.Versions{
		Node:  t.x.Run(ctx, "node", "-v").Text(),
		NPM:   t.x.Run(ctx, "npm", "-v").Text(),
		Lerna: t.x.Run(ctx, "lerna", "-v").Text(),
	}
}

// Diff returns the change summary since the last release; "" when nothing
// changed or lerna could not tell.
func (t *Tool) Diff(ctx context.Context) string {
	return t.x.Run(ctx, "lerna", "diff").Text()
}

// List returns the packages and their current versions.
func (t *Tool) List(ctx context.Context) string {
	return t.x.Run(ctx, "lerna", "ls").Text()
}

// Publish runs `lerna publish` with args.
func (t *Tool) Publish(ctx context.Context, args ...string) execx.Result {
	return t.x.Run(ctx, "lerna", append([]string{"publish"}, args...)...)
}

// Exec runs a command in every package via `lerna exec`.
func (t *Tool) Exec(ctx context.Context, args ...string) execx.Result {
	return t.x.Run(ctx, "lerna", append([]string{"exec"}, args...)...)
}

// CanaryArgs are the publish flags for a canary build under distTag.
func CanaryArgs(distTag, canary string) []string {
	return []string{"--skip-git", "--npm-tag=" + distTag, "--canary=" + canary}
}

// BumpArgs bump versions, commit and tag without touching the registry.
func BumpArgs(inc model.Increment) []string {
	return []string{"--skip-npm", "--cd-version=" + string(inc), "--yes"}
}

var lastLine = regexp.MustCompile(`\r?\n?[^\r\n]*$`)

// StripConfirmation drops the trailing line of a dry-run publish, which is
// lerna's own "Are you sure" question.
func StripConfirmation(s string) string {
	return lastLine.ReplaceAllString(s, "")
}
