/*
PURPOSE:
  Command Runner. Runs external tools (git, npm, lerna, node) with the
  project's local tools directory prepended to PATH and returns a Result
  that callers read either leniently (Text) or strictly (Strict).

REQUIREMENTS:
  User-specified:
  - Trim captured output.
  - Probes swallow failures and read as "".
  - Mutating commands fail on a non-zero exit OR any stderr text.

  Implementation-discovered:
  - exec.Command resolves the binary against the parent's PATH, so tools
    living only in the local tools dir are resolved explicitly first.

ARCHITECTURE INTEGRATION:
  - Used by: internal/gitx, internal/lerna, internal/cli
  - Depends on: internal/output (debug logging)

ERROR HANDLING:
  - Never panics; every failure is carried in Result.Err.

USAGE:
  r := execx.New(toolsDir, repoRoot)
  branch := r.Run(ctx, "git", "rev-parse", "--abbrev-ref", "HEAD").Text()
  out, err := r.Run(ctx, "git", "push", "origin", "master").Strict()

RELATED FILES:
  - internal/execx/result.go
*/

package execx

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/daryltucker/monorepo-release/internal/output"
)

// Executor runs a named program and reports what happened.
type Executor interface {
	Run(ctx context.Context, name string, args ...string) Result
}

// Runner is the default Executor backed by os/exec.
type Runner struct {
	toolsDir string
	dir      string
}

// New returns a Runner that prepends toolsDir to PATH and runs in dir.
// An empty dir keeps the process working directory.
func New(toolsDir, dir string) *Runner {
	return &Runner{toolsDir: toolsDir, dir: dir}
}

// ToolsDir reports the directory injected at the front of PATH.
func (r *Runner) ToolsDir() string { return r.toolsDir }

// Run executes name with args and waits for it to finish.
func (r *Runner) Run(ctx context.Context, name string, args ...string) Result {
	output.Logger.Debug("exec", "cmd", name, "args", args, "dir", r.dir)

	cmd := exec.CommandContext(ctx, r.lookup(name), args...)
	cmd.Dir = r.dir
	cmd.Env = Environ(os.Environ(), r.toolsDir)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Name:   name,
		Args:   args,
		Stdout: strings.TrimSpace(stdout.String()),
		Stderr: strings.TrimSpace(stderr.String()),
		Err:    err,
	}
	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			res.Code = ee.ExitCode()
		} else {
			res.Code = 1
		}
		output.Logger.Debug("exec failed", "cmd", name, "code", res.Code, "error", err)
	}
	return res
}

// lookup prefers an executable inside the tools dir for bare command names.
func (r *Runner) lookup(name string) string {
	if r.toolsDir == "" || strings.ContainsRune(name, filepath.Separator) {
		return name
	}
	candidate := filepath.Join(r.toolsDir, name)
	fi, err := os.Stat(candidate)
	if err != nil || fi.IsDir() || fi.Mode()&0o111 == 0 {
		return name
	}
	return candidate
}

// Environ returns env with toolsDir placed at the front of PATH.
// An empty toolsDir leaves env untouched.
func Environ(env []string, toolsDir string) []string {
	out := make([]string, 0, len(env)+1)
	found := false
	for _, kv := range env {
		if toolsDir != "" && strings.HasPrefix(kv, "PATH=") {
			kv = "PATH=" + toolsDir + string(os.PathListSeparator) + strings.TrimPrefix(kv, "PATH=")
			found = true
		}
		out = append(out, kv)
	}
	if toolsDir != "" && !found {
		out = append(out, "PATH="+toolsDir)
	}
	return out
}

// ResolveToolsDir picks the local tools directory for root: the configured
// path when given, else what `npm bin` reports, else root/node_modules/.bin.
func ResolveToolsDir(ctx context.Context, root, configured string) string {
	if configured != "" {
		if filepath.IsAbs(configured) {
			return configured
		}
		return filepath.Join(root, configured)
	}
	if dir := New("", root).Run(ctx, "npm", "bin").Text(); dir != "" {
		return dir
	}
	return filepath.Join(root, "node_modules", ".bin")
}
