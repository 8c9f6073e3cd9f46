package release

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/daryltucker/monorepo-release/internal/execx"
	"github.com/daryltucker/monorepo-release/internal/flow"
	"github.com/daryltucker/monorepo-release/internal/gitx"
	"github.com/daryltucker/monorepo-release/internal/lerna"
	"github.com/daryltucker/monorepo-release/internal/model"
	"github.com/daryltucker/monorepo-release/internal/output"
	"github.com/daryltucker/monorepo-release/internal/testutil"
)

type fixture struct {
	x       *testutil.Executor
	c       *testutil.Confirmer
	out     *bytes.Buffer
	dir     string
	summary string
	env     map[string]string
}

func newFixture(t *testing.T, lernaVersion string) *fixture {
	t.Helper()
	dir := t.TempDir()
	write := func(name, body string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("lerna.json", `{"lerna": "2.11.0", "packages": ["packages/*"], "version": "`+lernaVersion+`"}`)
	write("package.json", `{"name": "ui", "repository": {"type": "git", "url": "git+https://github.com/acme/ui.git"}}`)

	x := testutil.NewExecutor().
		OK("node -v", "v18.19.0").
		OK("npm -v", "10.2.3").
		OK("lerna -v", "2.11.0")
	return &fixture{
		x:       x,
		c:       &testutil.Confirmer{},
		out:     &bytes.Buffer{},
		dir:     dir,
		summary: filepath.Join(dir, "out", "release.json"),
		env:     map[string]string{"NPM_TOKEN": "secret"},
	}
}

// readyToBump scripts a repo with changes, a clean tree and an existing master.
func (f *fixture) readyToBump() *fixture {
	f.x.OK("lerna diff", "diff --git a/packages/button/index.js").
		OK("git status -s", "").
		OK("git rev-parse --verify master", "4f2c1e0").
		OK("git checkout master", "").
		OK("git pull origin master", "Already up to date.")
	return f
}

func (f *fixture) procedure(o Options) *Procedure {
	return &Procedure{
		Opts:                o,
		Git:                 gitx.New(f.x),
		Lerna:               lerna.New(f.x),
		Confirm:             f.c,
		Out:                 output.NewPrinter(f.out),
		ProjectManifest:     filepath.Join(f.dir, "package.json"),
		MonorepoManifest:    filepath.Join(f.dir, "lerna.json"),
		ReleaseBranchPrefix: "release/v",
		TagPrefix:           "v",
		TokenEnv:            "NPM_TOKEN",
		SummaryFile:         f.summary,
		Getenv:              func(k string) string { return f.env[k] },
		Now:                 func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func (f *fixture) run(t *testing.T, o Options) int {
	t.Helper()
	return flow.Code(f.procedure(o).Run(context.Background()))
}

func TestDefaultWorkflowPatchWithYes(t *testing.T) {
	f := newFixture(t, "1.2.3").readyToBump()
	f.x.OK("git checkout -b release/v1.2.4", "").
		OK("lerna publish --skip-npm --cd-version=patch --yes", "lerna success publish").
		OK("git push origin release/v1.2.4", "").
		OK("git push origin v1.2.4", "")

	if code := f.run(t, Options{Yes: true, Increment: model.Patch}); code != 0 {
		t.Fatalf("expected exit 0, got %d\n%s", code, f.out.String())
	}
	if len(f.c.Questions) != 0 {
		t.Fatalf("--yes must not prompt, got %v", f.c.Questions)
	}
	want := []string{
		"git checkout master",
		"git pull origin master",
		"git checkout -b release/v1.2.4",
		"lerna publish --skip-npm --cd-version=patch --yes",
		"git push origin release/v1.2.4",
		"git push origin v1.2.4",
	}
	if got := f.x.Mutations(); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("calls = %v\nwant %v", got, want)
	}
	text := f.out.String()
	for _, s := range []string{"New version:     1.2.4", "https://github.com/acme/ui/compare/release/v1.2.4?expand=1", "Success!"} {
		if !strings.Contains(text, s) {
			t.Fatalf("output missing %q:\n%s", s, text)
		}
	}

	data, err := os.ReadFile(f.summary)
	if err != nil {
		t.Fatalf("summary not written: %v", err)
	}
	var plan model.Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		t.Fatal(err)
	}
	if plan.Target != "1.2.4" || plan.Branch != "release/v1.2.4" || plan.Tag != "v1.2.4" || !plan.Pushed {
		t.Fatalf("unexpected plan %+v", plan)
	}
}

func TestDefaultWorkflowMajorSkipPush(t *testing.T) {
	f := newFixture(t, "1.2.3").readyToBump()
	f.x.OK("git checkout -b release/v2.0.0", "").
		OK("lerna publish --skip-npm --cd-version=major --yes", "")

	if code := f.run(t, Options{Yes: true, Increment: model.Major, SkipPush: true}); code != 0 {
		t.Fatalf("expected exit 0, got %d\n%s", code, f.out.String())
	}
	if f.x.Called("git push") {
		t.Fatalf("--skip-push must not push")
	}
	if !strings.Contains(f.out.String(), `release/v2.0.0 and tag "v2.0.0" are available to push`) {
		t.Fatalf("unexpected output:\n%s", f.out.String())
	}
}

func TestDefaultWorkflowTargetExists(t *testing.T) {
	for _, ref := range []string{"release/v1.2.4", "v1.2.4"} {
		t.Run(ref, func(t *testing.T) {
			f := newFixture(t, "1.2.3").readyToBump()
			f.x.OK("git rev-parse --verify "+ref, "9a8b7c6")

			if code := f.run(t, Options{Yes: true}); code != 1 {
				t.Fatalf("expected exit 1, got %d", code)
			}
			if f.x.Called("git checkout -b") {
				t.Fatalf("must not create a branch when the target exists")
			}
			if !strings.Contains(f.out.String(), `"v1.2.4" already exists`) {
				t.Fatalf("unexpected output:\n%s", f.out.String())
			}
		})
	}
}

func TestDefaultWorkflowDirtyTree(t *testing.T) {
	f := newFixture(t, "1.2.3")
	f.x.OK("lerna diff", "changes").
		OK("git status -s", " M packages/button/index.js")

	if code := f.run(t, Options{Yes: true}); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if m := f.x.Mutations(); len(m) != 0 {
		t.Fatalf("dirty tree must stop before any remote contact, got %v", m)
	}
	if !strings.Contains(f.out.String(), "M packages/button/index.js") {
		t.Fatalf("status not shown:\n%s", f.out.String())
	}
}

func TestDefaultWorkflowIgnoreGit(t *testing.T) {
	f := newFixture(t, "1.2.3").readyToBump()
	f.x.OK("git status -s", "?? notes.txt").
		OK("git checkout -b release/v1.2.4", "").
		OK("lerna publish --skip-npm --cd-version=patch --yes", "")

	if code := f.run(t, Options{Yes: true, IgnoreGit: true, SkipPush: true}); code != 0 {
		t.Fatalf("expected exit 0, got %d\n%s", code, f.out.String())
	}
}

func TestDefaultWorkflowNoChanges(t *testing.T) {
	f := newFixture(t, "1.2.3")
	f.x.OK("lerna diff", "")

	if code := f.run(t, Options{Yes: true}); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(f.out.String(), "No updated packages to publish.") {
		t.Fatalf("unexpected output:\n%s", f.out.String())
	}
	if f.x.Called("git") {
		t.Fatalf("no git calls expected, got %v", f.x.Calls)
	}
}

func TestDefaultWorkflowInterruptedDuringDiff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f := newFixture(t, "1.2.3")
	f.x.AfterRun = func(line string) {
		if line == "lerna diff" {
			cancel()
		}
	}

	if code := flow.Code(f.procedure(Options{Yes: true}).Run(ctx)); code != 1 {
		t.Fatalf("interrupted run must exit 1, got %d", code)
	}
	if strings.Contains(f.out.String(), "No updated packages") {
		t.Fatalf("interrupt reported as nothing to publish:\n%s", f.out.String())
	}
	if f.x.Called("git") {
		t.Fatalf("no git calls expected after interrupt, got %v", f.x.Calls)
	}
}

func TestDefaultWorkflowMissingBranch(t *testing.T) {
	f := newFixture(t, "1.2.3")
	f.x.OK("lerna diff", "changes").OK("git status -s", "")

	if code := f.run(t, Options{Yes: true, Branch: "develop"}); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(f.out.String(), `Branch "develop" doesn't exist`) {
		t.Fatalf("unexpected output:\n%s", f.out.String())
	}
}

func TestDefaultWorkflowSkipUpdate(t *testing.T) {
	f := newFixture(t, "1.2.3").readyToBump()
	f.x.OK("git checkout -b release/v1.2.4", "").
		OK("lerna publish --skip-npm --cd-version=patch --yes", "")

	if code := f.run(t, Options{Yes: true, SkipUpdate: true, SkipPush: true}); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if f.x.Called("git pull") || f.x.Called("git checkout master") {
		t.Fatalf("--skip-update must not checkout or pull, got %v", f.x.Calls)
	}
}

func TestDefaultWorkflowPullFailure(t *testing.T) {
	f := newFixture(t, "1.2.3").readyToBump()
	f.x.Fail("git pull origin master", "fatal: couldn't find remote ref master")

	if code := f.run(t, Options{Yes: true}); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if f.x.Called("git checkout -b") {
		t.Fatalf("must stop after a failed pull")
	}
}

func TestDefaultWorkflowInvalidRecordedVersion(t *testing.T) {
	f := newFixture(t, "not-a-version").readyToBump()
	if code := f.run(t, Options{Yes: true}); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if f.x.Called("git checkout -b") {
		t.Fatalf("must not create a branch for an invalid version")
	}
}

func TestDefaultWorkflowPromptsWithoutYes(t *testing.T) {
	f := newFixture(t, "1.2.3").readyToBump()
	f.x.OK("git checkout -b release/v1.2.4", "").
		OK("lerna publish --skip-npm --cd-version=patch --yes", "")
	f.c.Answers = []bool{true, false}

	if code := f.run(t, Options{}); code != 0 {
		t.Fatalf("expected exit 0, got %d\n%s", code, f.out.String())
	}
	if len(f.c.Questions) != 2 || f.c.Questions[0] != "Continue with release?" ||
		!strings.Contains(f.c.Questions[1], "push the branch to your remote? (origin)") {
		t.Fatalf("unexpected questions %v", f.c.Questions)
	}
	if f.x.Called("git push") {
		t.Fatalf("declined push must not push")
	}
}

func TestDefaultWorkflowPushFlagSkipsPushPrompt(t *testing.T) {
	f := newFixture(t, "1.2.3").readyToBump()
	f.x.OK("git checkout -b release/v1.2.4", "").
		OK("lerna publish --skip-npm --cd-version=patch --yes", "").
		OK("git push upstream release/v1.2.4", "").
		OK("git push upstream v1.2.4", "").
		OK("git pull upstream master", "")
	f.c.Answers = []bool{true}

	if code := f.run(t, Options{Push: true, Remote: "upstream"}); code != 0 {
		t.Fatalf("expected exit 0, got %d\n%s", code, f.out.String())
	}
	if len(f.c.Questions) != 1 {
		t.Fatalf("expected only the release confirmation, got %v", f.c.Questions)
	}
	if !f.x.Called("git push upstream v1.2.4") {
		t.Fatalf("tag not pushed: %v", f.x.Calls)
	}
}

func TestDefaultWorkflowDeclined(t *testing.T) {
	f := newFixture(t, "1.2.3").readyToBump()
	f.c.Answers = []bool{false}

	if code := f.run(t, Options{}); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(f.out.String(), "Aborting release...") {
		t.Fatalf("unexpected output:\n%s", f.out.String())
	}
	if f.x.Called("git checkout -b") {
		t.Fatalf("declined release must not create a branch")
	}
}

func TestDefaultWorkflowDryRun(t *testing.T) {
	f := newFixture(t, "1.2.3").readyToBump()
	if code := f.run(t, Options{DryRun: true}); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if m := f.x.Mutations(); len(m) != 0 {
		t.Fatalf("dry run must not mutate, got %v", m)
	}
	if len(f.c.Questions) != 0 {
		t.Fatalf("dry run must not prompt")
	}
	if !strings.Contains(f.out.String(), "New version:     1.2.4") {
		t.Fatalf("summary missing:\n%s", f.out.String())
	}
}

func TestLernaVersionMismatch(t *testing.T) {
	f := newFixture(t, "1.2.3")
	f.x.OK("lerna -v", "3.0.0")

	if code := f.run(t, Options{Yes: true}); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	text := f.out.String()
	if !strings.Contains(text, "found: 3.0.0") || !strings.Contains(text, "expected: 2.11.0") {
		t.Fatalf("unexpected output:\n%s", text)
	}
	if f.x.Called("lerna diff") {
		t.Fatalf("must stop at pre-flight")
	}
}

func TestPullRequestMode(t *testing.T) {
	f := newFixture(t, "1.2.3")
	f.x.OK("lerna publish --skip-git --npm-tag=42 --canary=pr --yes", "published 1.2.4-alpha.0")

	if code := f.run(t, Options{PullRequestSet: true, PullRequest: "42"}); code != 0 {
		t.Fatalf("expected exit 0, got %d\n%s", code, f.out.String())
	}
	if f.x.Called("lerna diff") {
		t.Fatalf("pull-request mode is terminal")
	}
}

func TestPullRequestModeMissingID(t *testing.T) {
	f := newFixture(t, "1.2.3")
	if code := f.run(t, Options{PullRequestSet: true, PullRequest: " "}); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(f.out.String(), "No PR number found.") {
		t.Fatalf("unexpected output:\n%s", f.out.String())
	}
	if m := f.x.Mutations(); len(m) != 0 {
		t.Fatalf("expected no publish, got %v", m)
	}
}

func TestPullRequestModeStderrIsFatal(t *testing.T) {
	f := newFixture(t, "1.2.3")
	f.x.Script("lerna publish --skip-git --npm-tag=42 --canary=pr --yes", execx.Result{Stderr: "lerna ERR! E401"})

	err := f.procedure(Options{PullRequestSet: true, PullRequest: "42"}).Run(context.Background())
	if flow.Code(err) != 1 || flow.Silent(err) {
		t.Fatalf("expected a reported failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "E401") {
		t.Fatalf("stderr missing from error: %v", err)
	}
}

func TestNextModeDryRunThenPublish(t *testing.T) {
	f := newFixture(t, "1.2.3")
	f.x.OK("lerna publish --skip-git --npm-tag=next --canary=next", "Changes:\n - button: 1.2.4-alpha.0\n? Are you sure you want to publish the above changes?").
		OK("lerna publish --skip-git --npm-tag=next --canary=next --yes", "Successfully published")
	f.c.Answers = []bool{true}

	if code := f.run(t, Options{Next: true, Latest: true}); code != 0 {
		t.Fatalf("expected exit 0, got %d\n%s", code, f.out.String())
	}
	text := f.out.String()
	if strings.Contains(text, "Are you sure") {
		t.Fatalf("lerna's confirmation line should be stripped:\n%s", text)
	}
	if !strings.Contains(text, "button: 1.2.4-alpha.0") || !strings.Contains(text, "Successfully published") {
		t.Fatalf("unexpected output:\n%s", text)
	}
	if f.x.Called("lerna exec") {
		t.Fatalf("next takes precedence over latest")
	}
}

func TestNextModeWithYesSkipsDryRun(t *testing.T) {
	f := newFixture(t, "1.2.3")
	f.x.OK("lerna publish --skip-git --npm-tag=next --canary=next --yes", "ok")

	if code := f.run(t, Options{Next: true, Yes: true}); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	for _, c := range f.x.Calls {
		if c == "lerna publish --skip-git --npm-tag=next --canary=next" {
			t.Fatalf("dry run must be skipped with --yes")
		}
	}
	if len(f.c.Questions) != 0 {
		t.Fatalf("--yes must not prompt")
	}
}

func TestLatestModeAfterList(t *testing.T) {
	f := newFixture(t, "1.2.3")
	f.x.OK("lerna ls", "button v1.2.3").
		OK("lerna exec npm publish", "+ button@1.2.3")
	f.c.Answers = []bool{true}

	if code := f.run(t, Options{Latest: true, List: true}); code != 0 {
		t.Fatalf("expected exit 0, got %d\n%s", code, f.out.String())
	}
	if len(f.c.Questions) != 1 {
		t.Fatalf("--ls already asked; expected one question, got %v", f.c.Questions)
	}
	if strings.Count(f.out.String(), "button v1.2.3") != 1 {
		t.Fatalf("packages should be listed once:\n%s", f.out.String())
	}
}

func TestLatestModeWarnsWithoutToken(t *testing.T) {
	f := newFixture(t, "1.2.3")
	f.env = map[string]string{}
	f.x.OK("lerna exec npm publish", "")

	if code := f.run(t, Options{Latest: true, Yes: true}); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(f.out.String(), "NPM_TOKEN is not set") {
		t.Fatalf("expected token warning:\n%s", f.out.String())
	}
}

func TestDiffModeFallsThrough(t *testing.T) {
	f := newFixture(t, "1.2.3")
	f.x.OK("lerna diff", "")

	if code := f.run(t, Options{Diff: true, Yes: true}); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(f.out.String(), "Showing changes since last release:") ||
		!strings.Contains(f.out.String(), "No updated packages to publish.") {
		t.Fatalf("diff should print then continue into the default workflow:\n%s", f.out.String())
	}
}
