/*
PURPOSE:
  Reads the two JSON manifests the release tool consults: the project's
  package.json and the monorepo's lerna.json. Both are owned by npm and
  lerna and only ever read here.

REQUIREMENTS:
  User-specified:
  - package.json "repository" may be a string or {"type","url"}.
  - lerna.json supplies the expected lerna version and the current version.

  Implementation-discovered:
  - The compare link needs a browsable https URL, so git remotes in any
    form npm accepts (scp-like, ssh, git+ transports, host shorthands)
    are normalised.

ARCHITECTURE INTEGRATION:
  - Used by: internal/release
  - Dependencies: github.com/whilp/git-urls

ERROR HANDLING:
  - Read and parse failures are wrapped with the manifest path.
  - An unparseable repository URL yields no compare link, not an error.
*/

package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	giturls "github.com/whilp/git-urls"
)

// Project is the subset of package.json the release tool needs.
type Project struct {
	Name       string     `json:"name"`
	Repository Repository `json:"repository"`
}

// Repository accepts both the string and the {"type","url"} forms.
type Repository struct {
	Type string
	URL  string
}

func (r *Repository) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		r.URL = s
		return nil
	}
	var obj struct {
		Type string `json:"type"`
		URL  string `json:"url"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("repository: %w", err)
	}
	r.Type, r.URL = obj.Type, obj.URL
	return nil
}

// shorthands are the npm "host:owner/repo" repository forms.
var shorthands = map[string]string{
	"github:":    "github.com",
	"gitlab:":    "gitlab.com",
	"bitbucket:": "bitbucket.org",
}

// WebURL returns the repository as a browsable https URL, or "" when unset
// or unparseable. git+https://host/x.git, git@host:x.git and
// ssh://git@host/x.git all become https://host/x.
func (r Repository) WebURL() string {
	raw := strings.TrimSpace(r.URL)
	if raw == "" {
		return ""
	}
	for prefix, host := range shorthands {
		if rest, ok := strings.CutPrefix(raw, prefix); ok {
			raw = "https://" + host + "/" + rest
			break
		}
	}
	u, err := giturls.Parse(strings.TrimPrefix(raw, "git+"))
	if err != nil || u.Hostname() == "" {
		return ""
	}
	path := strings.TrimSuffix(strings.Trim(u.Path, "/"), ".git")
	if path == "" {
		return ""
	}
	return "https://" + u.Hostname() + "/" + path
}

// Monorepo is the subset of lerna.json the release tool needs.
type Monorepo struct {
	// Lerna is the tool version the repo expects to be installed.
	Lerna   string `json:"lerna"`
	Version string `json:"version"`
}

// LoadProject reads a package.json.
func LoadProject(path string) (*Project, error) {
	var p Project
	if err := load(path, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadMonorepo reads a lerna.json.
func LoadMonorepo(path string) (*Monorepo, error) {
	var m Monorepo
	if err := load(path, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func load(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return nil
}
