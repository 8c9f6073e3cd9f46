/*
PURPOSE:
  Defines the configuration structure and loading logic for the release and
  merge tools.

REQUIREMENTS:
  User-specified:
  - Defaults: branch master, remote origin, increment patch.
  - Manifests default to package.json and lerna.json in the repo root.

  Implementation-discovered:
  - Needs to support YAML parsing.
  - Environment overrides (RELEASE_*) sit between the file and CLI flags.

ARCHITECTURE INTEGRATION:
  - Used by: internal/cli, internal/release, internal/merge
  - Dependencies: gopkg.in/yaml.v3

ERROR HANDLING:
  - Returns explicit error if config file is invalid.
  - Missing default files are not an error; defaults apply.

USAGE:
  cfg, err := config.Load("", repoRoot)

SELF-HEALING INSTRUCTIONS:
  - If new fields are needed, add to Config struct and update DefaultConfig().

RELATED FILES:
  - internal/cli/root.go
*/

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/daryltucker/monorepo-release/internal/version"
)

// Config represents the full configuration for a release/merge run.
type Config struct {
	RootDir          string `yaml:"root_dir"`
	PrimaryBranch    string `yaml:"primary_branch"`
	Remote           string `yaml:"remote"`
	Increment        string `yaml:"increment"`
	ProjectManifest  string `yaml:"project_manifest"`
	MonorepoManifest string `yaml:"monorepo_manifest"`
	// ToolsDir is prepended to PATH. Empty means resolve via npm.
	ToolsDir            string `yaml:"tools_dir"`
	TokenEnv            string `yaml:"token_env"`
	ReleaseBranchPrefix string `yaml:"release_branch_prefix"`
	TagPrefix           string `yaml:"tag_prefix"`
	SummaryFile         string `yaml:"summary_file"`
}

// DefaultFiles are searched in order when no explicit path is given.
var DefaultFiles = []string{"release.yaml", "release.yml", ".release.yaml"}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		RootDir:             ".",
		PrimaryBranch:       "master",
		Remote:              "origin",
		Increment:           "patch",
		ProjectManifest:     "package.json",
		MonorepoManifest:    "lerna.json",
		TokenEnv:            "NPM_TOKEN",
		ReleaseBranchPrefix: "release/v",
		TagPrefix:           "v",
	}
}

// Load reads configuration from a file and applies environment overrides.
// An explicit path must exist. Otherwise the first of DefaultFiles found in
// dir (the working directory when dir is empty) is used, and defaults apply
// when there is none.
func Load(path, dir string) (*Config, error) {
	cfg := DefaultConfig()

	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
	} else {
		for _, name := range DefaultFiles {
			candidate := filepath.Join(dir, name)
			data, err = os.ReadFile(candidate)
			if err == nil {
				path = candidate
				break
			}
		}
	}

	if path != "" {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv(os.Getenv)
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv("RELEASE_BRANCH")); v != "" {
		c.PrimaryBranch = v
	}
	if v := strings.TrimSpace(getenv("RELEASE_REMOTE")); v != "" {
		c.Remote = v
	}
	if v := strings.TrimSpace(getenv("RELEASE_INCREMENT")); v != "" {
		c.Increment = v
	}
}

// Validate checks the fields the release procedure relies on.
func (c *Config) Validate() error {
	err := c.ValidateGit()
	if _, incErr := version.ParseIncrement(c.Increment); incErr != nil {
		err = errors.Join(err, incErr)
	}
	return err
}

// ValidateGit checks only the branch and remote, which is all merge needs.
func (c *Config) ValidateGit() error {
	var errs []error
	if strings.TrimSpace(c.PrimaryBranch) == "" {
		errs = append(errs, errors.New("primary_branch must not be empty"))
	}
	if strings.TrimSpace(c.Remote) == "" {
		errs = append(errs, errors.New("remote must not be empty"))
	}
	return errors.Join(errs...)
}

// Path resolves a manifest or output path against RootDir.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.RootDir, p)
}
