/*
PURPOSE:
  Defines the data carried through a release run.
  Everything here is derived from git/lerna output and the manifests on
  each run; nothing is persisted except the optional JSON summary.

ARCHITECTURE INTEGRATION:
  - Used by: internal/release, internal/output
  - Shared across boundaries.

ERROR HANDLING:
  - None (pure data structs).

RELATED FILES:
  - internal/output/json.go
*/

package model

import (
	"time"
)

// Increment names a semantic version component.
type Increment string

const (
	Major Increment = "major"
	Minor Increment = "minor"
	Patch Increment = "patch"
)

// Plan is the outcome of the default release workflow.
type Plan struct {
	Current    string    `json:"current"`
	Increment  Increment `json:"increment"`
	Target     string    `json:"target"`
	Branch     string    `json:"branch"`
	Tag        string    `json:"tag"`
	Base       string    `json:"base"`
	Remote     string    `json:"remote"`
	Pushed     bool      `json:"pushed"`
	CompareURL string    `json:"compare_url,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Versions are the tool versions reported during pre-flight.
type Versions struct {
	Node  string `json:"node"`
	NPM   string `json:"npm"`
	Lerna string `json:"lerna"`
}
