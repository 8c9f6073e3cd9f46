/*
PURPOSE:
  Computes the next release version of the monorepo.

REQUIREMENTS:
  User-specified:
  - Increment is one of major, minor, patch (default patch).
  - The result must be a valid version and never 0.0.0.

  Implementation-discovered:
  - lerna.json may record a prerelease; the requested component of a
    prerelease is promoted rather than bumped, as npm does.
  - A leading "v" is tolerated on input; output never carries one.

ARCHITECTURE INTEGRATION:
  - Used by: internal/release, internal/config (increment validation)
  - Dependencies: github.com/Masterminds/semver/v3

USAGE:
  next, err := version.Next("1.2.3", model.Patch) // "1.2.4"
*/

package version

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/daryltucker/monorepo-release/internal/model"
)

// Zero is the version lerna reports when nothing has been released.
const Zero = "0.0.0"

var (
	ErrInvalidVersion   = errors.New("invalid version")
	ErrInvalidIncrement = errors.New("invalid increment")
	ErrZeroVersion      = errors.New("zero version")
)

// ParseIncrement maps a flag value onto an Increment.
func ParseIncrement(s string) (model.Increment, error) {
	switch inc := model.Increment(strings.ToLower(strings.TrimSpace(s))); inc {
	case model.Major, model.Minor, model.Patch:
		return inc, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidIncrement, s)
}

// Valid reports whether v is a full MAJOR.MINOR.PATCH version, with or
// without a leading "v".
func Valid(v string) bool {
	_, err := parse(v)
	return err == nil
}

// Next applies inc to current. A prerelease of the requested component is
// promoted rather than bumped, so 2.0.0-rc.1 with major gives 2.0.0.
func Next(current string, inc model.Increment) (string, error) {
	cur, err := parse(current)
	if err != nil {
		return "", err
	}
	major, minor, patch := cur.Major(), cur.Minor(), cur.Patch()
	pre := cur.Prerelease() != ""

	switch inc {
	case model.Major:
		if !pre || minor != 0 || patch != 0 {
			major++
		}
		minor, patch = 0, 0
	case model.Minor:
		if !pre || patch != 0 {
			minor++
		}
		patch = 0
	case model.Patch:
		if !pre {
			patch++
		}
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidIncrement, inc)
	}

	next := semver.New(major, minor, patch, "", "")
	if next.String() == Zero {
		return "", ErrZeroVersion
	}
	if !next.GreaterThan(cur) {
		return "", fmt.Errorf("%w: %s does not follow %s", ErrInvalidVersion, next, current)
	}
	return next.String(), nil
}

// parse accepts strict MAJOR.MINOR.PATCH only; "1.2" and "v1" shorthands
// are rejected.
func parse(v string) (*semver.Version, error) {
	sv, err := semver.StrictNewVersion(strings.TrimPrefix(strings.TrimSpace(v), "v"))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidVersion, v, err)
	}
	return sv, nil
}
