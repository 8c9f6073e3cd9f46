/*
PURPOSE:
  Writes the release plan as a JSON document so CI jobs can pick up the new
  version, branch and tag without parsing console output.

ARCHITECTURE INTEGRATION:
  - Called by: internal/release after the default workflow succeeds.

ERROR HANDLING:
  - Returns wrapped errors for create/encode failures.
*/

package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/daryltucker/monorepo-release/internal/model"
)

// WriteSummary writes p to path as indented JSON, creating parent dirs.
func WriteSummary(path string, p model.Plan) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create summary directory %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create summary file %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("failed to write summary %s: %w", path, err)
	}
	return nil
}
