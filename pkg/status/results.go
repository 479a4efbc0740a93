package status

import (
	"encoding/json"
	"log/slog"

	"github.com/arewm/pipegraph/pkg/models"
)

// Result names the execution engine uses for structured task outputs.
const (
	TestOutputResultName = "TEST_OUTPUT"
	ScanOutputResultName = "SCAN_OUTPUT"
	// ClairScanResultName is the legacy name some scan tasks still emit.
	ClairScanResultName = "CLAIR_SCAN_RESULT"
)

// testOutput is the JSON payload of a test-output result. Counts arrive as
// JSON numbers but are coerced defensively.
type testOutput struct {
	Result   string      `json:"result"`
	Failures json.Number `json:"failures"`
	Warnings json.Number `json:"warnings"`
}

// parseTestOutput extracts test failure/warning counts from a result
// payload. Malformed JSON is logged and skipped; the merge continues
// without the derived counts.
func parseTestOutput(logger *slog.Logger, taskRunName, payload string) (failures, warnings int, ok bool) {
	var out testOutput
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		logger.Warn("ignoring malformed test output result", "taskrun", taskRunName, "error", err)

		return 0, 0, false
	}

	return coerceCount(out.Failures), coerceCount(out.Warnings), true
}

// parseScanResults extracts the vulnerability severity breakdown from a
// CVE-scan result payload. Malformed JSON is logged and skipped.
func parseScanResults(logger *slog.Logger, taskRunName, payload string) *models.ScanResults {
	var scan models.ScanResults
	if err := json.Unmarshal([]byte(payload), &scan); err != nil {
		logger.Warn("ignoring malformed scan result", "taskrun", taskRunName, "error", err)

		return nil
	}

	return &scan
}

func coerceCount(n json.Number) int {
	if i, err := n.Int64(); err == nil {
		return int(i)
	}

	if f, err := n.Float64(); err == nil {
		return int(f)
	}

	return 0
}
