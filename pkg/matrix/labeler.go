package matrix

import (
	"fmt"
	"strings"

	"github.com/arewm/pipegraph/pkg/models"
	"github.com/arewm/pipegraph/pkg/sanitize"
)

// maxFallbackComponents caps the positional combination fallback; joined
// labels with this many components or more are unreadable.
const maxFallbackComponents = 4

// InstanceLabel derives the human-readable label for one run instance of a
// task. Priority: engine-supplied child-reference display name, then the
// instance's resolved matrix parameter values, then a 1-based positional
// fallback. Always returns a non-empty string.
func InstanceLabel(task models.PipelineTask, record models.TaskRunRecord, run *models.PipelineRun, position int) string {
	if ref := run.ChildReferenceFor(record.Name); ref != nil && ref.DisplayName != "" {
		if label := sanitize.DisplayName(ref.DisplayName); label != "" {
			return label
		}
	}

	if task.IsMatrixed() {
		if label := matrixParamLabel(task, record, position); label != "" {
			return label
		}
	}

	return fmt.Sprintf("Instance %d", position+1)
}

// matrixParamLabel resolves the instance's actual matrix parameter values.
// The declared value lists hold every possible value; the record's own
// parameter list holds the values this instance actually ran with.
func matrixParamLabel(task models.PipelineTask, record models.TaskRunRecord, position int) string {
	declared := task.Matrix.Params

	if len(declared) == 1 {
		return sanitize.DisplayName(singleParamValue(declared[0], record, position))
	}

	values := make([]string, 0, len(declared))

	for _, param := range declared {
		live, ok := record.Param(param.Name)
		if !ok || live.StringVal == "" {
			values = nil

			break
		}

		values = append(values, live.StringVal)
	}

	if values == nil {
		values = positionalCombination(declared, position)
		if len(values) >= maxFallbackComponents {
			return ""
		}
	}

	if len(values) == 0 {
		return ""
	}

	return sanitize.DisplayName(strings.Join(values, ", "))
}

func singleParamValue(param models.MatrixParam, record models.TaskRunRecord, position int) string {
	if live, ok := record.Param(param.Name); ok && live.StringVal != "" {
		return live.StringVal
	}

	if position >= 0 && position < len(param.Values) {
		return param.Values[position]
	}

	return ""
}

// positionalCombination recovers the position-th parameter combination by
// mixed-radix decomposition over the declared value-list lengths. The first
// declared parameter varies fastest.
func positionalCombination(declared []models.MatrixParam, position int) []string {
	values := make([]string, 0, len(declared))
	remainder := position

	for _, param := range declared {
		if len(param.Values) == 0 {
			return nil
		}

		values = append(values, param.Values[remainder%len(param.Values)])
		remainder /= len(param.Values)
	}

	return values
}
