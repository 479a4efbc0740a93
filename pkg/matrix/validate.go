package matrix

import (
	"fmt"

	"github.com/arewm/pipegraph/pkg/models"
)

// ValidationResult reports parameter consistency across a matrix task's
// run instances.
type ValidationResult struct {
	IsValid bool
	Errors  []string
}

// ValidateInstances checks that every run instance of a matrixed task
// carries a value for every declared matrix parameter. The main build path
// never calls this; expansion proceeds best-effort per instance regardless.
func ValidateInstances(task models.PipelineTask, records []models.TaskRunRecord) ValidationResult {
	result := ValidationResult{IsValid: true}

	if !task.IsMatrixed() {
		return result
	}

	for _, record := range records {
		for _, declared := range task.Matrix.Params {
			if _, ok := record.Param(declared.Name); !ok {
				result.IsValid = false
				result.Errors = append(result.Errors, fmt.Sprintf(
					"record %q is missing declared matrix parameter %q", record.Name, declared.Name))
			}
		}
	}

	return result
}
