package matrix

import (
	"github.com/arewm/pipegraph/pkg/models"
)

// Detection is the per-task outcome of matrix detection.
type Detection struct {
	IsMatrix      bool
	InstanceCount int
}

// Policy maps a pipeline run's task-run records to a per-task Detection.
// Records without a resolvable task name are never counted.
type Policy interface {
	Detect(records []models.TaskRunRecord) map[string]Detection
}

// CountPolicy flags a task as matrix purely when more than one run
// instance exists for it.
type CountPolicy struct{}

func (CountPolicy) Detect(records []models.TaskRunRecord) map[string]Detection {
	detections := make(map[string]Detection)

	for _, counted := range countByTask(records) {
		detections[counted.name] = Detection{
			IsMatrix:      counted.count > 1,
			InstanceCount: counted.count,
		}
	}

	return detections
}

// AnnotationHeuristicPolicy additionally flags single-instance tasks whose
// record annotations match the matrix-parameter naming pattern. This covers
// engines that produce exactly one instance for a logically matrix-shaped
// task.
type AnnotationHeuristicPolicy struct {
	Classifier *Classifier
}

// NewAnnotationHeuristicPolicy builds the heuristic policy with the given
// classifier, defaulting when nil.
func NewAnnotationHeuristicPolicy(classifier *Classifier) AnnotationHeuristicPolicy {
	if classifier == nil {
		classifier = DefaultClassifier()
	}

	return AnnotationHeuristicPolicy{Classifier: classifier}
}

func (p AnnotationHeuristicPolicy) Detect(records []models.TaskRunRecord) map[string]Detection {
	classifier := p.Classifier
	if classifier == nil {
		classifier = DefaultClassifier()
	}

	detections := make(map[string]Detection)

	for _, counted := range countByTask(records) {
		isMatrix := counted.count > 1
		if !isMatrix {
			isMatrix = hasMatrixAnnotation(classifier, counted.records)
		}

		detections[counted.name] = Detection{
			IsMatrix:      isMatrix,
			InstanceCount: counted.count,
		}
	}

	return detections
}

func hasMatrixAnnotation(classifier *Classifier, records []models.TaskRunRecord) bool {
	for _, record := range records {
		for key := range record.Annotations {
			if classifier.Classify(key).Kind != NotMatrix {
				return true
			}
		}
	}

	return false
}

type taskRecords struct {
	name    string
	count   int
	records []models.TaskRunRecord
}

// countByTask groups records by logical task name in first-seen order,
// dropping records with no resolvable name.
func countByTask(records []models.TaskRunRecord) []taskRecords {
	index := make(map[string]int)
	grouped := make([]taskRecords, 0, len(records))

	for _, record := range records {
		if record.TaskName == "" {
			continue
		}

		i, seen := index[record.TaskName]
		if !seen {
			i = len(grouped)
			index[record.TaskName] = i
			grouped = append(grouped, taskRecords{name: record.TaskName})
		}

		grouped[i].count++
		grouped[i].records = append(grouped[i].records, record)
	}

	return grouped
}
