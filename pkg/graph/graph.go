// Package graph computes the render-ready node model of a pipeline run:
// dependency resolution across expanded matrix instances, transitive-edge
// pruning, hierarchical level assignment and node sizing.
package graph

import (
	"github.com/arewm/pipegraph/pkg/models"
)

// WhenStatus reports whether a guarded task's conditions were met.
const (
	WhenStatusMet   = "True"
	WhenStatusUnmet = "False"
)

// NodeData is the status payload a rendered node carries.
type NodeData struct {
	Status        models.RunStatus      `json:"status"`
	TestFailCount int                   `json:"testFailCount,omitempty"`
	TestWarnCount int                   `json:"testWarnCount,omitempty"`
	ScanResults   *models.ScanResults   `json:"scanResults,omitempty"`
	WhenStatus    string                `json:"whenStatus,omitempty"`
	Task          models.TaskWithStatus `json:"task"`
	Steps         []models.StepStatus   `json:"steps,omitempty"`
	TaskRun       *models.TaskRunRecord `json:"taskRun,omitempty"`
	Namespace     string                `json:"namespace,omitempty"`
}

// Node is one render-ready graph node. Edges are derived by the rendering
// layer from RunAfterTasks.
type Node struct {
	ID            string   `json:"id"`
	Label         string   `json:"label"`
	RunAfterTasks []string `json:"runAfterTasks"`
	Level         int      `json:"level"`
	Width         int      `json:"width"`
	Height        int      `json:"height"`
	Data          NodeData `json:"data"`
}

// Model is the computed node model for one pipeline run.
type Model struct {
	Nodes []Node `json:"nodes"`
	// FinallyNodes are cleanup-phase nodes; they carry no dependency
	// edges and are grouped under one container by the renderer.
	FinallyNodes []Node `json:"finallyNodes,omitempty"`
}

// Node sizing constants, tuned for the renderer's default typography.
const (
	nodeHeight   = 32
	charWidth    = 7
	labelPadding = 32
	badgeWidth   = 28
	minimumWidth = 120
)

// estimateWidth sizes a node from its label length and badge count.
func estimateWidth(label string, data NodeData) int {
	badges := 0
	if data.TestFailCount > 0 || data.TestWarnCount > 0 {
		badges++
	}

	if data.ScanResults != nil {
		badges++
	}

	width := len(label)*charWidth + labelPadding + badges*badgeWidth
	if width < minimumWidth {
		width = minimumWidth
	}

	return width
}
