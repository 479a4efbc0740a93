package graph

import (
	"fmt"
	"log/slog"

	"github.com/arewm/pipegraph/pkg/models"
)

// Builder computes render-ready node models from task-with-status lists.
type Builder struct {
	logger *slog.Logger
}

// NewBuilder creates a graph builder. A nil logger selects the process
// default.
func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}

	return &Builder{logger: logger}
}

// Build computes the node model from the expanded task lists of one
// pipeline run. Inputs are treated as immutable snapshots; every call
// produces a fresh model.
func (b *Builder) Build(tasks, finallyTasks []models.TaskWithStatus, run *models.PipelineRun) *Model {
	model := &Model{
		Nodes:        b.buildNodes(tasks, run),
		FinallyNodes: b.buildFinallyNodes(finallyTasks, run),
	}

	return model
}

func (b *Builder) buildNodes(tasks []models.TaskWithStatus, run *models.PipelineRun) []Node {
	byOriginal := expansionIndex(tasks)

	nodes := make([]Node, 0, len(tasks))
	adj := &adjacency{
		deps:       make(map[string][]string, len(tasks)),
		byOriginal: byOriginal,
	}

	for _, task := range tasks {
		node := b.newNode(task, run)
		node.RunAfterTasks = expandDependencies(rawDependencies(task), byOriginal)
		adj.deps[node.ID] = node.RunAfterTasks
		nodes = append(nodes, node)
	}

	for i := range nodes {
		pruned := adj.pruneTransitive(nodes[i].ID)
		nodes[i].RunAfterTasks = b.dropDangling(nodes[i].ID, pruned, adj)
		adj.deps[nodes[i].ID] = nodes[i].RunAfterTasks
	}

	assignLevels(nodes)
	alignWidths(nodes)

	return nodes
}

// buildFinallyNodes models cleanup-phase tasks: no dependency edges, one
// shared column.
func (b *Builder) buildFinallyNodes(tasks []models.TaskWithStatus, run *models.PipelineRun) []Node {
	if len(tasks) == 0 {
		return nil
	}

	nodes := make([]Node, 0, len(tasks))
	for _, task := range tasks {
		node := b.newNode(task, run)
		node.RunAfterTasks = []string{}
		nodes = append(nodes, node)
	}

	alignWidths(nodes)

	return nodes
}

func (b *Builder) newNode(task models.TaskWithStatus, run *models.PipelineRun) Node {
	data := NodeData{
		Status: models.RunStatusIdle,
		Task:   task,
	}

	if run != nil {
		data.Namespace = run.Namespace
	}

	if task.Status != nil {
		data.Status = task.Status.Reason
		data.TestFailCount = task.Status.TestFailCount
		data.TestWarnCount = task.Status.TestWarnCount
		data.ScanResults = task.Status.ScanResults
		data.Steps = task.Status.Steps
		data.TaskRun = task.Status.TaskRun
	}

	if len(task.When) > 0 {
		if data.Status == models.RunStatusSkipped {
			data.WhenStatus = WhenStatusUnmet
		} else {
			data.WhenStatus = WhenStatusMet
		}
	}

	label := task.Name
	if task.IsMatrix {
		label = fmt.Sprintf("%s (%s)", task.OriginalName, task.MatrixDisplayName)
	}

	return Node{
		ID:     task.Name,
		Label:  label,
		Height: nodeHeight,
		Width:  estimateWidth(label, data),
		Data:   data,
	}
}

// dropDangling removes dependency ids that correspond to no node, a
// defensive cleanup against inconsistent run data.
func (b *Builder) dropDangling(id string, deps []string, adj *adjacency) []string {
	kept := make([]string, 0, len(deps))

	for _, dep := range deps {
		if _, exists := adj.deps[dep]; exists {
			kept = append(kept, dep)

			continue
		}

		b.logger.Warn("dropping dangling dependency reference", "node", id, "dependency", dep)
	}

	return kept
}

// expansionIndex maps pre-expansion original task names to the expanded
// instance ids they became.
func expansionIndex(tasks []models.TaskWithStatus) map[string][]string {
	byOriginal := make(map[string][]string)

	for _, task := range tasks {
		if task.IsMatrix && task.OriginalName != "" {
			byOriginal[task.OriginalName] = append(byOriginal[task.OriginalName], task.Name)
		}
	}

	return byOriginal
}
