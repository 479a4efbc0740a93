package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arewm/pipegraph/pkg/graph"
	"github.com/arewm/pipegraph/pkg/matrix"
	"github.com/arewm/pipegraph/pkg/models"
	"github.com/arewm/pipegraph/pkg/otelhelper"
	"github.com/arewm/pipegraph/pkg/store"
	"github.com/arewm/pipegraph/pkg/tasklist"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

// detectionCacheSize bounds the per-revision matrix detection cache.
const detectionCacheSize = 512

// GraphCache caches computed graph models keyed by run revision.
type GraphCache interface {
	Model(ctx context.Context, namespace, name, revision string) (*graph.Model, error)
	SaveModel(ctx context.Context, namespace, name, revision string, model *graph.Model) error
	Invalidate(ctx context.Context, namespace, name string) error
}

// Graph builds render-ready graph models from pipeline run snapshots.
type Graph struct {
	store        store.Store
	cache        GraphCache
	tracer       trace.Tracer
	logger       *slog.Logger
	validator    *validator.Validate
	detector     *matrix.CachingDetector
	graphBuilder *graph.Builder
}

// NewGraph creates the graph service. The cache and tracer are
// optional; nil disables model caching and tracing respectively.
func NewGraph(logger *slog.Logger, s store.Store, cache GraphCache, tracer trace.Tracer) (*Graph, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer("pipegraph")
	}

	detector, err := matrix.NewCachingDetector(matrix.NewAnnotationHeuristicPolicy(nil), detectionCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create matrix detector: %w", err)
	}

	return &Graph{
		store:        s,
		cache:        cache,
		tracer:       tracer,
		logger:       logger.With("module", "graph_service"),
		validator:    validator.New(),
		detector:     detector,
		graphBuilder: graph.NewBuilder(logger),
	}, nil
}

// keyedPolicy routes detection through the shared caching detector
// under a fixed cache key.
type keyedPolicy struct {
	detector *matrix.CachingDetector
	key      string
}

func (p keyedPolicy) Detect(records []models.TaskRunRecord) map[string]matrix.Detection {
	return p.detector.Detect(p.key, records)
}

// BuildGraphRequest carries a pipeline run payload for a direct,
// storage-free graph build.
type BuildGraphRequest struct {
	PipelineRun *models.PipelineRun `validate:"required"`
	TaskRuns    []models.TaskRun
	// PipelineSpec overrides the spec recorded on the run status.
	// Required when the run has not reported a resolved spec yet.
	PipelineSpec *models.PipelineSpec
}

// BuildGraph computes a graph model directly from the request payload.
func (g *Graph) BuildGraph(ctx context.Context, req BuildGraphRequest) (*graph.Model, error) {
	if err := g.validator.Struct(req); err != nil {
		return nil, NewValidationError("BuildGraph", "INVALID_REQUEST", err.Error(), ErrPipelineRunNil)
	}

	ctx, span := otelhelper.StartSpan(ctx, g.tracer, "graph.build",
		attribute.String(otelhelper.NamespaceKey, req.PipelineRun.Namespace),
		attribute.String(otelhelper.PipelineRunKey, req.PipelineRun.Name),
		attribute.Int(otelhelper.TaskRunCountKey, len(req.TaskRuns)),
	)
	defer span.End()

	model := g.build(ctx, req.PipelineRun, req.TaskRuns, req.PipelineSpec, "")
	span.SetAttributes(attribute.Int(otelhelper.NodeCountKey, len(model.Nodes)))

	return model, nil
}

// GraphForRun computes the graph model for a stored pipeline run
// snapshot, consulting the model cache when one is configured.
func (g *Graph) GraphForRun(ctx context.Context, namespace, name string) (*graph.Model, error) {
	if err := validateRunRef(namespace, name); err != nil {
		return nil, err
	}

	ctx, span := otelhelper.StartSpan(ctx, g.tracer, "graph.build_for_run",
		attribute.String(otelhelper.NamespaceKey, namespace),
		attribute.String(otelhelper.PipelineRunKey, name),
	)
	defer span.End()

	snapshot, err := g.store.Snapshot(ctx, namespace, name)
	if err != nil {
		if !store.IsSnapshotNotFound(err) {
			otelhelper.SetError(span, err)
		}

		return nil, err
	}

	span.SetAttributes(attribute.String(otelhelper.RevisionKey, snapshot.Revision))

	if g.cache != nil {
		cached, err := g.cache.Model(ctx, namespace, name, snapshot.Revision)
		if err != nil {
			g.logger.WarnContext(ctx, "Graph cache read failed", "error", err)
		} else if cached != nil {
			span.SetAttributes(attribute.Bool(otelhelper.CacheHitKey, true))

			return cached, nil
		}
	}

	span.SetAttributes(attribute.Bool(otelhelper.CacheHitKey, false))

	model := g.build(ctx, snapshot.PipelineRun, snapshot.TaskRuns, nil, snapshot.Revision)

	if g.cache != nil {
		err := g.cache.SaveModel(ctx, namespace, name, snapshot.Revision, model)
		if err != nil {
			g.logger.WarnContext(ctx, "Graph cache write failed", "error", err)
		}
	}

	span.SetAttributes(attribute.Int(otelhelper.NodeCountKey, len(model.Nodes)))

	return model, nil
}

func (g *Graph) build(
	ctx context.Context,
	run *models.PipelineRun,
	taskRuns []models.TaskRun,
	spec *models.PipelineSpec,
	revision string,
) *graph.Model {
	if spec == nil && run.Status != nil {
		spec = run.Status.PipelineSpec
	}

	builder := g.listBuilder(run, revision)
	records := tasklist.Normalize(taskRuns, run)

	tasks := builder.AppendStatus(spec, run, records, false)
	finally := builder.AppendStatus(spec, run, records, true)

	return g.graphBuilder.Build(tasks, finally, run)
}

// listBuilder returns a task list builder whose matrix detection is
// cached per run revision. Revisionless builds get a fresh key so they
// never see stale detections.
func (g *Graph) listBuilder(run *models.PipelineRun, revision string) *tasklist.Builder {
	key := ""
	if revision != "" {
		key = fmt.Sprintf("%s/%s@%s", run.Namespace, run.Name, revision)
	}

	return tasklist.NewBuilder(g.logger, keyedPolicy{detector: g.detector, key: key})
}

func validateRunRef(namespace, name string) error {
	if namespace == "" {
		return ErrNamespaceRequired
	}

	if name == "" {
		return ErrRunNameRequired
	}

	return nil
}

// HealthCheck checks the health of the snapshot store.
func (g *Graph) HealthCheck(ctx context.Context) (string, bool) {
	if g.store == nil {
		return "Snapshot store not initialized", false
	}

	err := g.store.HealthCheck(ctx)
	if err != nil {
		return "Snapshot store is unhealthy: " + err.Error(), false
	}

	return "Snapshot store is healthy", true
}
