package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/arewm/pipegraph/pkg/eventbus"
	"github.com/arewm/pipegraph/pkg/events"
	"github.com/arewm/pipegraph/pkg/services"
	"github.com/arewm/pipegraph/pkg/store"
	"github.com/arewm/pipegraph/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func setupRefresher(t *testing.T) (*services.Graph, eventbus.EventBus, context.Context) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	service := newTestService(t, nil)

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	bus := eventbus.NewWatermillEventBus(pubSub, pubSub)

	refresher := services.NewRefresher(nil, service)
	require.NoError(t, refresher.Register(bus))
	require.NoError(t, bus.Subscribe(ctx))

	return service, bus, ctx
}

func waitForSnapshot(ctx context.Context, service *services.Graph, revision string) (*store.Snapshot, bool) {
	for {
		snapshot, err := service.Snapshot(ctx, "default", "run-1")
		if err == nil && snapshot.Revision == revision {
			return snapshot, true
		}

		select {
		case <-ctx.Done():
			return nil, false
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestRefresher_PipelineRunUpdated(t *testing.T) {
	service, bus, ctx := setupRefresher(t)
	snapshot := chainSnapshot("run-1", "1")

	event := events.PipelineRunUpdated{
		BaseEvent:   events.NewBaseEvent(events.PipelineRunUpdatedEvent, "default", "run-1"),
		PipelineRun: snapshot.PipelineRun,
		TaskRuns:    snapshot.TaskRuns,
		Revision:    "1",
	}
	require.NoError(t, bus.Publish(ctx, "default/run-1", event))

	stored, ok := waitForSnapshot(ctx, service, "1")
	require.True(t, ok, "snapshot was not stored")
	assert.Len(t, stored.TaskRuns, 3)
}

func TestRefresher_TaskRunUpdated(t *testing.T) {
	service, bus, ctx := setupRefresher(t)

	require.NoError(t, service.SaveSnapshot(ctx, chainSnapshot("run-1", "1")))

	failed := testutil.CreateTaskRun("run-1-build", "build",
		testutil.WithCondition(metav1.ConditionFalse, "Failed"))

	event := events.TaskRunUpdated{
		BaseEvent: events.NewBaseEvent(events.TaskRunUpdatedEvent, "default", "run-1"),
		TaskRun:   failed,
		Revision:  "2",
	}
	require.NoError(t, bus.Publish(ctx, "default/run-1", event))

	stored, ok := waitForSnapshot(ctx, service, "2")
	require.True(t, ok, "snapshot was not refreshed")
	require.Len(t, stored.TaskRuns, 3)

	for _, taskRun := range stored.TaskRuns {
		if taskRun.Name == "run-1-build" {
			condition := taskRun.Status.SucceededCondition()
			require.NotNil(t, condition)
			assert.Equal(t, metav1.ConditionFalse, condition.Status)
		}
	}
}

func TestRefresher_PipelineRunDeleted(t *testing.T) {
	service, bus, ctx := setupRefresher(t)

	require.NoError(t, service.SaveSnapshot(ctx, chainSnapshot("run-1", "1")))

	event := events.PipelineRunDeleted{
		BaseEvent: events.NewBaseEvent(events.PipelineRunDeletedEvent, "default", "run-1"),
	}
	require.NoError(t, bus.Publish(ctx, "default/run-1", event))

	deadline := time.After(3 * time.Second)

	for {
		_, err := service.Snapshot(ctx, "default", "run-1")
		if store.IsSnapshotNotFound(err) {
			return
		}

		select {
		case <-deadline:
			t.Fatal("snapshot was not deleted")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
