package matrix

import (
	"fmt"
	"testing"

	"github.com/arewm/pipegraph/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingPolicy records how many times Detect ran.
type countingPolicy struct {
	calls int
}

func (p *countingPolicy) Detect(records []models.TaskRunRecord) map[string]Detection {
	p.calls++

	return CountPolicy{}.Detect(records)
}

func TestCachingDetector_MemoizesByKey(t *testing.T) {
	policy := &countingPolicy{}
	detector, err := NewCachingDetector(policy, 10)
	require.NoError(t, err)

	records := []models.TaskRunRecord{record("b-1", "build", nil), record("b-2", "build", nil)}

	first := detector.Detect("run-a", records)
	second := detector.Detect("run-a", records)

	assert.Equal(t, 1, policy.calls)
	assert.Equal(t, first, second)
}

func TestCachingDetector_AutoGeneratedKeyNeverHits(t *testing.T) {
	policy := &countingPolicy{}
	detector, err := NewCachingDetector(policy, 10)
	require.NoError(t, err)

	detector.Detect("", nil)
	detector.Detect("", nil)

	assert.Equal(t, 2, policy.calls)
}

func TestCachingDetector_BoundedEviction(t *testing.T) {
	detector, err := NewCachingDetector(CountPolicy{}, 5)
	require.NoError(t, err)

	for i := range 20 {
		detector.Detect(fmt.Sprintf("key-%d", i), nil)
	}

	assert.Equal(t, 5, detector.Len())
}

func TestCachingDetector_Clear(t *testing.T) {
	detector, err := NewCachingDetector(CountPolicy{}, 5)
	require.NoError(t, err)

	detector.Detect("run-a", nil)
	detector.Clear()

	assert.Equal(t, 0, detector.Len())
}
