package matrix

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/arewm/pipegraph/pkg/models"
	"github.com/google/uuid"
)

// DefaultCacheSize bounds the detection cache; oldest entries are evicted
// once exceeded.
const DefaultCacheSize = 100

// CachingDetector memoizes a detection policy's results by caller-supplied
// key. Detection over large record sets is cheap but runs on every view
// recomputation, so callers key the cache by run identity.
type CachingDetector struct {
	policy Policy
	cache  *lru.Cache[string, map[string]Detection]
}

// NewCachingDetector wraps the policy with a bounded cache.
func NewCachingDetector(policy Policy, size int) (*CachingDetector, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}

	cache, err := lru.New[string, map[string]Detection](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create detection cache: %w", err)
	}

	return &CachingDetector{policy: policy, cache: cache}, nil
}

// Detect returns the memoized detection for key, computing and storing it
// on a miss. An empty key gets an auto-generated one, which stores the
// result but can never be a hit.
func (d *CachingDetector) Detect(key string, records []models.TaskRunRecord) map[string]Detection {
	if key == "" {
		key = uuid.NewString()
	}

	if cached, ok := d.cache.Get(key); ok {
		return cached
	}

	detections := d.policy.Detect(records)
	d.cache.Add(key, detections)

	return detections
}

// Clear drops every cached entry.
func (d *CachingDetector) Clear() {
	d.cache.Purge()
}

// Len reports the number of cached entries.
func (d *CachingDetector) Len() int {
	return d.cache.Len()
}
