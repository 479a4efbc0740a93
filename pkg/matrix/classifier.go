// Package matrix detects matrix-shaped tasks among task-run records and
// derives human-readable labels for their expanded instances.
package matrix

import (
	"regexp"
	"strings"
)

// ClassificationKind tags the outcome of classifying one annotation key.
type ClassificationKind int

const (
	// NotMatrix means the key does not look like a matrix parameter.
	NotMatrix ClassificationKind = iota
	// LikelyMatrix means the key matches the matrix-parameter naming
	// pattern but is not in the known-parameter table.
	LikelyMatrix
	// Known means the key is a well-known matrix parameter.
	Known
)

// Classification is the tagged result of classifying an annotation key.
// Name and Transform are only set for Known results.
type Classification struct {
	Kind      ClassificationKind
	Name      string
	Transform func(string) string
}

// Classifier decides whether an annotation key names a matrix parameter,
// from a table of known parameter names plus a fallback pattern predicate.
type Classifier struct {
	known    map[string]func(string) string
	fallback func(key string) bool
}

var (
	upperSnakeCase = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

	// Keywords that mark a key as likely matrix-shaped even when it is
	// not in the known table.
	matrixKeywords = []string{"VERSION", "PLATFORM", "SCAN", "MATRIX", "TYPE"}
)

func identity(v string) string { return v }

// NewClassifier builds a classifier from a known-parameter table and a
// fallback predicate. Nil arguments select the defaults.
func NewClassifier(known map[string]func(string) string, fallback func(string) bool) *Classifier {
	if known == nil {
		known = map[string]func(string) string{
			"PLATFORM":        identity,
			"TARGET_PLATFORM": identity,
			"SCAN_TYPE":       identity,
		}
	}

	if fallback == nil {
		fallback = defaultFallback
	}

	return &Classifier{known: known, fallback: fallback}
}

// DefaultClassifier returns the classifier with the built-in known table
// and pattern predicate.
func DefaultClassifier() *Classifier {
	return NewClassifier(nil, nil)
}

// Classify tags one annotation key. Domain-prefixed keys
// ("builds.example.io/platform") are classified by their last segment.
func (c *Classifier) Classify(key string) Classification {
	name := key
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}

	if transform, ok := c.known[strings.ToUpper(name)]; ok {
		return Classification{Kind: Known, Name: strings.ToUpper(name), Transform: transform}
	}

	if c.fallback(name) {
		return Classification{Kind: LikelyMatrix}
	}

	return Classification{Kind: NotMatrix}
}

func defaultFallback(name string) bool {
	if upperSnakeCase.MatchString(name) {
		return true
	}

	upper := strings.ToUpper(name)
	for _, keyword := range matrixKeywords {
		if strings.Contains(upper, keyword) {
			return true
		}
	}

	return false
}
