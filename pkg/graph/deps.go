package graph

import (
	"regexp"

	"github.com/arewm/pipegraph/pkg/models"
)

// resultRefPattern extracts task names from embedded result-reference
// expressions of the form $(tasks.<name>.results.<result>).
var resultRefPattern = regexp.MustCompile(`\$\(tasks\.([a-zA-Z0-9_-]+)\.`)

// rawDependencies computes a task's declared dependency names: explicit
// runAfter entries plus every task referenced from its parameter values
// and conditional-execution expressions.
func rawDependencies(task models.TaskWithStatus) []string {
	seen := make(map[string]struct{})
	deps := make([]string, 0, len(task.RunAfter))

	add := func(name string) {
		if name == "" {
			return
		}

		if _, dup := seen[name]; dup {
			return
		}

		seen[name] = struct{}{}
		deps = append(deps, name)
	}

	for _, name := range task.RunAfter {
		add(name)
	}

	for _, param := range task.Params {
		for _, name := range referencedTasks(param.Value.StringVal) {
			add(name)
		}

		for _, item := range param.Value.ArrayVal {
			for _, name := range referencedTasks(item) {
				add(name)
			}
		}
	}

	for _, when := range task.When {
		for _, name := range referencedTasks(when.Input) {
			add(name)
		}

		for _, value := range when.Values {
			for _, name := range referencedTasks(value) {
				add(name)
			}
		}
	}

	return deps
}

func referencedTasks(expression string) []string {
	matches := resultRefPattern.FindAllStringSubmatch(expression, -1)
	if len(matches) == 0 {
		return nil
	}

	names := make([]string, 0, len(matches))
	for _, match := range matches {
		names = append(names, match[1])
	}

	return names
}

// expandDependencies rewrites dependency names that point at expanded
// matrix tasks: a name matching the original name of two-or-more instances
// fans out to all of them, a single match renames to that instance, and
// anything else passes through unchanged.
func expandDependencies(deps []string, byOriginal map[string][]string) []string {
	expanded := make([]string, 0, len(deps))

	for _, dep := range deps {
		instances := byOriginal[dep]
		switch {
		case len(instances) >= 2:
			expanded = append(expanded, instances...)
		case len(instances) == 1:
			expanded = append(expanded, instances[0])
		default:
			expanded = append(expanded, dep)
		}
	}

	return expanded
}
