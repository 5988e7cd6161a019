package graph

import (
	"fmt"
	"strings"
)

// CircularDependencyError reports a cycle found while adding edges to a
// DependencyGraph.
type CircularDependencyError struct {
	Node string
	Path []string
}

func (e *CircularDependencyError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("circular dependency detected involving %s", e.Node)
	}
	return fmt.Sprintf("circular dependency detected: %s", strings.Join(e.Path, " -> "))
}
