package scheduler

import (
	"github.com/alexanderramin/horizon/internal/domain"
)

// CriticalPathResult is the longest dependency-respecting chain through the graph.
// Path lists step ids from the first step to the terminal step.
type CriticalPathResult struct {
	Days float64  `json:"days" yaml:"days"`
	Path []string `json:"path" yaml:"path"`
}

// ValidateGraph checks that every dependency refers to a step in the graph
// and that the graph is acyclic. Steps are visited in sorted order so the
// reported offending id is deterministic.
func ValidateGraph(g domain.DependencyGraph) error {
	const (
		unvisited = iota
		inProgress
		done
	)
	state := make(map[string]int, len(g))

	var visit func(id string) error
	visit = func(id string) error {
		switch state[id] {
		case inProgress:
			return domain.NewValidationError(domain.CodeCyclicDependency, id, "step %q depends on itself through its dependencies", id)
		case done:
			return nil
		}
		deps, ok := g[id]
		if !ok {
			return domain.MissingStep(id)
		}
		state[id] = inProgress
		for _, dep := range deps {
			if err := visit(dep); err != nil {
				return err
			}
		}
		state[id] = done
		return nil
	}

	for _, id := range g.StepIDs() {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}

type pathEntry struct {
	days float64
	via  string
}

type pathCalc struct {
	graph    domain.DependencyGraph
	elapsed  map[string]float64
	standard map[string]float64
	memo     map[string]pathEntry
}

// CriticalPath computes the longest weighted path ending at a terminal step.
// A step weighs its elapsed time when present, otherwise its standard duration.
func CriticalPath(g domain.DependencyGraph, elapsed, standard map[string]float64) (CriticalPathResult, error) {
	if err := ValidateGraph(g); err != nil {
		return CriticalPathResult{}, err
	}
	if len(g) == 0 {
		return CriticalPathResult{}, nil
	}

	terminals := g.Terminals()
	if len(terminals) == 0 {
		ids := g.StepIDs()
		return CriticalPathResult{}, domain.NewValidationError(domain.CodeCyclicDependency, ids[0], "graph has no terminal step")
	}

	c := &pathCalc{graph: g, elapsed: elapsed, standard: standard, memo: make(map[string]pathEntry, len(g))}

	var best float64
	var end string
	for _, t := range terminals {
		days, err := c.pathTime(t, make(map[string]bool))
		if err != nil {
			return CriticalPathResult{}, err
		}
		if end == "" || days > best {
			best, end = days, t
		}
	}

	return CriticalPathResult{Days: best, Path: c.trace(end)}, nil
}

// pathTime returns the weight of step plus the heaviest path among its
// dependencies. visiting holds the steps on the current branch only.
func (c *pathCalc) pathTime(step string, visiting map[string]bool) (float64, error) {
	if visiting[step] {
		return 0, domain.NewValidationError(domain.CodeCyclicDependency, step, "step %q was reached twice on one path", step)
	}
	if e, ok := c.memo[step]; ok {
		return e.days, nil
	}
	deps, ok := c.graph[step]
	if !ok {
		return 0, domain.MissingStep(step)
	}
	weight, err := c.weight(step)
	if err != nil {
		return 0, err
	}

	visiting[step] = true
	defer delete(visiting, step)

	var longest float64
	var via string
	for _, dep := range deps {
		t, err := c.pathTime(dep, visiting)
		if err != nil {
			return 0, err
		}
		if via == "" || t > longest {
			longest, via = t, dep
		}
	}

	c.memo[step] = pathEntry{days: weight + longest, via: via}
	return weight + longest, nil
}

func (c *pathCalc) weight(step string) (float64, error) {
	std, ok := c.standard[step]
	if !ok {
		return 0, domain.MissingStep(step)
	}
	if e, ok := c.elapsed[step]; ok {
		return e, nil
	}
	return std, nil
}

func (c *pathCalc) trace(end string) []string {
	var rev []string
	for id := end; id != ""; id = c.memo[id].via {
		rev = append(rev, id)
	}
	path := make([]string, len(rev))
	for i, id := range rev {
		path[len(rev)-1-i] = id
	}
	return path
}
