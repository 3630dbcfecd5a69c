package domain

import (
	"regexp"
	"sort"
	"strconv"
)

var stepNumberPattern = regexp.MustCompile(`[0-9]+`)

// Step is a unit of project work with a standard duration in days.
type Step struct {
	ID           string
	StandardDays float64
	DependsOn    []string
}

// DependencyGraph maps a step id to the ids it depends on.
type DependencyGraph map[string][]string

// StepIDs returns the graph's step ids in sorted order.
func (g DependencyGraph) StepIDs() []string {
	ids := make([]string, 0, len(g))
	for id := range g {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Terminals returns the steps that no other step depends on, sorted.
func (g DependencyGraph) Terminals() []string {
	referenced := make(map[string]bool)
	for _, deps := range g {
		for _, d := range deps {
			referenced[d] = true
		}
	}
	var out []string
	for _, id := range g.StepIDs() {
		if !referenced[id] {
			out = append(out, id)
		}
	}
	return out
}

// Clone returns a deep copy of the graph.
func (g DependencyGraph) Clone() DependencyGraph {
	out := make(DependencyGraph, len(g))
	for id, deps := range g {
		out[id] = append([]string(nil), deps...)
	}
	return out
}

// StepNumber extracts the first run of digits in a step id ("step3" -> 3).
// Ids without digits map to 0.
func StepNumber(id string) int {
	m := stepNumberPattern.FindString(id)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}
