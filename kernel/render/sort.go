// Package render formats nodes and shapes for the terminal: plain lines,
// markdown tables and JSON.
package render

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/simplestation/ssu/kernel/model"
)

type NodeSort int

const (
	SortAlphabetical NodeSort = iota
	SortCreated
	SortCores
	SortMemory
	SortStatus
)

var sortNames = []struct {
	sort  NodeSort
	name  string
	alias string
}{
	{SortAlphabetical, "alphabetical", "a"},
	{SortCreated, "created", "c"},
	{SortCores, "cores", "k"},
	{SortMemory, "memory", "m"},
	{SortStatus, "status", "s"},
}

func (s NodeSort) String() string {
	for _, n := range sortNames {
		if n.sort == s {
			return n.name
		}
	}
	return "unknown"
}

// ParseNodeSort accepts a sort name or its one-letter alias.
func ParseNodeSort(value string) (NodeSort, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, n := range sortNames {
		if value == n.name || value == n.alias {
			return n.sort, nil
		}
	}
	return 0, errors.Errorf("invalid sort '%s' (use %s)", value, SortUsage())
}

// SortUsage lists the accepted values, e.g. for flag help.
func SortUsage() string {
	parts := make([]string, len(sortNames))
	for i, n := range sortNames {
		parts[i] = n.name + "|" + n.alias
	}
	return strings.Join(parts, ", ")
}

// SortNodes orders nodes in place. Ties keep provider order; reverse
// flips the whole result afterwards.
func SortNodes(nodes []*model.Node, by NodeSort, reverse bool) {
	less := lessFunc(by)
	sort.SliceStable(nodes, func(i, j int) bool {
		return less(nodes[i], nodes[j])
	})
	if reverse {
		for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
			nodes[i], nodes[j] = nodes[j], nodes[i]
		}
	}
}

func lessFunc(by NodeSort) func(a, b *model.Node) bool {
	switch by {
	case SortAlphabetical:
		return func(a, b *model.Node) bool { return a.Name < b.Name }
	case SortCores:
		return func(a, b *model.Node) bool { return cores(a) < cores(b) }
	case SortMemory:
		return func(a, b *model.Node) bool { return memory(a) < memory(b) }
	case SortStatus:
		return func(a, b *model.Node) bool { return a.Status.Rank() < b.Status.Rank() }
	default:
		return func(a, b *model.Node) bool { return a.Created.Before(b.Created) }
	}
}

func cores(n *model.Node) int {
	if n.Shape == nil {
		return 0
	}
	return n.Shape.Cores
}

func memory(n *model.Node) float64 {
	if n.Shape == nil {
		return 0
	}
	return n.Shape.MemoryGiB
}
