package ownership

import (
	"sort"

	"github.com/samber/lo"
)

type FinalizeOptions struct {
	// All keeps files with no owned lines.
	All bool
	// Reverse sorts by increasing percentage. Ties are still broken the same way.
	Reverse bool
}

// Node is a finalized, read only view of a file or directory.
type Node struct {
	Name string
	// Path is relative to the repository root. Empty for the root.
	Path       string
	File       bool
	Total      int
	Owned      int
	Percentage float64
	Authors    map[string]int
	Children   []*Node
}

type AuthorShare struct {
	Email      string
	Lines      int
	Percentage float64
}

type Result struct {
	Root    *Node
	opts    FinalizeOptions
	authors []string
}

// Finalize ends the accumulation phase: afterward the tree refuses new files. It computes
// percentages, prunes files nobody cares about and sorts children.
func (t *Tree) Finalize(opts FinalizeOptions) *Result {
	t.finalized = true

	result := &Result{
		opts:    opts,
		authors: lo.Keys(t.nodes[rootHandle].authors),
	}
	sort.Strings(result.authors)

	result.Root = t.buildNode(rootHandle, "", opts)

	return result
}

func (t *Tree) buildNode(handle int, path string, opts FinalizeOptions) *Node {
	n := &t.nodes[handle]

	result := &Node{
		Name:       n.name,
		Path:       path,
		File:       n.file,
		Total:      n.total,
		Owned:      n.owned,
		Percentage: percentage(n.owned, n.total),
		Authors:    n.authors,
	}

	if n.file {
		if !opts.All && n.owned == 0 {
			return nil
		}
		return result
	}

	for name, child := range n.children {
		cp := name
		if path != "" {
			cp = path + "/" + name
		}

		c := t.buildNode(child, cp, opts)
		if c != nil {
			result.Children = append(result.Children, c)
		}
	}

	if handle != rootHandle && len(result.Children) == 0 {
		return nil
	}

	sortNodes(result.Children, opts.Reverse, func(n *Node) string { return n.Name })

	return result
}

func percentage(owned int, total int) float64 {
	if total <= 0 {
		return 0
	}

	return float64(owned) / float64(total) * 100
}

// compareShare compares owned/total ratios without floating point rounding. Empty totals
// count as 0%.
func compareShare(aOwned, aTotal, bOwned, bTotal int) int {
	if aTotal <= 0 {
		aOwned, aTotal = 0, 1
	}
	if bTotal <= 0 {
		bOwned, bTotal = 0, 1
	}

	l := int64(aOwned) * int64(bTotal)
	r := int64(bOwned) * int64(aTotal)
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	default:
		return 0
	}
}

// less orders by percentage (descending unless reversed), then by total lines descending,
// then by key ascending.
func less(a, b *Node, reverse bool, key func(*Node) string) bool {
	if c := compareShare(a.Owned, a.Total, b.Owned, b.Total); c != 0 {
		if reverse {
			return c < 0
		}
		return c > 0
	}

	if a.Total != b.Total {
		return a.Total > b.Total
	}

	return key(a) < key(b)
}

func sortNodes(ns []*Node, reverse bool, key func(*Node) string) {
	sort.SliceStable(ns, func(i, j int) bool {
		return less(ns[i], ns[j], reverse, key)
	})
}

// Flat returns the files of the tree, ignoring directories, in the same order used for
// siblings. Ties are broken by path.
func (r *Result) Flat() []*Node {
	var result []*Node

	var collect func(n *Node)
	collect = func(n *Node) {
		if n.File {
			result = append(result, n)
			return
		}
		for _, c := range n.Children {
			collect(c)
		}
	}
	collect(r.Root)

	sortNodes(result, r.opts.Reverse, func(n *Node) string { return n.Path })

	return result
}

// Authors returns every identity seen in the blamed lines, sorted.
func (r *Result) Authors() []string {
	return r.authors
}

// TopAuthors returns up to max authors with the largest share of the node's lines. Authors
// with no lines are skipped.
func (n *Node) TopAuthors(max int) []AuthorShare {
	result := make([]AuthorShare, 0, len(n.Authors))
	for email, lines := range n.Authors {
		if lines <= 0 {
			continue
		}

		result = append(result, AuthorShare{
			Email:      email,
			Lines:      lines,
			Percentage: percentage(lines, n.Total),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Lines != result[j].Lines {
			return result[i].Lines > result[j].Lines
		}
		return result[i].Email < result[j].Email
	})

	if max >= 0 && len(result) > max {
		result = result[:max]
	}

	return result
}
