package ownership

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var ErrFinalized = errors.New("tree already finalized")

const rootHandle = 0

// Tree accumulates file ownership per path segment. Every node holds the sum of the files
// below it, the root holding the whole repository. Nodes live in an arena and reference
// each other by index.
//
// A Tree is not safe for concurrent use: it must have a single writer.
type Tree struct {
	nodes     []treeNode
	finalized bool
}

type treeNode struct {
	name     string
	parent   int
	file     bool
	children map[string]int

	total   int
	owned   int
	authors map[string]int
}

func NewTree() *Tree {
	result := &Tree{}
	result.newNode("/", -1, false)
	return result
}

func (t *Tree) newNode(name string, parent int, file bool) int {
	t.nodes = append(t.nodes, treeNode{
		name:     name,
		parent:   parent,
		file:     file,
		children: make(map[string]int),
		authors:  make(map[string]int),
	})

	handle := len(t.nodes) - 1

	if parent >= 0 {
		t.nodes[parent].children[name] = handle
	}

	return handle
}

func splitPath(path string) []string {
	parts := strings.Split(path, "/")

	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" && p != "." {
			result = append(result, p)
		}
	}

	return result
}

// Insert adds the counts of a file to every node along its path, creating missing nodes.
// The tree is left untouched when an error is returned.
func (t *Tree) Insert(f *FileOwnership) error {
	if t.finalized {
		return ErrFinalized
	}

	segments := splitPath(f.Path)

	err := t.validate(f, segments)
	if err != nil {
		return err
	}

	handle := rootHandle
	t.add(handle, f)

	for i, s := range segments {
		child, ok := t.nodes[handle].children[s]
		if !ok {
			child = t.newNode(s, handle, i == len(segments)-1)
		}

		handle = child
		t.add(handle, f)
	}

	return nil
}

func (t *Tree) validate(f *FileOwnership, segments []string) error {
	switch {
	case len(segments) == 0:
		return errors.Errorf("invalid file path: %q", f.Path)
	case f.Owned < 0 || f.Total < 0 || f.Owned > f.Total:
		return errors.Errorf("%v: invalid line counts: owned %v of %v", f.Path, f.Owned, f.Total)
	}

	for _, s := range segments {
		if s == ".." {
			return errors.Errorf("invalid file path: %q", f.Path)
		}
	}

	handle := rootHandle
	for i, s := range segments {
		child, ok := t.nodes[handle].children[s]
		if !ok {
			return nil
		}

		last := i == len(segments)-1
		switch {
		case last && t.nodes[child].file:
			return errors.Errorf("%v: file already inserted", f.Path)
		case last:
			return errors.Errorf("%v: path is a directory", f.Path)
		case t.nodes[child].file:
			return errors.Errorf("%v: %v is a file", f.Path, strings.Join(segments[:i+1], "/"))
		}

		handle = child
	}

	return nil
}

func (t *Tree) add(handle int, f *FileOwnership) {
	n := &t.nodes[handle]

	n.total += f.Total
	n.owned += f.Owned
	for email, lines := range f.Authors {
		n.authors[email] += lines
	}
}

// Merge inserts all files of other into t. Merging partial trees gives the same counts as
// inserting all the files into a single tree, in any order.
func (t *Tree) Merge(other *Tree) error {
	if t.finalized {
		return ErrFinalized
	}

	for _, f := range other.Files() {
		err := t.Insert(f)
		if err != nil {
			return err
		}
	}

	return nil
}

// Files returns the inserted files, sorted by path.
func (t *Tree) Files() []*FileOwnership {
	var result []*FileOwnership

	for handle := range t.nodes {
		n := &t.nodes[handle]
		if !n.file {
			continue
		}

		authors := make(map[string]int, len(n.authors))
		for email, lines := range n.authors {
			authors[email] = lines
		}

		result = append(result, &FileOwnership{
			Path:    t.path(handle),
			Total:   n.total,
			Owned:   n.owned,
			Authors: authors,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Path < result[j].Path
	})

	return result
}

func (t *Tree) path(handle int) string {
	var parts []string
	for ; handle != rootHandle; handle = t.nodes[handle].parent {
		parts = append(parts, t.nodes[handle].name)
	}

	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}

	return strings.Join(parts, "/")
}
