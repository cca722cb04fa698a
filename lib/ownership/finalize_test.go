package ownership

import (
	"testing"

	"github.com/bloomberg/go-testgroup"
	"github.com/samber/lo"
)

func names(ns []*Node) []string {
	return lo.Map(ns, func(n *Node, _ int) string { return n.Name })
}

func paths(ns []*Node) []string {
	return lo.Map(ns, func(n *Node, _ int) string { return n.Path })
}

func TestFinalize(t *testing.T) {
	testgroup.RunInParallel(t, &FinalizeTests{})
}

type FinalizeTests struct {
}

func (g *FinalizeTests) PrunesFilesWithoutOwnedLines(t *testgroup.T) {
	r := buildTree(t, sampleFiles()).Finalize(FinalizeOptions{})

	t.Equal([]string{"a.txt", "dir", "other"}, names(r.Root.Children))
	t.Equal([]string{"a.txt", "dir/sub/d.go", "dir/b.txt", "other/f.md"}, paths(r.Flat()))

	dir := r.Root.Children[1]
	t.Equal([]string{"sub", "b.txt"}, names(dir.Children))
	t.Equal([]string{"d.go"}, names(dir.Children[0].Children))

	// Pruning does not change counts
	t.Equal(30, dir.Total)
	t.Equal(10, dir.Children[0].Total)
}

func (g *FinalizeTests) PrunesDirectoriesWithoutSurvivors(t *testgroup.T) {
	r := buildTree(t, []*FileOwnership{
		file("a.txt", 10, 1),
		file("dir/b.txt", 20, 0),
		file("dir/sub/c.txt", 20, 0),
	}).Finalize(FinalizeOptions{})

	t.Equal([]string{"a.txt"}, names(r.Root.Children))
	t.Equal(50, r.Root.Total)
}

func (g *FinalizeTests) AllKeepsEverything(t *testgroup.T) {
	r := buildTree(t, sampleFiles()).Finalize(FinalizeOptions{All: true})

	t.Equal([]string{"a.txt", "dir", "other"}, names(r.Root.Children))
	t.Equal([]string{"a.txt", "dir/sub/d.go", "dir/b.txt", "other/f.md", "dir/sub/c.go", "other/e.md"}, paths(r.Flat()))
	checkCounts(t, r.Root)
}

func (g *FinalizeTests) EmptyTree(t *testgroup.T) {
	r := NewTree().Finalize(FinalizeOptions{})

	t.Equal("/", r.Root.Name)
	t.Equal(0, r.Root.Total)
	t.Equal(0.0, r.Root.Percentage)
	t.Empty(r.Root.Children)
	t.Empty(r.Flat())
	t.Empty(r.Authors())
}

func (g *FinalizeTests) NothingOwned(t *testgroup.T) {
	r := buildTree(t, []*FileOwnership{file("a.txt", 10, 0)}).Finalize(FinalizeOptions{})

	t.Equal(10, r.Root.Total)
	t.Equal(0.0, r.Root.Percentage)
	t.Empty(r.Root.Children)
}

func (g *FinalizeTests) TiesBrokenByTotalThenName(t *testgroup.T) {
	r := buildTree(t, []*FileOwnership{
		file("b.txt", 10, 5),
		file("a.txt", 10, 5),
		file("c.txt", 20, 10),
		file("d.txt", 4, 4),
		file("e.txt", 3, 1),
		file("f.txt", 6, 2),
	}).Finalize(FinalizeOptions{})

	t.Equal([]string{"d.txt", "c.txt", "a.txt", "b.txt", "f.txt", "e.txt"}, names(r.Root.Children))
}

func (g *FinalizeTests) Reverse(t *testgroup.T) {
	r := buildTree(t, []*FileOwnership{
		file("b.txt", 10, 5),
		file("a.txt", 10, 5),
		file("c.txt", 20, 10),
		file("d.txt", 4, 4),
		file("e.txt", 3, 1),
	}).Finalize(FinalizeOptions{Reverse: true})

	t.Equal([]string{"e.txt", "c.txt", "a.txt", "b.txt", "d.txt"}, names(r.Root.Children))
}

func (g *FinalizeTests) SortIsIdempotentAndStrict(t *testgroup.T) {
	r := buildTree(t, sampleFiles()).Finalize(FinalizeOptions{All: true})

	flat := r.Flat()
	again := append([]*Node(nil), flat...)
	sortNodes(again, false, func(n *Node) string { return n.Path })
	t.Equal(paths(flat), paths(again))

	key := func(n *Node) string { return n.Path }
	for i := range flat {
		for j := range flat {
			if i == j {
				t.False(less(flat[i], flat[j], false, key))
			} else {
				t.NotEqual(less(flat[i], flat[j], false, key), less(flat[j], flat[i], false, key))
			}
		}
	}
}

func (g *FinalizeTests) FlatMatchesTree(t *testgroup.T) {
	for _, opts := range []FinalizeOptions{{}, {All: true}, {Reverse: true}} {
		r := buildTree(t, sampleFiles()).Finalize(opts)

		var fromTree []*Node
		var collect func(n *Node)
		collect = func(n *Node) {
			if n.File {
				fromTree = append(fromTree, n)
			}
			for _, c := range n.Children {
				collect(c)
			}
		}
		collect(r.Root)

		t.ElementsMatch(fromTree, r.Flat())
	}
}

func (g *FinalizeTests) Authors(t *testgroup.T) {
	tree := buildTree(t, []*FileOwnership{
		{Path: "a.txt", Total: 3, Owned: 0, Authors: map[string]int{"b@a.com": 2, "a@a.com": 1}},
		{Path: "d/b.txt", Total: 2, Owned: 0, Authors: map[string]int{"c@a.com": 2, "old@a.com": 0}},
	})

	r := tree.Finalize(FinalizeOptions{All: true})

	t.Equal([]string{"a@a.com", "b@a.com", "c@a.com", "old@a.com"}, r.Authors())
	t.Equal([]AuthorShare{
		{Email: "b@a.com", Lines: 2, Percentage: 40},
		{Email: "c@a.com", Lines: 2, Percentage: 40},
	}, r.Root.TopAuthors(2))
	t.Len(r.Root.TopAuthors(10), 3)
	t.Empty(r.Root.TopAuthors(0))
}

func (g *FinalizeTests) PercentageOfEmptyFile(t *testgroup.T) {
	t.Equal(0.0, percentage(0, 0))
	t.Equal(50.0, percentage(1, 2))
	t.Equal(0, compareShare(0, 0, 0, 5))
	t.Equal(1, compareShare(1, 3, 1, 4))
	t.Equal(0, compareShare(1, 3, 2, 6))
}
