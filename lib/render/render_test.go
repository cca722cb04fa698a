package render

import (
	"bytes"
	"testing"

	"github.com/bloomberg/go-testgroup"

	"github.com/pescuma/claim/lib/ownership"
)

func sampleResult(t *testgroup.T) *ownership.Result {
	tree := ownership.NewTree()
	for _, f := range []*ownership.FileOwnership{
		{Path: "a.txt", Total: 10, Owned: 10, Authors: map[string]int{"x@a.com": 10}},
		{Path: "dir/b.txt", Total: 20, Owned: 5, Authors: map[string]int{"x@a.com": 5, "y@a.com": 15}},
		{Path: "dir/sub/c.txt", Total: 2000, Owned: 1000, Authors: map[string]int{"x@a.com": 1000, "z@a.com": 1000}},
	} {
		t.Require.Nil(tree.Insert(f))
	}
	return tree.Finalize(ownership.FinalizeOptions{})
}

func TestRender(t *testing.T) {
	testgroup.RunInParallel(t, &RenderTests{})
}

type RenderTests struct {
}

func (g *RenderTests) Tree(t *testgroup.T) {
	out := &bytes.Buffer{}

	err := Tree(out, sampleResult(t).Root, &Options{MaxDepth: -1})

	t.Nil(err)
	t.Equal(`/ - 50.0%
├── a.txt - 100.0%
└── dir - 49.8%
    ├── sub - 50.0%
    │   └── c.txt - 50.0%
    └── b.txt - 25.0%
`, out.String())
}

func (g *RenderTests) TreeMaxDepth(t *testgroup.T) {
	out := &bytes.Buffer{}

	err := Tree(out, sampleResult(t).Root, &Options{MaxDepth: 1})

	t.Nil(err)
	t.Equal(`/ - 50.0%
├── a.txt - 100.0%
└── dir - 49.8%
`, out.String())
}

func (g *RenderTests) TreeWithLines(t *testgroup.T) {
	out := &bytes.Buffer{}

	err := Tree(out, sampleResult(t).Root, &Options{MaxDepth: 0, Lines: true})

	t.Nil(err)
	t.Equal("/ - 50.0% [1,015 of 2,030 lines]\n", out.String())
}

func (g *RenderTests) Flat(t *testgroup.T) {
	out := &bytes.Buffer{}

	err := Flat(out, sampleResult(t).Flat(), &Options{})

	t.Nil(err)
	t.Equal(`100.0% - a.txt
 50.0% - dir/sub/c.txt
 25.0% - dir/b.txt
`, out.String())
}

func (g *RenderTests) AuthorsTree(t *testgroup.T) {
	out := &bytes.Buffer{}

	err := AuthorsTree(out, sampleResult(t).Root, &Options{MaxDepth: 1, MaxAuthors: 2})

	t.Nil(err)
	t.Equal(`/ - (x@a.com: 50.0%, z@a.com: 49.3%)
├── a.txt - (x@a.com: 100.0%)
└── dir - (x@a.com: 49.8%, z@a.com: 49.5%)
`, out.String())
}

func (g *RenderTests) AuthorsFlat(t *testgroup.T) {
	out := &bytes.Buffer{}

	err := AuthorsFlat(out, sampleResult(t).Flat(), &Options{MaxAuthors: 1})

	t.Nil(err)
	t.Equal(`a.txt - (x@a.com: 100.0%)
dir/sub/c.txt - (x@a.com: 50.0%)
dir/b.txt - (y@a.com: 75.0%)
`, out.String())
}

func (g *RenderTests) AuthorsList(t *testgroup.T) {
	out := &bytes.Buffer{}

	err := AuthorsList(out, sampleResult(t).Authors())

	t.Nil(err)
	t.Equal("x@a.com\ny@a.com\nz@a.com\n", out.String())
}
