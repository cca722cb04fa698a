package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"

	"github.com/pescuma/claim/lib/ownership"
)

type Options struct {
	// MaxDepth limits how many levels below the root are printed. Negative means no limit.
	MaxDepth int
	// MaxAuthors is the number of authors shown per node by the authors printers.
	MaxAuthors int
	// Lines appends the line counts to each entry.
	Lines bool
}

type printer struct {
	out  io.Writer
	opts *Options
	err  error
}

func (p *printer) printf(format string, a ...any) {
	if p.err != nil {
		return
	}

	_, p.err = fmt.Fprintf(p.out, format, a...)
}

func (p *printer) lines(n *ownership.Node) string {
	if !p.opts.Lines {
		return ""
	}

	return fmt.Sprintf(" [%v of %v lines]", humanize.Comma(int64(n.Owned)), humanize.Comma(int64(n.Total)))
}

func (p *printer) authors(n *ownership.Node) string {
	shares := n.TopAuthors(p.opts.MaxAuthors)

	texts := lo.Map(shares, func(s ownership.AuthorShare, _ int) string {
		return fmt.Sprintf("%v: %.1f%%", s.Email, s.Percentage)
	})

	return "(" + strings.Join(texts, ", ") + ")"
}

// Tree prints the ownership percentage of every node, as an indented tree.
func Tree(out io.Writer, root *ownership.Node, opts *Options) error {
	p := &printer{out: out, opts: opts}

	p.tree(root, "", opts.MaxDepth, func(n *ownership.Node) string {
		return fmt.Sprintf("%v - %.1f%%%v", n.Name, n.Percentage, p.lines(n))
	})

	return p.err
}

// AuthorsTree prints the top authors of every node, as an indented tree.
func AuthorsTree(out io.Writer, root *ownership.Node, opts *Options) error {
	p := &printer{out: out, opts: opts}

	p.tree(root, "", opts.MaxDepth, func(n *ownership.Node) string {
		return fmt.Sprintf("%v - %v", n.Name, p.authors(n))
	})

	return p.err
}

func (p *printer) tree(n *ownership.Node, prefix string, depth int, text func(*ownership.Node) string) {
	p.printf("%v\n", text(n))

	if depth == 0 {
		return
	}

	for i, c := range n.Children {
		if i == len(n.Children)-1 {
			p.printf("%v└── ", prefix)
			p.tree(c, prefix+"    ", depth-1, text)
		} else {
			p.printf("%v├── ", prefix)
			p.tree(c, prefix+"│   ", depth-1, text)
		}
	}
}

// Flat prints one file per line, percentage first.
func Flat(out io.Writer, files []*ownership.Node, opts *Options) error {
	p := &printer{out: out, opts: opts}

	for _, f := range files {
		p.printf("%5.1f%% - %v%v\n", f.Percentage, f.Path, p.lines(f))
	}

	return p.err
}

// AuthorsFlat prints the top authors of each file.
func AuthorsFlat(out io.Writer, files []*ownership.Node, opts *Options) error {
	p := &printer{out: out, opts: opts}

	for _, f := range files {
		p.printf("%v - %v\n", f.Path, p.authors(f))
	}

	return p.err
}

// AuthorsList prints one identity per line.
func AuthorsList(out io.Writer, authors []string) error {
	p := &printer{out: out, opts: &Options{}}

	for _, a := range authors {
		p.printf("%v\n", a)
	}

	return p.err
}
