package claim

import (
	"context"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/gertd/go-pluralize"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/schollz/progressbar/v3"

	"github.com/pescuma/claim/lib/blame"
	"github.com/pescuma/claim/lib/consoles"
	"github.com/pescuma/claim/lib/loc"
	"github.com/pescuma/claim/lib/ownership"
	"github.com/pescuma/claim/lib/render"
	"github.com/pescuma/claim/lib/utils"
)

// Run blames every file selected by opts, builds the ownership tree and writes the report to out.
// Files that can't be blamed are skipped.
func Run(ctx context.Context, console consoles.Console, source blame.Source, opts *Options, out io.Writer) error {
	p, err := opts.validate()
	if err != nil {
		return err
	}

	dir, err := opts.relativeDir(source.Root())
	if err != nil {
		return err
	}

	emails := p.emails
	if len(emails) == 0 && !opts.ShowAuthors && !opts.ListAuthors {
		email, err := source.DefaultEmail(ctx)
		if err != nil {
			return errors.Wrapf(ErrInvalidOptions, "no --email given and %v", err)
		}
		emails = []string{email}
	}

	if len(emails) > 0 {
		console.Printf("Computing ownership of %v\n", emails)
	}

	criteria := ownership.NewCriteria(emails, opts.Now)
	criteria.MaxAge = p.maxAge
	criteria.Ignored = p.ignored
	criteria.Identities = p.identities

	files, err := listFiles(ctx, source, dir, p)
	if err != nil {
		return err
	}

	tree, err := blameFiles(ctx, console, source, criteria, files, opts)
	if err != nil {
		return err
	}

	result := tree.Finalize(p.finalizeOpt)

	renderOpts := &render.Options{
		MaxDepth:   p.maxDepth,
		MaxAuthors: opts.MaxAuthors,
		Lines:      opts.Lines,
	}

	switch {
	case opts.ListAuthors:
		return render.AuthorsList(out, result.Authors())
	case opts.ShowAuthors && opts.Flat:
		return render.AuthorsFlat(out, result.Flat(), renderOpts)
	case opts.ShowAuthors:
		return render.AuthorsTree(out, result.Root, renderOpts)
	case opts.Flat:
		return render.Flat(out, result.Flat(), renderOpts)
	default:
		return render.Tree(out, result.Root, renderOpts)
	}
}

func listFiles(ctx context.Context, source blame.Source, dir string, p *plan) ([]string, error) {
	all, err := source.ListFiles(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "error listing files of %v", source.Root())
	}

	return lo.Filter(all, func(path string, _ int) bool {
		return utils.IsInside(path, dir) && p.paths(path)
	}), nil
}

type blameResult struct {
	path string
	file *ownership.FileOwnership
	err  error
}

func blameFiles(ctx context.Context, console consoles.Console, source blame.Source, criteria *ownership.Criteria,
	files []string, opts *Options,
) (*ownership.Tree, error) {
	pc := pluralize.NewClient()

	console.Printf("Blaming %v %v...\n", humanize.Comma(int64(len(files))), pc.Pluralize("file", len(files), false))

	console.PushPrefix("blame: ")
	defer console.PopPrefix()

	group := utils.ParallelFor(files, func(path string) (*blameResult, error) {
		lines, err := source.Blame(ctx, path)
		if err != nil {
			return &blameResult{path: path, err: err}, nil
		}

		if opts.CodeOnly {
			lines, err = codeLines(path, lines)
			if err != nil {
				return &blameResult{path: path, err: err}, nil
			}
		}

		return &blameResult{path: path, file: ownership.Aggregate(path, lines, criteria)}, nil
	}, utils.ParallelOptions{Routines: opts.Jobs})

	var bar *progressbar.ProgressBar
	if opts.NoProgress {
		bar = utils.NewHiddenProgressBar(len(files))
	} else {
		bar = utils.NewProgressBar(len(files))
	}

	tree := ownership.NewTree()
	blamed := 0
	failures := 0
	for r := range group.Output {
		bar.Describe(utils.TruncateFilename(r.path))
		_ = bar.Add(1)

		switch {
		case group.Aborted():
		case r.err != nil:
			failures++
			if errors.Is(r.err, blame.ErrNotBlameable) {
				console.Debugf("Skipping %v: %v\n", r.path, r.err)
			} else {
				console.Warnf("Error blaming %v, skipping it: %v\n", r.path, r.err)
			}
		case r.file.Total == 0:
			blamed++
		default:
			blamed++
			err := tree.Insert(r.file)
			if err != nil {
				group.Abort(err)
			}
		}
	}
	_ = bar.Clear()

	err := group.Error()
	if err != nil {
		return nil, err
	}

	console.Printf("Blamed %v %v\n", humanize.Comma(int64(blamed)), pc.Pluralize("file", blamed, false))
	if failures > 0 {
		console.Printf("Skipped %v %v that could not be blamed\n", humanize.Comma(int64(failures)), pc.Pluralize("file", failures, false))
	}

	return tree, nil
}

func codeLines(path string, lines []blame.Line) ([]blame.Line, error) {
	types, err := loc.Classify(path, lo.Map(lines, func(l blame.Line, _ int) string { return l.Text }))
	if err != nil {
		return nil, err
	}

	return lo.Filter(lines, func(_ blame.Line, i int) bool {
		return types[i] == loc.CodeLine
	}), nil
}
