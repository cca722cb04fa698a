package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/pescuma/claim/lib/blame"
	"github.com/pescuma/claim/lib/claim"
	"github.com/pescuma/claim/lib/consoles"
	"github.com/pescuma/claim/lib/utils"
)

var version = "dev"

type cli struct {
	Path string `arg:"" optional:"" type:"existingdir" help:"Directory inside the repository. Only files inside it are reported. Default is the whole repository containing the current directory."`

	Email       []string `help:"Emails of the author. Can be repeated. Default is git's user.email."`
	ShowAuthors bool     `help:"Show the authors with most lines of each file and directory."`
	MaxAuthors  int      `default:"3" help:"Number of authors to show with --show-authors."`
	ListAuthors bool     `help:"List every author email found in the blamed files."`

	Flat     bool `help:"Show a list of files instead of a tree."`
	All      bool `help:"Also show files with no lines by the author."`
	Reverse  bool `help:"Show files with the lowest percentage first."`
	Lines    bool `help:"Show the line counts."`
	MaxDepth int  `default:"-1" help:"Don't show files deeper than this in the tree. -1 means no limit."`

	MaxAge     string            `help:"Only consider lines changed in this period as owned, like 6M, 2w or 1y6M."`
	CodeOnly   bool              `help:"Only count lines of code, ignoring comments and blank lines."`
	IgnoreUser []string          `help:"Ignore lines of authors matching these email globs."`
	Alias      map[string]string `help:"Consider lines of an email as being from another, like --alias old@x.com=new@x.com."`

	Include      []string `help:"Only blame files matching these globs. ** matches any number of directories."`
	Exclude      []string `help:"Don't blame files matching these gitignore style patterns."`
	SkipVendored bool     `help:"Don't blame vendored files."`

	Jobs       int    `short:"j" help:"Number of files to blame at the same time. Default depends on the number of CPUs."`
	GitBinary  string `help:"Use this git executable to blame instead of the built-in implementation. This also applies .mailmap."`
	NoProgress bool   `help:"Don't show the progress bar."`
	Verbose    int    `short:"v" type:"counter" help:"Show what is being done. Repeat for more details."`

	Config  kong.ConfigFlag  `help:"JSON file with default values for the flags."`
	Version kong.VersionFlag `help:"Show version and exit."`
}

func main() {
	var c cli
	ctx := kong.Parse(&c,
		kong.Name("claim"),
		kong.Description("Show how much of each file of a git repository was last changed by an author."),
		kong.UsageOnError(),
		kong.Configuration(kong.JSON, "~/.claim.json"),
		kong.Vars{"version": version},
	)

	err := c.Run()
	ctx.FatalIfErrorf(err)
}

func (c *cli) Run() error {
	ctx := context.Background()

	verbosity := consoles.Verbosity(utils.Min(c.Verbose, int(consoles.Debug)))
	console := consoles.NewStdErrConsole(verbosity)

	source, err := c.openSource(ctx, verbosity)
	if err != nil {
		return err
	}
	defer source.Close()

	console.Printf("Repository: %v\n", source.Root())

	return claim.Run(ctx, console, source, c.options(verbosity, time.Now()), os.Stdout)
}

// repositoryDir is where the repository is searched from.
func (c *cli) repositoryDir() string {
	if c.Path == "" {
		return "."
	}
	return c.Path
}

func (c *cli) options(verbosity consoles.Verbosity, now time.Time) *claim.Options {
	opts := &claim.Options{
		Dir:          c.Path,
		Emails:       c.Email,
		ShowAuthors:  c.ShowAuthors,
		MaxAuthors:   c.MaxAuthors,
		ListAuthors:  c.ListAuthors,
		Flat:         c.Flat,
		All:          c.All,
		Reverse:      c.Reverse,
		Lines:        c.Lines,
		MaxAge:       c.MaxAge,
		CodeOnly:     c.CodeOnly,
		IgnoreUsers:  c.IgnoreUser,
		Aliases:      c.Alias,
		Include:      c.Include,
		Exclude:      c.Exclude,
		SkipVendored: c.SkipVendored,
		Jobs:         c.Jobs,
		NoProgress:   c.NoProgress || verbosity > consoles.Quiet,
		Now:          now,
	}
	if c.MaxDepth != -1 {
		depth := c.MaxDepth
		opts.MaxDepth = &depth
	}

	return opts
}

func (c *cli) openSource(ctx context.Context, verbosity consoles.Verbosity) (blame.Source, error) {
	if c.GitBinary == "" {
		return blame.OpenGoGit(c.repositoryDir())
	}

	var stderr io.Writer
	if verbosity >= consoles.Debug {
		stderr = os.Stderr
	}

	return blame.OpenExec(ctx, c.repositoryDir(), c.GitBinary, stderr)
}
