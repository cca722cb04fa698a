package blame

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrRepositoryNotFound = errors.New("not inside a git repository")
	ErrNotBlameable       = errors.New("file can't be blamed")
)

// Line is the attribution of one line of a file's current content.
type Line struct {
	Name  string
	Email string
	// Date of the commit that last changed the line. Zero when unknown.
	Date time.Time
	Text string
}

// Source lists the files tracked at HEAD and blames them. Paths are relative to Root and
// slash separated. Blame must be safe to call from several goroutines.
type Source interface {
	Root() string
	ListFiles(ctx context.Context) ([]string, error)
	Blame(ctx context.Context, path string) ([]Line, error)
	DefaultEmail(ctx context.Context) (string, error)
	Close() error
}
