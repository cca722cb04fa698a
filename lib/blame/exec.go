package blame

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/abiosoft/lineprefix"
	"github.com/go-enry/go-enry/v2"
	"github.com/hashicorp/go-set/v2"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

const (
	symlinkMode   = "120000"
	submoduleType = "commit"
)

// ExecSource blames by running the git executable. Unlike the go-git source, git applies the
// repository .mailmap to the authors.
type ExecSource struct {
	gitBin string
	root   string
	stderr io.Writer

	empty    bool
	symlinks *set.Set[string]
}

// OpenExec finds the repository containing dir. When stderr is not nil, git's own error
// output is copied there, one prefixed line at a time.
func OpenExec(ctx context.Context, dir string, gitBin string, stderr io.Writer) (*ExecSource, error) {
	if strings.TrimSpace(gitBin) == "" {
		gitBin = "git"
	}

	result := &ExecSource{
		gitBin:   gitBin,
		stderr:   stderr,
		symlinks: set.New[string](10),
	}

	out, err := result.run(ctx, dir, "rev-parse", "--show-toplevel")
	if errors.Is(err, exec.ErrNotFound) {
		return nil, errors.Wrapf(err, "git executable not found: %v", gitBin)
	} else if err != nil {
		return nil, errors.Wrapf(ErrRepositoryNotFound, "%v: %v", dir, err)
	}

	root := strings.TrimSpace(out)
	if root == "" {
		return nil, errors.Wrapf(ErrRepositoryNotFound, "%v", dir)
	}

	result.root, err = filepath.Abs(filepath.FromSlash(root))
	if err != nil {
		return nil, err
	}

	_, err = result.run(ctx, result.root, "rev-parse", "--verify", "-q", "HEAD")
	result.empty = err != nil

	return result, nil
}

func (s *ExecSource) Root() string {
	return s.root
}

func (s *ExecSource) run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, s.gitBin, args...)
	cmd.Dir = dir

	var out bytes.Buffer
	var errb bytes.Buffer
	cmd.Stdout = &out
	if s.stderr != nil {
		prefix := lineprefix.PrefixFunc(func() string { return "git: " })
		cmd.Stderr = io.MultiWriter(&errb, lineprefix.New(lineprefix.Writer(s.stderr), prefix))
	} else {
		cmd.Stderr = &errb
	}

	err := cmd.Run()
	if err != nil {
		msg := strings.TrimSpace(errb.String())
		if msg == "" {
			return "", errors.Wrapf(err, "git %v", args[0])
		}
		return "", errors.Wrapf(err, "git %v: %v", args[0], msg)
	}

	return out.String(), nil
}

func (s *ExecSource) ListFiles(ctx context.Context) ([]string, error) {
	if s.empty {
		return nil, nil
	}

	out, err := s.run(ctx, s.root, "ls-tree", "-r", "-z", "--full-tree", "HEAD")
	if err != nil {
		return nil, err
	}

	var result []string
	for _, entry := range strings.Split(out, "\x00") {
		if entry == "" {
			continue
		}

		info, path, ok := strings.Cut(entry, "\t")
		if !ok {
			return nil, errors.Errorf("invalid ls-tree output: %q", entry)
		}

		fields := strings.Fields(info)
		if len(fields) != 3 {
			return nil, errors.Errorf("invalid ls-tree output: %q", entry)
		}

		if fields[1] == submoduleType {
			continue
		}
		if fields[0] == symlinkMode {
			s.symlinks.Insert(path)
		}

		result = append(result, path)
	}

	return result, nil
}

func (s *ExecSource) Blame(ctx context.Context, path string) ([]Line, error) {
	if s.empty {
		return nil, errors.Wrapf(ErrNotBlameable, "%v: repository has no commits", path)
	}
	if s.symlinks.Contains(path) {
		return nil, errors.Wrapf(ErrNotBlameable, "%v: not a regular file", path)
	}

	out, err := s.run(ctx, s.root, "blame", "--line-porcelain", "HEAD", "--", path)
	if err != nil {
		return nil, err
	}

	lines, err := parseLinePorcelain(strings.NewReader(out))
	if err != nil {
		return nil, errors.Wrapf(err, "%v", path)
	}

	texts := lo.Map(lines, func(l Line, _ int) string { return l.Text })
	if enry.IsBinary([]byte(strings.Join(texts, "\n"))) {
		return nil, errors.Wrapf(ErrNotBlameable, "%v: binary file", path)
	}

	return lines, nil
}

func (s *ExecSource) DefaultEmail(ctx context.Context) (string, error) {
	out, err := s.run(ctx, s.root, "config", "user.email")
	if err != nil {
		return "", errors.Wrapf(err, "no user.email configured in git")
	}

	email := strings.TrimSpace(out)
	if email == "" {
		return "", errors.New("no user.email configured in git")
	}

	return email, nil
}

func (s *ExecSource) Close() error {
	return nil
}
