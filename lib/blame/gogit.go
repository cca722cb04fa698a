package blame

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// GoGitSource blames using go-git. A go-git repository is not shared between goroutines, so
// every concurrent Blame call borrows its own handle from a pool.
type GoGitSource struct {
	root  string
	head  plumbing.Hash
	empty bool
	repos chan *git.Repository
}

func OpenGoGit(dir string) (*GoGitSource, error) {
	gitRepo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, errors.Wrapf(ErrRepositoryNotFound, "%v", dir)
	} else if err != nil {
		return nil, errors.Wrapf(err, "error opening git repository at %v", dir)
	}

	wt, err := gitRepo.Worktree()
	if err != nil {
		return nil, errors.Wrapf(err, "error opening worktree of %v", dir)
	}

	root, err := filepath.Abs(wt.Filesystem.Root())
	if err != nil {
		return nil, err
	}

	result := &GoGitSource{
		root:  root,
		repos: make(chan *git.Repository, 64),
	}

	gitHead, err := gitRepo.Head()
	switch {
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		result.empty = true
	case err != nil:
		return nil, errors.Wrapf(err, "error resolving HEAD of %v", root)
	default:
		result.head = gitHead.Hash()
	}

	result.release(gitRepo)

	return result, nil
}

func (s *GoGitSource) Root() string {
	return s.root
}

func (s *GoGitSource) acquire() (*git.Repository, error) {
	select {
	case gitRepo := <-s.repos:
		return gitRepo, nil
	default:
		return git.PlainOpen(s.root)
	}
}

func (s *GoGitSource) release(gitRepo *git.Repository) {
	select {
	case s.repos <- gitRepo:
	default:
	}
}

func (s *GoGitSource) headCommit(gitRepo *git.Repository) (*object.Commit, error) {
	return gitRepo.CommitObject(s.head)
}

func (s *GoGitSource) ListFiles(_ context.Context) ([]string, error) {
	if s.empty {
		return nil, nil
	}

	gitRepo, err := s.acquire()
	if err != nil {
		return nil, err
	}
	defer s.release(gitRepo)

	gitCommit, err := s.headCommit(gitRepo)
	if err != nil {
		return nil, err
	}

	gitTree, err := gitCommit.Tree()
	if err != nil {
		return nil, err
	}

	var result []string
	err = gitTree.Files().ForEach(func(file *object.File) error {
		result = append(result, file.Name)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "error listing files of %v", s.root)
	}

	return result, nil
}

func (s *GoGitSource) Blame(_ context.Context, path string) ([]Line, error) {
	if s.empty {
		return nil, errors.Wrapf(ErrNotBlameable, "%v: repository has no commits", path)
	}

	gitRepo, err := s.acquire()
	if err != nil {
		return nil, err
	}
	defer s.release(gitRepo)

	gitCommit, err := s.headCommit(gitRepo)
	if err != nil {
		return nil, err
	}

	file, err := gitCommit.File(path)
	if err != nil {
		return nil, errors.Wrapf(err, "%v", path)
	}

	if file.Mode == filemode.Symlink || file.Mode == filemode.Submodule {
		return nil, errors.Wrapf(ErrNotBlameable, "%v: not a regular file", path)
	}

	binary, err := file.IsBinary()
	if err != nil {
		return nil, errors.Wrapf(err, "%v", path)
	}
	if binary {
		return nil, errors.Wrapf(ErrNotBlameable, "%v: binary file", path)
	}

	result, err := git.Blame(gitCommit, path)
	if err != nil {
		return nil, errors.Wrapf(err, "error blaming %v", path)
	}

	return lo.Map(result.Lines, func(l *git.Line, _ int) Line {
		return Line{
			Name:  l.AuthorName,
			Email: l.Author,
			Date:  l.Date,
			Text:  l.Text,
		}
	}), nil
}

func (s *GoGitSource) DefaultEmail(_ context.Context) (string, error) {
	gitRepo, err := s.acquire()
	if err != nil {
		return "", err
	}
	defer s.release(gitRepo)

	cfg, err := gitRepo.ConfigScoped(config.SystemScope)
	if err != nil {
		return "", errors.Wrapf(err, "error reading git config")
	}

	email := strings.TrimSpace(cfg.User.Email)
	if email == "" {
		return "", errors.New("no user.email configured in git")
	}

	return email, nil
}

func (s *GoGitSource) Close() error {
	for {
		select {
		case <-s.repos:
		default:
			return nil
		}
	}
}
