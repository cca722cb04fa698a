package blame

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	t       *testing.T
	dir     string
	gitRepo *git.Repository
}

func newTestRepo(t *testing.T) *testRepo {
	dir := t.TempDir()

	gitRepo, err := git.PlainInit(dir, false)
	require.Nil(t, err)

	cfg, err := gitRepo.Config()
	require.Nil(t, err)
	cfg.User.Name = "Local User"
	cfg.User.Email = "local@example.com"
	require.Nil(t, gitRepo.SetConfig(cfg))

	return &testRepo{
		t:       t,
		dir:     dir,
		gitRepo: gitRepo,
	}
}

func (r *testRepo) write(path string, contents string) {
	full := filepath.Join(r.dir, filepath.FromSlash(path))
	require.Nil(r.t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.Nil(r.t, os.WriteFile(full, []byte(contents), 0o644))
}

func (r *testRepo) symlink(target string, path string) {
	require.Nil(r.t, os.Symlink(target, filepath.Join(r.dir, filepath.FromSlash(path))))
}

func (r *testRepo) commit(email string, when time.Time, paths ...string) {
	wt, err := r.gitRepo.Worktree()
	require.Nil(r.t, err)

	for _, path := range paths {
		_, err = wt.Add(path)
		require.Nil(r.t, err)
	}

	_, err = wt.Commit("change "+email, &git.CommitOptions{
		Author: &object.Signature{
			Name:  email,
			Email: email,
			When:  when,
		},
	})
	require.Nil(r.t, err)
}
