package blame

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// MemorySource serves blame data that is already known. Files listed in Failures are listed
// but fail to blame.
type MemorySource struct {
	RootDir  string
	Email    string
	Files    map[string][]Line
	Failures map[string]error
}

func (s *MemorySource) Root() string {
	return s.RootDir
}

func (s *MemorySource) ListFiles(_ context.Context) ([]string, error) {
	result := append(lo.Keys(s.Files), lo.Keys(s.Failures)...)
	sort.Strings(result)
	return result, nil
}

func (s *MemorySource) Blame(_ context.Context, path string) ([]Line, error) {
	if err, ok := s.Failures[path]; ok {
		return nil, err
	}

	lines, ok := s.Files[path]
	if !ok {
		return nil, errors.Errorf("file not found: %v", path)
	}

	return lines, nil
}

func (s *MemorySource) DefaultEmail(_ context.Context) (string, error) {
	if s.Email == "" {
		return "", errors.New("no user.email configured in git")
	}

	return s.Email, nil
}

func (s *MemorySource) Close() error {
	return nil
}
