package loc

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hhatto/gocloc"
	"github.com/pkg/errors"
)

type LineType int

const (
	CodeLine LineType = iota
	CommentLine
	BlankLine
)

// Classify tells, for each line of a file, if it is code, comment or blank. The language is
// detected from the file name. For unknown languages only empty lines are blank and everything
// else is code.
func Classify(path string, lines []string) ([]LineType, error) {
	if len(lines) == 0 {
		return nil, nil
	}

	tmp, err := os.CreateTemp("", "claim-*-"+filepath.Base(path))
	if err != nil {
		return nil, errors.Wrapf(err, "error computing lines of code")
	}

	defer os.Remove(tmp.Name())

	{
		defer tmp.Close()

		_, err = tmp.WriteString(strings.Join(lines, "\n") + "\n")
		if err != nil {
			return nil, errors.Wrapf(err, "error computing lines of code")
		}
	}

	languages := gocloc.NewDefinedLanguages()
	options := gocloc.NewClocOptions()

	result := make([]LineType, 0, len(lines))
	options.OnCode = func(line string) {
		result = append(result, CodeLine)
	}
	options.OnComment = func(line string) {
		result = append(result, CommentLine)
	}
	options.OnBlank = func(line string) {
		result = append(result, BlankLine)
	}

	processor := gocloc.NewProcessor(languages, options)
	_, err = processor.Analyze([]string{tmp.Name()})
	if err != nil {
		return nil, errors.Wrapf(err, "error computing lines of code")
	}

	if len(result) != len(lines) {
		return classifyBlanks(lines), nil
	}

	return result, nil
}

func classifyBlanks(lines []string) []LineType {
	result := make([]LineType, len(lines))
	for i, l := range lines {
		if strings.TrimSpace(l) == "" {
			result[i] = BlankLine
		} else {
			result[i] = CodeLine
		}
	}
	return result
}
