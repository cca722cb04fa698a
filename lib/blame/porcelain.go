package blame

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// parseLinePorcelain reads the output of 'git blame --line-porcelain'.
func parseLinePorcelain(reader io.Reader) ([]Line, error) {
	var lines []Line

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	inHeader := false
	var current Line
	for scanner.Scan() {
		text := scanner.Text()

		if strings.HasPrefix(text, "\t") {
			if !inHeader {
				return nil, errors.Errorf("invalid blame output: line without header: %q", text)
			}

			current.Text = text[1:]
			lines = append(lines, current)
			inHeader = false
			continue
		}

		if !inHeader {
			fields := strings.Fields(text)
			if len(fields) < 3 || !isHash(fields[0]) {
				return nil, errors.Errorf("invalid blame output: expected commit header, got %q", text)
			}

			current = Line{}
			inHeader = true
			continue
		}

		key, value, _ := strings.Cut(text, " ")
		switch key {
		case "author":
			current.Name = value
		case "author-mail":
			current.Email = strings.TrimSuffix(strings.TrimPrefix(value, "<"), ">")
		case "author-time":
			seconds, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid blame output: author-time %q", value)
			}
			current.Date = time.Unix(seconds, 0).UTC()
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "error reading blame output")
	}
	if inHeader {
		return nil, errors.New("invalid blame output: header without line")
	}

	return lines, nil
}

func isHash(s string) bool {
	if len(s) < 40 {
		return false
	}

	for _, c := range s {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}

	return true
}
