package consoles

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

type Verbosity int

const (
	Quiet Verbosity = iota
	Info
	Debug
)

type writerConsole struct {
	mutex     sync.Mutex
	out       io.Writer
	verbosity Verbosity
	prefixes  []string
	now       func() time.Time
}

func NewStdErrConsole(verbosity Verbosity) Console {
	return NewWriterConsole(os.Stderr, verbosity)
}

func NewWriterConsole(out io.Writer, verbosity Verbosity) Console {
	return &writerConsole{
		out:       out,
		verbosity: verbosity,
		now:       time.Now,
	}
}

func (o *writerConsole) Printf(format string, a ...any) {
	if o.verbosity >= Info {
		o.print("", format, a...)
	}
}

func (o *writerConsole) Debugf(format string, a ...any) {
	if o.verbosity >= Debug {
		o.print("", format, a...)
	}
}

func (o *writerConsole) Warnf(format string, a ...any) {
	o.print("WARN ", format, a...)
}

func (o *writerConsole) print(level string, format string, a ...any) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	builder := strings.Builder{}
	builder.WriteString("[")
	builder.WriteString(o.now().Format("15:04:05"))
	builder.WriteString("] ")
	builder.WriteString(level)
	for _, prefix := range o.prefixes {
		builder.WriteString(prefix)
	}
	builder.WriteString(fmt.Sprintf(format, a...))
	if !strings.HasSuffix(format, "\n") {
		builder.WriteString("\n")
	}

	_, _ = io.WriteString(o.out, builder.String())
}

func (o *writerConsole) PushPrefix(format string, a ...any) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.prefixes = append(o.prefixes, fmt.Sprintf(format, a...))
}

func (o *writerConsole) PopPrefix() {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if len(o.prefixes) > 0 {
		o.prefixes = o.prefixes[:len(o.prefixes)-1]
	}
}
