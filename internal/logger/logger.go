package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Serializes writes from the announcer and the signal path
type syncWriter struct {
	mu     sync.Mutex
	writer io.Writer
}

func (s *syncWriter) Write(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writer.Write(p)
}

// Logger is a wrapper around log.Logger with the following features:
//   - Supports a prefix
//   - Adds colors to the output when it is a terminal
//   - Debug mode (debug lines are dropped unless IsDebug is set)
//
// It never writes to stdout; stdout belongs to the announced path.
type Logger struct {
	// IsDebug is used to determine whether to emit debug logs.
	IsDebug bool

	prefix  string
	noColor bool
	logger  *log.Logger
}

// New returns a logger writing to w. Colors are only used when w is a
// terminal.
func New(w io.Writer, isDebug bool, prefix string) *Logger {
	l := &Logger{
		IsDebug: isDebug,
		prefix:  prefix,
		noColor: !isTerminal(w),
	}
	l.logger = log.New(&syncWriter{writer: w}, l.paint(color.FgYellow, prefix), 0)
	return l
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (l *Logger) paint(attr color.Attribute, s string) string {
	if l.noColor {
		return s
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(s)
}

func (l *Logger) emit(attr color.Attribute, fstring string, args ...any) {
	l.emitln(attr, fmt.Sprintf(fstring, args...))
}

func (l *Logger) emitln(attr color.Attribute, msg string) {
	for _, line := range strings.Split(msg, "\n") {
		l.logger.Println(l.paint(attr, line))
	}
}

func (l *Logger) Errorf(fstring string, args ...any) {
	l.emit(color.FgHiRed, fstring, args...)
}

// Errorln logs msg as is, without format expansion.
func (l *Logger) Errorln(msg string) {
	l.emitln(color.FgHiRed, msg)
}

func (l *Logger) Debugf(fstring string, args ...any) {
	if !l.IsDebug {
		return
	}
	l.emit(color.FgCyan, fstring, args...)
}

// Discard returns a logger that drops everything. Used by tests and
// library callers that do not care about logs.
func Discard() *Logger {
	return New(io.Discard, false, "")
}
