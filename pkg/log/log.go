package log

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// exit is swapped in tests.
var exit = os.Exit

// SetOutput redirects all levels, e.g. away from a terminal held in raw mode.
func SetOutput(w io.Writer) { log.SetOutput(w) }

func Fatal(v ...any) {
	output("[FATAL]", v)
	exit(1)
}

func Fatalf(format string, v ...any) {
	output("[FATAL]", []any{fmt.Sprintf(format, v...)})
	exit(1)
}

func Info(v ...any) { output("[INFO]", v) }

func Warn(v ...any) { output("[warn]", v) }

func Warnf(format string, v ...any) { output("[warn]", []any{fmt.Sprintf(format, v...)}) }

func output(level string, v []any) {
	args := make([]any, 0, len(v)+1)
	args = append(args, level)
	args = append(args, v...)
	log.Println(args...)
}

// Pending holds log lines written while the terminal is in raw mode, where
// they would land in the middle of the line being edited. Drain hands them
// over once the prompt has returned.
type Pending struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (p *Pending) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buf.Write(b)
}

// Drain returns everything written since the last call.
func (p *Pending) Drain() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.buf.String()
	p.buf.Reset()
	return s
}
