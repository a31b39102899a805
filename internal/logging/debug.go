package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

var (
	mu        sync.Mutex
	out       io.Writer = os.Stderr
	debugFlag atomic.Bool
)

// DebugEnabled reports whether debug output is on. The flag is set from
// the parsed configuration (TODO_DEBUG or --debug) through SetDebug.
func DebugEnabled() bool {
	return debugFlag.Load()
}

// SetDebug turns debug output on or off
func SetDebug(enabled bool) {
	debugFlag.Store(enabled)
}

// SetOutput redirects all log output and returns a function restoring the previous writer
func SetOutput(w io.Writer) func() {
	mu.Lock()
	prev := out
	out = w
	mu.Unlock()
	return func() {
		mu.Lock()
		out = prev
		mu.Unlock()
	}
}

// Debugf prints a formatted debug message only if debug mode is enabled
func Debugf(format string, args ...interface{}) {
	if DebugEnabled() {
		write("DEBUG", fmt.Sprintf(format, args...))
	}
}

// Infof prints a formatted informational message
func Infof(format string, args ...interface{}) {
	write("INFO", fmt.Sprintf(format, args...))
}

// Errorf prints a formatted error message
func Errorf(format string, args ...interface{}) {
	write("ERROR", fmt.Sprintf(format, args...))
}

func write(level, msg string) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(out, "%s %-5s %s\n", time.Now().UTC().Format(time.RFC3339), level, msg)
}
