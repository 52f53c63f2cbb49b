// Package debug is sn's diagnostic log. It is silent unless SN_DEBUG is set:
//
//	SN_DEBUG=1 sn --tree
//
// Output goes to stderr. Inside the TUI it must be redirected with SetOutput
// so it does not draw over the alternate screen.
package debug

import (
	"io"
	"log"
	"os"
	"sync/atomic"
	"time"
)

var (
	enabled atomic.Bool
	logger  = log.New(os.Stderr, "[SN_DEBUG] ", log.Ltime|log.Lmicroseconds)
)

func init() {
	enabled.Store(os.Getenv("SN_DEBUG") != "")
}

// Enabled reports whether messages are written.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled turns logging on or off at runtime.
func SetEnabled(e bool) {
	enabled.Store(e)
}

// SetOutput redirects messages.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// Log writes a formatted message.
func Log(format string, args ...any) {
	if enabled.Load() {
		logger.Printf(format, args...)
	}
}

// LogTiming records how long name took.
func LogTiming(name string, d time.Duration) {
	if enabled.Load() {
		logger.Printf("%s took %v", name, d)
	}
}

// LogEnterExit logs entry now and exit with the elapsed time when the
// returned func runs:
//
//	defer debug.LogEnterExit("loader.FetchTree")()
func LogEnterExit(name string) func() {
	if !enabled.Load() {
		return func() {}
	}
	logger.Printf("-> %s", name)
	start := time.Now()
	return func() {
		logger.Printf("<- %s (%v)", name, time.Since(start))
	}
}
