package core

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"
)

var (
	crashMu      sync.Mutex
	crashCleanup []func()
)

// OnCrash registers fn to run before a crash report is printed, e.g. restoring the terminal
// Hooks run in reverse registration order
func OnCrash(fn func()) {
	if fn == nil {
		return
	}
	crashMu.Lock()
	crashCleanup = append(crashCleanup, fn)
	crashMu.Unlock()
}

// HandleCrash runs the crash hooks, prints r with the stack to stderr and exits
// Call from a deferred recover in main
func HandleCrash(r any) {
	if r == nil {
		return
	}
	reportCrash(os.Stderr, r)
	os.Exit(1)
}

func reportCrash(w io.Writer, r any) {
	crashMu.Lock()
	hooks := crashCleanup
	crashCleanup = nil
	crashMu.Unlock()

	for i := len(hooks) - 1; i >= 0; i-- {
		// A failing hook must not hide the original panic
		Guard(nil, "crash hook", hooks[i])
	}

	fmt.Fprintf(w, "\r\n\x1b[31mCRASH DETECTED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(w, "Stack Trace:\r\n%s\r\n", debug.Stack())
}
