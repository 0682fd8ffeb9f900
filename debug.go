// Copyright 2021 Jonathan Amsterdam.

package cli

import (
	"context"
	"os"
	"strings"
	"time"
)

// debuggerAttached reports whether a debugger is tracing the process.
// Where that cannot be determined, it reports true so that nothing waits forever.
var debuggerAttached = func() bool {
	data, err := os.ReadFile("/proc/self/status")
	if err != nil {
		return true
	}
	for _, line := range strings.Split(string(data), "\n") {
		if pid, ok := strings.CutPrefix(line, "TracerPid:"); ok {
			return strings.TrimSpace(pid) != "0"
		}
	}
	return true
}

// waitForDebugger blocks until a debugger attaches or ctx is done.
func (a *App) waitForDebugger(ctx context.Context) error {
	a.logger.Warn("Attach a debugger to continue", "pid", os.Getpid())
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for !debuggerAttached() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	a.logger.Info("Debugger attached")
	return nil
}
