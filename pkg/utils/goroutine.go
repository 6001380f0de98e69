package utils

import (
	"context"
	"runtime/debug"

	"golang-finance-rag/pkg/logger"
)

// GoSafe runs fn in a goroutine and recovers panics so one bad worker does
// not take down the process.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				debug.PrintStack()
			}
		}()
		fn()
	}()
}

// ShouldContinue reports whether the context is still alive, logging when it
// is not so aborted fan-outs are visible.
func ShouldContinue(ctx context.Context, log *logger.Logger) bool {
	select {
	case <-ctx.Done():
		if log != nil {
			log.Warn("Context cancelled, stopping work", logger.ErrorField(ctx.Err()))
		}
		return false
	default:
		return true
	}
}
