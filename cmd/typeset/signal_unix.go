//go:build !windows

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// interruptContext derives a context canceled on SIGINT or SIGTERM so an
// in-flight batch can stop between documents. The returned stop func restores
// default signal handling.
func interruptContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
