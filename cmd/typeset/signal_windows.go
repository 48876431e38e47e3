//go:build windows

package main

import (
	"context"
	"os"
	"os/signal"
)

// interruptContext derives a context canceled on interrupt so an in-flight
// batch can stop between documents. SIGTERM does not exist on Windows, so
// only os.Interrupt is watched. The returned stop func restores default
// signal handling.
func interruptContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt)
}
