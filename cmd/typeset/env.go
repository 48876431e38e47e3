package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/ebookworks/go-typeset/internal/config"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Config *config.Config // Loaded once, shared across commands

	// BaseContext overrides the root context in tests; nil means Background.
	BaseContext context.Context
}

// DefaultEnv returns production dependencies.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Config: config.DefaultConfig(),
	}
}

// Context returns the root context for command execution.
func (e *Environment) Context() context.Context {
	if e.BaseContext != nil {
		return e.BaseContext
	}
	return context.Background()
}
