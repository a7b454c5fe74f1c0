// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/NiklasRosenstein/tire/internal/log"
)

// ExitError reports a tool that exited with a non-zero status. The caller is
// expected to exit with the same status once any cleanup has run.
type ExitError struct {
	Program string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command `%s` exited with code %d", e.Program, e.Code)
}

// Status returns the exit code to forward.
func (e *ExitError) Status() int {
	return e.Code
}

// Runner spawns tool processes.
type Runner struct {
	// Dir is the working directory of spawned processes. Empty means the
	// current directory.
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// DryRun prints command lines without running them.
	DryRun bool
}

// NewRunner returns a Runner wired to the process's standard streams.
func NewRunner(dir string) *Runner {
	return &Runner{Dir: dir, Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run executes argv and waits for it. Exit codes listed in allowed are
// treated as success; any other non-zero code is returned as *ExitError.
func (r *Runner) Run(ctx context.Context, argv []string, allowed ...int) error {
	if len(argv) == 0 {
		return errors.New("empty command line")
	}

	fmt.Fprintf(r.stderr(), "[tire] $ %s\n", strings.Join(argv, " "))
	if r.DryRun {
		return nil
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec
	cmd.Dir = r.Dir
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return fmt.Errorf("failed to run program `%s`: %w", argv[0], err)
	}

	code := exitErr.ExitCode()
	if slices.Contains(allowed, code) {
		log.Debugf("program %s exited with tolerated code %d", argv[0], code)
		return nil
	}
	if code < 0 {
		code = 1
	}
	return &ExitError{Program: argv[0], Code: code}
}

// RunAll runs each command line in order and stops at the first failure.
func (r *Runner) RunAll(ctx context.Context, argvs [][]string, allowed ...int) error {
	for _, argv := range argvs {
		if err := r.Run(ctx, argv, allowed...); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) stderr() io.Writer {
	if r.Stderr == nil {
		return os.Stderr
	}
	return r.Stderr
}
