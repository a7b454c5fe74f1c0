// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Uv is the program every tool is launched through.
const Uv = "uv"

// StatusFileName is the dmypy status file kept beside a fixed configuration
// so runs from any subdirectory reuse the same daemon.
const StatusFileName = ".dmypy.json"

// NoTestsCollected is the pytest exit code for an empty test session.
const NoTestsCollected = 5

// CycloptsRequirement pins the wrapper used for module:function targets.
const CycloptsRequirement = "cyclopts>=3.0.0,<4.0.0"

var (
	// ErrUnsafeWithoutFix rejects --unsafe-fixes without --fix.
	ErrUnsafeWithoutFix = errors.New("--unsafe-fixes requires --fix")
	// ErrMissingTarget is returned by Run when no positional target is given.
	ErrMissingTarget = errors.New("missing positional argument: expected a script, module:function or @package")
	// ErrNotImplemented marks options that are accepted but not supported yet.
	ErrNotImplemented = errors.New("not implemented")
)

func withFiles(argv, files []string) []string {
	if len(files) == 0 {
		return append(argv, ".")
	}
	return append(argv, files...)
}

// Check returns the mypy command line for config.
func Check(config string, files []string) []string {
	argv := []string{Uv, "run", "--with", "mypy", "mypy", "--config-file", config}
	return withFiles(argv, files)
}

// DaemonCheck returns the dmypy command line for config, with the status
// file placed next to it.
func DaemonCheck(config string, files []string) []string {
	statusFile := filepath.Join(filepath.Dir(config), StatusFileName)
	argv := []string{Uv, "run", "--with", "mypy", "dmypy", "--status-file", statusFile,
		"run", "--", "--config-file", config}
	return withFiles(argv, files)
}

// Format returns the two ruff invocations of `tire fmt`: formatting, then
// import sorting. With check set nothing is rewritten.
func Format(config string, check bool, files []string) [][]string {
	format := []string{Uv, "run", "--with", "ruff", "ruff", "--config", config, "format"}
	if check {
		format = append(format, "--check")
	}

	isort := []string{Uv, "run", "--with", "ruff", "ruff", "--config", config, "check", "--select", "I"}
	if !check {
		isort = append(isort, "--fix")
	}

	return [][]string{withFiles(format, files), withFiles(isort, files)}
}

// Lint returns the ruff check command line for config.
func Lint(config string, fix, unsafeFixes bool, files []string) ([]string, error) {
	if unsafeFixes && !fix {
		return nil, ErrUnsafeWithoutFix
	}

	argv := []string{Uv, "run", "--with", "ruff", "ruff", "--config", config, "check"}
	if fix {
		argv = append(argv, "--fix")
		if unsafeFixes {
			argv = append(argv, "--unsafe-fixes")
		}
	}
	return withFiles(argv, files), nil
}

// TestOptions are the pytest settings of `tire test`.
type TestOptions struct {
	// Parallel is the xdist worker count; zero means auto.
	Parallel int
	// Filter is passed to -k when non-empty.
	Filter string
}

// Test returns the pytest command line for config.
func Test(config string, opts TestOptions, files []string) []string {
	workers := "auto"
	if opts.Parallel > 0 {
		workers = strconv.Itoa(opts.Parallel)
	}

	argv := []string{Uv, "run", "--with", "pytest", "--with", "pytest-xdist", "pytest",
		"--config-file", config, "-n", workers}
	if opts.Filter != "" {
		argv = append(argv, "-k", opts.Filter)
	}
	return withFiles(argv, files)
}

// Run returns the uv command line for `tire run`. Options before the first
// positional argument go to uv; the positional argument is the target and
// everything after it belongs to the target.
//
//	@pkg        runs the package's entry point of the same name
//	mod:func    wraps func in a cyclopts app
//	otherwise   uv run <target>
func Run(args []string) ([]string, error) {
	var (
		uvArgs     []string
		target     string
		targetArgs []string
	)
	for i, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			target = arg
			targetArgs = args[i+1:]
			break
		}
		uvArgs = append(uvArgs, arg)
	}
	if target == "" {
		return nil, ErrMissingTarget
	}

	argv := []string{Uv, "run"}
	switch {
	case strings.HasPrefix(target, "@"):
		pkg := strings.TrimPrefix(target, "@")
		argv = append(argv, "--with", pkg)
		argv = append(argv, uvArgs...)
		argv = append(argv, pkg)
	case strings.Contains(target, ":"):
		module, fn, _ := strings.Cut(target, ":")
		if module == "" || fn == "" {
			return nil, fmt.Errorf("invalid target %q: expected module:function", target)
		}
		code := fmt.Sprintf("import sys, cyclopts, %[1]s; "+
			"app = cyclopts.App(name='%[1]s:%[2]s', version_flags=[]); "+
			"app.default(%[1]s.%[2]s); "+
			"app();", module, fn)
		argv = append(argv, "--with", CycloptsRequirement)
		argv = append(argv, uvArgs...)
		argv = append(argv, "python", "-c", code)
	default:
		argv = append(argv, uvArgs...)
		argv = append(argv, target)
	}

	return append(argv, targetArgs...), nil
}

// Add returns the uv add command line.
func Add(args []string, auto bool) ([]string, error) {
	if auto {
		return nil, fmt.Errorf("tire add --auto: %w", ErrNotImplemented)
	}
	return append([]string{Uv, "add"}, args...), nil
}
