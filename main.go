// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/NiklasRosenstein/tire/internal/command"
	"github.com/NiklasRosenstein/tire/internal/config"
	"github.com/NiklasRosenstein/tire/internal/log"
	"github.com/NiklasRosenstein/tire/internal/tool"
	"github.com/NiklasRosenstein/tire/internal/version"
)

var ctx = context.Background()

// passthroughCommands receive their arguments verbatim. For run, @name is a
// package target and not an argument set.
var passthroughCommands = []string{"run", "add", "completion"}

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
// Arguments after a passthrough command belong to that command.
func handleVersion(args []string) bool {
	for i, a := range args {
		if i == 1 && slices.Contains(passthroughCommands, a) {
			return false
		}
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return true
		}
	}
	return false
}

// handleNakedCommand appends --help if no command is provided.
func handleNakedCommand(args []string) []string {
	if len(args) <= 1 {
		return append(args, "--help")
	}
	return args
}

// processCommandArgs handles command-specific argument processing.
func processCommandArgs(args []string) []string {
	if len(args) > 1 && slices.Contains(passthroughCommands, args[1]) {
		return args
	}

	args = processSetOnly(args)
	log.Debugf("args after set processing: args=%v", args)
	return args
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(args []string) int {
	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		return exitCode(os.Stderr, err)
	}

	return 0
}

// exitCode reports err on w and maps it to the process exit code. A failed
// tool forwards its own code.
func exitCode(w io.Writer, err error) int {
	var exitErr *tool.ExitError
	if errors.As(err, &exitErr) {
		fmt.Fprintln(w, exitErr)
		log.Debugf("tool exit: program=%s code=%d", exitErr.Program, exitErr.Code)
		return exitErr.Status()
	}

	fmt.Fprintln(w, err)
	log.Debugf("app run err: err=%v", err)
	return 2
}

func realMain() int {
	log.InitLogger()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return 0
	}

	args = handleNakedCommand(args)

	// If --help appears anywhere, skip command processing and let the CLI handle it.
	helpFound := false
	for _, a := range args {
		if a == "--help" || a == "-h" {
			helpFound = true
			break
		}
	}

	if !helpFound {
		args = processCommandArgs(args)
	}

	return initAndRunApp(args)
}

// processSetOnly handles the @set logic for all commands, expanding set
// arguments at the @set position. Sets are read from <command>.<set> in
// tire.yaml; each entry may hold several whitespace separated arguments.
func processSetOnly(args []string) []string {
	if len(args) < 3 { //nolint:mnd
		return args
	}

	// Look for an explicit @set argument starting from index 2.
	idx := 2
	removeIdx := -1
	set := ""
	for i, a := range args[idx:] {
		if strings.HasPrefix(a, "@") && len(a) > 1 {
			set = a[1:]
			removeIdx = idx + i
			break
		}
	}
	if removeIdx == -1 {
		return args
	}

	setArgs, err := config.GetStringSlice(args[1] + "." + set)
	if err != nil {
		log.Warnf("argument set %s.%s not found in config", args[1], set)
	}

	return injectConfigSet(args, setArgs, removeIdx)
}

// injectConfigSet replaces args[at] with the whitespace separated fields of
// entries.
func injectConfigSet(args []string, entries []string, at int) []string {
	var expanded []string
	for _, entry := range entries {
		expanded = append(expanded, strings.Fields(entry)...)
	}

	out := make([]string, 0, len(args)-1+len(expanded))
	out = append(out, args[:at]...)
	out = append(out, expanded...)
	return append(out, args[at+1:]...)
}
