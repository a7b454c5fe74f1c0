// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package tool builds the uv command lines for the Python tools tire wraps
// and runs them, forwarding their exit codes.
package tool
