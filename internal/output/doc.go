// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output provides rendering, querying and sorting utilities used by
// commands to present documents and listings in various formats.
package output
