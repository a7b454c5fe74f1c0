// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/apex/log"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
	"golang.org/x/term"

	"github.com/NiklasRosenstein/tire/internal/document"
)

// Options control how a diff is rendered.
type Options struct {
	// Coloring enables ANSI colors in the output.
	Coloring bool
	// Filter lists top-level keys dropped from both sides before comparing.
	Filter []string
}

// Diff compares two documents and writes the differences from left to right
// to w. It reports whether the documents differ.
func Diff(w io.Writer, left, right document.Document, opts Options) (bool, error) {
	log.Debugf(">> differ()")

	if w == nil {
		w = os.Stdout
	}

	lj, err := filtered(left, opts.Filter).JSON()
	if err != nil {
		return false, fmt.Errorf("failed to encode left document: %w", err)
	}
	rj, err := filtered(right, opts.Filter).JSON()
	if err != nil {
		return false, fmt.Errorf("failed to encode right document: %w", err)
	}

	log.Debugf("len(documents): %d %d", len(lj), len(rj))

	delta, err := gojsondiff.New().Compare(lj, rj)
	if err != nil {
		return false, fmt.Errorf("failed to compare documents: %w", err)
	}

	if !delta.Modified() {
		fmt.Fprintln(w, "The documents are identical.")
		return false, nil
	}

	var jdoc map[string]interface{}
	if err := json.Unmarshal(lj, &jdoc); err != nil {
		return false, fmt.Errorf("failed to unmarshal document: %w", err)
	}

	config := formatter.AsciiFormatterConfig{
		ShowArrayIndex: false,
		Coloring:       opts.Coloring,
	}

	diffString, err := formatter.NewAsciiFormatter(jdoc, config).Format(delta)
	if err != nil {
		return false, err
	}

	fmt.Fprint(w, diffString)
	return true, nil
}

// IsTerminal reports whether f is attached to a terminal, which is when
// colored output makes sense.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec
}

func filtered(doc document.Document, keys []string) document.Document {
	if len(keys) == 0 || doc == nil {
		return doc
	}
	out := make(document.Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}
