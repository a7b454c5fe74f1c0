// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/NiklasRosenstein/tire/internal/document"
)

// segmentRe matches one dotted path segment with an optional array index,
// e.g. "select" or "select[1]".
var segmentRe = regexp.MustCompile(`^([a-zA-Z0-9_-]+)(\[(\d+)\])?$`)

// Query evaluates path against the JSON view of doc. Paths without brackets
// are plain gjson paths (tool.ruff.line-length, tool.ruff.lint.select.#).
// Paths with brackets index arrays per segment, as in
// tool.ruff.lint.select[1].
func Query(doc document.Document, path string) (gjson.Result, error) {
	j, err := doc.JSON()
	if err != nil {
		return gjson.Result{}, err
	}

	if !strings.Contains(path, "[") {
		return gjson.GetBytes(j, path), nil
	}
	return drill(gjson.ParseBytes(j), path), nil
}

// drill navigates JSON one segment at a time. Any segment that does not parse
// or indexes past the end yields an empty result.
func drill(current gjson.Result, path string) gjson.Result {
	for _, p := range strings.Split(path, ".") {
		matches := segmentRe.FindStringSubmatch(p)
		if len(matches) == 0 {
			return gjson.Result{}
		}

		val := current.Get(matches[1])
		if matches[3] != "" {
			if !val.IsArray() {
				return gjson.Result{}
			}
			index, err := strconv.Atoi(matches[3])
			arr := val.Array()
			if err != nil || index >= len(arr) {
				return gjson.Result{}
			}
			val = arr[index]
		}

		current = val
	}

	return current
}
