// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/NiklasRosenstein/tire/internal/document"
)

// Formats lists the accepted --output values for documents.
var Formats = []string{"toml", "json", "yaml"}

// Render writes doc to w in the given format. If w is nil, os.Stdout is used.
func Render(w io.Writer, doc document.Document, format string) error {
	if w == nil {
		w = os.Stdout
	}

	var (
		out []byte
		err error
	)
	switch format {
	case "", "toml":
		out, err = doc.Marshal()
	case "json":
		out, err = doc.JSON()
		out = append(out, '\n')
	case "yaml":
		out, err = toYAML(doc)
	default:
		return fmt.Errorf("invalid output format %q: must be one of %v", format, Formats)
	}
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", format, err)
	}

	_, err = w.Write(out)
	return err
}

// toYAML goes through the JSON view so datetimes render as strings and key
// order follows the sorted JSON encoding.
func toYAML(doc document.Document) ([]byte, error) {
	j, err := doc.JSON()
	if err != nil {
		return nil, err
	}
	var ordered yaml.MapSlice
	if err := yaml.Unmarshal(j, &ordered); err != nil {
		return nil, err
	}
	return yaml.Marshal(ordered)
}

// InterfaceToString converts supported primitive or composite values to a
// string. A custom empty value may be provided.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	if value == nil || reflect.ValueOf(value).IsZero() {
		return emptyValue[0]
	}

	switch value := value.(type) {
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	case time.Time:
		return value.Format(time.RFC3339)
	case fmt.Stringer:
		return value.String()
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}
