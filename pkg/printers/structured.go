// Package printers renders command output as colored tables, JSON or YAML.
package printers

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

// Format selects how results are written.
type Format string

const (
	FormatPretty Format = ""
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
)

// Structured writes v as JSON or YAML. JSON tags drive both encodings so
// the YAML keys match the backend wire names.
func Structured(w io.Writer, format Format, v any) error {
	if w == nil {
		w = color.Output
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("printers: encode: %w", err)
	}
	switch format {
	case FormatYAML:
		var generic any
		if err := yaml.Unmarshal(b, &generic); err != nil {
			return fmt.Errorf("printers: convert to yaml: %w", err)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return fmt.Errorf("printers: encode yaml: %w", err)
		}
		return enc.Close()
	default:
		_, err = fmt.Fprintln(w, string(b))
		return err
	}
}
