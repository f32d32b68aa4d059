// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/validardoc/pkg/types"
)

// WriteYAML writes records to w as a YAML list.
func WriteYAML(w io.Writer, records []types.RunRecord) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(nonNil(records)); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// WriteJSON writes records to w as an indented JSON array.
func WriteJSON(w io.Writer, records []types.RunRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(nonNil(records)); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

func nonNil(records []types.RunRecord) []types.RunRecord {
	if records == nil {
		return []types.RunRecord{}
	}
	return records
}
