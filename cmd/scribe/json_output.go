package main

import (
	"encoding/json"
	"io"
)

// writeJSON renders v as indented JSON, the shape scripts consume when
// --json is set.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
