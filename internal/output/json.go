package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// PrintJSON writes v as indented JSON. Round and Summary carry json tags,
// so they render without a separate wire struct.
func PrintJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
