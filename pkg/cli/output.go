package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// OutputFormat selects how a command prints its result.
type OutputFormat string

const (
	// FormatText prints the value's String form (default).
	FormatText OutputFormat = "text"
	// FormatJSON prints indented JSON.
	FormatJSON OutputFormat = "json"
)

// ParseOutputFormat validates an --output flag value. Empty means text.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text or json)", s)
	}
}

// Print writes v to w in format. Text output relies on fmt's %v, so
// values that implement fmt.Stringer control their own rendering.
func Print(w io.Writer, format OutputFormat, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatText, "":
		_, err := fmt.Fprintf(w, "%v\n", v)
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
