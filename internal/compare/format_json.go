package compare

import (
	"encoding/json"
	"io"
	"strings"
)

// JSONFormatter formats comparison results as JSON
type JSONFormatter struct {
	Pretty bool // If true, format with indentation
}

// Format generates JSON output for comparison results
func (jf *JSONFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	if err := jf.Encode(&sb, compSet); err != nil {
		return "", err
	}
	return strings.TrimSuffix(sb.String(), "\n"), nil
}

// Encode writes the comparison to w. Amounts are encoded as strings to keep
// their full precision.
func (jf *JSONFormatter) Encode(w io.Writer, compSet *ComparisonSet) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if jf.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(compSet)
}
