package output

import (
	"encoding/json"
	"io"

	"github.com/jfelder/codesweep/internal/report"
)

// JSONWriter outputs the result as indented JSON.
type JSONWriter struct{}

func (j *JSONWriter) Write(w io.Writer, result report.DirectoryResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
