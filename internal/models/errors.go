package models

import (
	"fmt"
	"strings"
)

// SchemaError reports a prediction file whose rows do not match the expected
// columns or types. Row is 1-based; zero means the problem is file-wide.
type SchemaError struct {
	File     string
	Row      int
	Problems []string
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("schema error")
	if e.File != "" {
		fmt.Fprintf(&b, " in %s", e.File)
	}
	if e.Row > 0 {
		fmt.Fprintf(&b, " at row %d", e.Row)
	}
	if len(e.Problems) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Problems, "; "))
	}
	return b.String()
}
