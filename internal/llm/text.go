package llm

import (
	"fmt"
	"strings"
)

// StripFences removes markdown code-fence lines (``` or ```json) that models
// wrap around machine-readable output.
func StripFences(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// ExtractJSON returns the span between the first open and last matching
// close delimiter, e.g. '{' and '}'.
func ExtractJSON(s string, openDelim, closeDelim byte) (string, error) {
	start := strings.IndexByte(s, openDelim)
	end := strings.LastIndexByte(s, closeDelim)
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON %c...%c found in response", openDelim, closeDelim)
	}
	return s[start : end+1], nil
}
