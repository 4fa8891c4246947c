package extract

import "strings"

// cleanModelJSON strips markdown fences and surrounding junk from model
// output. Structured output should already be bare JSON; this guards
// against models that wrap the payload anyway.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	// If junk still surrounds the JSON value, keep only the outermost
	// object or array.
	start := strings.IndexAny(s, "{[")
	if start == -1 {
		return s
	}
	var closer string
	if s[start] == '{' {
		closer = "}"
	} else {
		closer = "]"
	}
	if end := strings.LastIndex(s, closer); end > start {
		s = strings.TrimSpace(s[start : end+1])
	}

	return s
}
