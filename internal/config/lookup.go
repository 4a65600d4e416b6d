package config

import (
	"strings"
)

// Lookup resolves key from environ ("KEY=value" entries, as returned by os.Environ)
// and falls back to fileLines in .env format. The environment wins when both define
// the key. Environment keys match exactly; file keys match case-insensitively.
// Empty values are treated as absent.
func Lookup(key string, environ []string, fileLines []string) (string, bool) {
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k != key {
			continue
		}
		if v = strings.TrimSpace(v); v != "" {
			return v, true
		}
	}

	if v, ok := ParseLines(fileLines)[strings.ToLower(key)]; ok && v != "" {
		return v, true
	}

	return "", false
}

// ParseLines parses .env formatted lines into a map keyed by lower-cased key.
// Blank lines, # comments and lines without a key are skipped. The first
// occurrence of a key wins. A value wrapped in matching quotes is unquoted.
func ParseLines(lines []string) map[string]string {
	values := make(map[string]string)

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		k, v, ok := strings.Cut(trimmed, "=")
		if !ok {
			continue
		}
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if _, seen := values[k]; seen {
			continue
		}

		values[k] = unquote(strings.TrimSpace(v))
	}

	return values
}

// SplitLines splits file contents into lines, accepting \n and \r\n endings
func SplitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.Split(text, "\n")
}

func unquote(v string) string {
	if len(v) >= 2 {
		first, last := v[0], v[len(v)-1]
		if (first == '"' || first == '\'') && first == last {
			return v[1 : len(v)-1]
		}
	}
	return v
}
