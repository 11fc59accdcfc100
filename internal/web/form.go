package web

import "strings"

// MaxBodyBytes is the cap on POST bodies; larger or empty
// bodies are rejected with HTTP 400.
const MaxBodyBytes = 2048

// parseForm decodes an application/x-www-form-urlencoded body into a
// field map. Later occurrences of a key overwrite earlier ones.
func parseForm(body string) map[string]string {
	fields := make(map[string]string)
	for _, pair := range strings.Split(body, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		fields[QueryUnescape(key)] = QueryUnescape(value)
	}
	return fields
}
