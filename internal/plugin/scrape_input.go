package plugin

import (
	"encoding/json"
	"io"
	"strings"
)

// ReadScrapeURL extracts the URL from scraper-mode stdin. The host sends a
// JSON object, but a bare JSON string or raw URL is accepted too.
func ReadScrapeURL(r io.Reader) string {
	raw, err := io.ReadAll(r)
	if err != nil {
		return ""
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return ""
	}

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(text), &obj); err == nil {
		for _, key := range []string{"url", "URL", "Url"} {
			if v, ok := obj[key].(string); ok && v != "" {
				return v
			}
		}
		return ""
	}

	var str string
	if err := json.Unmarshal([]byte(text), &str); err == nil {
		return str
	}

	return strings.Trim(text, `"`)
}
