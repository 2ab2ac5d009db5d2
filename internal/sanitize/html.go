package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// strictPolicy removes all HTML tags and attributes.
	strictPolicy = bluemonday.StrictPolicy()

	// ugcPolicy keeps basic formatting (<p>, <b>, <em>, <a>, lists) for long
	// free text such as event descriptions.
	ugcPolicy = bluemonday.UGCPolicy()
)

// Text strips all markup and surrounding whitespace. Entities produced by the
// policy are decoded again so stored values stay plain text.
// Use for: event names, locations, times, feedback comments.
func Text(input string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(input)))
}

// RichText sanitizes markup while keeping safe formatting tags.
// Use for: event descriptions.
func RichText(input string) string {
	return strings.TrimSpace(ugcPolicy.Sanitize(input))
}

// TextSlice sanitizes each string in a slice and drops entries left empty.
func TextSlice(inputs []string) []string {
	if inputs == nil {
		return nil
	}
	sanitized := make([]string, 0, len(inputs))
	for _, input := range inputs {
		if clean := Text(input); clean != "" {
			sanitized = append(sanitized, clean)
		}
	}
	return sanitized
}
