// Package validation holds checks shared by event input and configuration.
package validation

import (
	"fmt"
	"net/url"
	"strings"
)

// URLError reports why a URL was rejected.
type URLError struct {
	Field   string
	Message string
	URL     string
}

func (e URLError) Error() string {
	return fmt.Sprintf("%s: %s (url: %s)", e.Field, e.Message, e.URL)
}

// ValidateURL accepts an absolute http or https URL. An empty value is
// accepted; required-ness is the caller's concern.
func ValidateURL(raw, field string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return URLError{Field: field, Message: "invalid URL format", URL: raw}
	}
	switch {
	case u.Scheme == "":
		return URLError{Field: field, Message: "URL must include a scheme (http:// or https://)", URL: raw}
	case u.Host == "":
		return URLError{Field: field, Message: "URL must include a host", URL: raw}
	}
	if scheme := strings.ToLower(u.Scheme); scheme != "http" && scheme != "https" {
		return URLError{Field: field, Message: "URL scheme must be http or https", URL: raw}
	}
	return nil
}

// ValidateOrigin accepts a browser origin: scheme and host with no path,
// query or fragment.
func ValidateOrigin(raw, field string) error {
	if err := ValidateURL(raw, field); err != nil || raw == "" {
		return err
	}
	u, _ := url.Parse(raw)
	switch {
	case u.Path != "" && u.Path != "/":
		return URLError{Field: field, Message: "origin must not contain a path", URL: raw}
	case u.RawQuery != "":
		return URLError{Field: field, Message: "origin must not contain query parameters", URL: raw}
	case u.Fragment != "":
		return URLError{Field: field, Message: "origin must not contain a fragment", URL: raw}
	}
	return nil
}
