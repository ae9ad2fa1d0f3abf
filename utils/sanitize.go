package utils

import "github.com/microcosm-cc/bluemonday"

// Listing fields are plain text, so strip markup entirely.
var sanitizer = bluemonday.StrictPolicy()

// Sanitize removes HTML from user supplied content to prevent XSS attacks.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
