// Package common holds small helpers shared by the platform adapters.
package common

import (
	"net/url"
	"strings"
)

// QueryComponent percent-encodes a deep-link query value. Spaces become
// %20 rather than +, which is what the messaging platforms' universal
// link parsers expect.
func QueryComponent(value string) string {
	return strings.ReplaceAll(url.QueryEscape(value), "+", "%20")
}

// DigitsOnly strips every non-digit rune, e.g. "+1 (555) 123-4567" to
// "15551234567".
func DigitsOnly(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
