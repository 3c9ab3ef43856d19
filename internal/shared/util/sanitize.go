package util

import "strings"

// MaxErrorLen caps error text written to logs and response bodies.
const MaxErrorLen = 500

// SanitizeError flattens err to a single line of at most MaxErrorLen bytes.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.NewReplacer("\n", " ", "\r", " ").Replace(err.Error())
	msg = strings.TrimSpace(msg)
	if len(msg) > MaxErrorLen {
		msg = msg[:MaxErrorLen]
	}
	return msg
}
