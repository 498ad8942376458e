package messaging

import "strings"

// NormalizePhone ensures the number carries a leading +.
// WhatsApp delivers sender ids without the plus; stored numbers keep it.
// The function is idempotent.
func NormalizePhone(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if strings.HasPrefix(value, "+") {
		return value
	}
	return "+" + value
}
