package core

import (
	"strings"
	"time"
)

// DateLayout is how dates are shown to users (dd/mm/yyyy).
const DateLayout = "02/01/2006"

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// FormatDate formats t with DateLayout in the local timezone; the zero time gives "".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(DateLayout)
}
