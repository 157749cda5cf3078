package render

import (
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	sectionHeaderStyle = color.New(color.Bold, color.FgHiWhite)
	hashStyle          = color.New(color.FgCyan)
	addressStyle       = color.New(color.FgWhite)
	faintStyle         = color.New(color.Faint)
	successStyle       = color.New(color.FgGreen)
	failureStyle       = color.New(color.FgRed)
	pendingStyle       = color.New(color.FgYellow)
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	// Extract just the error message part (after the last colon if it's an error chain)
	parts := strings.Split(message, ": ")
	msg := parts[len(parts)-1]

	// Capitalize first letter
	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}

	return color.New(color.FgRed).Sprintf("❌ %s", msg)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// humanize turns SCREAMING_SNAKE and camelCase identifiers into title case words
func humanize(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '_':
			b.WriteRune(' ')
		case i > 0 && r >= 'A' && r <= 'Z' && s[i-1] >= 'a' && s[i-1] <= 'z':
			b.WriteRune(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return cases.Title(language.English).String(strings.ToLower(b.String()))
}

// shorten keeps the head and tail of long hex strings
func shorten(s string, keep int) string {
	if len(s) <= 2*keep+3 {
		return s
	}
	return s[:keep] + "..." + s[len(s)-keep:]
}
