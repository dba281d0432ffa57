// Package telnet serves line-oriented arena sessions over the telnet
// protocol, with ANSI styling for capable clients.
package telnet

import (
	"fmt"
	"strings"
)

// Style is an ANSI SGR escape sequence. The zero Style paints nothing.
type Style string

const (
	Reset Style = "\033[0m"
	Bold  Style = "\033[1m"
	Dim   Style = "\033[2m"

	Red     Style = "\033[31m"
	Green   Style = "\033[32m"
	Yellow  Style = "\033[33m"
	Blue    Style = "\033[34m"
	Magenta Style = "\033[35m"
	Cyan    Style = "\033[36m"

	BrightRed    Style = "\033[91m"
	BrightGreen  Style = "\033[92m"
	BrightYellow Style = "\033[93m"
	BrightCyan   Style = "\033[96m"
	BrightWhite  Style = "\033[97m"
)

// Paint wraps text in s followed by Reset.
//
// Postcondition: StripANSI(s.Paint(text)) == StripANSI(text).
func (s Style) Paint(text string) string {
	if s == "" {
		return text
	}
	return string(s) + text + string(Reset)
}

// Paintf formats and paints in one step.
func (s Style) Paintf(format string, args ...any) string {
	return s.Paint(fmt.Sprintf(format, args...))
}

// StripANSI removes every ESC [ ... m sequence from s. An unterminated
// sequence is kept as text.
func StripANSI(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for {
		i := strings.Index(s, "\033[")
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		end := strings.IndexByte(s[i+2:], 'm')
		if end < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:i])
		s = s[i+2+end+1:]
	}
}
