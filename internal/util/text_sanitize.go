package util

import "strings"

// SanitizeText strips bytes that PDF extractors and OCR engines are known to
// leak into output (NUL / 0x00 especially) plus non-printing control
// characters, keeping ordinary whitespace.
func SanitizeText(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "\x00", "")

	r := make([]rune, 0, len(s))
	for _, ch := range s {
		if ch == '\n' || ch == '\r' || ch == '\t' {
			r = append(r, ch)
			continue
		}
		if ch < 0x20 {
			continue
		}
		r = append(r, ch)
	}
	return strings.TrimSpace(string(r))
}
