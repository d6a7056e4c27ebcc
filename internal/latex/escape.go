// Package latex renders a Resume as a LaTeX document.
package latex

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// escaper replaces LaTeX special characters in a single pass, so the braces
// and backslashes it emits are never escaped a second time.
var escaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// Escape makes user-supplied text safe to embed in LaTeX source.
func Escape(text string) string {
	return escaper.Replace(text)
}

// urlEscaper handles the characters hyperref cannot take verbatim in a link
// target. Everything else, "~" and "_" included, must reach the URL unchanged.
var urlEscaper = strings.NewReplacer(
	`%`, `\%`,
	`#`, `\#`,
	`{`, `\{`,
	`}`, `\}`,
)

// EscapeURL prepares a URL for the first argument of \href.
func EscapeURL(link string) string {
	return urlEscaper.Replace(strings.TrimSpace(link))
}

// glyphMarkers are never part of the text itself and are stripped wherever
// they start an item.
const glyphMarkers = "•‣▪●·"

// dashMarkers only mark a bullet when whitespace follows, so "-5% latency"
// and "*nix" keep their first character.
const dashMarkers = "-*–—"

// StripBullet removes leading bullet markers so the rendered list does not
// show two glyphs per item.
func StripBullet(text string) string {
	s := strings.TrimSpace(text)
	for s != "" {
		r, size := utf8.DecodeRuneInString(s)
		rest := s[size:]
		switch {
		case strings.ContainsRune(glyphMarkers, r):
		case strings.ContainsRune(dashMarkers, r):
			if rest != "" {
				next, _ := utf8.DecodeRuneInString(rest)
				if !unicode.IsSpace(next) {
					return s
				}
			}
		default:
			return s
		}
		s = strings.TrimSpace(rest)
	}
	return s
}
