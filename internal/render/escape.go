// ABOUTME: Escaping primitives for the RSS serializer
// ABOUTME: XML entity escaping, CDATA wrapping, and the description control-strip

package render

import "strings"

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeXML escapes the five XML-significant characters. Applied to
// every value placed outside CDATA, never to CDATA payloads.
func EscapeXML(s string) string {
	return xmlReplacer.Replace(s)
}

// StripControl removes control characters and anything outside printable
// ASCII. Applied only to description/snippet text; content:encoded goes
// through CDATA untouched, so smart quotes and dashes survive there.
func StripControl(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= 0x20 && r <= 0x7e {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// cdata wraps s in a CDATA section without escaping it. A literal "]]>"
// inside the payload is split across two sections so the document stays
// well-formed while the byte sequence round-trips.
func cdata(s string) string {
	return "<![CDATA[" + strings.ReplaceAll(s, "]]>", "]]]]><![CDATA[>") + "]]>"
}

// safeText reduces s to alphanumerics and basic punctuation. Used only
// by the minimal fallback render when normal XML building fails.
func safeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '.', r == ',', r == '-', r == ':', r == '/', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}
