package format

import "strings"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// EscapeHTML escapes characters that Telegram treats as HTML markup.
func EscapeHTML(text string) string {
	return htmlEscaper.Replace(text)
}

// Bold wraps text in bold tags, escaping the content first.
func Bold(text string) string {
	return "<b>" + EscapeHTML(text) + "</b>"
}

// Italic wraps text in italic tags, escaping the content first.
func Italic(text string) string {
	return "<i>" + EscapeHTML(text) + "</i>"
}

// Code wraps text in inline code tags, escaping the content first.
func Code(text string) string {
	return "<code>" + EscapeHTML(text) + "</code>"
}
