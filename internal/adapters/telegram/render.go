package telegram

import (
	"html"
	"regexp"
	"strings"
)

var mentionPattern = regexp.MustCompile(`<@!?(\d+)>`)

// RenderHTML escapes text for Telegram's HTML parse mode and turns
// "<@id>" mentions into user links.
func RenderHTML(text string) string {
	var b strings.Builder
	last := 0
	for _, m := range mentionPattern.FindAllStringSubmatchIndex(text, -1) {
		b.WriteString(html.EscapeString(text[last:m[0]]))
		id := text[m[2]:m[3]]
		b.WriteString(`<a href="tg://user?id=` + id + `">` + id + `</a>`)
		last = m[1]
	}
	b.WriteString(html.EscapeString(text[last:]))
	return b.String()
}
