// Package markdown converts the subset of Markdown the model emits
// into HTML that Telegram accepts as a parse mode.
package markdown

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

var (
	preRe    = regexp.MustCompile("(?s)```(?:\\w*\\n)?(.*?)```")
	codeRe   = regexp.MustCompile("`([^`]+)`")
	boldRe   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe = regexp.MustCompile(`(^|[^\w*])\*([^*\n]+?)\*($|[^\w*])`)
)

// Convert escapes the text and rewrites bold, italic, inline code and
// fenced code blocks into the matching Telegram HTML tags.
func Convert(text string) string {
	text = html.EscapeString(text)

	// Pull code blocks out first so markup inside them stays literal.
	var blocks []string
	text = preRe.ReplaceAllStringFunc(text, func(match string) string {
		inner := preRe.FindStringSubmatch(match)[1]
		blocks = append(blocks, "<pre>"+inner+"</pre>")
		return fmt.Sprintf("\x00%d\x00", len(blocks)-1)
	})

	text = codeRe.ReplaceAllString(text, "<code>$1</code>")
	text = boldRe.ReplaceAllString(text, "<b>$1</b>")
	text = italicRe.ReplaceAllString(text, "$1<i>$2</i>$3")

	for i, block := range blocks {
		text = strings.Replace(text, fmt.Sprintf("\x00%d\x00", i), block, 1)
	}

	return text
}
