package render

import (
	"regexp"
	"strings"

	"github.com/russross/blackfriday"
)

// Telegram accepts only a small HTML subset (b, i, u, s, code, pre, a).
// blackfriday produces full HTML, so block-level tags are rewritten into
// plain-text structure after conversion.
var blockTags = strings.NewReplacer(
	"<p>", "", "</p>", "\n",
	"<ul>", "", "</ul>", "\n",
	"<ol>", "", "</ol>", "\n",
	"<li>", "• ", "</li>", "",
	"<blockquote>", "", "</blockquote>", "\n",
	"<hr />", "\n", "<br />", "\n",
	"<em>", "<i>", "</em>", "</i>",
	"<strong>", "<b>", "</strong>", "</b>",
	"<del>", "<s>", "</del>", "</s>",
)

var headingRe = regexp.MustCompile(`</?h[1-6]>`)

// ToHTML converts model-produced markdown into Telegram-flavored HTML.
func ToHTML(markdown string) string {
	out := string(blackfriday.MarkdownCommon([]byte(markdown)))
	out = blockTags.Replace(out)
	out = headingRe.ReplaceAllStringFunc(out, func(tag string) string {
		if strings.HasPrefix(tag, "</") {
			return "</b>\n"
		}
		return "<b>"
	})
	return strings.TrimSpace(out)
}
