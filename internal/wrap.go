package internal

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// WrapWidth is the column width transcript bodies are wrapped to
const WrapWidth = 100

// SoftWrap greedily packs the words of each paragraph onto lines of at most
// width cells. A word longer than width gets a line of its own and is never
// split. Single newlines inside a paragraph fold into spaces; paragraphs are
// separated by exactly one blank line.
func SoftWrap(text string, width int) string {
	var paragraphs []string
	for _, para := range strings.Split(text, "\n\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			continue
		}
		paragraphs = append(paragraphs, ansi.Wordwrap(strings.Join(words, " "), width, ""))
	}
	return strings.Join(paragraphs, "\n\n")
}
