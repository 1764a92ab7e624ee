package pdf

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/jakhongir/openrouter-telegram-bot/pkg/domain"
)

type extractor struct{}

func NewExtractor() *extractor {
	return &extractor{}
}

// Extract pulls the embedded text of every page, in document order, joined
// with a page-boundary marker. This is text-layer extraction only, not OCR:
// a purely scanned document yields ErrNoExtractableText.
func (e *extractor) Extract(data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnreadablePDF, err)
	}
	defer doc.Close()

	var sb strings.Builder
	var recovered int

	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil {
			return "", fmt.Errorf("%w: reading page %d: %v", domain.ErrUnreadablePDF, i+1, err)
		}

		text = strings.TrimSpace(text)
		recovered += len(text)

		fmt.Fprintf(&sb, "--- page %d ---\n%s\n\n", i+1, text)
	}

	if recovered == 0 {
		return "", domain.ErrNoExtractableText
	}

	return strings.TrimSpace(sb.String()), nil
}
