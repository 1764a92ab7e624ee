package domain

import (
	"errors"
	"fmt"
)

var (
	ErrPayloadTooLarge     = errors.New("payload too large")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrTooManyImages       = errors.New("too many images")
	ErrEmptyImageSet       = errors.New("empty image set")
	ErrUnreadablePDF       = errors.New("unreadable pdf")
	ErrNoExtractableText   = errors.New("no extractable text")
	ErrNotImplemented      = errors.New("not implemented")
	ErrUnknownCommand      = errors.New("unknown command")
)

// RenderError reports the 1-based position of the image that could not be
// rendered into a PDF page. Finalization is all-or-nothing, so a single
// RenderError aborts the whole document.
type RenderError struct {
	Position int
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering image %d: %v", e.Position, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// UserMessage converts an error from any handler into the plain-language
// reply shown to the user. Errors outside the taxonomy get a generic text so
// internal details never leak into the chat.
func UserMessage(err error) string {
	var renderErr *RenderError
	switch {
	case errors.As(err, &renderErr):
		return fmt.Sprintf("⚠️ Image %d could not be read, so no PDF was created. Remove it and try again.", renderErr.Position)
	case errors.Is(err, ErrPayloadTooLarge):
		return "⚠️ That is too large for me to handle. Please send something smaller."
	case errors.Is(err, ErrUpstreamUnavailable):
		return "⚠️ The AI service is not responding right now. Please try again later."
	case errors.Is(err, ErrTooManyImages):
		return "⚠️ Too many images collected. Use /pdf to finish the current document first."
	case errors.Is(err, ErrEmptyImageSet):
		return "⚠️ There are no images yet. Send me some photos, then use /pdf."
	case errors.Is(err, ErrUnreadablePDF):
		return "⚠️ I could not read that PDF. The file looks damaged or is not a PDF."
	case errors.Is(err, ErrNoExtractableText):
		return "⚠️ The PDF opened fine but contains no extractable text. Scanned pages are images, not text."
	case errors.Is(err, ErrNotImplemented):
		return "🚧 Stylization is not available yet. Your photo was not modified."
	case errors.Is(err, ErrUnknownCommand):
		return "I don't know that command. Use /help to see what I can do."
	default:
		return "⚠️ Something went wrong while processing your request. Please try again."
	}
}
