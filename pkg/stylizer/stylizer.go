package stylizer

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/jakhongir/openrouter-telegram-bot/pkg/domain"
)

// SupportedStyles are the labels /style accepts. The list exists ahead of the
// model integration so the command surface is already stable.
var SupportedStyles = []string{"disney", "pixar", "anime"}

func IsSupported(style string) bool {
	return lo.Contains(SupportedStyles, style)
}

type stylizer struct{}

func New() *stylizer {
	return &stylizer{}
}

// Stylize is the seam for an external image-generation model. Until one is
// wired in it always fails with ErrNotImplemented, never silently echoing the
// input, so callers can tell "not built yet" from "succeeded".
func (s *stylizer) Stylize(_ context.Context, _ []byte, style string) ([]byte, error) {
	return nil, fmt.Errorf("%w: style %q", domain.ErrNotImplemented, style)
}
