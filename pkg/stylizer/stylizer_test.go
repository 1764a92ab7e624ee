package stylizer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jakhongir/openrouter-telegram-bot/pkg/domain"
)

func TestStylize_NotImplemented(t *testing.T) {
	styled, err := New().Stylize(context.Background(), []byte("photo"), "anime")

	assert.ErrorIs(t, err, domain.ErrNotImplemented)
	assert.Nil(t, styled, "the input photo is never echoed back")
}

func TestIsSupported(t *testing.T) {
	for _, style := range SupportedStyles {
		assert.True(t, IsSupported(style), style)
	}
	assert.False(t, IsSupported("cubism"))
	assert.False(t, IsSupported(""))
}
