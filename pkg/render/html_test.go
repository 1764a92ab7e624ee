package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text passes through",
			in:   "hello world",
			want: "hello world",
		},
		{
			name: "bold and italic",
			in:   "**bold** and *italic*",
			want: "<b>bold</b> and <i>italic</i>",
		},
		{
			name: "inline code",
			in:   "run `go doc`",
			want: "run <code>go doc</code>",
		},
		{
			name: "heading becomes bold",
			in:   "# Title",
			want: "<b>Title</b>",
		},
		{
			name: "list items become bullets",
			in:   "- one\n- two",
			want: "• one\n• two",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToHTML(tt.in))
		})
	}
}

func TestToHTML_CodeBlock(t *testing.T) {
	out := ToHTML("```\nfmt.Println(1)\n```")

	assert.Contains(t, out, "<pre>")
	assert.Contains(t, out, "fmt.Println(1)")
}
