package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTML(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "allowed formatting survives",
			input: "<p>Hello <strong>world</strong> and <em>more</em></p>",
			want:  "<p>Hello <strong>world</strong> and <em>more</em></p>",
		},
		{
			name:  "lists survive",
			input: "<ul><li>one</li><li>two</li></ul>",
			want:  "<ul><li>one</li><li>two</li></ul>",
		},
		{
			name:  "script tags are stripped",
			input: `hello <script>alert("x")</script> world`,
			want:  "hello  world",
		},
		{
			name:  "style attributes are stripped",
			input: `<p style="color:red">text</p>`,
			want:  "<p>text</p>",
		},
		{
			name:  "event handlers are stripped with their element",
			input: `<img src="x" onerror="steal()">before<p onload="x()">after</p>`,
			want:  "before<p>after</p>",
		},
		{
			name:  "plain text passes through",
			input: "printer is on fire",
			want:  "printer is on fire",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTML(tc.input))
		})
	}
}

func TestHTMLLinks(t *testing.T) {
	out := HTML(`<a href="https://example.com/kb/1" target="_blank" onclick="evil()">kb</a>`)
	assert.Contains(t, out, `href="https://example.com/kb/1"`)
	assert.Contains(t, out, `target="_blank"`)
	assert.NotContains(t, out, "onclick")

	out = HTML(`<a href="javascript:alert(1)">bad</a>`)
	assert.NotContains(t, out, "javascript:")
}
