package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello world", "hello world"},
		{"bold", "a **bold** word", "a <b>bold</b> word"},
		{"italic", "an *italic* word", "an <i>italic</i> word"},
		{"italic not inside word", "2*3*4", "2*3*4"},
		{"inline code", "run `go build` now", "run <code>go build</code> now"},
		{"escapes html", "1 < 2 & 3 > 2", "1 &lt; 2 &amp; 3 &gt; 2"},
		{
			"code block",
			"```go\nfmt.Println(1)\n```",
			"<pre>fmt.Println(1)\n</pre>",
		},
		{
			"no formatting inside code block",
			"```\n**not bold**\n```",
			"<pre>**not bold**\n</pre>",
		},
		{
			"mixed",
			"**x** and `y`",
			"<b>x</b> and <code>y</code>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Convert(tt.in))
		})
	}
}
