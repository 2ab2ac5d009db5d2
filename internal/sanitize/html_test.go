package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText_RemovesAllHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"script tag", `Tech <script>alert('xss')</script>Symposium`, `Tech Symposium`},
		{"inline event handler", `<div onclick="alert('xss')">Main Auditorium</div>`, `Main Auditorium`},
		{"formatting tags", `<b>Great</b> <i>event</i>`, `Great event`},
		{"apostrophe preserved", `Great event, it's worth it`, `Great event, it's worth it`},
		{"ampersand preserved", `Food & Art`, `Food & Art`},
		{"surrounding whitespace", "  09:00 AM \n", `09:00 AM`},
		{"image with onerror", `<img src=x onerror="alert('xss')">`, ``},
		{"empty string", ``, ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Text(tt.input))
		})
	}
}

func TestRichText_KeepsSafeFormatting(t *testing.T) {
	out := RichText(`<p>Celebrate <strong>diversity</strong></p><script>alert(1)</script>`)

	assert.Contains(t, out, "<strong>diversity</strong>")
	assert.NotContains(t, out, "script")
}

func TestRichText_StripsEventHandlers(t *testing.T) {
	out := RichText(`<a href="https://example.com" onclick="steal()">link</a>`)

	assert.Contains(t, out, "link")
	assert.False(t, strings.Contains(out, "onclick"))
}

func TestTextSlice(t *testing.T) {
	assert.Nil(t, TextSlice(nil))
	assert.Equal(t, []string{"Projector", "Chairs"}, TextSlice([]string{"<b>Projector</b>", "<script>x</script>", " Chairs "}))
}
