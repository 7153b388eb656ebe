package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown_BasicFormatting(t *testing.T) {
	out := RenderMarkdown("# Chapter 1\n\nShe **never** looked back.")

	assert.Contains(t, out, "Chapter 1")
	assert.Contains(t, out, "<strong>never</strong>")
}

func TestRenderMarkdown_StripsScripts(t *testing.T) {
	out := RenderMarkdown("hello <script>alert('xss')</script> world")

	// The element is removed; any leftover text is escaped, not executable
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "alert('xss')")
	assert.Contains(t, out, "hello")
}

func TestRenderMarkdown_StripsEventHandlers(t *testing.T) {
	out := RenderMarkdown(`<img src="x" onerror="steal()">`)

	assert.NotContains(t, out, "onerror")
}
