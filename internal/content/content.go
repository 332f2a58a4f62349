// Package content contains transformers to sanitize and render todo
// descriptions.
package content

var (
	// Individual transformers.
	scrubText      = ScrubText()
	markdownToHTML = MarkdownToHTML()
	sanitizeHTML   = SanitizeHTML()
	scrubHTML      = ScrubHTML()

	descriptionPipeline = Chain(scrubText, markdownToHTML, sanitizeHTML, scrubHTML)
)

// RenderDescription converts a todo description, written as CommonMark, into
// sanitized HTML safe to embed in a page.
func RenderDescription(description string) ([]byte, error) {
	return descriptionPipeline([]byte(description))
}
