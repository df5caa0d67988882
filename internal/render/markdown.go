package render

// Markdown renders our own markdown text (help pages) for terminal display.
// Backend text never goes through here; it is drawn with Literal.
func Markdown(content string, opts Options) (string, error) {
	renderer, err := globalPool.get(opts)
	if err != nil {
		return "", err
	}
	defer globalPool.put(opts, renderer)

	return renderer.Render(content)
}
