package domain

// RenderedContent is a digest ready for delivery, produced by the content
// renderer. Text carries a plaintext fallback for channels without HTML.
type RenderedContent struct {
	Subject string
	HTML    string
	Text    string
}
