package providers

import (
	"context"
	"errors"
)

// ErrGeneratorUnavailable is returned when no text generator is configured
// or the breaker in front of it is open.
var ErrGeneratorUnavailable = errors.New("text generator unavailable")

// Attachment is a binary payload sent alongside a prompt
type Attachment struct {
	MimeType string
	Data     []byte
}

// TextGenerator is an external large language model. The returned text is
// expected, but not guaranteed, to hold a JSON object.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, attachments []Attachment) (string, error)
}

// TextGeneratorFunc adapts a plain function to TextGenerator
type TextGeneratorFunc func(ctx context.Context, prompt string, attachments []Attachment) (string, error)

// Generate calls f
func (f TextGeneratorFunc) Generate(ctx context.Context, prompt string, attachments []Attachment) (string, error) {
	return f(ctx, prompt, attachments)
}
