package formatter

import (
	"bytes"
	"fmt"

	"github.com/futig/ragchat/internal/entity"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(messages []entity.Message) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n", baseTitle)
	for _, msg := range messages {
		label := msg.Role.Label()
		if msg.IsError {
			label += " (error)"
		}
		fmt.Fprintf(&buf, "\n**%s:** %s\n", label, msg.Content)
		if msg.SourceCount > 0 {
			fmt.Fprintf(&buf, "\n_Sources: %d_\n", msg.SourceCount)
		}
	}
	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
