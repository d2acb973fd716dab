package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/futig/ragchat/internal/entity"
)

const baseTitle = "Chat history"

// Formatter renders a message log into an exportable document
type Formatter interface {
	Format(messages []entity.Message) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ExportFormat) (Formatter, error) {
	switch format {
	case entity.FormatText:
		return NewTextFormatter(), nil
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: %s", entity.ErrUnsupportedFormat, format)
	}
}

// Transcript renders messages as "<Role>: <content>" lines separated by a
// blank line, in log order
func Transcript(messages []entity.Message) string {
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		lines = append(lines, fmt.Sprintf("%s: %s", msg.Role.Label(), msg.Content))
	}
	return strings.Join(lines, "\n\n")
}

// ExportFileName returns chat-history-<YYYY-MM-DD><ext> using the UTC date
func ExportFileName(ext string, at time.Time) string {
	return fmt.Sprintf("chat-history-%s%s", at.UTC().Format(time.DateOnly), ext)
}
