package formatter

import "github.com/futig/ragchat/internal/entity"

const (
	textContentType   = "text/plain; charset=utf-8"
	textFileExtension = ".txt"
)

type TextFormatter struct{}

func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

func (tf *TextFormatter) Format(messages []entity.Message) ([]byte, error) {
	return []byte(Transcript(messages)), nil
}

func (tf *TextFormatter) ContentType() string {
	return textContentType
}

func (tf *TextFormatter) FileExtension() string {
	return textFileExtension
}
