package keyboard

import (
	"github.com/futig/ragchat/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Builder creates inline keyboards
type Builder struct{}

// NewBuilder creates a keyboard builder
func NewBuilder() *Builder {
	return &Builder{}
}

// ConfirmKeyboard asks to confirm a destructive operation
func (b *Builder) ConfirmKeyboard(op string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Confirm", EncodeCallback(ActionConfirm, op)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", EncodeCallback(ActionCancel, op)),
		),
	)
}

// ExportKeyboard offers every export format
func (b *Builder) ExportKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📄 TXT", EncodeCallback(ActionExport, string(entity.FormatText))),
			tgbotapi.NewInlineKeyboardButtonData("📝 MD", EncodeCallback(ActionExport, string(entity.FormatMarkdown))),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📘 DOCX", EncodeCallback(ActionExport, string(entity.FormatDOCX))),
			tgbotapi.NewInlineKeyboardButtonData("📕 PDF", EncodeCallback(ActionExport, string(entity.FormatPDF))),
		),
	)
}

// Remove returns an empty markup used to drop a keyboard after it was answered
func (b *Builder) Remove() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
}
