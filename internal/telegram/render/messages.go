package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/futig/ragchat/internal/entity"
)

const (
	MsgWelcome = `👋 Hi! I'm ready to help you analyze your documents.

Upload a PDF and start asking questions about its content.
Send /help to see what else I can do.`

	MsgHelp = `🤖 Commands:

/start - Start a new session
/help - Show this help
/files - List uploaded documents
/clear - Clear the current conversation
/clearhistory - Clear all conversation history
/deletedocs - Delete all uploaded documents
/export [txt|md|docx|pdf] - Download the conversation

Send a PDF document to upload it, then send any text to ask a question.`

	MsgNewSession      = "🆕 New session started."
	MsgUploading       = "⏳ Uploading and indexing your document..."
	MsgNoFiles         = "📂 No documents uploaded yet. Send a PDF to get started."
	MsgUploadFirst     = "📄 Please upload a PDF document first before asking questions."
	MsgWaitForAnswer   = "⏳ Please wait for the current answer before asking another question."
	MsgChatCleared     = "🧹 Conversation cleared."
	MsgHistoryCleared  = "🧹 Conversation history cleared."
	MsgDocsDeleted     = "🗑 All documents deleted."
	MsgCancelled       = "👌 Cancelled."
	MsgNothingToExport = "📭 Nothing to export yet."
	MsgChooseExport    = "📥 Choose an export format:"
	MsgUnsupported     = "🤷 I only understand PDF documents, text questions and commands. Send /help."
	MsgUnknownCommand  = "❌ Unknown command. Send /help."

	MsgConfirmClearHistory = "⚠️ Are you sure you want to clear all conversation history? This action cannot be undone."
	MsgConfirmDeleteDocs   = "⚠️ Are you sure you want to delete all uploaded documents? This will also clear the conversation history."

	ErrGeneric       = "❌ Something went wrong. Please try again."
	ErrOnlyPDF       = "❌ Only PDF files are allowed"
	ErrEmptyFile     = "❌ The file is empty"
	ErrEmptyQuestion = "❌ Please type a question."
	ErrDownload      = "❌ Could not download the file from Telegram. Please try again."
	ErrExportFormat  = "❌ Unknown export format. Use txt, md, docx or pdf."
)

// FileTooLarge renders the size limit the way the upload form does
func FileTooLarge(limit int64) string {
	return fmt.Sprintf("❌ File size must be less than %s", sizeLabel(limit))
}

func QuestionTooLong(limit int) string {
	return fmt.Sprintf("❌ Questions are limited to %d characters.", limit)
}

func Uploaded(file *entity.UploadedFile) string {
	return fmt.Sprintf("✅ Successfully uploaded %q - %d chunks indexed", file.FileName, file.ChunkCount)
}

func UploadFailed(message string) string {
	return "❌ Upload failed: " + message
}

func OperationFailed(message string) string {
	return "❌ " + message
}

// Reply renders an assistant message, with its source count when known
func Reply(msg *entity.Message) string {
	if msg == nil {
		return ErrGeneric
	}
	if msg.IsError || msg.SourceCount == 0 {
		return msg.Content
	}
	return fmt.Sprintf("%s\n\n📚 Sources: %d", msg.Content, msg.SourceCount)
}

// Files lists uploaded documents in upload order
func Files(files []entity.UploadedFile, now time.Time) string {
	if len(files) == 0 {
		return MsgNoFiles
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📂 Uploaded documents (%d):\n", len(files))
	for i, f := range files {
		fmt.Fprintf(&b, "\n%d. %s - %d chunks, %s", i+1, f.FileName, f.ChunkCount, humanize.RelTime(f.UploadedAt, now, "ago", "from now"))
	}
	return b.String()
}

func sizeLabel(limit int64) string {
	const mb = 1 << 20
	if limit%mb == 0 {
		return fmt.Sprintf("%dMB", limit/mb)
	}
	return humanize.IBytes(uint64(limit))
}
