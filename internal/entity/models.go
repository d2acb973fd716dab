package entity

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Label returns the capitalised role name used in transcripts
func (r Role) Label() string {
	if r == RoleUser {
		return "User"
	}
	return "Assistant"
}

// TurnState is the lifecycle of a single chat exchange
type TurnState string

const (
	TurnStatePending  TurnState = "pending"  // user message appended, waiting for backend
	TurnStateResolved TurnState = "resolved" // assistant answer appended
	TurnStateErrored  TurnState = "errored"  // error-flagged assistant message appended
)

// ClientState is the state of the session client between turns
type ClientState string

const (
	ClientStateIdle    ClientState = "idle"
	ClientStateSending ClientState = "sending"
)

type ExportFormat string

const (
	FormatText     ExportFormat = "txt"
	FormatMarkdown ExportFormat = "md"
	FormatDOCX     ExportFormat = "docx"
	FormatPDF      ExportFormat = "pdf"
)

func (f ExportFormat) IsValid() bool {
	switch f {
	case FormatText, FormatMarkdown, FormatDOCX, FormatPDF:
		return true
	default:
		return false
	}
}

func ParseExportFormat(s string) (ExportFormat, error) {
	if s == "" {
		return FormatText, nil
	}
	f := ExportFormat(s)
	if !f.IsValid() {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, s)
	}
	return f, nil
}

// Session identifies the backend's conversation and document state.
// The ID never changes for the lifetime of a client.
type Session struct {
	ID        string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

type UploadedFile struct {
	FileName   string    `json:"file_name"`
	ChunkCount int       `json:"chunk_count"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type Message struct {
	ID          string    `json:"id"`
	Role        Role      `json:"role"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	IsError     bool      `json:"is_error"`
	SourceCount int       `json:"source_count"`
}

// Turn records one question and its outcome. Messages themselves are
// immutable; the pending/resolved/errored transition is tracked here.
type Turn struct {
	ID       string    `json:"id"`
	State    TurnState `json:"state"`
	Question Message   `json:"question"`
	Reply    *Message  `json:"reply,omitempty"`
}

// Snapshot is a point-in-time copy of a client's state
type Snapshot struct {
	Session  Session        `json:"session"`
	State    ClientState    `json:"state"`
	Files    []UploadedFile `json:"files"`
	Messages []Message      `json:"messages"`
	LastTurn *Turn          `json:"last_turn,omitempty"`
}
