package entity

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type SendMessageRequest struct {
	Question string `json:"question"`
}

type UploadDocumentResponse struct {
	FileName   string `json:"file_name"`
	ChunkCount int    `json:"chunk_count"`
}

// SendMessageResponse carries the turn even when the backend failed,
// since the error-flagged reply is part of the conversation
type SendMessageResponse struct {
	Turn  *Turn  `json:"turn"`
	Error string `json:"error,omitempty"`
}

type HealthResponse struct {
	Status   string         `json:"status"`
	Backend  map[string]any `json:"backend,omitempty"`
	Sessions int            `json:"sessions"`
	Error    string         `json:"error,omitempty"`
}
