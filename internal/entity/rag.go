package entity

type FileData struct {
	Filename string
	Content  []byte
}

func (f FileData) Size() int64 {
	return int64(len(f.Content))
}

type RAGUploadResponse struct {
	Message string `json:"message,omitempty"`
	Chunks  int    `json:"chunks"`
}

type RAGChatRequest struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
}

type RAGChatResponse struct {
	Answer      string `json:"answer"`
	SourceCount int    `json:"source_count,omitempty"`
}

// RAGSessionRequest is the body of clear-history and delete-documents
type RAGSessionRequest struct {
	SessionID string `json:"session_id"`
}
