package entity

// Wire types of the external demos backend (the service that owns
// assistants, conversations and LLM processing).

// DemosAssistantsResponse is the payload of GET /assistants.
type DemosAssistantsResponse struct {
	Assistants []Assistant `json:"assistants"`
}

// DemosCreateConversationRequest is the body of POST /conversations.
type DemosCreateConversationRequest struct {
	AgentID string `json:"agent_id"`
}

// DemosConversationResponse is returned by POST /conversations and by the
// multipart POST /upload-pdf seed path.
type DemosConversationResponse struct {
	ConversationID string `json:"conversation_id"`
	Error          string `json:"error,omitempty"`
}

// DemosUploadFileResponse is returned by POST /conversations/{id}/upload-file.
type DemosUploadFileResponse struct {
	FileID string `json:"file_id"`
	Error  string `json:"error,omitempty"`
}

// DemosSendMessageRequest is the body of POST /conversations/{id}/messages.
type DemosSendMessageRequest struct {
	Content string   `json:"content"`
	FileIDs []string `json:"file_ids,omitempty"`
}

// DemosSendMessageResponse carries either the assistant reply or a
// business-level error inside a 2xx response.
type DemosSendMessageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// DemosDeleteConversationResponse is returned by DELETE /conversations/{id}.
type DemosDeleteConversationResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
