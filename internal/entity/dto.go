package entity

// Request/response DTOs of the BFF HTTP API consumed by the marketing site.

// SelectAssistantRequest is the body of POST /sessions/{id}/assistant.
type SelectAssistantRequest struct {
	AssistantID string `json:"assistant_id"`
}

// SendMessageRequest is the body of POST /sessions/{id}/messages. The
// attachment, if any, is the one staged on the session beforehand.
type SendMessageRequest struct {
	Content string `json:"content"`
}

// SessionDTO is the full session state returned by every playground
// operation; the page renders exclusively from it.
type SessionDTO struct {
	ID                  string        `json:"session_id"`
	Status              SessionStatus `json:"status"`
	SelectedAssistantID string        `json:"selected_assistant_id,omitempty"`
	ConversationID      string        `json:"conversation_id,omitempty"`
	Messages            []Turn        `json:"messages"`
	StagedAttachment    *AttachmentDTO `json:"staged_attachment,omitempty"`
	Notice              *Notice       `json:"notice,omitempty"`
}

// AttachmentDTO exposes only the display side of a staged attachment.
type AttachmentDTO struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// SubmitIdeaRequest is the body of POST /flows/{id}/idea.
type SubmitIdeaRequest struct {
	Name     string `json:"name"`
	IdeaText string `json:"idea_text"`
}

// QuizAnswerRequest is the body of POST /flows/{id}/quiz/answer.
type QuizAnswerRequest struct {
	Option string `json:"option"`
}

// ContactFlowDTO is the contact section state returned by every contact
// operation.
type ContactFlowDTO struct {
	ID              string        `json:"flow_id"`
	Mode            ContactMode   `json:"mode"`
	QuizStep        int           `json:"quiz_step"`
	TotalSteps      int           `json:"total_steps"`
	CurrentQuestion *QuizQuestion `json:"current_question,omitempty"`
	Answers         []QuizAnswer  `json:"answers,omitempty"`
	Scope           *ProjectScope `json:"scope,omitempty"`
	Notice          *Notice       `json:"notice,omitempty"`
}

// HandoffDTO is returned by compose operations: the deep link the client
// opens in a new browsing context.
type HandoffDTO struct {
	Link    string `json:"link"`
	Message string `json:"message"`
}
