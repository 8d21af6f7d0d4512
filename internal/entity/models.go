package entity

import (
	"fmt"
	"time"
)

// Assistant is a backend-defined AI persona selectable in the Playground.
// The catalog is fetched once from the demos backend and never mutated.
type Assistant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type SessionStatus string

// Session status represents the current state of a Playground conversation
const (
	SessionStatusIdle     SessionStatus = "IDLE"     // No conversation yet, assistant may be selected
	SessionStatusStarting SessionStatus = "STARTING" // Conversation creation in flight
	SessionStatusActive   SessionStatus = "ACTIVE"   // Conversation created, ready for messages
	SessionStatusSending  SessionStatus = "SENDING"  // One message exchange in flight
)

// Busy reports whether a network operation is in flight for the session.
// New starts and sends are silently ignored while busy.
func (s SessionStatus) Busy() bool {
	return s == SessionStatusStarting || s == SessionStatusSending
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message of a conversation transcript. Turns are append-only:
// a backend business error becomes an assistant turn with IsError set, so it
// stays part of the visible history instead of a transient banner.
type Turn struct {
	Role           Role   `json:"role"`
	Content        string `json:"content"`
	AttachmentName string `json:"attachment_name,omitempty"`
	IsError        bool   `json:"is_error,omitempty"`
}

// Attachment is a visitor-supplied file staged locally on the session.
// RemoteFileID is empty until a successful upload; a staged attachment can be
// discarded at any time without side effects.
type Attachment struct {
	LocalName    string `json:"local_name"`
	ContentType  string `json:"content_type,omitempty"`
	Size         int64  `json:"size"`
	Data         []byte `json:"-"`
	RemoteFileID string `json:"remote_file_id,omitempty"`
}

type NoticeKind string

const (
	NoticeKindError   NoticeKind = "error"
	NoticeKindWarning NoticeKind = "warning"
	NoticeKindInfo    NoticeKind = "info"
)

// Notice is the transient banner channel of a session or contact flow.
// It auto-dismisses after a fixed delay and is superseded by newer notices.
type Notice struct {
	Kind NoticeKind `json:"kind"`
	Text string     `json:"text"`
}

// Session is the single source of truth for one visitor's Playground chat.
// It is mutated only by the playground usecase under the session lock.
type Session struct {
	ID                  string        `json:"session_id"`
	Status              SessionStatus `json:"status"`
	SelectedAssistantID string        `json:"selected_assistant_id,omitempty"`
	ConversationID      string        `json:"conversation_id,omitempty"`
	Turns               []Turn        `json:"messages"`
	StagedAttachment    *Attachment   `json:"staged_attachment,omitempty"`
	Notice              *Notice       `json:"notice,omitempty"`

	// Epoch increments on every reset or assistant switch. Responses from
	// requests issued under an older epoch are discarded on arrival.
	Epoch     uint64    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QuizQuestion is one step of the lead-qualification quiz.
type QuizQuestion struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// QuizAnswer records a chosen option; the slice on ContactFlow keeps
// answering order.
type QuizAnswer struct {
	QuestionID string `json:"question_id"`
	Option     string `json:"option"`
}

type SolutionType string

const (
	SolutionVirtualAssistant  SolutionType = "Assistente Virtual / Chatbot com IA"
	SolutionProcessAutomation SolutionType = "Automação de Processos"
	SolutionDataAnalysis      SolutionType = "Análise de Dados com IA"
	SolutionSalesQualifier    SolutionType = "Qualificação Automatizada de Vendas"
	SolutionDocumentAnalysis  SolutionType = "Análise Inteligente de Documentos"
	SolutionCustom            SolutionType = "Solução Personalizada com IA"
)

// ProjectScope is the structured summary derived from a complete answer set.
// Immutable once computed; a retry recomputes it from scratch.
type ProjectScope struct {
	BusinessType   string       `json:"business_type"`
	MainChallenge  string       `json:"main_challenge"`
	AutomationGoal string       `json:"automation_goal"`
	TimeSaved      string       `json:"time_saved"`
	BudgetRange    string       `json:"budget_range"`
	SolutionType   SolutionType `json:"solution_type"`
	Description    string       `json:"description"`
}

// ContactLead is the free-form contact path payload.
type ContactLead struct {
	Name     string `json:"name"`
	IdeaText string `json:"idea_text"`
}

type ContactMode string

const (
	ContactModeNone ContactMode = "NONE" // Visitor has not chosen a path yet
	ContactModeIdea ContactMode = "IDEA" // Free-form idea
	ContactModeQuiz ContactMode = "QUIZ" // Guided qualification quiz
)

// ContactFlow holds the whole contact section state for one visitor: the
// chosen mode, quiz progress, the generated scope and its approval. The flow
// resets to its initial empty state shortly after a successful handoff.
type ContactFlow struct {
	ID        string        `json:"flow_id"`
	Mode      ContactMode   `json:"mode"`
	QuizStep  int           `json:"quiz_step"`
	Answers   []QuizAnswer  `json:"answers,omitempty"`
	Scope     *ProjectScope `json:"scope,omitempty"`
	Notice    *Notice       `json:"notice,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// AnswerFor returns the recorded answer for a question id, if any.
func (f *ContactFlow) AnswerFor(questionID string) (string, bool) {
	for _, a := range f.Answers {
		if a.QuestionID == questionID {
			return a.Option, true
		}
	}
	return "", false
}

// LeadKind distinguishes how a lead reached the sales channel.
type LeadKind string

const (
	LeadKindScope   LeadKind = "SCOPE"   // Approved quiz-generated scope
	LeadKindIdea    LeadKind = "IDEA"    // Free-form idea
	LeadKindGeneric LeadKind = "GENERIC" // Rejected scope, still wants contact
)

// Lead is the durable record of a handoff, persisted for the sales team.
type Lead struct {
	ID        string        `json:"id"`
	Kind      LeadKind      `json:"kind"`
	Name      string        `json:"name,omitempty"`
	IdeaText  string        `json:"idea_text,omitempty"`
	Scope     *ProjectScope `json:"scope,omitempty"`
	Message   string        `json:"message"`
	CreatedAt time.Time     `json:"created_at"`
}

type ResultFormat string

const (
	FormatMarkdown ResultFormat = "md"
	FormatPDF      ResultFormat = "pdf"
	FormatDOCX     ResultFormat = "docx"
)

func (rf *ResultFormat) Validate() error {
	switch *rf {
	case FormatMarkdown, FormatPDF, FormatDOCX:
		return nil
	default:
		return fmt.Errorf("unknown result format: %s", *rf)
	}
}
