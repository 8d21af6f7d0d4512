package entity

import "errors"

// Domain errors
var (
	// Catalog errors
	ErrCatalogUnavailable = errors.New("assistant catalog unavailable")
	ErrAssistantNotFound  = errors.New("assistant not found in catalog")

	// Session errors
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionBusy          = errors.New("session has an operation in flight")
	ErrNoAssistantSelected  = errors.New("no assistant selected")
	ErrConversationInactive = errors.New("conversation is not active")

	// Attachment errors
	ErrInvalidFile      = errors.New("invalid file")
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidExtension = errors.New("invalid file extension")
	ErrNoAttachment     = errors.New("no attachment staged")

	// Contact flow errors
	ErrFlowNotFound     = errors.New("contact flow not found")
	ErrQuizAtFirstStep  = errors.New("quiz is at the first step")
	ErrQuizIncomplete   = errors.New("quiz has unanswered questions")
	ErrNoScopeGenerated = errors.New("no project scope generated")
	ErrUnknownOption    = errors.New("option is not one of the question choices")

	// Lead errors
	ErrLeadNotFound = errors.New("lead not found")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// BusinessError is a failure the demos backend reports inside a 2xx payload
// ({"error": ...}). It is surfaced inside the transcript as an error turn,
// not as a banner, because the exchange completed at the transport level.
type BusinessError struct {
	Message string
}

func (e *BusinessError) Error() string {
	return e.Message
}

// IsBusinessError reports whether err carries a backend business failure.
func IsBusinessError(err error) (*BusinessError, bool) {
	var be *BusinessError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}
