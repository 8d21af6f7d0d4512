package playground

import "github.com/thinktars/playground/internal/entity"

// toSessionDTO converts Session entity to SessionDTO
func toSessionDTO(session *entity.Session) *entity.SessionDTO {
	dto := &entity.SessionDTO{
		ID:                  session.ID,
		Status:              session.Status,
		SelectedAssistantID: session.SelectedAssistantID,
		ConversationID:      session.ConversationID,
		Messages:            session.Turns,
		Notice:              session.Notice,
	}

	if dto.Messages == nil {
		dto.Messages = []entity.Turn{}
	}

	if session.StagedAttachment != nil {
		dto.StagedAttachment = &entity.AttachmentDTO{
			Name: session.StagedAttachment.LocalName,
			Size: session.StagedAttachment.Size,
		}
	}

	return dto
}
