package contact

import "github.com/thinktars/playground/internal/entity"

// toFlowDTO converts ContactFlow entity to ContactFlowDTO
func toFlowDTO(flow *entity.ContactFlow, questions []entity.QuizQuestion) *entity.ContactFlowDTO {
	dto := &entity.ContactFlowDTO{
		ID:         flow.ID,
		Mode:       flow.Mode,
		QuizStep:   flow.QuizStep,
		TotalSteps: len(questions),
		Answers:    flow.Answers,
		Scope:      flow.Scope,
		Notice:     flow.Notice,
	}

	if flow.QuizStep < len(questions) {
		q := questions[flow.QuizStep]
		dto.CurrentQuestion = &q
	}

	return dto
}
