package contact

import (
	"fmt"

	"github.com/thinktars/playground/internal/entity"
)

// The handoff messages are written in the visitor's first person: they are
// pre-filled into the external messaging channel and sent by the visitor.

// ComposeFromScope builds the handoff message for an approved project scope.
func ComposeFromScope(scope *entity.ProjectScope) string {
	return fmt.Sprintf(
		"Olá! Vim pelo site da Think TARS e completei o diagnóstico de automação. "+
			"Tenho um negócio de %s e meu principal desafio é: %s. "+
			"Quero %s e recuperar %s por semana. "+
			"A solução indicada foi: %s, com investimento na faixa de %s. "+
			"Podemos conversar?",
		scope.BusinessType,
		scope.MainChallenge,
		lowerFirst(scope.AutomationGoal),
		scope.TimeSaved,
		scope.SolutionType,
		scope.BudgetRange,
	)
}

// ComposeFromIdea builds the handoff message for a free-form idea.
func ComposeFromIdea(lead *entity.ContactLead) string {
	return fmt.Sprintf(
		"Olá! Meu nome é %s e vim pelo site da Think TARS. "+
			"Tenho uma ideia para o meu negócio: %s",
		lead.Name,
		lead.IdeaText,
	)
}

// ComposeGenericRequest builds the fallback message for a visitor who
// rejected the generated scope but still wants to talk to a specialist.
func ComposeGenericRequest(scope *entity.ProjectScope) string {
	if scope == nil {
		return "Olá! Vim pelo site da Think TARS e gostaria de falar com um especialista " +
			"sobre soluções de IA para o meu negócio."
	}

	return fmt.Sprintf(
		"Olá! Vim pelo site da Think TARS. Respondi o diagnóstico (negócio de %s, desafio: %s), "+
			"mas prefiro conversar diretamente com um especialista para entender a melhor solução.",
		scope.BusinessType,
		scope.MainChallenge,
	)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	if runes[0] >= 'A' && runes[0] <= 'Z' {
		runes[0] += 'a' - 'A'
	}
	return string(runes)
}
