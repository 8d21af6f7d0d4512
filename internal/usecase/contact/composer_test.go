package contact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thinktars/playground/internal/entity"
)

func sampleScope() *entity.ProjectScope {
	scope := BuildScope(QuizResult{
		BusinessType:   "Serviços",
		MainChallenge:  "Processos manuais repetitivos",
		AutomationGoal: "Ganhar escala",
		TimeSaved:      "5 a 10 horas",
		BudgetRange:    "Até R$ 5.000",
	})
	return &scope
}

func TestComposeFromScope(t *testing.T) {
	msg := ComposeFromScope(sampleScope())

	assert.Contains(t, msg, "Serviços")
	assert.Contains(t, msg, "Processos manuais repetitivos")
	assert.Contains(t, msg, "ganhar escala", "goal is lowercased mid-sentence")
	assert.Contains(t, msg, string(entity.SolutionProcessAutomation))
	assert.Contains(t, msg, "Até R$ 5.000")
}

func TestComposeFromIdea(t *testing.T) {
	msg := ComposeFromIdea(&entity.ContactLead{Name: "Bruno", IdeaText: "um bot de reservas"})

	assert.Contains(t, msg, "Bruno")
	assert.Contains(t, msg, "um bot de reservas")
}

func TestComposeGenericRequest(t *testing.T) {
	withScope := ComposeGenericRequest(sampleScope())
	assert.Contains(t, withScope, "Serviços")
	assert.Contains(t, withScope, "especialista")

	withoutScope := ComposeGenericRequest(nil)
	assert.Contains(t, withoutScope, "especialista")
	assert.NotContains(t, withoutScope, "Serviços")
}
