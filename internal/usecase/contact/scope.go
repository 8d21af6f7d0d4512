package contact

import (
	"fmt"
	"strings"

	"github.com/thinktars/playground/internal/entity"
)

// QuizResult carries the five quiz answers in scope-field form.
type QuizResult struct {
	BusinessType   string
	MainChallenge  string
	AutomationGoal string
	TimeSaved      string
	BudgetRange    string
}

// solutionRules is the fixed-priority keyword table for classifying the main
// challenge. Checks run in order; the first match wins.
var solutionRules = []struct {
	keyword  string
	solution entity.SolutionType
}{
	{"atendimento", entity.SolutionVirtualAssistant},
	{"processos", entity.SolutionProcessAutomation},
	{"análise", entity.SolutionDataAnalysis},
	{"vendas", entity.SolutionSalesQualifier},
	{"documentos", entity.SolutionDocumentAnalysis},
}

// ClassifySolution maps a main-challenge answer to a solution type.
func ClassifySolution(mainChallenge string) entity.SolutionType {
	normalized := strings.ToLower(mainChallenge)
	for _, rule := range solutionRules {
		if strings.Contains(normalized, rule.keyword) {
			return rule.solution
		}
	}
	return entity.SolutionCustom
}

// BuildScope derives a ProjectScope from a complete answer set. Pure and
// idempotent: identical answers always produce an identical scope.
func BuildScope(r QuizResult) entity.ProjectScope {
	solution := ClassifySolution(r.MainChallenge)

	description := fmt.Sprintf(
		"Projeto para um negócio do tipo %s. Principal desafio: %s. "+
			"Objetivo de automação: %s. Meta de tempo recuperado: %s por semana. "+
			"Solução recomendada: %s. Faixa de investimento: %s.",
		r.BusinessType, r.MainChallenge, r.AutomationGoal, r.TimeSaved, solution, r.BudgetRange,
	)

	return entity.ProjectScope{
		BusinessType:   r.BusinessType,
		MainChallenge:  r.MainChallenge,
		AutomationGoal: r.AutomationGoal,
		TimeSaved:      r.TimeSaved,
		BudgetRange:    r.BudgetRange,
		SolutionType:   solution,
		Description:    description,
	}
}
