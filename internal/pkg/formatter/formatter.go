package formatter

import (
	"fmt"

	"github.com/thinktars/playground/internal/entity"
)

const baseTitle = "Escopo do Projeto"

// scopeSection is one labeled block of the rendered scope document.
type scopeSection struct {
	Label string
	Value string
}

func scopeSections(scope *entity.ProjectScope) []scopeSection {
	return []scopeSection{
		{"Tipo de negócio", scope.BusinessType},
		{"Principal desafio", scope.MainChallenge},
		{"Objetivo de automação", scope.AutomationGoal},
		{"Tempo a recuperar por semana", scope.TimeSaved},
		{"Faixa de investimento", scope.BudgetRange},
		{"Solução recomendada", string(scope.SolutionType)},
		{"Resumo", scope.Description},
	}
}

type Formatter interface {
	Format(scope *entity.ProjectScope) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
