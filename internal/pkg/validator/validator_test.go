package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thinktars/playground/internal/config"
	"github.com/thinktars/playground/internal/entity"
)

func newTestValidator() *Validator {
	return NewValidator(config.FileUploadConfig{MaxFileSize: 100})
}

func TestValidateStagedSize(t *testing.T) {
	v := newTestValidator()

	assert.NoError(t, v.ValidateStagedSize("a.pdf", 100))
	assert.ErrorIs(t, v.ValidateStagedSize("a.pdf", 0), entity.ErrInvalidFile)
	assert.ErrorIs(t, v.ValidateStagedSize("a.pdf", 101), entity.ErrFileTooLarge)
}

func TestValidateSendAttachment(t *testing.T) {
	v := newTestValidator()

	for _, name := range []string{"a.pdf", "b.txt", "c.md", "d.docx", "E.PDF"} {
		att := &entity.Attachment{LocalName: name, Size: 10}
		assert.NoError(t, v.ValidateSendAttachment(att), name)
	}

	att := &entity.Attachment{LocalName: "malware.exe", Size: 10}
	assert.ErrorIs(t, v.ValidateSendAttachment(att), entity.ErrInvalidExtension)

	att = &entity.Attachment{LocalName: "semextensao", Size: 10}
	assert.ErrorIs(t, v.ValidateSendAttachment(att), entity.ErrInvalidExtension)

	att = &entity.Attachment{LocalName: "grande.pdf", Size: 1000}
	assert.ErrorIs(t, v.ValidateSendAttachment(att), entity.ErrFileTooLarge)
}

func TestIsGroundingType(t *testing.T) {
	assert.True(t, IsGroundingType("contrato.pdf"))
	assert.True(t, IsGroundingType("CONTRATO.PDF"))
	assert.False(t, IsGroundingType("notas.txt"))
	assert.False(t, IsGroundingType("planilha.docx"))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "meu_arquivo_1.pdf", SanitizeFilename("meu arquivo (1).pdf"))
	assert.Equal(t, "a.pdf", SanitizeFilename("../../a.pdf"))
}
