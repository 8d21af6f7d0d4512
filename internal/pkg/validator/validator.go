package validator

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/thinktars/playground/internal/config"
	"github.com/thinktars/playground/internal/entity"
)

// AllowedExtensions are the attachment types accepted on an outgoing
// message. Anything else fails validation before any network call.
var AllowedExtensions = map[string]bool{
	".pdf":  true,
	".txt":  true,
	".md":   true,
	".docx": true,
}

// groundingExtension is the only type the document-grounding (seed) path
// accepts; other staged types start a conversation without grounding.
const groundingExtension = ".pdf"

// Validator validates visitor input before it reaches the demos backend.
type Validator struct {
	cfg config.FileUploadConfig
}

func NewValidator(cfg config.FileUploadConfig) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateStagedSize bounds the size of a staged attachment. Staging itself
// is local and always succeeds; this only guards the BFF against oversized
// uploads.
func (v *Validator) ValidateStagedSize(name string, size int64) error {
	if size <= 0 {
		return fmt.Errorf("%w: %s is empty", entity.ErrInvalidFile, name)
	}
	if size > v.cfg.MaxFileSize {
		return fmt.Errorf("%w: file '%s' is %d bytes (max %d)", entity.ErrFileTooLarge, name, size, v.cfg.MaxFileSize)
	}
	return nil
}

// ValidateSendAttachment checks an attachment about to go out with a message.
func (v *Validator) ValidateSendAttachment(att *entity.Attachment) error {
	ext := strings.ToLower(filepath.Ext(att.LocalName))
	if !AllowedExtensions[ext] {
		return fmt.Errorf("%w: %s (allowed: pdf, txt, md, docx)", entity.ErrInvalidExtension, ext)
	}
	return v.ValidateStagedSize(att.LocalName, att.Size)
}

// IsGroundingType reports whether the file can seed a document-grounded
// conversation.
func IsGroundingType(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) == groundingExtension
}

// ValidateIdea checks the free-form contact payload.
func (v *Validator) ValidateIdea(req *entity.SubmitIdeaRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name", entity.ErrMissingField)
	}
	if strings.TrimSpace(req.IdeaText) == "" {
		return fmt.Errorf("%w: idea_text", entity.ErrMissingField)
	}
	return nil
}

// SanitizeFilename sanitizes a filename for safe forwarding
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	replacer := strings.NewReplacer(
		" ", "_",
		"(", "",
		")", "",
		"[", "",
		"]", "",
		"{", "",
		"}", "",
	)
	return replacer.Replace(filename)
}
