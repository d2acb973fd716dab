package validator

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/futig/ragchat/internal/config"
	"github.com/futig/ragchat/internal/entity"
)

var AllowedExtensions = map[string]bool{
	".pdf": true,
}

// Validator checks user input before any backend call is made
type Validator struct {
	cfg config.FileUploadConfig
}

func NewValidator(cfg config.FileUploadConfig) *Validator {
	return &Validator{cfg: cfg}
}

// MaxFileSize returns the upload size limit in bytes
func (v *Validator) MaxFileSize() int64 {
	return v.cfg.MaxFileSize
}

// ValidateUpload validates a document held in memory
func (v *Validator) ValidateUpload(file entity.FileData) error {
	return v.ValidateUploadHeader(file.Filename, file.Size())
}

// ValidateUploadHeader validates a document from its name and size alone,
// so callers can reject it before downloading or reading the content
func (v *Validator) ValidateUploadHeader(filename string, size int64) error {
	if strings.TrimSpace(filename) == "" {
		return fmt.Errorf("%w: %w", entity.ErrValidation, entity.ErrMissingFile)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !AllowedExtensions[ext] {
		return fmt.Errorf("%w: %w: only PDF files are allowed, got %q", entity.ErrValidation, entity.ErrInvalidExtension, ext)
	}

	if size <= 0 {
		return fmt.Errorf("%w: %w: %s", entity.ErrValidation, entity.ErrEmptyFile, filename)
	}

	if size > v.cfg.MaxFileSize {
		return fmt.Errorf("%w: %w: file '%s' is %d bytes (max %d)", entity.ErrValidation, entity.ErrFileTooLarge, filename, size, v.cfg.MaxFileSize)
	}

	return nil
}

// ValidateQuestion returns the trimmed question or a validation error
func (v *Validator) ValidateQuestion(question string) (string, error) {
	trimmed := strings.TrimSpace(question)
	if trimmed == "" {
		return "", fmt.Errorf("%w: %w", entity.ErrValidation, entity.ErrEmptyQuestion)
	}

	if n := utf8.RuneCountInString(trimmed); n > v.cfg.MaxQuestionLength {
		return "", fmt.Errorf("%w: %w: %d characters (max %d)", entity.ErrValidation, entity.ErrQuestionTooLong, n, v.cfg.MaxQuestionLength)
	}

	return trimmed, nil
}
