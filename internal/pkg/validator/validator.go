package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/futig/realty-advisor/internal/entity"
)

const defaultMaxQueryRunes = 2000

// Validator checks request payloads before they reach a use case
type Validator struct {
	maxQueryRunes int
}

func NewValidator(maxQueryRunes int) *Validator {
	if maxQueryRunes <= 0 {
		maxQueryRunes = defaultMaxQueryRunes
	}
	return &Validator{maxQueryRunes: maxQueryRunes}
}

// ValidateQuery validates QueryRequest
func (v *Validator) ValidateQuery(req *entity.QueryRequest) error {
	if strings.TrimSpace(req.Query) == "" {
		return fmt.Errorf("%w: query", entity.ErrMissingField)
	}
	if n := utf8.RuneCountInString(req.Query); n > v.maxQueryRunes {
		return fmt.Errorf("%w: query is %d characters (max %d)", entity.ErrInvalidParameter, n, v.maxQueryRunes)
	}
	return nil
}

// ValidateFormat checks an export format name
func (v *Validator) ValidateFormat(format entity.ResultFormat) error {
	switch format {
	case entity.FormatMarkdown, entity.FormatPDF, entity.FormatDOCX:
		return nil
	case "":
		return fmt.Errorf("%w: format", entity.ErrMissingField)
	default:
		return fmt.Errorf("%w: %s (allowed: md, pdf, docx)", entity.ErrUnsupportedType, format)
	}
}
