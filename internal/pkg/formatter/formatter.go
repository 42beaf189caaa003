package formatter

import (
	"fmt"

	"github.com/futig/realty-advisor/internal/entity"
)

const (
	baseTitle       = "Real-Estate Investment Brief"
	questionHeading = "Question"
	answerHeading   = "Answer"
	timestampLayout = "2006-01-02 15:04 MST"
)

type Formatter interface {
	Format(brief entity.AnswerBrief) ([]byte, error)
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
		return nil, fmt.Errorf("%w: %s", entity.ErrUnsupportedType, format)
	}
}

func footer(brief entity.AnswerBrief) string {
	return "Generated " + brief.GeneratedAt.UTC().Format(timestampLayout) +
		". Answers are drawn from public property news and are not financial advice."
}
