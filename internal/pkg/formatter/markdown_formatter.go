package formatter

import (
	"bytes"
	"fmt"

	"github.com/futig/realty-advisor/internal/entity"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(brief entity.AnswerBrief) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", baseTitle)
	fmt.Fprintf(&buf, "## %s\n\n%s\n\n", questionHeading, brief.Question)
	fmt.Fprintf(&buf, "## %s\n\n%s\n\n", answerHeading, brief.Answer)
	fmt.Fprintf(&buf, "---\n\n_%s_\n", footer(brief))
	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
