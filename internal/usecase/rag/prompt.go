package rag

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/futig/realty-advisor/internal/entity"
)

// DocumentSeparator joins retrieved chunk texts in the rendered prompt.
const DocumentSeparator = "\n\n"

const DefaultPromptTemplate = `Let's think step by step. You are an independent real-estate investment assistant.
Use the following documents to answer the question.
If you don't know the answer, just say that you don't know.
Question: {{.Question}}
Documents: {{.Documents}}
Answer:
`

type promptData struct {
	Question  string
	Documents string
}

// PromptComposer renders the question and retrieved chunks into a prompt.
// Chunk texts are never shortened here; size limits are enforced by the
// generator.
type PromptComposer struct {
	tmpl *template.Template
}

// NewPromptComposer parses text as a template with the fields .Question and
// .Documents. An empty text selects DefaultPromptTemplate.
func NewPromptComposer(text string) (*PromptComposer, error) {
	if strings.TrimSpace(text) == "" {
		text = DefaultPromptTemplate
	}

	tmpl, err := template.New("prompt").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: prompt template: %w", entity.ErrInvalidFormat, err)
	}

	return &PromptComposer{tmpl: tmpl}, nil
}

func (p *PromptComposer) Compose(question string, chunks []entity.Chunk) (string, error) {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	var b strings.Builder
	err := p.tmpl.Execute(&b, promptData{
		Question:  question,
		Documents: strings.Join(texts, DocumentSeparator),
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}

	return b.String(), nil
}
