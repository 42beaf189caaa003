package formatter

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futig/realty-advisor/internal/entity"
)

var testBrief = entity.AnswerBrief{
	Question:    "Where should I invest in Dubai?",
	Answer:      "Dubai Marina and Business Bay show strong rental demand.",
	GeneratedAt: time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
}

func TestFactory_Create(t *testing.T) {
	f := NewFactory()

	for format, ext := range map[entity.ResultFormat]string{
		entity.FormatMarkdown: ".md",
		entity.FormatPDF:      ".pdf",
		entity.FormatDOCX:     ".docx",
	} {
		fm, err := f.Create(format)
		require.NoError(t, err)
		assert.Equal(t, ext, fm.FileExtension())
	}

	_, err := f.Create("html")
	assert.ErrorIs(t, err, entity.ErrUnsupportedType)
}

func TestMarkdownFormatter(t *testing.T) {
	out, err := NewMarkdownFormatter().Format(testBrief)
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "# Real-Estate Investment Brief")
	assert.Contains(t, text, "## Question\n\nWhere should I invest in Dubai?")
	assert.Contains(t, text, "## Answer\n\nDubai Marina and Business Bay")
	assert.Contains(t, text, "Generated 2024-05-01 10:30 UTC")
}

func TestPDFFormatter(t *testing.T) {
	out, err := NewPDFFormatter().Format(testBrief)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Equal(t, "application/pdf", NewPDFFormatter().ContentType())
}
