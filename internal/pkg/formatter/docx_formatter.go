package formatter

import (
	"bytes"

	"github.com/futig/realty-advisor/internal/entity"
	"github.com/unidoc/unioffice/document"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (mf *DOCXFormatter) Format(brief entity.AnswerBrief) ([]byte, error) {
	doc := document.New()
	defer doc.Close()

	addParagraph(doc, "Title", baseTitle)

	addParagraph(doc, "Heading1", questionHeading)
	addParagraph(doc, "", brief.Question)

	addParagraph(doc, "Heading1", answerHeading)
	addParagraph(doc, "", brief.Answer)

	doc.AddParagraph()
	footerRun := doc.AddParagraph().AddRun()
	footerRun.Properties().SetItalic(true)
	footerRun.AddText(footer(brief))

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addParagraph(doc *document.Document, style, text string) {
	par := doc.AddParagraph()
	if style != "" {
		par.SetStyle(style)
	}
	par.AddRun().AddText(text)
}

func (mf *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (mf *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
