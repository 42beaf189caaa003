package keyboard

import (
	"strconv"

	"github.com/futig/realty-advisor/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const maxButtonText = 60

// ExampleQuestions are offered under the welcome message.
var ExampleQuestions = []string{
	"How are apartment prices in Dubai Marina changing?",
	"Which Dubai areas have the highest rental yields?",
	"What new off-plan projects were announced recently?",
	"How do new regulations affect property investors?",
}

// Builder creates inline keyboards
type Builder struct {
	examples []string
}

// NewBuilder creates a keyboard builder over the given example questions
func NewBuilder(examples []string) *Builder {
	return &Builder{examples: append([]string(nil), examples...)}
}

// ExamplesKeyboard has one button per example question
func (b *Builder) ExamplesKeyboard() tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(b.examples))
	for i, q := range b.examples {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				render.RenderExampleButton(q, maxButtonText),
				EncodeCallback(ActionAsk, strconv.Itoa(i)),
			),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// Example returns the question behind an "ask" button.
func (b *Builder) Example(index int) (string, bool) {
	if index < 0 || index >= len(b.examples) {
		return "", false
	}
	return b.examples[index], true
}
