package query

import (
	"context"

	"github.com/futig/realty-advisor/internal/entity"
	"github.com/futig/realty-advisor/internal/pkg/formatter"
)

type Answerer interface {
	Answer(ctx context.Context, question string) (string, error)
}

type FormatterFactory interface {
	Create(format entity.ResultFormat) (formatter.Formatter, error)
}
