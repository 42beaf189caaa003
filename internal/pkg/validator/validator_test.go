package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/futig/realty-advisor/internal/entity"
)

func TestValidateQuery(t *testing.T) {
	v := NewValidator(10)

	assert.NoError(t, v.ValidateQuery(&entity.QueryRequest{Query: "test"}))
	assert.ErrorIs(t, v.ValidateQuery(&entity.QueryRequest{Query: "  "}), entity.ErrMissingField)
	assert.ErrorIs(t, v.ValidateQuery(&entity.QueryRequest{Query: strings.Repeat("a", 11)}), entity.ErrInvalidParameter)
}

func TestValidateFormat(t *testing.T) {
	v := NewValidator(0)

	assert.NoError(t, v.ValidateFormat(entity.FormatPDF))
	assert.ErrorIs(t, v.ValidateFormat(""), entity.ErrMissingField)
	assert.ErrorIs(t, v.ValidateFormat("xlsx"), entity.ErrUnsupportedType)
}

func TestValidateFeatures(t *testing.T) {
	v := NewValidator(0)

	f := entity.DefaultPropertyFeatures()
	assert.NoError(t, v.ValidateFeatures(&f))

	tests := []struct {
		name   string
		mutate func(*entity.PropertyFeatures)
		want   error
	}{
		{"empty neighborhood", func(f *entity.PropertyFeatures) { f.Neighborhood = "" }, entity.ErrMissingField},
		{"zero area", func(f *entity.PropertyFeatures) { f.Area = 0 }, entity.ErrInvalidParameter},
		{"latitude out of range", func(f *entity.PropertyFeatures) { f.Latitude = 91 }, entity.ErrInvalidParameter},
		{"negative price", func(f *entity.PropertyFeatures) { f.P2019 = -1 }, entity.ErrInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := entity.DefaultPropertyFeatures()
			tt.mutate(&f)
			assert.ErrorIs(t, v.ValidateFeatures(&f), tt.want)
		})
	}
}
