package validator

import (
	"fmt"
	"strings"

	"github.com/futig/realty-advisor/internal/entity"
)

// ValidateFeatures validates a PropertyFeatures record after defaults are applied
func (v *Validator) ValidateFeatures(f *entity.PropertyFeatures) error {
	if strings.TrimSpace(f.Type) == "" {
		return fmt.Errorf("%w: type", entity.ErrMissingField)
	}
	if strings.TrimSpace(f.Neighborhood) == "" {
		return fmt.Errorf("%w: neighborhood", entity.ErrMissingField)
	}
	if f.NoBedrooms < 0 || f.NoBathrooms < 0 {
		return fmt.Errorf("%w: room counts must not be negative", entity.ErrInvalidParameter)
	}
	if f.Area <= 0 {
		return fmt.Errorf("%w: area must be positive, got %v", entity.ErrInvalidParameter, f.Area)
	}
	if f.Latitude < -90 || f.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v", entity.ErrInvalidParameter, f.Latitude)
	}
	if f.Longitude < -180 || f.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v", entity.ErrInvalidParameter, f.Longitude)
	}
	for i, p := range f.PriceHistory() {
		if p < 0 {
			return fmt.Errorf("%w: p%d must not be negative", entity.ErrInvalidParameter, 2015+i)
		}
	}
	return nil
}
