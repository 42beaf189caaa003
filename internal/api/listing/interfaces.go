package listing

import (
	"context"

	"github.com/futig/realty-advisor/internal/entity"
)

type ListingUsecase interface {
	GetAll(ctx context.Context) ([]entity.Listing, error)
}
