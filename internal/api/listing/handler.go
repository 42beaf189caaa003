package listing

import (
	"net/http"

	"github.com/futig/realty-advisor/internal/pkg/logger"
	"github.com/futig/realty-advisor/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase ListingUsecase
}

func NewHandler(usecase ListingUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// GetAll handles GET /getall
func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GetAllListings")

	listings, err := h.usecase.GetAll(ctx)
	if err != nil {
		ctxzap.Error(ctx, "failed to load listings", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "listings are unavailable")
		return
	}

	ctxzap.Debug(ctx, "listings returned", zap.Int("count", len(listings)))
	response.Success(w, listings)
}
