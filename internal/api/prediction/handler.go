package prediction

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/futig/realty-advisor/internal/entity"
	"github.com/futig/realty-advisor/internal/pkg/logger"
	"github.com/futig/realty-advisor/internal/pkg/response"
	"github.com/futig/realty-advisor/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const maxBodyBytes = 64 << 10

type Handler struct {
	usecase   PredictionUsecase
	validator *validator.Validator
}

func NewHandler(usecase PredictionUsecase, validator *validator.Validator) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
	}
}

// Predict handles POST /predict. Fields missing from the body keep their
// defaults.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Predict")

	features := entity.DefaultPropertyFeatures()
	if r.Body != nil {
		err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&features)
		if err != nil && !errors.Is(err, io.EOF) {
			h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
			return
		}
	}

	if err := h.validator.ValidateFeatures(&features); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	resp, err := h.usecase.Predict(ctx, features)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, resp)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	ctxzap.Error(ctx, message, zap.Error(err))
	response.Error(w, status, message)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, entity.ErrMissingField) || errors.Is(err, entity.ErrInvalidParameter) {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter: "+err.Error(), err)
	} else {
		h.respondError(ctx, w, http.StatusInternalServerError, "prediction failed", err)
	}
}
