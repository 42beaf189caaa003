package query

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/futig/realty-advisor/internal/entity"
	"github.com/futig/realty-advisor/internal/pkg/logger"
	"github.com/futig/realty-advisor/internal/pkg/response"
	"github.com/futig/realty-advisor/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	answerer   Answerer
	formatters FormatterFactory
	validator  *validator.Validator
}

func NewHandler(
	answerer Answerer,
	formatters FormatterFactory,
	validator *validator.Validator,
) *Handler {
	return &Handler{
		answerer:   answerer,
		formatters: formatters,
		validator:  validator,
	}
}

// Query handles POST /query
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Query")

	req, err := h.parseRequest(r)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	answer, err := h.answerer.Answer(ctx, req.Query)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, &entity.QueryResponse{Answer: answer})
}

// Export handles POST /query/export?format=md|pdf|docx
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ExportQuery")

	format := entity.ResultFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = entity.FormatMarkdown
	}
	if err := h.validator.ValidateFormat(format); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	req, err := h.parseRequest(r)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	answer, err := h.answerer.Answer(ctx, req.Query)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	f, err := h.formatters.Create(format)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	data, err := f.Format(entity.AnswerBrief{
		Question:    req.Query,
		Answer:      answer,
		GeneratedAt: time.Now(),
	})
	if err != nil {
		h.respondError(ctx, w, http.StatusInternalServerError, "failed to render export", err)
		return
	}

	ctxzap.Info(ctx, "answer exported", zap.String("format", string(format)), zap.Int("bytes", len(data)))
	response.File(w, "investment-brief"+f.FileExtension(), f.ContentType(), data)
}

// parseRequest reads {"query": ...} from the body and falls back to the
// query URL parameter.
func (h *Handler) parseRequest(r *http.Request) (*entity.QueryRequest, error) {
	var req entity.QueryRequest

	if r.Body != nil {
		err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, errors.Join(entity.ErrInvalidFormat, err)
		}
	}

	if req.Query == "" {
		req.Query = r.URL.Query().Get("query")
	}

	if err := h.validator.ValidateQuery(&req); err != nil {
		return nil, err
	}

	return &req, nil
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	ctxzap.Error(ctx, message, zap.Error(err))
	response.Error(w, status, message)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, entity.ErrMissingField) || errors.Is(err, entity.ErrInvalidParameter) || errors.Is(err, entity.ErrInvalidFormat) {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request: "+err.Error(), err)
	} else if errors.Is(err, entity.ErrUnsupportedType) {
		h.respondError(ctx, w, http.StatusBadRequest, "unsupported export format", err)
	} else if errors.Is(err, entity.ErrNotInitialized) {
		h.respondError(ctx, w, http.StatusServiceUnavailable, "corpus is not ready", err)
	} else {
		h.respondError(ctx, w, http.StatusInternalServerError, "failed to answer the question", err)
	}
}
