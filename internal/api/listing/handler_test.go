package listing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futig/realty-advisor/internal/entity"
)

type stubUsecase struct {
	listings []entity.Listing
	err      error
}

func (s stubUsecase) GetAll(context.Context) ([]entity.Listing, error) {
	return s.listings, s.err
}

func serve(uc ListingUsecase) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(uc))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/getall", nil))
	return rec
}

func TestGetAll(t *testing.T) {
	rec := serve(stubUsecase{listings: []entity.Listing{{"neighborhood": "JVC", "price": int64(900000)}}})
	require.Equal(t, http.StatusOK, rec.Code)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "JVC", got[0]["neighborhood"])
	assert.Equal(t, 900000.0, got[0]["price"])
}

func TestGetAll_SourceUnavailable(t *testing.T) {
	rec := serve(stubUsecase{err: entity.ErrListingsSource})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
