package listing

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/futig/realty-advisor/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const listingsCacheKey = "listings"

// missingMarkers are cell values treated as missing, in addition to blanks.
var missingMarkers = map[string]bool{
	"na": true, "n/a": true, "nan": true, "-nan": true, "null": true,
	"none": true, "#n/a": true, "<na>": true,
}

// ListingUsecase serves the flat-file listings table.
type ListingUsecase struct {
	path  string
	cache *cache.Cache
}

func NewUsecase(path string, ttl time.Duration) *ListingUsecase {
	return &ListingUsecase{
		path:  path,
		cache: cache.New(ttl, 2*ttl),
	}
}

// GetAll returns every row with no missing cell. Columns whose cells are
// all numeric are converted to int64 or float64.
func (uc *ListingUsecase) GetAll(ctx context.Context) ([]entity.Listing, error) {
	if v, ok := uc.cache.Get(listingsCacheKey); ok {
		ctxzap.Debug(ctx, "listings served from cache")
		return v.([]entity.Listing), nil
	}

	f, err := os.Open(uc.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrListingsSource, err)
	}
	defer f.Close()

	listings, dropped, err := parseListings(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", entity.ErrListingsSource, uc.path, err)
	}

	ctxzap.Info(ctx, "listings loaded",
		zap.String("path", uc.path),
		zap.Int("rows", len(listings)),
		zap.Int("dropped_rows", dropped),
	)

	uc.cache.SetDefault(listingsCacheKey, listings)
	return listings, nil
}

func parseListings(r io.Reader) ([]entity.Listing, int, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = false

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []entity.Listing{}, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var rows [][]string
	dropped := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read row %d: %w", len(rows)+dropped+2, err)
		}
		if hasMissing(record) {
			dropped++
			continue
		}
		rows = append(rows, record)
	}

	kinds := make([]columnKind, len(header))
	for col := range header {
		kinds[col] = detectKind(rows, col)
	}

	listings := make([]entity.Listing, 0, len(rows))
	for _, record := range rows {
		l := make(entity.Listing, len(header))
		for col, name := range header {
			l[name] = convert(strings.TrimSpace(record[col]), kinds[col])
		}
		listings = append(listings, l)
	}

	return listings, dropped, nil
}

func hasMissing(record []string) bool {
	for _, cell := range record {
		v := strings.TrimSpace(cell)
		if v == "" || missingMarkers[strings.ToLower(v)] {
			return true
		}
	}
	return false
}

type columnKind int

const (
	kindString columnKind = iota
	kindInt
	kindFloat
)

func detectKind(rows [][]string, col int) columnKind {
	if len(rows) == 0 {
		return kindString
	}

	kind := kindInt
	for _, record := range rows {
		v := strings.TrimSpace(record[col])
		if _, err := strconv.ParseInt(v, 10, 64); err == nil {
			continue
		}
		if _, err := strconv.ParseFloat(v, 64); err == nil {
			kind = kindFloat
			continue
		}
		return kindString
	}
	return kind
}

func convert(v string, kind columnKind) any {
	switch kind {
	case kindInt:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	case kindFloat:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	default:
		return v
	}
}
