package listing

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futig/realty-advisor/internal/entity"
)

const sampleCSV = `neighborhood,price,area,no_bedrooms
Dubai Marina,1500000.5,850,2
Business Bay,,900,1
Downtown Dubai,3200000,1200,3
JVC,NaN,700,1
`

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "listings.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseListings_DropsIncompleteRowsAndConvertsNumbers(t *testing.T) {
	listings, dropped, err := parseListings(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, 2, dropped)
	require.Len(t, listings, 2)

	first := listings[0]
	assert.Equal(t, "Dubai Marina", first["neighborhood"])
	assert.Equal(t, 1500000.5, first["price"])
	assert.Equal(t, int64(850), first["area"])
	assert.Equal(t, int64(2), first["no_bedrooms"])

	// a column with any fractional value is float for every row
	assert.Equal(t, 3200000.0, listings[1]["price"])
}

func TestParseListings_EmptyFile(t *testing.T) {
	listings, dropped, err := parseListings(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, listings)
	assert.Zero(t, dropped)
}

func TestGetAll_CachesResult(t *testing.T) {
	path := writeCSV(t, sampleCSV)
	uc := NewUsecase(path, time.Minute)

	first, err := uc.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 2)

	require.NoError(t, os.Remove(path))

	second, err := uc.GetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGetAll_MissingFile(t *testing.T) {
	uc := NewUsecase(filepath.Join(t.TempDir(), "absent.csv"), time.Minute)

	_, err := uc.GetAll(context.Background())
	assert.ErrorIs(t, err, entity.ErrListingsSource)
}
