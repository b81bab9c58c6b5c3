package checker_test

import (
	"maps"
	"testing"

	"github.com/Houeta/stock-flow/internal/models"
	"github.com/Houeta/stock-flow/internal/services/checker"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(size string, status models.Availability) models.SizeEntry {
	return models.SizeEntry{Size: size, Status: status, InStock: status.InStock()}
}

func snapshotOf(price string, sizes ...models.SizeEntry) *models.Snapshot {
	return &models.Snapshot{
		ProductID: "301239846",
		Name:      "LINEN SHIRT",
		Price:     decimal.RequireFromString(price),
		SourceURL: "https://www.zara.com/tr/en/linen-shirt-p04786162.html?v1=301239846",
		Sizes:     sizes,
	}
}

func TestDiffSizes(t *testing.T) {
	prior := map[string]models.SizeEntry{
		"S": entry("S", models.InStock),
		"M": entry("M", models.OutOfStock),
		"L": entry("L", models.LowOnStock),
	}

	testCases := []struct {
		name            string
		desiredSize     string
		prior           map[string]models.SizeEntry
		fresh           *models.Snapshot
		expectedChanged int
		expectedSizes   []string
	}{
		{
			name:        "Desired size back in stock",
			desiredSize: "M",
			prior:       prior,
			fresh: snapshotOf("999.99",
				entry("S", models.InStock), entry("M", models.InStock), entry("L", models.LowOnStock)),
			expectedChanged: 1,
			expectedSizes:   []string{"M"},
		},
		{
			name:        "Desired size matched case-insensitively",
			desiredSize: "m",
			prior:       prior,
			fresh: snapshotOf("999.99",
				entry("S", models.OutOfStock), entry("M", models.BackSoon), entry("L", models.OutOfStock)),
			expectedChanged: 3,
			expectedSizes:   []string{"M"},
		},
		{
			name:        "Other size transition gives no alert",
			desiredSize: "L",
			prior:       prior,
			fresh: snapshotOf("10",
				entry("S", models.InStock), entry("M", models.InStock), entry("L", models.LowOnStock)),
			expectedChanged: 1,
		},
		{
			name:            "Desired size sold out gives no alert",
			desiredSize:     "S",
			prior:           prior,
			fresh:           snapshotOf("10", entry("S", models.OutOfStock)),
			expectedChanged: 1,
		},
		{
			name:            "Newly observed size is not a change",
			desiredSize:     "XL",
			prior:           prior,
			fresh:           snapshotOf("10", entry("XL", models.InStock)),
			expectedChanged: 0,
		},
		{
			name:            "Empty prior state",
			desiredSize:     "M",
			prior:           nil,
			fresh:           snapshotOf("10", entry("M", models.InStock)),
			expectedChanged: 0,
		},
		{
			name:            "Prior keys in a different case",
			desiredSize:     "M",
			prior:           map[string]models.SizeEntry{"m": entry("m", models.ComingSoon)},
			fresh:           snapshotOf("10", entry("M", models.InStock)),
			expectedChanged: 1,
			expectedSizes:   []string{"M"},
		},
		{
			name:            "Low on stock to in stock is not a change",
			desiredSize:     "L",
			prior:           prior,
			fresh:           snapshotOf("10", entry("L", models.InStock)),
			expectedChanged: 0,
		},
		{
			name:            "Nil snapshot",
			desiredSize:     "M",
			prior:           prior,
			fresh:           nil,
			expectedChanged: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			changed, alerts := checker.DiffSizes(7, "LINEN SHIRT", tc.desiredSize, tc.prior, tc.fresh)

			assert.Equal(t, tc.expectedChanged, changed)
			require.Len(t, alerts, len(tc.expectedSizes))
			for i, size := range tc.expectedSizes {
				assert.Equal(t, size, alerts[i].Size)
				assert.Equal(t, int64(7), alerts[i].ProductID)
				assert.Equal(t, "LINEN SHIRT", alerts[i].ProductName)
				assert.True(t, alerts[i].Price.Equal(tc.fresh.Price))
				assert.Equal(t, tc.fresh.SourceURL, alerts[i].URL)
			}
		})
	}
}

func TestDiffSizes_Idempotent(t *testing.T) {
	prior := map[string]models.SizeEntry{
		"S": entry("S", models.InStock),
		"M": entry("M", models.OutOfStock),
	}
	original := maps.Clone(prior)
	fresh := snapshotOf("999.99", entry("S", models.OutOfStock), entry("M", models.InStock))

	changed1, alerts1 := checker.DiffSizes(1, "X", "M", prior, fresh)
	changed2, alerts2 := checker.DiffSizes(1, "X", "M", prior, fresh)

	assert.Equal(t, changed1, changed2)
	assert.Equal(t, alerts1, alerts2)
	assert.Equal(t, original, prior)
	assert.Equal(t, 2, changed1)
	assert.Len(t, alerts1, 1)
}

func TestDetectPriceDrop(t *testing.T) {
	testCases := []struct {
		name       string
		priorPrice string
		freshPrice string
		expectDrop bool
	}{
		{name: "Price went down", priorPrice: "1299.99", freshPrice: "999.99", expectDrop: true},
		{name: "Price went up", priorPrice: "999.99", freshPrice: "1299.99"},
		{name: "Price unchanged", priorPrice: "999.99", freshPrice: "999.99"},
		{name: "Unknown prior price", priorPrice: "0", freshPrice: "999.99"},
		{name: "Unknown fresh price", priorPrice: "999.99", freshPrice: "0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			product := models.TrackedProduct{
				ID:    3,
				URL:   "https://www.zara.com/tr/en/x-p1.html",
				Name:  "OLD NAME",
				Price: decimal.RequireFromString(tc.priorPrice),
			}

			drop := checker.DetectPriceDrop(product, snapshotOf(tc.freshPrice))

			if !tc.expectDrop {
				assert.Nil(t, drop)
				return
			}
			require.NotNil(t, drop)
			assert.Equal(t, int64(3), drop.ProductID)
			assert.Equal(t, "LINEN SHIRT", drop.ProductName)
			assert.Equal(t, product.URL, drop.URL)
			assert.Equal(t, "300.00", drop.Savings().StringFixed(2))
		})
	}

	assert.Nil(t, checker.DetectPriceDrop(models.TrackedProduct{}, nil))
}
