package checker

import "github.com/Houeta/stock-flow/internal/models"

// DiffSizes compares the prior per-size state of a product with a fresh snapshot.
// It returns how many known sizes flipped availability and an alert for each
// out-of-stock to in-stock transition of the desired size. Sizes absent from
// prior are newly observed and never count. Inputs are not modified.
func DiffSizes(
	productID int64,
	productName, desiredSize string,
	prior map[string]models.SizeEntry,
	fresh *models.Snapshot,
) (int, []models.StockAlert) {
	if fresh == nil {
		return 0, nil
	}

	var (
		changed int
		alerts  []models.StockAlert
	)

	for _, entry := range fresh.Sizes {
		old, ok := lookupSize(prior, entry.Size)
		if !ok || old.InStock == entry.InStock {
			continue
		}

		changed++

		if entry.InStock && models.SameSize(entry.Size, desiredSize) {
			alerts = append(alerts, models.StockAlert{
				ProductID:   productID,
				ProductName: productName,
				Size:        entry.Size,
				Price:       fresh.Price,
				URL:         fresh.SourceURL,
			})
		}
	}

	return changed, alerts
}

// DetectPriceDrop returns a PriceDrop when the fresh price is lower than the
// last stored one. Unknown (zero) prices on either side are ignored.
func DetectPriceDrop(product models.TrackedProduct, fresh *models.Snapshot) *models.PriceDrop {
	if fresh == nil || !product.Price.IsPositive() || !fresh.Price.IsPositive() {
		return nil
	}
	if !fresh.Price.LessThan(product.Price) {
		return nil
	}

	name := fresh.Name
	if name == "" {
		name = product.Name
	}

	return &models.PriceDrop{
		ProductID:   product.ID,
		ProductName: name,
		OldPrice:    product.Price,
		NewPrice:    fresh.Price,
		URL:         product.URL,
	}
}

func lookupSize(prior map[string]models.SizeEntry, size string) (models.SizeEntry, bool) {
	if entry, ok := prior[size]; ok {
		return entry, true
	}

	for key, entry := range prior {
		if models.SameSize(key, size) {
			return entry, true
		}
	}

	return models.SizeEntry{}, false
}
