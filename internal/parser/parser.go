package parser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Houeta/stock-flow/internal/models"
	"github.com/shopspring/decimal"
)

// ErrParse is matched by every error returned from Parse.
var ErrParse = errors.New("failed to parse product payload")

// ParseError describes why a payload could not become a snapshot.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrParse, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrParse, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is to match ErrParse.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// Parser turns raw product API records into snapshots.
type Parser struct {
	log *slog.Logger
}

func NewParser(log *slog.Logger) *Parser {
	return &Parser{log: log}
}

// Parse decodes raw, validates its structure and extracts a snapshot.
// variantID is the requested variant; a different first color is only logged.
func (p *Parser) Parse(ctx context.Context, raw []byte, sourceURL, variantID string) (*models.Snapshot, error) {
	const opn = "parser.Parse"
	log := p.log.With("op", opn, "url", sourceURL)

	var data payload
	if err := json.Unmarshal(raw, &data); err != nil {
		log.WarnContext(ctx, "Product payload is malformed", "error", err)
		return nil, &ParseError{Reason: "malformed payload", Err: err}
	}

	if err := data.validate(); err != nil {
		log.WarnContext(ctx, "Product payload has unexpected structure", "error", err)
		return nil, err
	}

	// The API is asked for one variant and is expected to return it first.
	clr := data.Detail.Colors[0]
	if variantID != "" && clr.ProductID != "" && string(clr.ProductID) != variantID {
		log.WarnContext(
			ctx,
			"First color does not match the requested variant",
			"requested", variantID,
			"received", string(clr.ProductID),
		)
	}

	name := models.UnknownName
	if data.Name != nil && strings.TrimSpace(*data.Name) != "" {
		name = strings.TrimSpace(*data.Name)
	}

	productID := string(clr.ProductID)
	if productID == "" {
		productID = string(data.ID)
	}

	snapshot := &models.Snapshot{
		ProductID: productID,
		Name:      name,
		Color:     clr.Name,
		ImageURL:  pickImage(clr.XMedia),
		SourceURL: sourceURL,
		Sizes:     make([]models.SizeEntry, 0, len(clr.Sizes)),
	}

	seenPrices := make(map[string]struct{})
	for _, sz := range clr.Sizes {
		entry := toSizeEntry(sz)

		// The last non-zero values win; zero means "not provided".
		if entry.Price.IsPositive() {
			snapshot.Price = entry.Price
			seenPrices[entry.Price.String()] = struct{}{}
		}
		if entry.OldPrice.IsPositive() {
			snapshot.OldPrice = entry.OldPrice
		}
		if entry.DiscountLabel != "" {
			snapshot.DiscountLabel = entry.DiscountLabel
		}

		snapshot.Sizes = append(snapshot.Sizes, entry)
	}

	if len(seenPrices) > 1 {
		log.WarnContext(
			ctx,
			"Sizes disagree on price, using the last one",
			"distinct_prices", len(seenPrices),
			"price", snapshot.Price.String(),
		)
	}

	log.DebugContext(ctx, "Parsed product", "name", snapshot.Name, "sizes", len(snapshot.Sizes), "price", snapshot.Price)

	return snapshot, nil
}

func toSizeEntry(sz size) models.SizeEntry {
	status := models.OutOfStock
	if sz.Availability != nil && *sz.Availability != "" {
		status = models.Availability(*sz.Availability)
	}

	return models.SizeEntry{
		Size:          strings.TrimSpace(sz.Name),
		InStock:       status.InStock(),
		Status:        status,
		Price:         fromMinorUnits(sz.Price),
		OldPrice:      fromMinorUnits(sz.OldPrice),
		DiscountLabel: sz.DiscountLabel,
	}
}

// fromMinorUnits converts cents to currency units.
func fromMinorUnits(v decimal.Decimal) decimal.Decimal {
	return v.Shift(-2)
}

// pickImage prefers the "full" media, then the first one.
func pickImage(xmedia []media) string {
	for _, m := range xmedia {
		if m.Kind == "full" && m.ExtraInfo != nil && m.ExtraInfo.DeliveryURL != "" {
			return m.ExtraInfo.DeliveryURL
		}
	}

	if len(xmedia) > 0 && xmedia[0].ExtraInfo != nil {
		return xmedia[0].ExtraInfo.DeliveryURL
	}

	return ""
}
