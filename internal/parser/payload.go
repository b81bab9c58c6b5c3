package parser

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// payload mirrors the product record of the products-details API.
// Every field the API may omit is optional here; validate() decides what is required.
type payload struct {
	ID     flexString `json:"id"`
	Name   *string    `json:"name"`
	Detail *detail    `json:"detail"`
}

type detail struct {
	Colors []color `json:"colors"`
}

type color struct {
	Name      string     `json:"name"`
	ProductID flexString `json:"productId"`
	XMedia    []media    `json:"xmedia"`
	Sizes     []size     `json:"sizes"`
}

type media struct {
	Kind      string     `json:"kind"`
	ExtraInfo *extraInfo `json:"extraInfo"`
}

type extraInfo struct {
	DeliveryURL string `json:"deliveryUrl"`
}

type size struct {
	Name          string          `json:"name"`
	Availability  *string         `json:"availability"`
	Price         decimal.Decimal `json:"price"`    // minor units
	OldPrice      decimal.Decimal `json:"oldPrice"` // minor units
	DiscountLabel string          `json:"discountLabel"`
}

// validate checks the structure the snapshot depends on.
func (p *payload) validate() error {
	switch {
	case p.Detail == nil:
		return &ParseError{Reason: "payload has no detail"}
	case len(p.Detail.Colors) == 0:
		return &ParseError{Reason: "payload has no colors"}
	case len(p.Detail.Colors[0].Sizes) == 0:
		return &ParseError{Reason: "first color has no sizes"}
	}

	return nil
}

// flexString accepts a JSON string, number or null.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("expected string or number, got %s", data)
		}
		*f = flexString(n.String())
	}

	return nil
}
