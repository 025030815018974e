package catalog

import "github.com/shopspring/decimal"

// ImageRef points at one product image served by the legacy storefront.
type ImageRef struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

// ManufacturerRef is the manufacturer association of a product, present only
// when the upstream record references one.
type ManufacturerRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CategoryRef is a bare category association on a product detail.
type CategoryRef struct {
	ID int64 `json:"id"`
}

// StockSnapshot is the single-warehouse stock view exposed on a detail.
type StockSnapshot struct {
	Quantity *int64 `json:"quantity"`
}

// ProductSummary is the list shape of a product. Price is nil whenever the
// caller is not allowed to see prices, regardless of the upstream value.
type ProductSummary struct {
	ID           int64            `json:"id"`
	Name         string           `json:"name"`
	Price        *decimal.Decimal `json:"price"`
	Reference    string           `json:"reference"`
	DefaultImage *ImageRef        `json:"defaultImage"`
	Active       bool             `json:"active"`
}

// ProductDetail is the full product shape. At most one stock entry is
// exposed (single-warehouse assumption).
type ProductDetail struct {
	ID               int64            `json:"id"`
	Name             string           `json:"name"`
	DescriptionShort string           `json:"descriptionShort"`
	Description      string           `json:"description"`
	Reference        string           `json:"reference"`
	Price            *decimal.Decimal `json:"price"`
	Active           bool             `json:"active"`
	Images           []ImageRef       `json:"images"`
	Manufacturer     *ManufacturerRef `json:"manufacturer,omitempty"`
	Categories       []CategoryRef    `json:"categories,omitempty"`
	Stock            *StockSnapshot   `json:"stock,omitempty"`
}

// RedactPrice clears the price when price access is denied.
func (p *ProductSummary) RedactPrice(allowPrice bool) {
	if !allowPrice {
		p.Price = nil
	}
}

// RedactPrice clears the price when price access is denied.
func (p *ProductDetail) RedactPrice(allowPrice bool) {
	if !allowPrice {
		p.Price = nil
	}
}
