// Package shop models the tenant (storefront) dimension of the gateway.
// Every upstream call is scoped to exactly one shop and optionally one
// language of that shop.
package shop

import "errors"

// Context identifies the tenant scope of a single request. It is immutable
// once built; services receive it per call and never cache it.
type Context struct {
	ShopID     int64
	LanguageID *int64
}

// NewContext builds a tenant context.
func NewContext(shopID int64, languageID *int64) Context {
	return Context{ShopID: shopID, LanguageID: languageID}
}

// Shop is one storefront entry of the static shop directory.
type Shop struct {
	ID      int64  `json:"id"`
	Code    string `json:"code"`
	Domain  string `json:"domain"`
	BaseURL string `json:"baseUrl"`
}

// Directory is the configured set of shops served by the gateway.
type Directory struct {
	shops         []Shop
	defaultShopID int64
}

// ErrUnknownShop indicates a shop id outside the configured routing table.
var ErrUnknownShop = errors.New("shop: unknown shop id")

// NewDirectory builds a shop directory. The default shop is used when a
// request carries no usable tenant hint.
func NewDirectory(shops []Shop, defaultShopID int64) (*Directory, error) {
	d := &Directory{shops: shops, defaultShopID: defaultShopID}
	if _, err := d.ByID(defaultShopID); err != nil {
		return nil, err
	}
	return d, nil
}

// ByID returns the shop with the given id.
func (d *Directory) ByID(id int64) (Shop, error) {
	for _, s := range d.shops {
		if s.ID == id {
			return s, nil
		}
	}
	return Shop{}, ErrUnknownShop
}

// Default returns the default shop.
func (d *Directory) Default() Shop {
	s, _ := d.ByID(d.defaultShopID)
	return s
}

// DefaultID returns the configured default shop id.
func (d *Directory) DefaultID() int64 {
	return d.defaultShopID
}

// All returns every configured shop in declaration order.
func (d *Directory) All() []Shop {
	out := make([]Shop, len(d.shops))
	copy(out, d.shops)
	return out
}

// BaseURL resolves the webservice base URL for a shop id, falling back to
// the default shop when the id is not routed.
func (d *Directory) BaseURL(id int64) string {
	if s, err := d.ByID(id); err == nil {
		return s.BaseURL
	}
	return d.Default().BaseURL
}
