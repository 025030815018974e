package dto

// Pagination bounds and defaults for list endpoints.
const (
	MaxPage             = 1000
	MaxPageSize         = 200
	DefaultCategorySize = 50
	DefaultProductSize  = 20
	DefaultGroupSize    = 50
	DefaultSort         = "id_desc"
)

// TenantRequest carries the tenant scope every catalog request resolves.
// An absent shopId falls back to the configured default shop.
type TenantRequest struct {
	ShopID     *int64 `form:"shopId" binding:"omitempty,min=1"`
	LanguageID *int64 `form:"lang" binding:"omitempty,min=1"`
}

// ListRequest represents common list/pagination request parameters
type ListRequest struct {
	TenantRequest
	Page     int    `form:"page" binding:"omitempty,min=1,max=1000"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=200"`
	Sort     string `form:"sort"`
}

// ApplyDefaults fills the pagination defaults for a given page size.
func (r *ListRequest) ApplyDefaults(defaultSize int) {
	if r.Page == 0 {
		r.Page = 1
	}
	if r.PageSize == 0 {
		r.PageSize = defaultSize
	}
	if r.Sort == "" {
		r.Sort = DefaultSort
	}
}

// ProductListRequest narrows a product listing to a category.
type ProductListRequest struct {
	ListRequest
	CategoryID *int64 `form:"categoryId" binding:"omitempty,min=1"`
}

// ProductDetailRequest carries the optional customer scope of a detail view.
type ProductDetailRequest struct {
	TenantRequest
	CustomerID *int64 `form:"customerId" binding:"omitempty,min=1"`
}

// IDRequest represents a request with a numeric ID path parameter
type IDRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// RegisterRequest is the wholesale registration submission. The social
// title and consent flags are part of the inbound contract but carry no
// weight in the sync document; the storefront collects consent on its own.
type RegisterRequest struct {
	Email                       string `json:"email" binding:"required,email"`
	Password                    string `json:"password" binding:"required,min=8,max=72"`
	FirstName                   string `json:"firstName" binding:"required,max=128"`
	LastName                    string `json:"lastName" binding:"required,max=128"`
	SocialTitle                 string `json:"socialTitle" binding:"omitempty,oneof=mr mrs"`
	Company                     string `json:"company" binding:"omitempty,max=255"`
	VATNumber                   string `json:"vatNumber" binding:"omitempty,max=32"`
	IBAN                        string `json:"iban" binding:"omitempty,max=42"`
	Phone                       string `json:"phone" binding:"omitempty,max=32"`
	Street                      string `json:"street" binding:"required,max=255"`
	City                        string `json:"city" binding:"required,max=128"`
	PostalCode                  string `json:"postalCode" binding:"required,max=16"`
	CountryISO                  string `json:"countryIso" binding:"required,iso3166_1_alpha2"`
	Newsletter                  bool   `json:"newsletter"`
	PartnerOffers               bool   `json:"partnerOffers"`
	CustomerDataPrivacyAccepted bool   `json:"customerDataPrivacyAccepted"`
	TermsAndPrivacyAccepted     bool   `json:"termsAndPrivacyAccepted"`
}
