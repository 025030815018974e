package catalog

import "github.com/shopspring/decimal"

// Group is a customer group enriched with its member-count aggregate.
// Counting members costs one upstream scan per group, which makes listing
// many groups expensive; see GroupService for the documented bottleneck.
type Group struct {
	ID              int64            `json:"id"`
	Name            string           `json:"groupName"`
	DiscountPercent *decimal.Decimal `json:"discountPercent"`
	Members         int              `json:"members"`
	ShowPrices      bool             `json:"showPrices"`
	CreationDate    *string          `json:"creationDate"`
}
