// Package customer holds the customer-facing authorization model of the
// gateway. Nothing here is persisted; decisions are derived per request from
// upstream records.
package customer

// PriceAccessDecision is the per-customer authorization decision gating
// price visibility. The zero value denies access, so every unresolved lookup
// fails closed.
type PriceAccessDecision struct {
	CustomerID      int64  `json:"customerId"`
	Active          bool   `json:"active"`
	DefaultGroupID  *int64 `json:"defaultGroupId"`
	GroupShowPrices bool   `json:"groupShowPrices"`
	Allowed         bool   `json:"allowed"`
}

// Denied returns the fail-closed decision for a customer.
func Denied(customerID int64) PriceAccessDecision {
	return PriceAccessDecision{CustomerID: customerID}
}
