// Package customer implements the price visibility decisions derived from
// the legacy customer and group records.
package customer

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/grifons-arch/grifon-eshop-sub000/internal/domain/customer"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/domain/shop"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/infrastructure/telemetry"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/infrastructure/upstream"
)

// memberScanPageSize is the window used when counting group members.
const memberScanPageSize = 100

// PriceAccessService decides whether a customer may see prices. Every
// failure path collapses to a denial; a storefront that cannot resolve a
// customer never leaks prices.
type PriceAccessService struct {
	clients *upstream.Factory
	logger  *zap.Logger
}

// NewPriceAccessService creates a new price access service.
func NewPriceAccessService(clients *upstream.Factory, logger *zap.Logger) *PriceAccessService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PriceAccessService{clients: clients, logger: logger}
}

// Resolve derives the price access decision for a customer. The customer
// must exist, be active, and belong to a default group that shows prices.
func (s *PriceAccessService) Resolve(ctx context.Context, sc shop.Context, customerID int64) customer.PriceAccessDecision {
	ctx, span := telemetry.StartServiceSpan(ctx, "price_access", "resolve")
	defer span.End()

	client := s.clients.For(sc)

	record, err := client.GetByID(ctx, "customers", customerID, map[string]string{
		"display": "[id,active,id_default_group]",
	})
	if err != nil {
		s.logger.Warn("customer lookup failed, denying price access",
			zap.Int64("customer_id", customerID),
			zap.Int64("shop_id", sc.ShopID),
			zap.Error(err))
		return customer.Denied(customerID)
	}
	item, ok := upstream.ExtractItem("customers", record)
	if !ok {
		return customer.Denied(customerID)
	}

	decision := customer.Denied(customerID)
	decision.Active = upstream.AsBool(item["active"])
	if groupID, ok := upstream.AsInt64(item["id_default_group"]); ok {
		decision.DefaultGroupID = &groupID
	}
	if !decision.Active || decision.DefaultGroupID == nil {
		return decision
	}

	group, err := client.GetByID(ctx, "groups", *decision.DefaultGroupID, map[string]string{
		"display": "[id,show_prices]",
	})
	if err != nil {
		s.logger.Warn("group lookup failed, denying price access",
			zap.Int64("customer_id", customerID),
			zap.Int64("group_id", *decision.DefaultGroupID),
			zap.Error(err))
		return decision
	}
	groupItem, ok := upstream.ExtractItem("groups", group)
	if !ok {
		return decision
	}

	decision.GroupShowPrices = upstream.AsBool(groupItem["show_prices"])
	decision.Allowed = decision.Active && decision.GroupShowPrices
	return decision
}

// Allowed reports whether the customer may see prices.
func (s *PriceAccessService) Allowed(ctx context.Context, sc shop.Context, customerID int64) bool {
	return s.Resolve(ctx, sc, customerID).Allowed
}

// GroupMembersCount counts the customers whose default group is groupID. The
// webservice has no count endpoint, so membership is scanned in fixed-size
// id-only pages until a short page marks the end.
func (s *PriceAccessService) GroupMembersCount(ctx context.Context, sc shop.Context, groupID int64) (int, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "price_access", "group_members_count")
	defer span.End()

	client := s.clients.For(sc)

	count := 0
	for page := 1; ; page++ {
		payload, err := client.Get(ctx, "customers", map[string]string{
			"display":                  "[id]",
			"filter[active]":           "1",
			"filter[id_default_group]": strconv.FormatInt(groupID, 10),
			"limit":                    upstream.LimitParam(page, memberScanPageSize),
		})
		if err != nil {
			return 0, err
		}
		items := upstream.ExtractList("customers", payload)
		count += len(items)
		if len(items) < memberScanPageSize {
			return count, nil
		}
	}
}
