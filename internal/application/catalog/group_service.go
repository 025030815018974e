package catalog

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/grifons-arch/grifon-eshop-sub000/internal/domain/catalog"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/domain/shop"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/infrastructure/cache"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/infrastructure/telemetry"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/infrastructure/upstream"
)

const groupDisplay = "[id,name,reduction,show_prices,date_add]"

// MemberCounter counts customers belonging to a group.
type MemberCounter interface {
	GroupMembersCount(ctx context.Context, sc shop.Context, groupID int64) (int, error)
}

// GroupPage is one page of customer groups.
type GroupPage struct {
	Items    []catalog.Group `json:"items"`
	Page     int             `json:"page"`
	PageSize int             `json:"pageSize"`
}

// GroupService lists customer groups with their member counts. Counting is
// one membership scan per group, so a page of N groups costs N+1 upstream
// round trips; the cache in front absorbs most of that.
type GroupService struct {
	clients *upstream.Factory
	cache   cache.Store
	ttl     time.Duration
	members MemberCounter
	logger  *zap.Logger
}

// NewGroupService creates a new group service.
func NewGroupService(clients *upstream.Factory, store cache.Store, ttl time.Duration, members MemberCounter, logger *zap.Logger) *GroupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GroupService{clients: clients, cache: store, ttl: ttl, members: members, logger: logger}
}

// List returns one page of groups enriched with member counts. A failed
// count logs and reports zero members rather than failing the page.
func (s *GroupService) List(ctx context.Context, sc shop.Context, q ListQuery) (*GroupPage, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "list_groups")
	defer span.End()

	key := cache.BuildKey("groups", listDims(sc, q))
	var cached GroupPage
	if cacheLoad(ctx, s.cache, key, &cached) {
		return &cached, nil
	}

	params := map[string]string{
		"display":             groupDisplay,
		"filter[show_prices]": "1",
		"limit":               upstream.LimitParam(q.Page, q.PageSize),
	}
	if token, ok := upstream.SortToken(q.Sort); ok {
		params["sort"] = token
	}

	payload, err := s.clients.For(sc).Get(ctx, "groups", params)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	items := upstream.ExtractList("groups", payload)
	groups := make([]catalog.Group, 0, len(items))
	for _, item := range items {
		g := catalog.Group{
			Name:            upstream.LocalizedValue(item["name"]),
			DiscountPercent: upstream.AsDecimal(item["reduction"]),
			ShowPrices:      upstream.AsBool(item["show_prices"]),
		}
		if id, ok := upstream.AsInt64(item["id"]); ok {
			g.ID = id
		}
		if created := upstream.AsString(item["date_add"]); created != "" {
			g.CreationDate = &created
		}

		count, err := s.members.GroupMembersCount(ctx, sc, g.ID)
		if err != nil {
			s.logger.Warn("group member count failed",
				zap.Int64("group_id", g.ID),
				zap.Int64("shop_id", sc.ShopID),
				zap.Error(err))
		} else {
			g.Members = count
		}
		groups = append(groups, g)
	}

	page := &GroupPage{Items: groups, Page: q.Page, PageSize: q.PageSize}
	cacheStore(ctx, s.cache, s.logger, key, page, s.ttl)
	return page, nil
}
