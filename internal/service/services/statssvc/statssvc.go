package statssvc

import (
	"context"
)

// Statistics is the admin dashboard summary.
type Statistics struct {
	TotalOrders       int64 `json:"totalOrders"`
	TotalRevenueCents int64 `json:"totalRevenueCents"`
	TotalProducts     int64 `json:"totalProducts"`
	TotalUsers        int64 `json:"totalUsers"`
	TodayOrders       int64 `json:"todayOrders"`
}

type orderCounter interface {
	CountAll(ctx context.Context) (int64, error)
	CountToday(ctx context.Context) (int64, error)
	PaidRevenueCents(ctx context.Context) (int64, error)
}

type productCounter interface {
	CountActiveProducts(ctx context.Context) (int64, error)
}

type userCounter interface {
	Count(ctx context.Context) (int64, error)
}

// StatsService aggregates dashboard counters across repositories.
type StatsService struct {
	orders   orderCounter
	products productCounter
	users    userCounter
}

// NewStatsService creates a new StatsService.
func NewStatsService(orders orderCounter, products productCounter, users userCounter) *StatsService {
	return &StatsService{
		orders:   orders,
		products: products,
		users:    users,
	}
}

// Collect gathers the dashboard summary. Revenue counts paid orders only.
func (s *StatsService) Collect(ctx context.Context) (*Statistics, error) {
	stats := &Statistics{}

	var err error
	if stats.TotalOrders, err = s.orders.CountAll(ctx); err != nil {
		return nil, err
	}
	if stats.TodayOrders, err = s.orders.CountToday(ctx); err != nil {
		return nil, err
	}
	if stats.TotalRevenueCents, err = s.orders.PaidRevenueCents(ctx); err != nil {
		return nil, err
	}
	if stats.TotalProducts, err = s.products.CountActiveProducts(ctx); err != nil {
		return nil, err
	}
	if stats.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, err
	}

	return stats, nil
}
