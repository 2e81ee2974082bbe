package service

import (
	"context"
	"time"

	"go-dulceria-api/internal/model"
	"go-dulceria-api/internal/repository"
)

const maxDashboardDays = 90

type DashboardStats struct {
	StatusCounts map[model.OrderStatus]int64 `json:"status_counts"`
	Revenue      []repository.BranchRevenue  `json:"revenue_by_branch"`
	TotalRevenue int64                       `json:"total_revenue"`
	LowStock     []model.Product             `json:"low_stock"`
	Days         int                         `json:"days"`
}

type DashboardService interface {
	GetOrderSeries(ctx context.Context, days int) ([]repository.DailyOrders, error)
	GetDashboardStats(ctx context.Context, days int) (*DashboardStats, error)
}

type dashboardService struct {
	orders    repository.OrderRepository
	products  repository.ProductRepository
	threshold int
	loc       *time.Location
	now       func() time.Time
}

func NewDashboardService(orders repository.OrderRepository, products repository.ProductRepository, lowStockThreshold int, loc *time.Location) DashboardService {
	if loc == nil {
		loc = time.Local
	}
	return &dashboardService{
		orders:    orders,
		products:  products,
		threshold: lowStockThreshold,
		loc:       loc,
		now:       time.Now,
	}
}

// window covers the last days calendar days, today included
func (s *dashboardService) window(days int) (int, time.Time, time.Time) {
	if days < 1 {
		days = 7
	}
	if days > maxDashboardDays {
		days = maxDashboardDays
	}
	now := s.now().In(s.loc)
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc).AddDate(0, 0, 1)
	return days, end.AddDate(0, 0, -days), end
}

func (s *dashboardService) GetOrderSeries(ctx context.Context, days int) ([]repository.DailyOrders, error) {
	_, from, to := s.window(days)
	series, err := s.orders.DailySummary(ctx, from, to)
	if err != nil {
		return nil, internalError("dashboard: order series", err)
	}
	if series == nil {
		series = []repository.DailyOrders{}
	}
	return series, nil
}

func (s *dashboardService) GetDashboardStats(ctx context.Context, days int) (*DashboardStats, error) {
	days, from, to := s.window(days)

	counts, err := s.orders.CountByStatus(ctx, repository.OrderFilter{})
	if err != nil {
		return nil, internalError("dashboard: status counts", err)
	}
	revenue, err := s.orders.RevenueByBranch(ctx, from, to)
	if err != nil {
		return nil, internalError("dashboard: revenue", err)
	}
	lowStock, err := s.products.FindLowStock(ctx, s.threshold)
	if err != nil {
		return nil, internalError("dashboard: low stock", err)
	}

	stats := &DashboardStats{
		StatusCounts: counts,
		Revenue:      revenue,
		LowStock:     lowStock,
		Days:         days,
	}
	for _, r := range revenue {
		stats.TotalRevenue += r.Revenue
	}
	return stats, nil
}
