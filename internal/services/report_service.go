package services

import (
	"context"
	"time"

	"github.com/ecommerce-cloud/backend/internal/repository"
	"github.com/shopspring/decimal"
)

const defaultReportWindow = 30 * 24 * time.Hour

type SalesReport struct {
	StartDate         time.Time       `json:"startDate"`
	EndDate           time.Time       `json:"endDate"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	TotalOrders       int             `json:"totalOrders"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	ProductsSold      map[string]int  `json:"productsSold"`
}

type ReportService struct {
	orders repository.OrderRepository
	now    func() time.Time
}

func NewReportService(orders repository.OrderRepository) *ReportService {
	return &ReportService{orders: orders, now: time.Now}
}

// Sales aggregates orders placed strictly between start and end. Zero
// bounds default to the last 30 days.
func (s *ReportService) Sales(ctx context.Context, start, end time.Time) (*SalesReport, error) {
	now := s.now()
	if start.IsZero() {
		start = now.Add(-defaultReportWindow)
	}
	if end.IsZero() {
		end = now
	}

	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}

	report := &SalesReport{
		StartDate:         start,
		EndDate:           end,
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
		ProductsSold:      map[string]int{},
	}
	for _, order := range orders {
		if !order.OrderDate.After(start) || !order.OrderDate.Before(end) {
			continue
		}
		report.TotalOrders++
		report.TotalRevenue = report.TotalRevenue.Add(order.TotalAmount)
		for _, item := range order.Items {
			report.ProductsSold[item.ProductName] += item.Quantity
		}
	}

	if report.TotalOrders > 0 {
		report.AverageOrderValue = report.TotalRevenue.
			Div(decimal.NewFromInt(int64(report.TotalOrders))).
			Round(2)
	}
	return report, nil
}
