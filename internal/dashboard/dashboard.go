package dashboard

import (
	"time"

	"github.com/shopspring/decimal"

	"adminboard/pkg/domain"
)

// DefaultWindow is the period compared against the one before it for growth figures.
const DefaultWindow = 30 * 24 * time.Hour

// Stats are the headline numbers of the dashboard.
type Stats struct {
	TotalUsers    int             `json:"totalUsers"`
	TotalOrders   int             `json:"totalOrders"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	UserGrowth    float64         `json:"userGrowth"`
	OrderGrowth   float64         `json:"orderGrowth"`
	RevenueGrowth float64         `json:"revenueGrowth"`
}

// OrderTrend is the order count of one calendar day.
type OrderTrend struct {
	Date   string `json:"date"`
	Day    string `json:"day"`
	Orders int    `json:"orders"`
}

// UserSource exposes the loaded users.
type UserSource interface {
	Len() int
}

// OrderSource exposes the loaded orders.
type OrderSource interface {
	Items() []domain.Order
}

// Service derives statistics from the loaded collections.
type Service struct {
	users  UserSource
	orders OrderSource
	now    func() time.Time
	window time.Duration
}

func New(users UserSource, orders OrderSource, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{users: users, orders: orders, now: now, window: DefaultWindow}
}

// Stats computes totals and growth. Revenue sums the totals of orders that were not cancelled.
func (s *Service) Stats() Stats {
	orders := s.orders.Items()
	now := s.now().UTC()
	currentStart := now.Add(-s.window)
	previousStart := currentStart.Add(-s.window)

	revenue := decimal.Zero
	curRevenue, prevRevenue := decimal.Zero, decimal.Zero
	curOrders, prevOrders := 0, 0
	curCustomers := make(map[int]struct{})
	prevCustomers := make(map[int]struct{})
	for _, o := range orders {
		amount := decimal.NewFromFloat(o.TotalAmount)
		counted := o.Status != domain.StatusCancelled
		if counted {
			revenue = revenue.Add(amount)
		}
		created := o.CreatedAt.UTC()
		switch {
		case !created.Before(currentStart) && !created.After(now):
			curOrders++
			curCustomers[o.UserID] = struct{}{}
			if counted {
				curRevenue = curRevenue.Add(amount)
			}
		case !created.Before(previousStart) && created.Before(currentStart):
			prevOrders++
			prevCustomers[o.UserID] = struct{}{}
			if counted {
				prevRevenue = prevRevenue.Add(amount)
			}
		}
	}

	total := 0
	if s.users != nil {
		total = s.users.Len()
	}
	return Stats{
		TotalUsers:    total,
		TotalOrders:   len(orders),
		TotalRevenue:  revenue.Round(2),
		UserGrowth:    growth(decimal.NewFromInt(int64(len(curCustomers))), decimal.NewFromInt(int64(len(prevCustomers)))),
		OrderGrowth:   growth(decimal.NewFromInt(int64(curOrders)), decimal.NewFromInt(int64(prevOrders))),
		RevenueGrowth: growth(curRevenue, prevRevenue),
	}
}

// growth is the percentage change from previous to current, one decimal place.
func growth(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		if current.IsZero() {
			return 0
		}
		return 100
	}
	pct := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(1)
	f, _ := pct.Float64()
	return f
}

// OrderTrends counts orders per day for the last days days, oldest first,
// ending with today.
func (s *Service) OrderTrends(days int) []OrderTrend {
	if days <= 0 {
		return nil
	}
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	first := today.AddDate(0, 0, -(days - 1))

	counts := make([]int, days)
	for _, o := range s.orders.Items() {
		created := o.CreatedAt.UTC()
		day := time.Date(created.Year(), created.Month(), created.Day(), 0, 0, 0, 0, time.UTC)
		if day.Before(first) || day.After(today) {
			continue
		}
		counts[int(day.Sub(first).Hours()/24)]++
	}

	out := make([]OrderTrend, days)
	for i := range out {
		d := first.AddDate(0, 0, i)
		out[i] = OrderTrend{Date: d.Format("Jan 2"), Day: d.Format(time.DateOnly), Orders: counts[i]}
	}
	return out
}
