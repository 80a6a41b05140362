package customersvc

import (
	"context"
	"fmt"
	"time"

	"cupbot/models"
	"cupbot/utils"
)

const analyticsMonths = 6

var bookingStatusLabels = []struct {
	status, label string
}{
	{models.StatusPending, "Pending"},
	{models.StatusConfirmed, "Confirmed"},
	{models.StatusCompleted, "Completed"},
	{models.StatusCancelled, "Cancelled"},
}

func (s *DefaultCustomerService) Analytics(ctx context.Context, businessID string) (*models.Analytics, error) {
	customers, err := s.Customers.List(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to load customers: %w", err)
	}

	months := lastMonths(s.Clock.Now().UTC(), analyticsMonths)
	labels := make([]string, len(months))
	for i, m := range months {
		labels[i] = m.Format("Jan")
	}
	revenue := make([]float64, len(months))
	growth := make([]float64, len(months))
	statusCount := map[string]int{}

	a := &models.Analytics{TotalCustomers: len(customers)}
	for _, c := range customers {
		a.TotalBookings += len(c.Bookings)
		a.TotalOrders += len(c.Orders)
		a.Interactions += len(c.Interactions)

		if i := monthIndex(months, c.CreatedAt); i >= 0 {
			growth[i]++
		}
		for _, b := range c.Bookings {
			statusCount[b.Status]++
		}
		for _, o := range c.Orders {
			if o.Status == models.StatusCancelled {
				continue
			}
			if i := monthIndex(months, o.CreatedAt); i >= 0 {
				revenue[i] += o.Total
			}
		}
	}
	for i := range revenue {
		revenue[i] = utils.RoundMoney(revenue[i])
	}

	a.RevenueData = models.Series{Labels: labels, Data: revenue}
	a.CustomerGrowth = models.Series{Labels: append([]string(nil), labels...), Data: growth}
	for _, st := range bookingStatusLabels {
		a.BookingStatusData.Labels = append(a.BookingStatusData.Labels, st.label)
		a.BookingStatusData.Data = append(a.BookingStatusData.Data, float64(statusCount[st.status]))
	}
	return a, nil
}

// lastMonths returns the first instant of the n months ending with now's month,
// oldest first.
func lastMonths(now time.Time, n int) []time.Time {
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	out := make([]time.Time, n)
	for i := 0; i < n; i++ {
		out[n-1-i] = current.AddDate(0, -i, 0)
	}
	return out
}

func monthIndex(months []time.Time, t time.Time) int {
	t = t.UTC()
	for i, m := range months {
		if t.Year() == m.Year() && t.Month() == m.Month() {
			return i
		}
	}
	return -1
}
