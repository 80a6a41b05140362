package models

// Series is a labelled chart series.
type Series struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

// Analytics is the dashboard summary of a business.
type Analytics struct {
	TotalCustomers    int    `json:"totalCustomers"`
	TotalBookings     int    `json:"totalBookings"`
	TotalOrders       int    `json:"totalOrders"`
	Interactions      int    `json:"interactions"`
	RevenueData       Series `json:"revenueData"`
	BookingStatusData Series `json:"bookingStatusData"`
	CustomerGrowth    Series `json:"customerGrowth"`
}
