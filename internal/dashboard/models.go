package dashboard

// Stats aggregates the figures shown on the admin dashboard.
type Stats struct {
	TotalOffers         int     `json:"totalOffers"`
	ActiveOffers        int     `json:"activeOffers"`
	Promotions          int     `json:"promotions"`
	AverageRating       float64 `json:"averageRating"`
	TotalViews          int     `json:"totalViews"`
	TotalBookings       int     `json:"totalBookings"`
	TotalRevenue        float64 `json:"totalRevenue"`
	RevenueThisMonth    float64 `json:"revenueThisMonth"`
	TotalClients        int     `json:"totalClients"`
	TotalCategories     int     `json:"totalCategories"`
	NewClientsThisMonth int     `json:"newClientsThisMonth"`
}
