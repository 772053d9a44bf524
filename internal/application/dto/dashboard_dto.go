package dto

// DashboardStatsDTO respuesta de GET /api/dashboard/stats.
// Los contadores se leen de la base; no se recalculan sumando historiales.
type DashboardStatsDTO struct {
	TotalProperties  int `json:"total_properties"`
	TotalRequests    int `json:"total_requests"`
	PendingRequests  int `json:"pending_requests"`
	IssuedProperties int `json:"issued_properties"`
}
