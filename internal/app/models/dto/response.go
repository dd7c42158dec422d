package dto

// HealthResponse represents the liveness probe response
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
