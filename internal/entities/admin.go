package entities

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

type VehicleRequest struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	DayRate      string `json:"day_rate"`
	ImageRef     string `json:"image_ref"`
	Description  string `json:"description"`
	Available    *bool  `json:"available"`
	Year         int    `json:"year"`
	Transmission string `json:"transmission"`
	FuelType     string `json:"fuel_type"`
	SeatCount    int    `json:"seat_count"`
}

type DashboardResponse struct {
	TotalVehicles       int `json:"total_vehicles"`
	AvailableVehicles   int `json:"available_vehicles"`
	OpenReservations    int `json:"open_reservations"`
	SubmittedSinceStart int `json:"submitted_since_start"`
}
