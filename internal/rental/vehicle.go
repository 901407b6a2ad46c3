// ABOUTME: Conceptual vehicle as returned by the public availability endpoint
// ABOUTME: Shared between the API client, the basket, and the screens

package rental

// Vehicle is one row of the availability search: a conceptual vehicle with
// the number of physical units free for the requested period.
type Vehicle struct {
	VehicleID      int     `json:"vehicle_id"`
	Brand          string  `json:"brand"`
	Model          string  `json:"model"`
	VehicleType    string  `json:"vehicle_type"`
	EngineType     string  `json:"engine_type"`
	Seats          int     `json:"seats"`
	PricePerDay    float64 `json:"price_per_day"`
	AvailableCount int     `json:"available_count"`
}
