// ABOUTME: Wire types for the vehicle rental REST API
// ABOUTME: Request and response payloads shared by commands and screens

package api

// Location is a rental office returned by GET /locations_filter.
type Location struct {
	ID           int    `json:"id"`
	LocationName string `json:"location_name"`
	Address      string `json:"address"`
}

// Model is one model under a brand.
type Model struct {
	ID        int    `json:"id"`
	ModelName string `json:"model_name"`
}

// Brand groups its models, as returned by GET /brands_models_filter.
type Brand struct {
	ID        int     `json:"id"`
	BrandName string  `json:"brand_name"`
	Models    []Model `json:"models"`
}

// VehicleType is a body style (sedan, suv, ...).
type VehicleType struct {
	ID          int    `json:"id"`
	VehicleType string `json:"vehicle_type"`
}

// EngineType is a drivetrain kind (petrol, diesel, electric, ...).
type EngineType struct {
	ID         int    `json:"id"`
	EngineType string `json:"engine_type"`
}

// Catalog bundles the four reference-data lists the search screen needs.
type Catalog struct {
	Locations    []Location
	Brands       []Brand
	VehicleTypes []VehicleType
	EngineTypes  []EngineType
}

// ReservationLine is one basket line in a reservation request.
type ReservationLine struct {
	VehicleID int `json:"vehicle_id"`
	Qty       int `json:"qty"`
}

// ReservationInput is the body of POST /public/reservations/.
// EndLocationID is optional; the backend defaults it to the start location.
type ReservationInput struct {
	Start           string            `json:"start"`
	End             string            `json:"end"`
	StartLocationID int               `json:"start_location_id"`
	EndLocationID   int               `json:"end_location_id,omitempty"`
	Lines           []ReservationLine `json:"lines"`
}

// ReservationStatus is the nested status object in reservation reads.
type ReservationStatus struct {
	ID     int    `json:"id"`
	Status string `json:"status"`
}

// Reservation is a stored reservation as returned by GET /user_reservations.
type Reservation struct {
	ID              int               `json:"id"`
	User            string            `json:"user"`
	Status          ReservationStatus `json:"status"`
	TotalPrice      string            `json:"total_price"`
	StartDate       string            `json:"start_date"`
	EndDate         string            `json:"end_date"`
	PickupLocation  Location          `json:"pickup_location"`
	DropoffLocation Location          `json:"dropoff_location"`
	CreatedAt       string            `json:"created_at"`
	UpdatedAt       string            `json:"updated_at"`
	Vehicles        []string          `json:"vehicles"`
}

// Notification is one entry of GET /notifications/.
type Notification struct {
	ID        int    `json:"id"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
	IsRead    bool   `json:"is_read"`
}

// TokenPair is the response of the login and refresh endpoints. Refresh is
// empty on plain refresh responses unless the backend rotates tokens.
type TokenPair struct {
	Access   string `json:"access"`
	Refresh  string `json:"refresh,omitempty"`
	Role     string `json:"role,omitempty"`
	Username string `json:"username,omitempty"`
}

// RegisterInput is the body of POST /auth/register/.
type RegisterInput struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Address     string `json:"address,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}
