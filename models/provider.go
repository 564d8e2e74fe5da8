package models

// ProviderProfile is the provider identity as served by the marketplace
// backend. Registration and verification are owned by the backend; the
// dispatch engine only reads this.
type ProviderProfile struct {
	ID             int64  `json:"id"`
	Email          string `json:"email"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	PhoneNumber    string `json:"phoneNumber,omitempty"`
	Address        string `json:"address,omitempty"`
	City           string `json:"city,omitempty"`
	FieldType      string `json:"fieldType"`
	Specialization string `json:"specialization,omitempty"`
	Experience     int    `json:"experience,omitempty"`
	LicenseNumber  string `json:"licenseNumber,omitempty"`
	PetStoreName   string `json:"petStoreName,omitempty"`
	HouseVisit     bool   `json:"houseVisit"`
	Rating         float64 `json:"rating,omitempty"`
}
