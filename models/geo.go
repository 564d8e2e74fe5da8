package models

// Coordinate is a latitude/longitude pair in decimal degrees.
// A nil *Coordinate means the location is unknown (still resolving,
// or never reported); unknown is not the same as far away.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
