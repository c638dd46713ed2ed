package model

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Map zoom levels.
const (
	DefaultZoom = 4
	LocatedZoom = 13
)

// DefaultCenter is the map centre used when a location cannot be resolved.
var DefaultCenter = Coordinates{Lat: 37.0902, Lng: -95.7129}

// MapView describes how a profile's location is displayed.
type MapView struct {
	Center  Coordinates `json:"center"`
	Zoom    int         `json:"zoom"`
	Located bool        `json:"located"`
}

// ProfileDetail is a profile with its resolved map view.
type ProfileDetail struct {
	Profile Profile `json:"profile"`
	Map     MapView `json:"map"`
}
