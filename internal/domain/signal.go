package domain

import "fmt"

// Coordinates is the natural key of a traffic signal.
// Matching is exact; no tolerance is applied.
type Coordinates struct {
	Lat float64
	Lon float64
}

func (c Coordinates) String() string {
	return fmt.Sprintf("(%g, %g)", c.Lat, c.Lon)
}

// Valid reports whether c lies within WGS84 bounds.
func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// TrafficSignal maps a physical signal position to its identifiers in the SUMO
// simulation and in OpenStreetMap.
type TrafficSignal struct {
	Coordinates

	TLIDSumo string
	TLIDOSM  string
}
