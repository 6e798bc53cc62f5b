// Package eligibility holds the pure voter eligibility rules: the
// institutional email allowlist and the campus geofence.
package eligibility

import (
	"math"
	"slices"
	"strings"
)

// EarthRadiusMeters is the mean Earth radius used by the haversine formula
const EarthRadiusMeters = 6371000.0

// Point is a WGS84 coordinate in decimal degrees
type Point struct {
	Lat float64
	Lng float64
}

// Geofence is a circle around a campus reference point
type Geofence struct {
	Center       Point
	RadiusMeters float64
}

// GeofenceResult is the outcome of a geofence check
type GeofenceResult struct {
	Inside   bool    `json:"dentroCampus"`
	Distance float64 `json:"distancia"`
}

// Domain returns the lower-cased text after the last '@', or "" without one
func Domain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(email[at+1:]))
}

// IsInstitutional reports whether email belongs to one of the allowed domains
func IsInstitutional(email string, domains []string) bool {
	domain := Domain(email)
	if domain == "" {
		return false
	}
	return slices.ContainsFunc(domains, func(d string) bool {
		return strings.EqualFold(strings.TrimSpace(d), domain)
	})
}

// DistanceMeters is the great-circle distance between a and b
func DistanceMeters(a, b Point) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusMeters * c
}

// Check measures p against the fence. The distance is rounded to centimetres.
func (g Geofence) Check(p Point) GeofenceResult {
	d := DistanceMeters(g.Center, p)
	return GeofenceResult{
		Inside:   d <= g.RadiusMeters,
		Distance: math.Round(d*100) / 100,
	}
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
