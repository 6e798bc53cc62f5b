package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var domains = []string{"continental.edu.pe", "uc.edu.pe"}

func TestIsInstitutional(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"a@uc.edu.pe", true},
		{"A@UC.EDU.PE", true},
		{"alumno@continental.edu.pe", true},
		{"a@gmail.com", false},
		{"noatsign", false},
		{"", false},
		{"a@", false},
		{"weird@x@uc.edu.pe", true},
		{"a@sub.uc.edu.pe", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsInstitutional(tt.email, domains), tt.email)
	}
}

func TestGeofenceAtCenter(t *testing.T) {
	fence := Geofence{Center: Point{Lat: -12.047505186140151, Lng: -75.19906082214352}, RadiusMeters: 1000}

	res := fence.Check(fence.Center)

	assert.True(t, res.Inside)
	assert.Zero(t, res.Distance)
}

func TestGeofenceOutside(t *testing.T) {
	center := Point{Lat: -12.047505186140151, Lng: -75.19906082214352}
	fence := Geofence{Center: center, RadiusMeters: 1000}

	// 2000 m due north: one degree of latitude is R*pi/180 meters
	offset := 2000.0 / (EarthRadiusMeters * 3.141592653589793 / 180)
	res := fence.Check(Point{Lat: center.Lat + offset, Lng: center.Lng})

	assert.False(t, res.Inside)
	assert.InDelta(t, 2000.0, res.Distance, 0.01)
}

func TestGeofenceBoundaryIsInside(t *testing.T) {
	center := Point{Lat: 0, Lng: 0}
	offset := 500.0 / (EarthRadiusMeters * 3.141592653589793 / 180)
	p := Point{Lat: offset, Lng: 0}
	fence := Geofence{Center: center, RadiusMeters: DistanceMeters(center, p)}

	assert.True(t, fence.Check(p).Inside)
}

func TestDistanceSymmetric(t *testing.T) {
	a := Point{Lat: -12.0753, Lng: -77.0821}
	b := Point{Lat: -12.0475, Lng: -75.1991}

	assert.InDelta(t, DistanceMeters(a, b), DistanceMeters(b, a), 1e-6)
	assert.InDelta(t, 205000, DistanceMeters(a, b), 5000)
}
