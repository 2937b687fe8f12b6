package motion

import (
	gomath "math"
)

const (
	earthRadiusKm = 6371.0
	kmPerNM       = 1.852

	// Below this sin(delta) the interpolation weights blow up.
	degenerateSin = 1e-9
)

// LatLong is a point in decimal degrees.
type LatLong struct {
	Lat float64 `yaml:"lat" json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `yaml:"lon" json:"lon" validate:"gte=-180,lte=180"`
}

func radians(d float64) float64 { return d / 180 * gomath.Pi }
func degrees(r float64) float64 { return r * 180 / gomath.Pi }

func sqr(v float64) float64 { return v * v }

// centralAngle is the haversine angle between a and b, in radians.
func centralAngle(a, b LatLong) float64 {
	// https://www.movable-type.co.uk/scripts/latlong.html
	lat1, lon1 := radians(a.Lat), radians(a.Lon)
	lat2, lon2 := radians(b.Lat), radians(b.Lon)
	dlat, dlon := lat2-lat1, lon2-lon1

	x := sqr(gomath.Sin(dlat/2)) + gomath.Cos(lat1)*gomath.Cos(lat2)*sqr(gomath.Sin(dlon/2))
	return 2 * gomath.Atan2(gomath.Sqrt(x), gomath.Sqrt(1-x))
}

// DistanceKm returns the great-circle distance between a and b.
func DistanceKm(a, b LatLong) float64 {
	return earthRadiusKm * centralAngle(a, b)
}

// DistanceNM returns the great-circle distance in nautical miles.
func DistanceNM(a, b LatLong) float64 {
	return DistanceKm(a, b) / kmPerNM
}

// PointOnPath returns the point a fraction t of the way along the great circle from a to b.
func PointOnPath(a, b LatLong, t float64) LatLong {
	t = Clamp(t, 0, 1)
	delta := centralAngle(a, b)
	if gomath.Sin(delta) < degenerateSin {
		if delta < gomath.Pi/2 {
			return a
		}
		// Antipodal: every great circle joins a and b, so route via the
		// point a quarter turn due north of a.
		mid := quarterNorth(a)
		if t <= 0.5 {
			return PointOnPath(a, mid, 2*t)
		}
		return PointOnPath(mid, b, 2*t-1)
	}
	lat1, lon1 := radians(a.Lat), radians(a.Lon)
	lat2, lon2 := radians(b.Lat), radians(b.Lon)

	wa := gomath.Sin((1-t)*delta) / gomath.Sin(delta)
	wb := gomath.Sin(t*delta) / gomath.Sin(delta)
	x := wa*gomath.Cos(lat1)*gomath.Cos(lon1) + wb*gomath.Cos(lat2)*gomath.Cos(lon2)
	y := wa*gomath.Cos(lat1)*gomath.Sin(lon1) + wb*gomath.Cos(lat2)*gomath.Sin(lon2)
	z := wa*gomath.Sin(lat1) + wb*gomath.Sin(lat2)

	return LatLong{
		Lat: degrees(gomath.Atan2(z, gomath.Sqrt(x*x+y*y))),
		Lon: degrees(gomath.Atan2(y, x)),
	}
}

// quarterNorth is the point 90 degrees of arc due north of p. Starting in the
// northern hemisphere the path crosses the pole onto the opposite meridian.
func quarterNorth(p LatLong) LatLong {
	q := LatLong{Lat: 90 - gomath.Abs(p.Lat), Lon: p.Lon}
	if p.Lat > 0 {
		q.Lon += 180
		if q.Lon > 180 {
			q.Lon -= 360
		}
	}
	return q
}
