package domain

import "math"

// earthRadiusKm is the mean Earth radius used for haversine distances.
const earthRadiusKm = 6371

// Centroid returns the arithmetic mean of the polygon's vertices. It is not
// area-weighted and degenerates for self-intersecting rings, but it only
// anchors forecast lookups and proximity checks, where that is acceptable.
func Centroid(polygon []Point) Point {
	if len(polygon) == 0 {
		return Point{}
	}
	var lat, lng float64
	for _, p := range polygon {
		lat += p.Lat
		lng += p.Lng
	}
	n := float64(len(polygon))
	return Point{Lat: lat / n, Lng: lng / n}
}

// DistanceKm returns the great-circle distance between two points in
// kilometers using the haversine formula.
func DistanceKm(p1, p2 Point) float64 {
	dLat := toRadians(p2.Lat - p1.Lat)
	dLng := toRadians(p2.Lng - p1.Lng)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(p1.Lat))*math.Cos(toRadians(p2.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func toRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}

// PointInPolygon reports whether p lies inside the polygon ring using the
// even-odd ray-casting rule. O(len(polygon)) per query; zone counts are small
// enough that no spatial index is needed. A point exactly on a vertex or edge
// resolves deterministically by the crossing test but may land on either side
// (see the package tests for the documented square-corner behavior).
func PointInPolygon(p Point, polygon []Point) bool {
	inside := false
	for i, j := 0, len(polygon)-1; i < len(polygon); j, i = i, i+1 {
		vi, vj := polygon[i], polygon[j]
		if (vi.Lng > p.Lng) != (vj.Lng > p.Lng) &&
			p.Lat < (vj.Lat-vi.Lat)*(p.Lng-vi.Lng)/(vj.Lng-vi.Lng)+vi.Lat {
			inside = !inside
		}
	}
	return inside
}

// Centroid returns the geofence's anchor point.
func (g Geofence) Centroid() Point {
	return Centroid(g.Coordinates)
}

// Contains reports whether p lies inside the geofence polygon.
func (g Geofence) Contains(p Point) bool {
	return PointInPolygon(p, g.Coordinates)
}

// FindGeofence returns the first geofence containing p, or nil.
func FindGeofence(fences []Geofence, p Point) *Geofence {
	for i := range fences {
		if fences[i].Contains(p) {
			return &fences[i]
		}
	}
	return nil
}

// GeofencesWithinKm returns the geofences whose centroid lies within
// radiusKm of p.
func GeofencesWithinKm(fences []Geofence, p Point, radiusKm float64) []Geofence {
	var nearby []Geofence
	for _, f := range fences {
		if DistanceKm(p, f.Centroid()) <= radiusKm {
			nearby = append(nearby, f)
		}
	}
	return nearby
}
