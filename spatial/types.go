// Copyright 2025 The Genie Hub Authors
// SPDX-License-Identifier: Apache-2.0

// Package spatial holds the point type and distance math used by the locator.
package spatial

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// EarthRadiusMiles is the mean Earth radius used by the locator.
const EarthRadiusMiles = 3959.0

// Point represents a geographical point with latitude and longitude.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String returns a string representation of the Point.
func (p Point) String() string {
	return fmt.Sprintf("POINT(%f %f)", p.Lng, p.Lat)
}

// Valid reports whether both coordinates are finite and inside the WGS84 range.
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lng, 0) {
		return false
	}

	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Orb returns the point in orb's [lng, lat] order.
func (p Point) Orb() orb.Point {
	return orb.Point{p.Lng, p.Lat}
}

// FromOrb converts an orb point back into a Point.
func FromOrb(p orb.Point) Point {
	return Point{Lat: p.Lat(), Lng: p.Lon()}
}

// DistanceMiles is the haversine distance between a and b in miles.
// NaN inputs propagate to the result.
func DistanceMiles(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMiles * c
}

// DistanceMiles calculates the distance to other in miles.
func (p Point) DistanceMiles(other Point) float64 {
	return DistanceMiles(p, other)
}

// Mean returns the unweighted centroid of points. It returns the zero Point
// for an empty slice.
func Mean(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}

	var lat, lng float64
	for _, p := range points {
		lat += p.Lat
		lng += p.Lng
	}

	n := float64(len(points))

	return Point{Lat: lat / n, Lng: lng / n}
}
