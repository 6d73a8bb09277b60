// Package bounds computes the map-focus rectangle for a set of coordinates,
// falling back to a gazetteer lookup of the trip's city when nothing is
// geotagged.
package bounds

import (
	"fmt"
	"math"
)

// DefaultRadius is the half-width, in degrees, of the box synthesized around
// a gazetteer coordinate.
const DefaultRadius = 0.05

// Point is a longitude/latitude pair.
type Point struct {
	Longitude float64 `json:"longitude" yaml:"longitude"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", p.Longitude, p.Latitude)
}

// Bounds is an axis-aligned rectangle in longitude/latitude space.
type Bounds struct {
	Min Point `json:"min" yaml:"min"`
	Max Point `json:"max" yaml:"max"`
}

// Center returns the midpoint of the rectangle.
func (b Bounds) Center() Point {
	return Point{
		Longitude: (b.Min.Longitude + b.Max.Longitude) / 2,
		Latitude:  (b.Min.Latitude + b.Max.Latitude) / 2,
	}
}

// Contains reports whether p lies inside the rectangle, edges included.
func (b Bounds) Contains(p Point) bool {
	return p.Longitude >= b.Min.Longitude && p.Longitude <= b.Max.Longitude &&
		p.Latitude >= b.Min.Latitude && p.Latitude <= b.Max.Latitude
}

func (b Bounds) String() string {
	return fmt.Sprintf("%s-%s", b.Min, b.Max)
}

// Place names a city for the gazetteer fallback.
type Place struct {
	City    string
	Country string
}

// Calculator binds a gazetteer and box radius. The zero value uses the static
// gazetteer and DefaultRadius.
type Calculator struct {
	Gazetteer Gazetteer
	Radius    float64
}

// Compute returns the rectangle spanning every point. With no points it
// looks fallback up in the gazetteer and returns a box of Radius around the
// hit. ok is false when neither source yields a result; callers should then
// leave their current focus alone.
func (c Calculator) Compute(points []Point, fallback *Place) (Bounds, bool) {
	if b, ok := Span(points); ok {
		return b, true
	}
	if fallback == nil {
		return Bounds{}, false
	}
	gaz := c.Gazetteer
	if gaz == nil {
		gaz = Static()
	}
	center, ok := gaz.Lookup(fallback.City, fallback.Country)
	if !ok {
		return Bounds{}, false
	}
	return Around(center, c.radius()), true
}

func (c Calculator) radius() float64 {
	if c.Radius <= 0 || math.IsNaN(c.Radius) {
		return DefaultRadius
	}
	return c.Radius
}

// Compute is Calculator{}.Compute with the supplied gazetteer.
func Compute(points []Point, fallback *Place, gaz Gazetteer) (Bounds, bool) {
	return Calculator{Gazetteer: gaz}.Compute(points, fallback)
}

// Span returns the rectangle covering points. It only uses min/max so the
// result does not depend on input order.
func Span(points []Point) (Bounds, bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}
	b := Bounds{
		Min: Point{Longitude: math.Inf(1), Latitude: math.Inf(1)},
		Max: Point{Longitude: math.Inf(-1), Latitude: math.Inf(-1)},
	}
	found := false
	for _, p := range points {
		if !valid(p) {
			continue
		}
		found = true
		b.Min.Longitude = math.Min(b.Min.Longitude, p.Longitude)
		b.Min.Latitude = math.Min(b.Min.Latitude, p.Latitude)
		b.Max.Longitude = math.Max(b.Max.Longitude, p.Longitude)
		b.Max.Latitude = math.Max(b.Max.Latitude, p.Latitude)
	}
	if !found {
		return Bounds{}, false
	}
	return b, true
}

// Around returns a square box of radius degrees centered on p.
func Around(p Point, radius float64) Bounds {
	return Bounds{
		Min: Point{Longitude: p.Longitude - radius, Latitude: p.Latitude - radius},
		Max: Point{Longitude: p.Longitude + radius, Latitude: p.Latitude + radius},
	}
}

func valid(p Point) bool {
	return !math.IsNaN(p.Longitude) && !math.IsNaN(p.Latitude) &&
		!math.IsInf(p.Longitude, 0) && !math.IsInf(p.Latitude, 0)
}
