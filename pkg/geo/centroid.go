// Package geo wraps the orb geometry library behind the small surface the
// feature service needs: deriving a representative point from an arbitrary
// GeoJSON geometry.
package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// Centroid derives the representative point of a GeoJSON geometry.
// Degenerate or empty geometries yield nil rather than an error; the caller
// leaves any previously derived centroid untouched in that case.
func Centroid(geometry *geojson.Geometry) *geojson.Geometry {
	if geometry == nil {
		return nil
	}

	g := geometry.Geometry()
	if g == nil || isEmpty(g) {
		return nil
	}

	point, _ := planar.CentroidArea(g)
	return geojson.NewGeometry(point)
}

func isEmpty(g orb.Geometry) bool {
	switch geom := g.(type) {
	case orb.Point:
		return false
	case orb.MultiPoint:
		return len(geom) == 0
	case orb.LineString:
		return len(geom) == 0
	case orb.MultiLineString:
		return len(geom) == 0
	case orb.Ring:
		return len(geom) == 0
	case orb.Polygon:
		return len(geom) == 0 || len(geom[0]) == 0
	case orb.MultiPolygon:
		return len(geom) == 0
	case orb.Collection:
		return len(geom) == 0
	case orb.Bound:
		return false
	}
	return true
}
