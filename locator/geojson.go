// Copyright 2025 The Genie Hub Authors
// SPDX-License-Identifier: Apache-2.0

package locator

import (
	"github.com/paulmach/orb/geojson"
)

// PinH3Res is the H3 resolution attached to single-center features.
const PinH3Res = 7

// ClustersToGeoJSON renders clusters as point features for map layers.
func ClustersToGeoJSON(clusters []Cluster) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, c := range clusters {
		f := geojson.NewFeature(c.Point.Orb())
		f.ID = c.ID
		f.Properties["cluster"] = !c.IsSingle()
		f.Properties["cluster_id"] = c.ID
		f.Properties["point_count"] = c.Count()

		if c.IsSingle() {
			center := c.Centers[0]
			f.Properties["name"] = center.Name
			f.Properties["city"] = center.City
			f.Properties["state"] = center.State
			f.Properties["verified"] = center.Verified

			if cell := center.H3Cell(PinH3Res); cell != 0 {
				f.Properties["h3"] = cell.String()
			}
		} else {
			f.BBox = geojson.NewBBox(c.Bound())
		}

		fc.Append(f)
	}

	return fc
}
