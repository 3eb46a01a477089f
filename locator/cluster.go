// Copyright 2025 The Genie Hub Authors
// SPDX-License-Identifier: Apache-2.0

package locator

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/geniehub/locator/spatial"
	"github.com/paulmach/orb"
)

// Cluster groups centers that share a grid cell at the current zoom.
type Cluster struct {
	ID      string        `json:"id"`
	Point   spatial.Point `json:"point"`
	Centers []*Center     `json:"centers"`
}

// Count returns the number of member centers.
func (c Cluster) Count() int {
	return len(c.Centers)
}

// IsSingle reports whether the cluster is a single pin.
func (c Cluster) IsSingle() bool {
	return len(c.Centers) == 1
}

// Bound returns the bounding box of the member centers.
func (c Cluster) Bound() orb.Bound {
	mp := make(orb.MultiPoint, 0, len(c.Centers))

	for _, center := range c.Centers {
		if p, ok := center.Point(); ok {
			mp = append(mp, p.Orb())
		}
	}

	if len(mp) == 0 {
		return c.Point.Orb().Bound()
	}

	return mp.Bound()
}

// MarshalJSON adds the member count.
func (c Cluster) MarshalJSON() ([]byte, error) {
	type plain Cluster

	return json.Marshal(struct {
		plain
		Count int `json:"count"`
	}{plain(c), c.Count()})
}

// Clusterer buckets centers into fixed-size lat/lng cells. Zoom levels at or
// above StreetZoom are not clustered; below CoarseZoom the CoarseCell size in
// degrees is used, FineCell otherwise.
type Clusterer struct {
	StreetZoom float64
	CoarseZoom float64
	CoarseCell float64
	FineCell   float64
}

// DefaultClusterer matches the map behaviour users know: 5° cells at country
// scale, 2° cells at regional scale, individual pins from zoom 8.
var DefaultClusterer = Clusterer{
	StreetZoom: 8,
	CoarseZoom: 5,
	CoarseCell: 5,
	FineCell:   2,
}

// CellSize returns the cell edge in degrees for zoom, and false when zoom is
// past the clustering range.
func (cl Clusterer) CellSize(zoom float64) (float64, bool) {
	if zoom >= cl.StreetZoom {
		return 0, false
	}

	if zoom < cl.CoarseZoom {
		return cl.CoarseCell, true
	}

	return cl.FineCell, true
}

// Cluster groups centers for display at zoom. Centers without a usable point
// are skipped. Clusters come out in the order their cell first appears in
// centers and members keep input order.
func (cl Clusterer) Cluster(centers []*Center, zoom float64) []Cluster {
	cell, clustered := cl.CellSize(zoom)

	if !clustered {
		out := make([]Cluster, 0, len(centers))

		for i, center := range centers {
			p, ok := center.Point()
			if !ok {
				continue
			}

			out = append(out, Cluster{
				ID:      fmt.Sprintf("center:%d", i),
				Point:   p,
				Centers: []*Center{center},
			})
		}

		return out
	}

	type bucket struct {
		id      string
		points  []spatial.Point
		members []*Center
	}

	var order []*bucket

	buckets := make(map[[2]int64]*bucket)

	for _, center := range centers {
		p, ok := center.Point()
		if !ok {
			continue
		}

		key := [2]int64{
			int64(math.Floor(p.Lat / cell)),
			int64(math.Floor(p.Lng / cell)),
		}

		b, found := buckets[key]
		if !found {
			b = &bucket{id: fmt.Sprintf("%d:%d@%g", key[0], key[1], cell)}
			buckets[key] = b
			order = append(order, b)
		}

		b.points = append(b.points, p)
		b.members = append(b.members, center)
	}

	out := make([]Cluster, 0, len(order))
	for _, b := range order {
		out = append(out, Cluster{
			ID:      b.id,
			Point:   spatial.Mean(b.points),
			Centers: b.members,
		})
	}

	return out
}

// ClusterCenters clusters with DefaultClusterer.
func ClusterCenters(centers []*Center, zoom float64) []Cluster {
	return DefaultClusterer.Cluster(centers, zoom)
}
