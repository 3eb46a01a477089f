// Copyright 2025 The Genie Hub Authors
// SPDX-License-Identifier: Apache-2.0

package locator

import (
	"github.com/geniehub/locator/spatial"
)

const (
	// ClickZoomStep is how far a click on a multi-center cluster zooms in.
	ClickZoomStep = 3
	// MaxClickZoom bounds the zoom reached by clicking clusters.
	MaxClickZoom = 15
	// SelectZoom is the zoom used when a single center is selected.
	SelectZoom = 12
)

// Viewport is what the map should show after an interaction.
type Viewport struct {
	Center   spatial.Point `json:"center"`
	Zoom     float64       `json:"zoom"`
	Selected *Center       `json:"selected,omitempty"`
}

// Click resolves a click on cluster at zoom. A multi-center cluster zooms in
// around its aggregate point, never out; a single center is selected and
// framed.
func Click(cluster Cluster, zoom float64) Viewport {
	switch {
	case cluster.Count() > 1:
		return Viewport{
			Center: cluster.Point,
			Zoom:   max(zoom, min(zoom+ClickZoomStep, MaxClickZoom)),
		}
	case cluster.IsSingle():
		center := cluster.Centers[0]

		p, ok := center.Point()
		if !ok {
			p = cluster.Point
		}

		return Viewport{Center: p, Zoom: SelectZoom, Selected: center}
	default:
		return Viewport{Center: cluster.Point, Zoom: zoom}
	}
}
