// Copyright 2025 The Genie Hub Authors
// SPDX-License-Identifier: Apache-2.0

package locator

import (
	"encoding/json"
	"testing"

	"github.com/geniehub/locator/spatial"
	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clusterIDs(clusters []Cluster) []string {
	ids := make([]string, 0, len(clusters))
	for _, c := range clusters {
		ids = append(ids, c.ID)
	}

	return ids
}

func TestCellSize(t *testing.T) {
	tests := []struct {
		zoom      float64
		want      float64
		clustered bool
	}{
		{0, 5, true},
		{3, 5, true},
		{4.99, 5, true},
		{5, 2, true},
		{7.99, 2, true},
		{8, 0, false},
		{15, 0, false},
	}

	for _, tt := range tests {
		got, clustered := DefaultClusterer.CellSize(tt.zoom)
		assert.Equal(t, tt.clustered, clustered, "zoom %v", tt.zoom)
		assert.Equal(t, tt.want, got, "zoom %v", tt.zoom)
	}
}

func TestClusterCoarse(t *testing.T) {
	clusters := ClusterCenters(fixtureCenters(), 3)

	assert.Equal(t, []string{"7:-16@5", "5:-20@5", "8:-15@5", "8:-19@5"}, clusterIDs(clusters))

	first := clusters[0]
	assert.Equal(t, []string{"duke", "unc"}, centerIDs(first.Centers))
	assert.InDelta(t, 35.95, first.Point.Lat, 1e-9)
	assert.InDelta(t, -78.995, first.Point.Lng, 1e-9)
	assert.False(t, first.IsSingle())
	assert.Equal(t, 2, first.Count())
}

func TestClusterFine(t *testing.T) {
	clusters := ClusterCenters(fixtureCenters(), 6)

	assert.Equal(t, []string{"18:-40@2", "17:-40@2", "14:-48@2", "21:-36@2", "22:-47@2"}, clusterIDs(clusters))

	for _, c := range clusters {
		assert.True(t, c.IsSingle())
	}
}

func TestClusterStreetLevelIsUnclustered(t *testing.T) {
	clusters := ClusterCenters(fixtureCenters(), 9)

	assert.Equal(t, []string{"center:0", "center:1", "center:2", "center:3", "center:5"}, clusterIDs(clusters))

	for _, c := range clusters {
		require.Len(t, c.Centers, 1)

		p, ok := c.Centers[0].Point()
		require.True(t, ok)
		assert.Equal(t, p, c.Point)
	}
}

func TestClusterConservation(t *testing.T) {
	centers := fixtureCenters()

	for _, zoom := range []float64{0, 3, 4.5, 5, 6, 7.9, 8, 12} {
		seen := make(map[string]int)

		for _, c := range ClusterCenters(centers, zoom) {
			for _, member := range c.Centers {
				seen[member.ID]++
			}
		}

		// Every placeable center exactly once; Seattle has no point.
		assert.Equal(t, map[string]int{"duke": 1, "unc": 1, "mda": 1, "bch": 1, "mayo": 1}, seen, "zoom %v", zoom)
	}
}

func TestClusterCountGrowsWithZoom(t *testing.T) {
	centers := fixtureCenters()

	coarse := len(ClusterCenters(centers, 3))
	fine := len(ClusterCenters(centers, 6))
	street := len(ClusterCenters(centers, 9))

	assert.LessOrEqual(t, coarse, fine)
	assert.LessOrEqual(t, fine, street)
	assert.Equal(t, []int{4, 5, 5}, []int{coarse, fine, street})
}

func TestClusterDeterministic(t *testing.T) {
	centers := fixtureCenters()

	for _, zoom := range []float64{3, 6, 9} {
		a := ClusterCenters(centers, zoom)
		b := ClusterCenters(centers, zoom)

		if diff := cmp.Diff(a, b); diff != "" {
			t.Errorf("zoom %v: clustering not deterministic (-first +second):\n%s", zoom, diff)
		}
	}
}

func TestClusterFloorsNegativeCoordinates(t *testing.T) {
	centers := []*Center{
		{ID: "sw", Name: "SW", Latitude: ptr(-0.5), Longitude: ptr(-0.5)},
		{ID: "ne", Name: "NE", Latitude: ptr(0.5), Longitude: ptr(0.5)},
	}

	assert.Equal(t, []string{"-1:-1@5", "0:0@5"}, clusterIDs(ClusterCenters(centers, 2)))
}

func TestClusterCustomClusterer(t *testing.T) {
	cl := Clusterer{StreetZoom: 10, CoarseZoom: 3, CoarseCell: 20, FineCell: 10}

	assert.Len(t, cl.Cluster(fixtureCenters(), 2), 4)
	assert.Len(t, cl.Cluster(fixtureCenters(), 9), 4)
	assert.Len(t, cl.Cluster(fixtureCenters(), 10), 5)
}

func TestClusterEmpty(t *testing.T) {
	assert.Empty(t, ClusterCenters(nil, 3))
	assert.Empty(t, ClusterCenters([]*Center{{ID: "x", Name: "No point"}}, 9))
}

func TestClusterBound(t *testing.T) {
	clusters := ClusterCenters(fixtureCenters(), 3)

	want := orb.Bound{Min: orb.Point{-79.05, 35.90}, Max: orb.Point{-78.94, 36.0}}
	assert.Equal(t, want, clusters[0].Bound())
}

func TestClusterJSONIncludesCount(t *testing.T) {
	clusters := ClusterCenters(fixtureCenters(), 3)

	data, err := json.Marshal(clusters[0])
	require.NoError(t, err)

	var got struct {
		ID    string        `json:"id"`
		Count int           `json:"count"`
		Point spatial.Point `json:"point"`
	}

	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "7:-16@5", got.ID)
	assert.Equal(t, 2, got.Count)
}

func TestClick(t *testing.T) {
	clusters := ClusterCenters(fixtureCenters(), 3)

	t.Run("multi center zooms in", func(t *testing.T) {
		vp := Click(clusters[0], 3)
		assert.Equal(t, clusters[0].Point, vp.Center)
		assert.Equal(t, 6.0, vp.Zoom)
		assert.Nil(t, vp.Selected)
	})

	t.Run("zoom is capped", func(t *testing.T) {
		vp := Click(clusters[0], 14)
		assert.Equal(t, float64(MaxClickZoom), vp.Zoom)
	})

	t.Run("never zooms out", func(t *testing.T) {
		vp := Click(clusters[0], 16)
		assert.Equal(t, 16.0, vp.Zoom)
	})

	t.Run("single center is selected", func(t *testing.T) {
		vp := Click(clusters[1], 3)
		require.NotNil(t, vp.Selected)
		assert.Equal(t, "mda", vp.Selected.ID)
		assert.Equal(t, float64(SelectZoom), vp.Zoom)
		assert.Equal(t, spatial.Point{Lat: 29.71, Lng: -95.40}, vp.Center)
	})

	t.Run("empty cluster is a no-op", func(t *testing.T) {
		vp := Click(Cluster{Point: raleigh}, 4)
		assert.Equal(t, Viewport{Center: raleigh, Zoom: 4}, vp)
	})
}

func TestLocate(t *testing.T) {
	v := Locate(fixtureCenters(), Criteria{Areas: []string{"Oncology"}}, 3)

	assert.Equal(t, []string{"duke", "unc", "mda", "mayo"}, resultIDs(v.Results))
	assert.Equal(t, []string{"7:-16@5", "5:-20@5", "8:-19@5"}, clusterIDs(v.Clusters))
	assert.Equal(t, 3.0, v.Zoom)
	assert.False(t, v.Fallback)

	v = Locate(fixtureCenters(), Criteria{City: "Atlantis"}, 9)
	assert.True(t, v.Fallback)
	assert.Len(t, v.Results, 6)
	assert.Len(t, v.Clusters, 5)
}
