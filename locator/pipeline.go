// Copyright 2025 The Genie Hub Authors
// SPDX-License-Identifier: Apache-2.0

package locator

// View is the output of one pipeline run.
type View struct {
	Results  []Result  `json:"results"`
	Clusters []Cluster `json:"clusters"`
	Zoom     float64   `json:"zoom"`

	// Fallback is set when the city or query filter matched nothing and the
	// attribute-only result is shown instead.
	Fallback bool `json:"location_fallback"`
}

// Centers returns the filtered centers in result order.
func (v View) Centers() []*Center {
	out := make([]*Center, 0, len(v.Results))
	for _, r := range v.Results {
		out = append(out, r.Center)
	}

	return out
}

// Locate runs filter then cluster with cl.
func (cl Clusterer) Locate(all []*Center, c Criteria, zoom float64) View {
	results, fellBack := filterCenters(all, c)

	v := View{Results: results, Zoom: zoom, Fallback: fellBack}
	v.Clusters = cl.Cluster(v.Centers(), zoom)

	return v
}

// Locate runs the pipeline with DefaultClusterer.
func Locate(all []*Center, c Criteria, zoom float64) View {
	return DefaultClusterer.Locate(all, c, zoom)
}
