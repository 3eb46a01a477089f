// Copyright 2025 The Genie Hub Authors
// SPDX-License-Identifier: Apache-2.0

package locator

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/geniehub/locator/spatial"
	"github.com/geniehub/locator/utils/textutils"
)

// NoDistance orders centers without coordinates after every real distance.
const NoDistance = math.MaxFloat64

// Result is a center that passed the filter. Distance is set only when a
// reference point was given and the center has coordinates.
type Result struct {
	*Center
	Distance *float64 `json:"distance_miles,omitempty"`
}

// SortDistance is the value used to order r.
func (r Result) SortDistance() float64 {
	if r.Distance == nil {
		return NoDistance
	}

	return *r.Distance
}

// Filter returns the centers that satisfy c, nearest first when c carries a
// reference point, and otherwise in source order. It never fails.
func Filter(all []*Center, c Criteria) []Result {
	results, _ := filterCenters(all, c)

	return results
}

// filterCenters also reports whether the location filter was dropped because
// it matched nothing.
func filterCenters(all []*Center, c Criteria) ([]Result, bool) {
	sel := c.Effective()
	areas := tagSet(sel.Areas)
	manufacturers := tagSet(sel.Manufacturers)
	products := tagSet(sel.Products)

	attributed := make([]*Center, 0, len(all))

	for _, center := range all {
		if center == nil {
			continue
		}

		if matchesAny(center.TherapeuticAreas, areas) &&
			matchesAny(center.Manufacturers, manufacturers) &&
			matchesAny(center.Products, products) {
			attributed = append(attributed, center)
		}
	}

	selected := attributed
	fellBack := false

	if c.hasLocation() {
		located := make([]*Center, 0, len(attributed))

		for _, center := range attributed {
			if matchesLocation(center, c) {
				located = append(located, center)
			}
		}

		switch {
		case len(located) > 0:
			selected = located
		case strings.TrimSpace(c.State) != "":
			// An explicit state is authoritative.
			selected = nil
		default:
			fellBack = true
		}
	}

	results := make([]Result, 0, len(selected))
	for _, center := range selected {
		results = append(results, Result{Center: center})
	}

	if c.Reference != nil && c.Reference.Valid() {
		sortByDistance(results, *c.Reference)
	}

	if limit := c.EffectiveLimit(); len(results) > limit {
		results = results[:limit]
	}

	return results, fellBack
}

func sortByDistance(results []Result, ref spatial.Point) {
	for i := range results {
		if p, ok := results[i].Point(); ok {
			d := spatial.DistanceMiles(ref, p)
			results[i].Distance = &d
		}
	}

	slices.SortStableFunc(results, func(a, b Result) int {
		return cmp.Compare(a.SortDistance(), b.SortDistance())
	})
}

func tagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))

	for _, t := range tags {
		if k := textutils.Fold(t); k != "" {
			set[k] = struct{}{}
		}
	}

	return set
}

// matchesAny reports whether values intersects required. An empty required
// set does not constrain.
func matchesAny(values []string, required map[string]struct{}) bool {
	if len(required) == 0 {
		return true
	}

	for _, v := range values {
		if _, ok := required[textutils.Fold(v)]; ok {
			return true
		}
	}

	return false
}

func matchesLocation(center *Center, c Criteria) bool {
	if state := textutils.Fold(c.State); state != "" {
		got := textutils.Fold(center.State)
		if got == "" || !strings.HasPrefix(got, state) {
			return false
		}
	}

	if city := textutils.Fold(c.City); city != "" {
		if !textutils.ContainsFold(center.City, city) {
			return false
		}
	}

	if q := strings.TrimSpace(c.Query); q != "" {
		fields := []string{center.Name, center.Address, center.City, center.State, center.Zip}
		if !slices.ContainsFunc(fields, func(f string) bool { return textutils.ContainsFold(f, q) }) {
			return false
		}
	}

	return true
}
