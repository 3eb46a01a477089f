// Copyright 2025 The Genie Hub Authors
// SPDX-License-Identifier: Apache-2.0

package locator

import (
	"slices"
	"strings"

	"github.com/geniehub/locator/utils/textutils"
)

// Facets lists the distinct values users can pick from.
type Facets struct {
	Areas         []string `json:"areas"`
	Manufacturers []string `json:"manufacturers"`
	Products      []string `json:"products"`
	States        []string `json:"states"`
}

// CollectFacets gathers distinct values across centers. Values that differ
// only by case or accents collapse to their first spelling. Each list is
// sorted.
func CollectFacets(centers []*Center) Facets {
	var areas, manufacturers, products, states distinct

	for _, c := range centers {
		areas.add(c.TherapeuticAreas...)
		manufacturers.add(c.Manufacturers...)
		products.add(c.Products...)
		states.add(c.State)
	}

	return Facets{
		Areas:         areas.sorted(),
		Manufacturers: manufacturers.sorted(),
		Products:      products.sorted(),
		States:        states.sorted(),
	}
}

type distinct struct {
	seen   map[string]struct{}
	values []string
}

func (d *distinct) add(values ...string) {
	if d.seen == nil {
		d.seen = make(map[string]struct{})
	}

	for _, v := range values {
		v = strings.TrimSpace(v)

		k := textutils.Fold(v)
		if k == "" {
			continue
		}

		if _, ok := d.seen[k]; ok {
			continue
		}

		d.seen[k] = struct{}{}
		d.values = append(d.values, v)
	}
}

func (d *distinct) sorted() []string {
	out := slices.Clone(d.values)
	if out == nil {
		out = []string{}
	}

	slices.SortFunc(out, func(a, b string) int {
		return strings.Compare(textutils.Fold(a), textutils.Fold(b))
	})

	return out
}
