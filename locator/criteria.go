// Copyright 2025 The Genie Hub Authors
// SPDX-License-Identifier: Apache-2.0

package locator

import (
	"strings"

	"github.com/geniehub/locator/spatial"
)

// DefaultLimit caps the result list when Criteria.Limit is not positive.
const DefaultLimit = 50

// Selection is a set of tags per attribute category.
type Selection struct {
	Areas         []string `json:"areas,omitempty"`
	Manufacturers []string `json:"manufacturers,omitempty"`
	Products      []string `json:"products,omitempty"`
}

// Criteria is an immutable search request. Callers keep their own mutable
// state and run the pipeline again whenever it changes.
type Criteria struct {
	Areas         []string `json:"areas,omitempty"`
	Manufacturers []string `json:"manufacturers,omitempty"`
	Products      []string `json:"products,omitempty"`

	// Defaults apply per category when the matching UI selection is empty.
	Defaults Selection `json:"defaults"`

	State string `json:"state,omitempty"`
	City  string `json:"city,omitempty"`
	Query string `json:"q,omitempty"`

	Reference *spatial.Point `json:"reference,omitempty"`
	Limit     int            `json:"limit,omitempty"`
}

// Effective resolves the selection actually applied: the UI selection wins
// per category, the defaults fill the rest.
func (c Criteria) Effective() Selection {
	pick := func(ui, def []string) []string {
		if len(ui) > 0 {
			return ui
		}

		return def
	}

	return Selection{
		Areas:         pick(c.Areas, c.Defaults.Areas),
		Manufacturers: pick(c.Manufacturers, c.Defaults.Manufacturers),
		Products:      pick(c.Products, c.Defaults.Products),
	}
}

// EffectiveLimit returns the result cap.
func (c Criteria) EffectiveLimit() int {
	if c.Limit <= 0 {
		return DefaultLimit
	}

	return c.Limit
}

func (c Criteria) hasLocation() bool {
	return strings.TrimSpace(c.State) != "" ||
		strings.TrimSpace(c.City) != "" ||
		strings.TrimSpace(c.Query) != ""
}
