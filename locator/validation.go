// Copyright 2025 The Genie Hub Authors
// SPDX-License-Identifier: Apache-2.0

package locator

import (
	"errors"
	"fmt"
	"log"
	"strings"
)

const (
	maxNameLength = 300
	maxTextLength = 500
)

// validateCenter rejects records that cannot be shown at all. Problems with
// optional fields are repaired by normalizeCenter instead.
func validateCenter(c *Center) error {
	if c == nil {
		return errors.New("center can't be nil")
	}

	if strings.TrimSpace(c.Name) == "" {
		return errors.New("name can't be empty")
	}

	if len(c.Name) > maxNameLength {
		return fmt.Errorf("name too long (max %d characters)", maxNameLength)
	}

	if len(c.Address) > maxTextLength {
		return fmt.Errorf("address too long (max %d characters)", maxTextLength)
	}

	return nil
}

// normalizeCenter trims text fields, drops blank tags and clears coordinates
// that cannot be placed on a map (half-present, NaN or out of range).
func normalizeCenter(c *Center) {
	c.Name = strings.TrimSpace(c.Name)
	c.Address = strings.TrimSpace(c.Address)
	c.City = strings.TrimSpace(c.City)
	c.State = strings.TrimSpace(c.State)
	c.Country = strings.TrimSpace(c.Country)
	c.Zip = strings.TrimSpace(c.Zip)
	c.TherapeuticAreas = compactTags(c.TherapeuticAreas)
	c.Manufacturers = compactTags(c.Manufacturers)
	c.Products = compactTags(c.Products)
	c.Accreditations = compactTags(c.Accreditations)

	if _, ok := c.Point(); !ok {
		c.Latitude, c.Longitude = nil, nil
	}
}

func compactTags(tags []string) []string {
	if tags == nil {
		return nil
	}

	out := make([]string, 0, len(tags))

	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}

	return out
}

// PrepareCenters normalizes centers in place and drops the ones that fail
// validation, logging why. Order is preserved.
func PrepareCenters(centers []*Center) []*Center {
	out := make([]*Center, 0, len(centers))

	for i, c := range centers {
		if err := validateCenter(c); err != nil {
			log.Printf("Skipping center #%d: %v", i, err)

			continue
		}

		normalizeCenter(c)
		out = append(out, c)
	}

	return out
}
