// Copyright 2025 The Genie Hub Authors
// SPDX-License-Identifier: Apache-2.0

package locator

import (
	"github.com/geniehub/locator/spatial"
	"github.com/uber/h3-go/v4"
)

// Center is a treatment center as published by the managed backend. The
// engine treats it as read-only.
type Center struct {
	ID               string   `json:"id,omitempty"`
	Name             string   `json:"name"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	Address          string   `json:"address,omitempty"`
	City             string   `json:"city,omitempty"`
	State            string   `json:"state,omitempty"`
	Country          string   `json:"country,omitempty"`
	Zip              string   `json:"zip,omitempty"`
	TherapeuticAreas []string `json:"therapeutic_areas"`
	Manufacturers    []string `json:"manufacturers"`
	Products         []string `json:"products"`
	Verified         bool     `json:"verified"`
	Accreditations   []string `json:"accreditations,omitempty"`
	Phone            string   `json:"phone,omitempty"`
	Website          string   `json:"website,omitempty"`
	Email            string   `json:"email,omitempty"`
}

// Point returns the center location. The boolean is false when either
// coordinate is missing or out of range; such a center can be listed but
// never placed on the map.
func (c *Center) Point() (spatial.Point, bool) {
	if c == nil || c.Latitude == nil || c.Longitude == nil {
		return spatial.Point{}, false
	}

	p := spatial.Point{Lat: *c.Latitude, Lng: *c.Longitude}

	return p, p.Valid()
}

// H3Cell returns the H3 cell containing the center at res, or 0 when the
// center has no usable point.
func (c *Center) H3Cell(res int) h3.Cell {
	p, ok := c.Point()
	if !ok {
		return 0
	}

	cell, err := h3.LatLngToCell(h3.NewLatLng(p.Lat, p.Lng), res)
	if err != nil {
		return 0
	}

	return cell
}

// Coordinates is a convenience to build the nullable coordinate pair.
func Coordinates(lat, lng float64) (*float64, *float64) {
	return &lat, &lng
}
