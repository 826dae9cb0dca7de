package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Polygon is a GeoJSON polygon (RFC 7946). The first ring is the exterior
// ring, any subsequent rings are holes.
type Polygon struct {
	Coordinates [][][]float64 `json:"coordinates"`
}

// CivicAddressElement is one element of a civic address (RFC 4776 section 3.4).
type CivicAddressElement struct {
	CaType  int32  `json:"caType"`
	CaValue string `json:"caValue"`
}

// LocationConstraints is either a country code with civic address elements
// or a geographic area, never both.
type LocationConstraints struct {
	// Two-letter ISO 3166 country code. Present when Area is absent.
	CountryCode         *string               `json:"countryCode,omitempty"`
	CivicAddressElement []CivicAddressElement `json:"civicAddressElement,omitempty"`
	Area                *Polygon              `json:"area,omitempty"`
}

// Validate checks that every point has exactly two coordinates.
func (p *Polygon) Validate() error {
	var c checker
	for _, ring := range p.Coordinates {
		for _, point := range ring {
			if len(point) != 2 {
				c.fail("each point must be identified by two values")
				return c.result()
			}
		}
	}
	return c.result()
}

// Validate checks that caValue is set.
func (e *CivicAddressElement) Validate() error {
	var c checker
	if e.CaValue == "" {
		c.fail("empty caValue in civicAddressElement")
	}
	return c.result()
}

// Validate enforces the area / civic address exclusivity.
func (l *LocationConstraints) Validate() error {
	var c checker
	if l.Area != nil {
		if l.CountryCode != nil || len(l.CivicAddressElement) > 0 {
			c.fail("countryCode and civicAddressElement must be empty with area")
		}
		c.child(l.Area)
		return c.result()
	}

	if l.CountryCode == nil || *l.CountryCode == "" {
		c.fail("empty countryCode in locationConstraints")
	}
	if len(l.CivicAddressElement) == 0 {
		c.fail("empty civicAddressElement in locationConstraints")
	}
	for i := range l.CivicAddressElement {
		c.child(&l.CivicAddressElement[i])
	}
	return c.result()
}

func (p *Polygon) String() string {
	rings := make([]string, 0, len(p.Coordinates))
	for _, ring := range p.Coordinates {
		points := make([]string, 0, len(ring))
		for _, point := range ring {
			values := make([]string, 0, len(point))
			for _, v := range point {
				values = append(values, strconv.FormatFloat(v, 'g', -1, 64))
			}
			points = append(points, "("+strings.Join(values, ",")+")")
		}
		rings = append(rings, "["+strings.Join(points, ",")+"]")
	}
	return strings.Join(rings, ",")
}

func (l *LocationConstraints) String() string {
	if l.Area != nil {
		return "area: " + l.Area.String()
	}
	country := "not-present"
	if l.CountryCode != nil {
		country = *l.CountryCode
	}
	civics := make([]string, 0, len(l.CivicAddressElement))
	for _, e := range l.CivicAddressElement {
		civics = append(civics, fmt.Sprintf("%d %s", e.CaType, e.CaValue))
	}
	return fmt.Sprintf("country: %s, civic addresses: %s", country, strings.Join(civics, ","))
}
