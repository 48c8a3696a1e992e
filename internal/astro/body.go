// Package astro defines the value types shared by the chart engine: bodies,
// positions, placements, house cusps, and degree arithmetic on the ecliptic.
package astro

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownBody indicates a body name or identifier outside the supported set.
var ErrUnknownBody = errors.New("unknown body")

// Body identifies a celestial body or a synthetic chart point.
type Body int

// The ten classical bodies followed by the two chart angles.
const (
	Sun Body = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
	Ascendant // synthetic, speed always 0
	Midheaven // synthetic, speed always 0
)

var bodyNames = [...]string{
	Sun:       "Sun",
	Moon:      "Moon",
	Mercury:   "Mercury",
	Venus:     "Venus",
	Mars:      "Mars",
	Jupiter:   "Jupiter",
	Saturn:    "Saturn",
	Uranus:    "Uranus",
	Neptune:   "Neptune",
	Pluto:     "Pluto",
	Ascendant: "ASC",
	Midheaven: "MC",
}

// String returns the display name of the body.
func (b Body) String() string {
	if b < Sun || int(b) >= len(bodyNames) {
		return fmt.Sprintf("Body(%d)", int(b))
	}
	return bodyNames[b]
}

// MarshalText encodes the body by name so placements serialize with readable
// keys.
func (b Body) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBody, int(b))
	}
	return []byte(bodyNames[b]), nil
}

// UnmarshalText decodes a body name accepted by ParseBody.
func (b *Body) UnmarshalText(text []byte) error {
	v, err := ParseBody(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// IsPlanet reports whether b is one of the ten bodies an ephemeris can compute.
func (b Body) IsPlanet() bool {
	return b >= Sun && b <= Pluto
}

// Valid reports whether b is a known body or chart angle.
func (b Body) Valid() bool {
	return b >= Sun && b <= Midheaven
}

// Planets returns the ten classical bodies in ephemeris order.
func Planets() []Body {
	return []Body{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto}
}

// OuterPlanets returns the five slow bodies used for major transits.
func OuterPlanets() []Body {
	return []Body{Jupiter, Saturn, Uranus, Neptune, Pluto}
}

// ParseBody resolves a body by name, case-insensitively. The chart angles are
// accepted as "ASC"/"Ascendant" and "MC"/"Midheaven".
func ParseBody(name string) (Body, error) {
	n := strings.TrimSpace(name)
	switch strings.ToLower(n) {
	case "ascendant":
		return Ascendant, nil
	case "midheaven":
		return Midheaven, nil
	}
	for i, s := range bodyNames {
		if strings.EqualFold(s, n) {
			return Body(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBody, name)
}

// ParseBodies resolves a list of body names, failing on the first unknown one.
func ParseBodies(names []string) ([]Body, error) {
	out := make([]Body, 0, len(names))
	for _, n := range names {
		b, err := ParseBody(n)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// SortByName orders bodies lexicographically by display name.
func SortByName(bodies []Body) {
	sort.Slice(bodies, func(i, j int) bool {
		return bodies[i].String() < bodies[j].String()
	})
}
