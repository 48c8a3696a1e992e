package astro

import "sort"

// Position is a body's ecliptic longitude in [0,360) and its daily motion in
// degrees per day. Negative speed means retrograde motion.
type Position struct {
	Body      Body    `json:"body" yaml:"body"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
	Speed     float64 `json:"speed" yaml:"speed"`
}

// Retrograde reports whether the body is moving backwards along the ecliptic.
func (p Position) Retrograde() bool {
	return p.Speed < 0
}

// Placement maps each body of a chart to its position.
type Placement map[Body]Position

// Bodies returns the bodies present in the placement in enum order, giving
// callers a deterministic iteration order.
func (p Placement) Bodies() []Body {
	out := make([]Body, 0, len(p))
	for b := range p {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Longitude returns the longitude of b and whether b is present.
func (p Placement) Longitude(b Body) (float64, bool) {
	pos, ok := p[b]
	return pos.Longitude, ok
}

// Subset returns a new placement restricted to the given bodies. Bodies not
// present in p are skipped.
func (p Placement) Subset(bodies ...Body) Placement {
	out := make(Placement, len(bodies))
	for _, b := range bodies {
		if pos, ok := p[b]; ok {
			out[b] = pos
		}
	}
	return out
}

// Clone returns a copy of p that shares no storage with it.
func (p Placement) Clone() Placement {
	out := make(Placement, len(p))
	for b, pos := range p {
		out[b] = pos
	}
	return out
}

// WithAngles returns a copy of p extended with the Ascendant and Midheaven as
// synthetic points with zero speed.
func (p Placement) WithAngles(a Angles) Placement {
	out := p.Clone()
	out[Ascendant] = Position{Body: Ascendant, Longitude: a.Ascendant}
	out[Midheaven] = Position{Body: Midheaven, Longitude: a.Midheaven}
	return out
}
