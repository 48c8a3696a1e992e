// Package aspect detects angular relationships between chart bodies.
package aspect

import (
	"fmt"
	"math"

	"github.com/papapumpkin/timecrisis/internal/astro"
)

// Kind is one of the aspect angles recognised by the detector.
type Kind int

// Aspect kinds in order of their defining angle.
const (
	Conjunction Kind = iota
	SemiSextile
	Sextile
	Square
	Trine
	Inconjunct
	Opposition
)

var kindInfo = [...]struct {
	name  string
	angle float64
}{
	Conjunction: {"Conjunction", 0},
	SemiSextile: {"Semi-Sextile", 30},
	Sextile:     {"Sextile", 60},
	Square:      {"Square", 90},
	Trine:       {"Trine", 120},
	Inconjunct:  {"Inconjunct", 150},
	Opposition:  {"Opposition", 180},
}

// String returns the canonical aspect name, e.g. "Semi-Sextile".
func (k Kind) String() string {
	if k < Conjunction || int(k) >= len(kindInfo) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindInfo[k].name
}

// Angle returns the defining angle in degrees.
func (k Kind) Angle() float64 {
	if k < Conjunction || int(k) >= len(kindInfo) {
		return math.NaN()
	}
	return kindInfo[k].angle
}

// AllKinds returns the seven kinds used for single-chart scans.
func AllKinds() []Kind {
	return []Kind{Conjunction, SemiSextile, Sextile, Square, Trine, Inconjunct, Opposition}
}

// MajorKinds returns the five kinds used for timeline and cross-chart scans.
func MajorKinds() []Kind {
	return []Kind{Conjunction, Sextile, Square, Trine, Opposition}
}

// Pair identifies an aspect independently of its orb. It is comparable and
// therefore usable as a map key.
type Pair struct {
	P1   astro.Body
	Kind Kind
	P2   astro.Body
}

// Name renders the pair as "P1 Kind P2", e.g. "Mars Square Sun".
func (p Pair) Name() string {
	return p.P1.String() + " " + p.Kind.String() + " " + p.P2.String()
}

// Aspect is a detected relationship: the pair plus how far the actual
// separation is from the exact angle.
type Aspect struct {
	Pair
	Orb float64 // |separation - angle|, degrees
}

// String returns the pair name.
func (a Aspect) String() string {
	return a.Name()
}

// Within finds aspects between every unordered pair of distinct bodies in p.
// In each result P1 is the body whose name sorts first, so a pair is reported
// under one name regardless of evaluation order. A pair may match more than
// one kind when the orb is wide enough to span adjacent angles. Results are
// ordered by P1 name, P2 name, then aspect angle.
func Within(p astro.Placement, orb float64, kinds []Kind) []Aspect {
	bodies := p.Bodies()
	astro.SortByName(bodies)

	var out []Aspect
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			a, b := bodies[i], bodies[j]
			out = appendMatches(out, a, b, p[a].Longitude, p[b].Longitude, orb, kinds)
		}
	}
	return out
}

// Cross finds aspects between every body of a and every body of b. Bodies of
// a are always reported as P1 and bodies of b as P2; names are not sorted
// because the direction matters (transiting vs natal).
func Cross(a, b astro.Placement, orb float64, kinds []Kind) []Aspect {
	var out []Aspect
	for _, x := range a.Bodies() {
		for _, y := range b.Bodies() {
			out = appendMatches(out, x, y, a[x].Longitude, b[y].Longitude, orb, kinds)
		}
	}
	return out
}

// Match reports whether two longitudes form the given aspect within orb, and
// the orb actually observed.
func Match(lon1, lon2 float64, k Kind, orb float64) (float64, bool) {
	off := math.Abs(astro.Separation(lon1, lon2) - k.Angle())
	return off, off <= orb
}

func appendMatches(out []Aspect, p1, p2 astro.Body, lon1, lon2, orb float64, kinds []Kind) []Aspect {
	for _, k := range kinds {
		if off, ok := Match(lon1, lon2, k, orb); ok {
			out = append(out, Aspect{Pair: Pair{P1: p1, Kind: k, P2: p2}, Orb: off})
		}
	}
	return out
}
