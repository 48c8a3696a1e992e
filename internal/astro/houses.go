package astro

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownHouseSystem indicates a house system name or code that is not supported.
var ErrUnknownHouseSystem = errors.New("unknown house system")

// HouseCusps holds the longitudes of the twelve house cusps; index 0 is the
// first house. Consumers must treat the sequence as circular.
type HouseCusps [12]float64

// Angles are the chart angles produced alongside the cusps.
type Angles struct {
	Ascendant float64 `json:"asc" yaml:"asc"`
	Midheaven float64 `json:"mc" yaml:"mc"`
	ARMC      float64 `json:"armc" yaml:"armc"` // right ascension of the MC, degrees
}

// HouseSystem is the single-character house system selector.
type HouseSystem byte

// Supported house systems.
const (
	Placidus      HouseSystem = 'P'
	Koch          HouseSystem = 'K'
	Regiomontanus HouseSystem = 'R'
	Campanus      HouseSystem = 'C'
	Equal         HouseSystem = 'E'
	WholeSign     HouseSystem = 'W'
)

var houseSystemNames = map[HouseSystem]string{
	Placidus:      "Placidus",
	Koch:          "Koch",
	Regiomontanus: "Regiomontanus",
	Campanus:      "Campanus",
	Equal:         "Equal",
	WholeSign:     "Whole Sign",
}

// String returns the human-readable name of the system.
func (h HouseSystem) String() string {
	if n, ok := houseSystemNames[h]; ok {
		return n
	}
	return fmt.Sprintf("HouseSystem(%q)", rune(h))
}

// Code returns the single-character selector.
func (h HouseSystem) Code() string {
	return string(rune(h))
}

// MarshalText encodes the system by name.
func (h HouseSystem) MarshalText() ([]byte, error) {
	if !h.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownHouseSystem, rune(h))
	}
	return []byte(h.String()), nil
}

// UnmarshalText decodes a code or name accepted by ParseHouseSystem.
func (h *HouseSystem) UnmarshalText(text []byte) error {
	v, err := ParseHouseSystem(string(text))
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// Valid reports whether h is a supported system.
func (h HouseSystem) Valid() bool {
	_, ok := houseSystemNames[h]
	return ok
}

// HouseSystems returns every supported system in display order.
func HouseSystems() []HouseSystem {
	return []HouseSystem{Placidus, Koch, Regiomontanus, Campanus, Equal, WholeSign}
}

// ParseHouseSystem accepts either a one-letter code ("P") or a name
// ("Placidus", "whole sign", "whole_sign").
func ParseHouseSystem(s string) (HouseSystem, error) {
	v := strings.TrimSpace(s)
	if len(v) == 1 {
		h := HouseSystem(strings.ToUpper(v)[0])
		if h.Valid() {
			return h, nil
		}
	}
	norm := strings.NewReplacer("_", " ", "-", " ").Replace(strings.ToLower(v))
	for h, name := range houseSystemNames {
		if strings.ToLower(name) == norm {
			return h, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownHouseSystem, s)
}
