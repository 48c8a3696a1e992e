package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/papapumpkin/timecrisis/internal/aspect"
	"github.com/papapumpkin/timecrisis/internal/astro"
	"github.com/papapumpkin/timecrisis/internal/chart"
)

// Chart prints a full chart: placements with houses, angles, cusps, and the
// lunar phase.
func (p *Printer) Chart(title string, c chart.Chart) {
	p.heading(fmt.Sprintf("%s  %s UTC  (%.2f, %.2f)  %s houses",
		title, c.Instant.Format("2006-01-02 15:04"), c.Location.Latitude, c.Location.Longitude, c.HouseSystem))
	p.Placement(c.Placement, &c.Cusps)
	fmt.Fprintln(p.out)
	p.Cusps(c.Cusps, c.Angles)
	if sun, ok := c.Placement.Longitude(astro.Sun); ok {
		if moon, ok := c.Placement.Longitude(astro.Moon); ok {
			phase, angle := chart.LunarPhase(sun, moon)
			fmt.Fprintf(p.out, "\n%s %s (%.1f°)\n", styleLabel.Render("Lunar phase:"), phase, angle)
		}
	}
}

// Positions prints a titled placement, such as transits or a progressed
// chart, against the natal cusps.
func (p *Printer) Positions(title string, pl astro.Placement, natalCusps *astro.HouseCusps) {
	p.heading(title)
	p.Placement(pl, natalCusps)
}

// Placement prints one row per body. When cusps is non-nil the house each
// body falls in and the houses it rules are shown.
func (p *Printer) Placement(pl astro.Placement, cusps *astro.HouseCusps) {
	for _, b := range pl.Bodies() {
		pos := pl[b]
		row := fmt.Sprintf("  %-8s %-18s %s", b, chart.FormatLongitude(pos.Longitude), speed(pos))
		if cusps != nil {
			if h := chart.HouseOf(pos.Longitude, *cusps); h > 0 {
				row += fmt.Sprintf("  %5s house", humanize.Ordinal(h))
			}
			if ruled := chart.RuledHouses(b, *cusps); len(ruled) > 0 {
				row += styleDim.Render("  rules " + ordinals(ruled))
			}
		}
		fmt.Fprintln(p.out, row)
	}
}

// Cusps prints the angles and the twelve house cusps.
func (p *Printer) Cusps(c astro.HouseCusps, a astro.Angles) {
	fmt.Fprintf(p.out, "%s %s   %s %s\n",
		styleLabel.Render("ASC"), chart.FormatLongitude(a.Ascendant),
		styleLabel.Render("MC"), chart.FormatLongitude(a.Midheaven))
	for i, lon := range c {
		fmt.Fprintf(p.out, "  %5s %s\n", humanize.Ordinal(i+1), chart.FormatLongitude(lon))
	}
}

// Aspects prints detected aspects with their orbs.
func (p *Printer) Aspects(title string, as []aspect.Aspect) {
	p.heading(fmt.Sprintf("%s (%d)", title, len(as)))
	if len(as) == 0 {
		fmt.Fprintln(p.out, styleDim.Render("  (none)"))
		return
	}
	for _, a := range as {
		fmt.Fprintf(p.out, "  %-32s orb %.2f°\n", a.Name(), a.Orb)
	}
}

// Return prints a solar or lunar return chart.
func (p *Printer) Return(title string, r chart.Return) {
	fmt.Fprintf(p.out, "%s %s\n", styleExact.Render(iconExact+" exact"), r.Exact.Format(time.RFC3339))
	p.Chart(title, r.Chart)
}

func speed(pos astro.Position) string {
	s := fmt.Sprintf("%+8.4f°/d", pos.Speed)
	if pos.Retrograde() {
		return s + " " + styleRetro.Render(iconRetro)
	}
	return s + "  "
}

func ordinals(houses []int) string {
	parts := make([]string, len(houses))
	for i, h := range houses {
		parts[i] = humanize.Ordinal(h)
	}
	return strings.Join(parts, ", ")
}
